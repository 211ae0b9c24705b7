package repository

import (
	"context"

	"github.com/eco-route-service/internal/domain"
)

// LocationRepository - источник справочника локаций (gazetteer)
type LocationRepository interface {
	// LoadAll returns every location in dataset order
	LoadAll(ctx context.Context) ([]domain.Location, error)
}
