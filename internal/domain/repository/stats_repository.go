package repository

import (
	"context"

	"github.com/eco-route-service/internal/domain"
)

// StatsRepository - агрегаты по сравнениям маршрутов
type StatsRepository interface {
	// RecordComparison adds one finished comparison to the aggregates
	RecordComparison(ctx context.Context, event *domain.RouteComparedEvent) error

	// GetStatistics returns the current aggregates
	GetStatistics(ctx context.Context) (*domain.Statistics, error)
}
