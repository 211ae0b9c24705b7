package testhelpers

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/eco-route-service/internal/domain"
)

// InsertLocations stores locations keeping slice order in the position column
func InsertLocations(ctx context.Context, db *sqlx.DB, locations []domain.Location) error {
	query := `
		INSERT INTO locations (id, position, name, region, type, lat, lon)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for i, l := range locations {
		if _, err := db.ExecContext(ctx, query,
			l.ID, i, l.Name, l.Region, l.Type, l.Coordinates.Lat, l.Coordinates.Lon,
		); err != nil {
			return fmt.Errorf("insert location %s: %w", l.ID, err)
		}
	}

	return nil
}
