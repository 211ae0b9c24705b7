package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/eco-route-service/internal/domain"
	"github.com/eco-route-service/internal/domain/repository"
)

type locationRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// locationRow - строка таблицы locations
type locationRow struct {
	ID     string  `db:"id"`
	Name   string  `db:"name"`
	Region string  `db:"region"`
	Type   string  `db:"type"`
	Lat    float64 `db:"lat"`
	Lon    float64 `db:"lon"`
}

// NewLocationRepository создает gazetteer поверх таблицы locations
func NewLocationRepository(db *DB) repository.LocationRepository {
	return &locationRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// LoadAll возвращает все локации в порядке справочника (position, затем id)
func (r *locationRepository) LoadAll(ctx context.Context) ([]domain.Location, error) {
	query := `
		SELECT
			id, name, COALESCE(region, '') AS region, type, lat, lon
		FROM locations
		ORDER BY position, id
	`

	var rows []locationRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		r.logger.Error("Failed to load locations", zap.Error(err))
		return nil, fmt.Errorf("select locations: %w", err)
	}

	locations := make([]domain.Location, 0, len(rows))
	for _, row := range rows {
		locations = append(locations, domain.Location{
			ID:     row.ID,
			Name:   row.Name,
			Region: row.Region,
			Type:   row.Type,
			Coordinates: domain.Coordinates{
				Lat: row.Lat,
				Lon: row.Lon,
			},
		})
	}

	r.logger.Info("Gazetteer dataset read",
		zap.String("source", "postgres"),
		zap.Int("locations", len(locations)))

	return locations, nil
}
