package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/eco-route-service/internal/domain"
	"github.com/eco-route-service/internal/domain/repository"
	"github.com/eco-route-service/internal/pkg/errors"
	"github.com/eco-route-service/internal/pkg/utils"
)

const gazetteerLoadKey = "gazetteer"

// Gazetteer - справочник локаций, загружаемый один раз при первом обращении.
// Одновременные первые вызовы делят одну загрузку, неудачная загрузка не запоминается.
type Gazetteer struct {
	repo   repository.LocationRepository
	logger *zap.Logger

	group     singleflight.Group
	mu        sync.RWMutex
	locations []domain.Location
}

// NewGazetteer создает ленивый справочник поверх источника данных
func NewGazetteer(repo repository.LocationRepository, logger *zap.Logger) *Gazetteer {
	return &Gazetteer{
		repo:   repo,
		logger: logger,
	}
}

// Locations returns the loaded dataset. Callers must not modify the slice.
func (g *Gazetteer) Locations(ctx context.Context) ([]domain.Location, error) {
	if locs := g.cached(); locs != nil {
		return locs, nil
	}

	v, err, shared := g.group.Do(gazetteerLoadKey, func() (interface{}, error) {
		if locs := g.cached(); locs != nil {
			return locs, nil
		}
		// the load outlives the request that triggered it, others may be waiting on it
		locs, err := g.load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		g.mu.Lock()
		g.locations = locs
		g.mu.Unlock()
		return locs, nil
	})
	if err != nil {
		return nil, err
	}

	if shared {
		g.logger.Debug("Gazetteer load shared between callers")
	}
	return v.([]domain.Location), nil
}

// Warm loads the dataset ahead of the first request.
func (g *Gazetteer) Warm(ctx context.Context) error {
	_, err := g.Locations(ctx)
	return err
}

// Stats reports what is loaded; zero values before the first load.
func (g *Gazetteer) Stats() domain.GazetteerStats {
	locs := g.cached()
	stats := domain.GazetteerStats{
		Locations: len(locs),
		ByType:    make(map[string]int),
	}
	for _, l := range locs {
		stats.ByType[l.Type]++
	}
	return stats
}

func (g *Gazetteer) cached() []domain.Location {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.locations
}

func (g *Gazetteer) load(ctx context.Context) ([]domain.Location, error) {
	raw, err := g.repo.LoadAll(ctx)
	if err != nil {
		g.logger.Error("Failed to load gazetteer", zap.Error(err))
		return nil, fmt.Errorf("load gazetteer: %w", err)
	}

	locs := make([]domain.Location, 0, len(raw))
	for i, l := range raw {
		l.Name = strings.TrimSpace(l.Name)
		if l.Name == "" {
			g.logger.Warn("Skipping gazetteer entry without name", zap.Int("index", i))
			continue
		}
		if !utils.ValidateCoordinates(l.Coordinates.Lat, l.Coordinates.Lon) {
			g.logger.Warn("Skipping gazetteer entry with invalid coordinates",
				zap.String("name", l.Name),
				zap.Float64("lat", l.Coordinates.Lat),
				zap.Float64("lon", l.Coordinates.Lon))
			continue
		}
		if !domain.IsValidLocationType(l.Type) {
			g.logger.Debug("Unknown location type", zap.String("name", l.Name), zap.String("type", l.Type))
		}
		locs = append(locs, l)
	}

	if len(locs) == 0 {
		return nil, errors.Configuration("gazetteer contains no usable locations")
	}

	g.logger.Info("Gazetteer loaded",
		zap.Int("locations", len(locs)),
		zap.Int("skipped", len(raw)-len(locs)))
	return locs, nil
}
