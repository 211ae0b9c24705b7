package usecase

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eco-route-service/internal/domain"
	"github.com/eco-route-service/internal/domain/repository"
	"github.com/eco-route-service/internal/pkg/errors"
	"github.com/eco-route-service/internal/pkg/utils"
)

const defaultEventsTimeout = 200 * time.Millisecond

// LocationResolver maps free text to a gazetteer entry.
type LocationResolver interface {
	Resolve(ctx context.Context, text string) (*domain.Location, error)
}

// RouteUseCase - сравнение вариантов поездки между двумя точками
type RouteUseCase struct {
	resolver      LocationResolver
	catalog       *domain.ModeCatalog
	streamRepo    repository.StreamRepository
	params        OptionParams
	eventsTimeout time.Duration
	logger        *zap.Logger
	now           func() time.Time
}

// NewRouteUseCase - streamRepo may be nil, route events are then not published
func NewRouteUseCase(
	resolver LocationResolver,
	catalog *domain.ModeCatalog,
	streamRepo repository.StreamRepository,
	params OptionParams,
	eventsTimeout time.Duration,
	logger *zap.Logger,
) *RouteUseCase {
	if eventsTimeout <= 0 {
		eventsTimeout = defaultEventsTimeout
	}
	return &RouteUseCase{
		resolver:      resolver,
		catalog:       catalog,
		streamRepo:    streamRepo,
		params:        params,
		eventsTimeout: eventsTimeout,
		logger:        logger,
		now:           time.Now,
	}
}

// Catalog returns the mode table the use case scores against.
func (uc *RouteUseCase) Catalog() *domain.ModeCatalog {
	return uc.catalog
}

// Compare resolves both ends and returns every applicable option, ranked.
// Either the full result or an error is returned, never both.
func (uc *RouteUseCase) Compare(ctx context.Context, q domain.RouteQuery) (*domain.RouteComparisonResult, error) {
	origin := strings.TrimSpace(q.OriginText)
	destination := strings.TrimSpace(q.DestinationText)

	if origin == "" {
		return nil, errors.Validation("origin is required")
	}
	if destination == "" {
		return nil, errors.Validation("destination is required")
	}
	if strings.EqualFold(origin, destination) {
		return nil, errors.ErrSameLocation
	}
	if q.TravelerCount < 1 {
		return nil, errors.ErrInvalidTravelers
	}

	from, err := uc.resolver.Resolve(ctx, origin)
	if err != nil {
		return nil, err
	}
	to, err := uc.resolver.Resolve(ctx, destination)
	if err != nil {
		return nil, err
	}

	if from.SamePlace(*to) {
		return nil, errors.ErrSameLocation
	}

	distance := utils.HaversineDistance(
		from.Coordinates.Lat, from.Coordinates.Lon,
		to.Coordinates.Lat, to.Coordinates.Lon,
	)
	if !(distance > 0) {
		return nil, errors.ErrSameLocation
	}

	modes := uc.catalog.ApplicableModes(distance)
	if len(modes) == 0 {
		// the catalog check guarantees a fallback mode, so this is a wiring bug
		return nil, errors.Configuration("no transport mode covers the trip distance")
	}

	car, ok := uc.catalog.Mode(domain.BaselineMode)
	if !ok {
		return nil, errors.Configuration("baseline mode missing from catalog")
	}
	baselineCO2 := TripCO2(car, distance, q.TravelerCount)

	options := make([]domain.RouteOption, 0, len(modes))
	for _, m := range modes {
		options = append(options, BuildOption(uc.catalog, m, distance, q.TravelerCount, baselineCO2, uc.params))
	}
	Rank(options)

	baseline := BuildOption(uc.catalog, car, distance, q.TravelerCount, baselineCO2, uc.params)
	summary := Summarize(options, baseline)

	result := Assemble(*from, *to, distance, q.TravelerCount, options, summary)

	uc.logger.Debug("Routes compared",
		zap.String("from", from.Name),
		zap.String("to", to.Name),
		zap.Float64("distance_km", result.DistanceKm),
		zap.Int("options", len(result.Options)))

	uc.publish(ctx, result)
	return result, nil
}

// publish sends the analytics event. Failures are logged, the comparison still succeeds.
func (uc *RouteUseCase) publish(ctx context.Context, result *domain.RouteComparisonResult) {
	if uc.streamRepo == nil {
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.eventsTimeout)
	defer cancel()

	event := domain.NewRouteComparedEvent(result, uc.now())
	if err := uc.streamRepo.PublishToStream(pubCtx, domain.StreamRouteCompared, event); err != nil {
		uc.logger.Warn("Failed to publish route event",
			zap.String("event_id", event.EventID.String()),
			zap.Error(err))
	}
}
