package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eco-route-service/internal/domain"
	"github.com/eco-route-service/internal/domain/repository"
	"github.com/eco-route-service/internal/pkg/errors"
	"github.com/eco-route-service/internal/usecase/dto"
)

const (
	scoreExact    = 100
	scorePrefix   = 90
	scoreContains = 70

	minQueryLength      = 2
	defaultSuggestLimit = 10
	maxSuggestLimit     = 50

	suggestCachePrefix = "locations:suggest:"
)

var queryMetaChars = regexp.MustCompile(`[.*+?^${}()|\[\]\\/]`)

// LocationUseCase сопоставляет текст с записями справочника
type LocationUseCase struct {
	gazetteer *Gazetteer
	cacheRepo repository.CacheRepository
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// NewLocationUseCase - cacheRepo may be nil, suggestions are then computed every time
func NewLocationUseCase(
	gazetteer *Gazetteer,
	cacheRepo repository.CacheRepository,
	logger *zap.Logger,
	cacheTTL time.Duration,
) *LocationUseCase {
	return &LocationUseCase{
		gazetteer: gazetteer,
		cacheRepo: cacheRepo,
		logger:    logger,
		cacheTTL:  cacheTTL,
	}
}

type scoredLocation struct {
	location domain.Location
	score    int
}

// Resolve returns the best match for text.
func (uc *LocationUseCase) Resolve(ctx context.Context, text string) (*domain.Location, error) {
	query := normalizeQuery(text)
	if len([]rune(query)) < minQueryLength {
		return nil, errors.LocationNotFound(text)
	}

	matches, err := uc.match(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		uc.logger.Debug("No gazetteer match", zap.String("query", text))
		return nil, errors.LocationNotFound(text)
	}

	loc := matches[0].location
	return &loc, nil
}

// Suggest returns up to limit matches, best first. No match is an empty list.
func (uc *LocationUseCase) Suggest(ctx context.Context, req dto.SuggestRequest) (*dto.SuggestResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultSuggestLimit
	}
	if limit > maxSuggestLimit {
		limit = maxSuggestLimit
	}

	query := normalizeQuery(req.Query)
	resp := &dto.SuggestResponse{
		Query:   req.Query,
		Results: []dto.LocationSuggestion{},
	}
	if len([]rune(query)) < minQueryLength {
		return resp, nil
	}

	cacheKey := fmt.Sprintf("%s%d:%s", suggestCachePrefix, limit, query)
	if cached := uc.fromCache(ctx, cacheKey); cached != nil {
		cached.Query = req.Query
		return cached, nil
	}

	matches, err := uc.match(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(matches) > limit {
		matches = matches[:limit]
	}

	for _, m := range matches {
		resp.Results = append(resp.Results, dto.LocationSuggestion{
			ID:          m.location.ID,
			Name:        m.location.Name,
			Region:      m.location.Region,
			Type:        m.location.Type,
			Coordinates: m.location.Coordinates,
			Score:       m.score,
		})
	}
	resp.Total = len(resp.Results)

	uc.toCache(ctx, cacheKey, resp)
	return resp, nil
}

// match scores every location against an already normalized query.
// The sort is stable so dataset order decides ties.
func (uc *LocationUseCase) match(ctx context.Context, query string) ([]scoredLocation, error) {
	locations, err := uc.gazetteer.Locations(ctx)
	if err != nil {
		return nil, err
	}

	var matches []scoredLocation
	for _, l := range locations {
		if s := scoreLocation(haystack(l), query); s > 0 {
			matches = append(matches, scoredLocation{location: l, score: s})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})
	return matches, nil
}

func (uc *LocationUseCase) fromCache(ctx context.Context, key string) *dto.SuggestResponse {
	if uc.cacheRepo == nil {
		return nil
	}

	data, err := uc.cacheRepo.Get(ctx, key)
	if err != nil {
		uc.logger.Warn("Failed to read suggestion cache", zap.String("key", key), zap.Error(err))
		return nil
	}
	if data == nil {
		return nil
	}

	var resp dto.SuggestResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		uc.logger.Warn("Corrupted suggestion cache entry", zap.String("key", key), zap.Error(err))
		return nil
	}
	uc.logger.Debug("Suggestions served from cache", zap.String("key", key))
	return &resp
}

func (uc *LocationUseCase) toCache(ctx context.Context, key string, resp *dto.SuggestResponse) {
	if uc.cacheRepo == nil {
		return
	}

	data, err := json.Marshal(resp)
	if err != nil {
		uc.logger.Warn("Failed to marshal suggestions", zap.Error(err))
		return
	}
	if err := uc.cacheRepo.Set(ctx, key, data, uc.cacheTTL); err != nil {
		uc.logger.Warn("Failed to cache suggestions", zap.String("key", key), zap.Error(err))
	}
}

// normalizeQuery lower-cases, strips regex metacharacters and collapses whitespace.
func normalizeQuery(text string) string {
	q := strings.ToLower(text)
	q = queryMetaChars.ReplaceAllString(q, "")
	return strings.Join(strings.Fields(q), " ")
}

func haystack(l domain.Location) string {
	return strings.ToLower(strings.Join(strings.Fields(l.Name+" "+l.Region+" "+l.Type), " "))
}

func scoreLocation(hay, query string) int {
	switch {
	case hay == query:
		return scoreExact
	case strings.HasPrefix(hay, query):
		return scorePrefix
	case strings.Contains(hay, query):
		return scoreContains
	default:
		return 0
	}
}
