package usecase

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/eco-route-service/internal/domain"
	"github.com/eco-route-service/internal/domain/repository"
	"github.com/eco-route-service/internal/usecase/dto"
)

// StatsUseCase обрабатывает бизнес-логику для статистики сравнений
type StatsUseCase struct {
	statsRepo repository.StatsRepository
	cacheRepo repository.CacheRepository
	gazetteer *Gazetteer
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// NewStatsUseCase создает новый экземпляр StatsUseCase
func NewStatsUseCase(
	statsRepo repository.StatsRepository,
	cacheRepo repository.CacheRepository,
	gazetteer *Gazetteer,
	logger *zap.Logger,
	cacheTTL time.Duration,
) *StatsUseCase {
	return &StatsUseCase{
		statsRepo: statsRepo,
		cacheRepo: cacheRepo,
		gazetteer: gazetteer,
		logger:    logger,
		cacheTTL:  cacheTTL,
	}
}

// GetStatistics возвращает статистику, используя кеш когда возможно
func (uc *StatsUseCase) GetStatistics(ctx context.Context) (*domain.Statistics, error) {
	if uc.statsRepo == nil || uc.cacheRepo == nil {
		return nil, ErrStatsUnavailable
	}

	// 1. Проверяем кеш
	cached, err := uc.cacheRepo.GetStats(ctx)
	if err == nil && cached != nil {
		uc.logger.Debug("Statistics fetched from cache")
		return cached, nil
	}

	if err != nil {
		uc.logger.Warn("Failed to get stats from cache", zap.Error(err))
	}

	// 2. Читаем агрегаты
	stats, err := uc.statsRepo.GetStatistics(ctx)
	if err != nil {
		return nil, fmt.Errorf("get statistics: %w", err)
	}

	// 3. Кешируем ненадолго, счётчики растут постоянно
	if err := uc.cacheRepo.SetStats(ctx, stats, uc.cacheTTL); err != nil {
		uc.logger.Warn("Failed to cache stats", zap.Error(err))
	}

	return stats, nil
}

// Overview combines comparison aggregates with gazetteer figures.
// Missing aggregates do not fail the call.
func (uc *StatsUseCase) Overview(ctx context.Context) *dto.StatsResponse {
	resp := &dto.StatsResponse{}
	if uc.gazetteer != nil {
		resp.Gazetteer = uc.gazetteer.Stats()
	}

	stats, err := uc.GetStatistics(ctx)
	if err != nil {
		uc.logger.Warn("Comparison statistics unavailable", zap.Error(err))
		return resp
	}
	resp.Comparisons = stats
	return resp
}

// ErrStatsUnavailable is returned when the service runs without Redis.
var ErrStatsUnavailable = stderrors.New("comparison statistics are not available")

// Record adds one comparison to the aggregates. The cached snapshot is left
// alone, RefreshStatistics replaces it once per batch.
func (uc *StatsUseCase) Record(ctx context.Context, event *domain.RouteComparedEvent) error {
	if err := uc.statsRepo.RecordComparison(ctx, event); err != nil {
		return fmt.Errorf("record comparison: %w", err)
	}
	return nil
}

// RefreshStatistics принудительно обновляет статистику
func (uc *StatsUseCase) RefreshStatistics(ctx context.Context) (*domain.Statistics, error) {
	uc.logger.Debug("Refreshing statistics")

	stats, err := uc.statsRepo.GetStatistics(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh statistics: %w", err)
	}

	if err := uc.cacheRepo.SetStats(ctx, stats, uc.cacheTTL); err != nil {
		uc.logger.Warn("Failed to cache refreshed stats", zap.Error(err))
		if err := uc.cacheRepo.InvalidateStats(ctx); err != nil {
			uc.logger.Warn("Failed to invalidate stats cache", zap.Error(err))
		}
	}

	uc.logger.Debug("Statistics refreshed", zap.Int64("total_comparisons", stats.TotalComparisons))
	return stats, nil
}
