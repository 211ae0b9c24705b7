package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/eco-route-service/internal/domain"
	"github.com/eco-route-service/internal/domain/repository"
)

const (
	statsHashKey = "stats:routes"

	fieldTotal       = "total"
	fieldDistance    = "distance_km"
	fieldSavings     = "savings_kg"
	fieldLastUpdated = "last_updated"

	prefixGreenest = "greenest:"
	prefixFastest  = "fastest:"
	prefixCheapest = "cheapest:"
)

type statsRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewStatsRepository хранит агрегаты сравнений в одном Redis hash
func NewStatsRepository(client *redis.Client, logger *zap.Logger) repository.StatsRepository {
	return &statsRepository{
		client: client,
		logger: logger,
	}
}

// RecordComparison атомарно увеличивает счётчики
func (r *statsRepository) RecordComparison(ctx context.Context, event *domain.RouteComparedEvent) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, statsHashKey, fieldTotal, 1)
		pipe.HIncrByFloat(ctx, statsHashKey, fieldDistance, event.DistanceKm)
		pipe.HIncrByFloat(ctx, statsHashKey, fieldSavings, event.SavingsKg)
		if event.Greenest != "" {
			pipe.HIncrBy(ctx, statsHashKey, prefixGreenest+event.Greenest, 1)
		}
		if event.Fastest != "" {
			pipe.HIncrBy(ctx, statsHashKey, prefixFastest+event.Fastest, 1)
		}
		if event.Cheapest != "" {
			pipe.HIncrBy(ctx, statsHashKey, prefixCheapest+event.Cheapest, 1)
		}
		pipe.HSet(ctx, statsHashKey, fieldLastUpdated, event.OccurredAt.Unix())
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to record comparison",
			zap.String("event_id", event.EventID.String()),
			zap.Error(err))
		return fmt.Errorf("record comparison: %w", err)
	}

	return nil
}

// GetStatistics читает hash и раскладывает поля по структуре
func (r *statsRepository) GetStatistics(ctx context.Context) (*domain.Statistics, error) {
	fields, err := r.client.HGetAll(ctx, statsHashKey).Result()
	if err != nil {
		r.logger.Error("Failed to read statistics", zap.Error(err))
		return nil, fmt.Errorf("read statistics: %w", err)
	}

	return parseStatistics(fields), nil
}

func parseStatistics(fields map[string]string) *domain.Statistics {
	stats := &domain.Statistics{
		GreenestByMode: make(map[string]int64),
		FastestByMode:  make(map[string]int64),
		CheapestByMode: make(map[string]int64),
	}

	for field, raw := range fields {
		switch {
		case field == fieldTotal:
			stats.TotalComparisons, _ = strconv.ParseInt(raw, 10, 64)
		case field == fieldDistance:
			stats.TotalDistanceKm, _ = strconv.ParseFloat(raw, 64)
		case field == fieldSavings:
			stats.PotentialSavings, _ = strconv.ParseFloat(raw, 64)
		case field == fieldLastUpdated:
			if ts, err := strconv.ParseInt(raw, 10, 64); err == nil {
				stats.LastUpdated = time.Unix(ts, 0).UTC()
			}
		case strings.HasPrefix(field, prefixGreenest):
			stats.GreenestByMode[strings.TrimPrefix(field, prefixGreenest)], _ = strconv.ParseInt(raw, 10, 64)
		case strings.HasPrefix(field, prefixFastest):
			stats.FastestByMode[strings.TrimPrefix(field, prefixFastest)], _ = strconv.ParseInt(raw, 10, 64)
		case strings.HasPrefix(field, prefixCheapest):
			stats.CheapestByMode[strings.TrimPrefix(field, prefixCheapest)], _ = strconv.ParseInt(raw, 10, 64)
		}
	}

	return stats
}
