package usecase_test

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eco-route-service/internal/domain"
	"github.com/eco-route-service/internal/usecase"
)

func TestStatsUseCase_GetStatistics(t *testing.T) {
	ctx := context.Background()
	stats := &domain.Statistics{TotalComparisons: 7}

	t.Run("cache hit", func(t *testing.T) {
		statsRepo := &MockStatsRepository{}
		cache := &MockCacheRepository{}
		cache.On("GetStats", ctx).Return(stats, nil)

		uc := usecase.NewStatsUseCase(statsRepo, cache, nil, zap.NewNop(), time.Minute)
		got, err := uc.GetStatistics(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(7), got.TotalComparisons)

		statsRepo.AssertNotCalled(t, "GetStatistics", mock.Anything)
	})

	t.Run("cache miss reads and stores", func(t *testing.T) {
		statsRepo := &MockStatsRepository{}
		statsRepo.On("GetStatistics", ctx).Return(stats, nil)
		cache := &MockCacheRepository{}
		cache.On("GetStats", ctx).Return(nil, nil)
		cache.On("SetStats", ctx, stats, time.Minute).Return(nil)

		uc := usecase.NewStatsUseCase(statsRepo, cache, nil, zap.NewNop(), time.Minute)
		got, err := uc.GetStatistics(ctx)
		require.NoError(t, err)
		assert.Same(t, stats, got)

		cache.AssertExpectations(t)
	})

	t.Run("repository failure", func(t *testing.T) {
		statsRepo := &MockStatsRepository{}
		statsRepo.On("GetStatistics", ctx).Return(nil, stderrors.New("redis down"))
		cache := &MockCacheRepository{}
		cache.On("GetStats", ctx).Return(nil, stderrors.New("redis down"))

		uc := usecase.NewStatsUseCase(statsRepo, cache, nil, zap.NewNop(), time.Minute)
		_, err := uc.GetStatistics(ctx)
		assert.Error(t, err)
	})
}

func TestStatsUseCase_Record(t *testing.T) {
	ctx := context.Background()
	event := &domain.RouteComparedEvent{From: "Delhi", To: "Jaipur"}

	statsRepo := &MockStatsRepository{}
	statsRepo.On("RecordComparison", ctx, event).Return(nil).Once()
	cache := &MockCacheRepository{}

	uc := usecase.NewStatsUseCase(statsRepo, cache, nil, zap.NewNop(), time.Minute)
	require.NoError(t, uc.Record(ctx, event))

	statsRepo.AssertExpectations(t)
}

func TestStatsUseCase_RefreshStatistics(t *testing.T) {
	ctx := context.Background()
	stats := &domain.Statistics{TotalComparisons: 3}

	statsRepo := &MockStatsRepository{}
	statsRepo.On("GetStatistics", ctx).Return(stats, nil)
	cache := &MockCacheRepository{}
	cache.On("SetStats", ctx, stats, time.Minute).Return(stderrors.New("redis down"))
	cache.On("InvalidateStats", ctx).Return(nil).Once()

	uc := usecase.NewStatsUseCase(statsRepo, cache, nil, zap.NewNop(), time.Minute)
	got, err := uc.RefreshStatistics(ctx)
	require.NoError(t, err)
	assert.Same(t, stats, got)

	cache.AssertExpectations(t)
}

func TestStatsUseCase_WithoutRedis(t *testing.T) {
	uc := usecase.NewStatsUseCase(nil, nil, nil, zap.NewNop(), time.Minute)

	_, err := uc.GetStatistics(context.Background())
	assert.ErrorIs(t, err, usecase.ErrStatsUnavailable)
}

func TestStatsUseCase_Record_Failure(t *testing.T) {
	ctx := context.Background()
	event := &domain.RouteComparedEvent{}

	statsRepo := &MockStatsRepository{}
	statsRepo.On("RecordComparison", ctx, event).Return(stderrors.New("redis down"))
	cache := &MockCacheRepository{}

	uc := usecase.NewStatsUseCase(statsRepo, cache, nil, zap.NewNop(), time.Minute)
	assert.Error(t, uc.Record(ctx, event))
}

func TestStatsUseCase_Overview(t *testing.T) {
	ctx := context.Background()

	repo := &MockLocationRepository{}
	repo.On("LoadAll", mock.Anything).Return(testLocations(), nil)
	g := usecase.NewGazetteer(repo, zap.NewNop())
	require.NoError(t, g.Warm(ctx))

	statsRepo := &MockStatsRepository{}
	statsRepo.On("GetStatistics", ctx).Return(nil, stderrors.New("redis down"))
	cache := &MockCacheRepository{}
	cache.On("GetStats", ctx).Return(nil, nil)

	uc := usecase.NewStatsUseCase(statsRepo, cache, g, zap.NewNop(), time.Minute)
	resp := uc.Overview(ctx)

	assert.Nil(t, resp.Comparisons)
	assert.Equal(t, len(testLocations()), resp.Gazetteer.Locations)
}
