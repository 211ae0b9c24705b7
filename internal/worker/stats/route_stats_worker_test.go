package stats_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eco-route-service/internal/domain"
	"github.com/eco-route-service/internal/worker/stats"
)

// MockStreamRepository is a mock of StreamRepository
type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	args := m.Called(ctx, stream, group)
	return args.Error(0)
}

func (m *MockStreamRepository) ConsumeBatch(ctx context.Context, stream, group, consumer string, maxCount int) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, maxCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) ClaimPending(
	ctx context.Context,
	stream, group, consumer string,
	minIdle time.Duration,
	maxCount int,
) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, minIdle, maxCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessages(ctx context.Context, stream, group string, messageIDs []string) error {
	args := m.Called(ctx, stream, group, messageIDs)
	return args.Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	args := m.Called(ctx, stream, data)
	return args.Error(0)
}

// MockRecorder is a mock of stats.Recorder
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Record(ctx context.Context, event *domain.RouteComparedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockRecorder) RefreshStatistics(ctx context.Context) (*domain.Statistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Statistics), args.Error(1)
}

const group = "test-group"

// noPending makes ClaimPending report an empty pending list.
func noPending(stream *MockStreamRepository) {
	stream.On("ClaimPending", mock.Anything, domain.StreamRouteCompared, group,
		mock.AnythingOfType("string"), mock.AnythingOfType("time.Duration"), mock.AnythingOfType("int")).
		Return(nil, nil)
}

func eventMessage(t *testing.T, id string, event *domain.RouteComparedEvent) domain.StreamMessage {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return domain.StreamMessage{ID: id, Data: map[string]interface{}{"data": string(data)}}
}

func TestRouteStatsWorker_Name(t *testing.T) {
	w := stats.NewRouteStatsWorker(&MockStreamRepository{}, &MockRecorder{}, group, 0, 0, zap.NewNop())
	assert.Equal(t, "route-stats", w.Name())
	assert.Equal(t, group, w.ConsumerGroup())
}

func TestRouteStatsWorker_ProcessBatch(t *testing.T) {
	ctx := context.Background()
	event := &domain.RouteComparedEvent{EventID: uuid.New(), From: "Delhi", To: "Jaipur", Greenest: domain.ModeTrain}

	messages := []domain.StreamMessage{
		eventMessage(t, "1-0", event),
		{ID: "2-0", Data: map[string]interface{}{"data": "{not json"}},
		{ID: "3-0", Data: map[string]interface{}{"other": "x"}},
	}

	stream := &MockStreamRepository{}
	stream.On("ClaimPending", ctx, domain.StreamRouteCompared, group, mock.AnythingOfType("string"), time.Minute, 5).
		Return(nil, nil)
	stream.On("ConsumeBatch", ctx, domain.StreamRouteCompared, group, mock.AnythingOfType("string"), 5).
		Return(messages, nil)
	stream.On("AckMessages", ctx, domain.StreamRouteCompared, group, []string{"1-0", "2-0", "3-0"}).
		Return(nil)

	recorder := &MockRecorder{}
	recorder.On("Record", ctx, mock.MatchedBy(func(e *domain.RouteComparedEvent) bool {
		return e.EventID == event.EventID && e.Greenest == domain.ModeTrain
	})).Return(nil).Once()
	recorder.On("RefreshStatistics", ctx).Return(&domain.Statistics{TotalComparisons: 1}, nil).Once()

	w := stats.NewRouteStatsWorker(stream, recorder, group, 5, time.Minute, zap.NewNop())
	n, err := w.ProcessBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	stream.AssertExpectations(t)
	recorder.AssertExpectations(t)
}

func TestRouteStatsWorker_ProcessBatch_FailedEventIsRetried(t *testing.T) {
	ctx := context.Background()
	first := &domain.RouteComparedEvent{EventID: uuid.New()}
	second := &domain.RouteComparedEvent{EventID: uuid.New()}
	isFirst := mock.MatchedBy(func(e *domain.RouteComparedEvent) bool { return e.EventID == first.EventID })
	isSecond := mock.MatchedBy(func(e *domain.RouteComparedEvent) bool { return e.EventID == second.EventID })

	stream := &MockStreamRepository{}
	recorder := &MockRecorder{}

	// batch 1: nothing pending yet, the first event fails to record
	stream.On("ClaimPending", ctx, domain.StreamRouteCompared, group, mock.Anything, 45*time.Second, 20).
		Return(nil, nil).Once()
	stream.On("ConsumeBatch", ctx, domain.StreamRouteCompared, group, mock.Anything, 20).
		Return([]domain.StreamMessage{eventMessage(t, "1-0", first), eventMessage(t, "2-0", second)}, nil).Once()
	stream.On("AckMessages", ctx, domain.StreamRouteCompared, group, []string{"2-0"}).Return(nil).Once()
	recorder.On("Record", ctx, isFirst).Return(errors.New("redis down")).Once()
	recorder.On("Record", ctx, isSecond).Return(nil).Once()
	recorder.On("RefreshStatistics", ctx).Return(nil, errors.New("redis down")).Once()

	w := stats.NewRouteStatsWorker(stream, recorder, group, 0, 45*time.Second, zap.NewNop())
	n, err := w.ProcessBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	stream.AssertNotCalled(t, "AckMessages", ctx, domain.StreamRouteCompared, group, []string{"1-0", "2-0"})

	// batch 2: the unacknowledged event comes back through the pending list
	stream.On("ClaimPending", ctx, domain.StreamRouteCompared, group, mock.Anything, 45*time.Second, 20).
		Return([]domain.StreamMessage{eventMessage(t, "1-0", first)}, nil).Once()
	stream.On("ConsumeBatch", ctx, domain.StreamRouteCompared, group, mock.Anything, 19).
		Return(nil, nil).Once()
	stream.On("AckMessages", ctx, domain.StreamRouteCompared, group, []string{"1-0"}).Return(nil).Once()
	recorder.On("Record", ctx, isFirst).Return(nil).Once()
	recorder.On("RefreshStatistics", ctx).Return(&domain.Statistics{TotalComparisons: 2}, nil).Once()

	n, err = w.ProcessBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	stream.AssertExpectations(t)
	recorder.AssertExpectations(t)
	recorder.AssertNumberOfCalls(t, "Record", 3)
}

func TestRouteStatsWorker_ProcessBatch_FullPendingBatchSkipsNewMessages(t *testing.T) {
	ctx := context.Background()
	event := &domain.RouteComparedEvent{EventID: uuid.New()}

	stream := &MockStreamRepository{}
	stream.On("ClaimPending", ctx, domain.StreamRouteCompared, group, mock.Anything, mock.Anything, 1).
		Return([]domain.StreamMessage{eventMessage(t, "7-0", event)}, nil)
	stream.On("AckMessages", ctx, domain.StreamRouteCompared, group, []string{"7-0"}).Return(nil)

	recorder := &MockRecorder{}
	recorder.On("Record", ctx, mock.Anything).Return(nil)
	recorder.On("RefreshStatistics", ctx).Return(&domain.Statistics{}, nil)

	w := stats.NewRouteStatsWorker(stream, recorder, group, 1, 0, zap.NewNop())
	n, err := w.ProcessBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	stream.AssertNotCalled(t, "ConsumeBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRouteStatsWorker_ProcessBatch_ClaimErrorFallsBackToNewMessages(t *testing.T) {
	ctx := context.Background()

	stream := &MockStreamRepository{}
	stream.On("ClaimPending", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("ERR unknown command 'XAUTOCLAIM'"))
	stream.On("ConsumeBatch", ctx, domain.StreamRouteCompared, group, mock.Anything, 20).Return(nil, nil)

	w := stats.NewRouteStatsWorker(stream, &MockRecorder{}, group, 20, 0, zap.NewNop())
	n, err := w.ProcessBatch(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	stream.AssertExpectations(t)
}

func TestRouteStatsWorker_ProcessBatch_Empty(t *testing.T) {
	ctx := context.Background()

	stream := &MockStreamRepository{}
	noPending(stream)
	stream.On("ConsumeBatch", ctx, domain.StreamRouteCompared, group, mock.Anything, 20).Return(nil, nil)
	recorder := &MockRecorder{}

	w := stats.NewRouteStatsWorker(stream, recorder, group, 20, 0, zap.NewNop())
	n, err := w.ProcessBatch(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	stream.AssertNotCalled(t, "AckMessages", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	recorder.AssertNotCalled(t, "RefreshStatistics", mock.Anything)
}

func TestRouteStatsWorker_ProcessBatch_ConsumeError(t *testing.T) {
	ctx := context.Background()

	stream := &MockStreamRepository{}
	noPending(stream)
	stream.On("ConsumeBatch", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))

	w := stats.NewRouteStatsWorker(stream, &MockRecorder{}, group, 20, 0, zap.NewNop())
	_, err := w.ProcessBatch(ctx)
	assert.Error(t, err)
}

func TestRouteStatsWorker_StartStop(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream := &MockStreamRepository{}
	stream.On("CreateConsumerGroup", ctx, domain.StreamRouteCompared, group).Return(nil)
	noPending(stream)
	stream.On("ConsumeBatch", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)

	w := stats.NewRouteStatsWorker(stream, &MockRecorder{}, group, 20, 0, zap.NewNop())

	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, w.Stop())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
	assert.True(t, w.IsStopped())
}

func TestRouteStatsWorker_StartFailsWithoutGroup(t *testing.T) {
	ctx := context.Background()

	stream := &MockStreamRepository{}
	stream.On("CreateConsumerGroup", ctx, domain.StreamRouteCompared, group).Return(errors.New("NOAUTH"))

	w := stats.NewRouteStatsWorker(stream, &MockRecorder{}, group, 20, 0, zap.NewNop())
	assert.Error(t, w.Start(ctx))
}
