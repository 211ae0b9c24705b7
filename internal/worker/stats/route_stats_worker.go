package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eco-route-service/internal/domain"
	"github.com/eco-route-service/internal/domain/repository"
	"github.com/eco-route-service/internal/worker"
)

const (
	defaultBatchSize      = 20
	defaultPendingMinIdle = 30 * time.Second
	emptyQueueSleep       = 500 * time.Millisecond // пауза если очередь пуста
	errorSleep            = time.Second
)

// Recorder - куда воркер складывает агрегаты
type Recorder interface {
	Record(ctx context.Context, event *domain.RouteComparedEvent) error
	RefreshStatistics(ctx context.Context) (*domain.Statistics, error)
}

// RouteStatsWorker читает stream:routes:compared и обновляет агрегированную статистику
type RouteStatsWorker struct {
	*worker.BaseWorker
	streamRepo   repository.StreamRepository
	recorder     Recorder
	consumerName   string
	batchSize      int
	pendingMinIdle time.Duration
}

// NewRouteStatsWorker создает воркер статистики
func NewRouteStatsWorker(
	streamRepo repository.StreamRepository,
	recorder Recorder,
	consumerGroup string,
	batchSize int,
	pendingMinIdle time.Duration,
	logger *zap.Logger,
) *RouteStatsWorker {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if pendingMinIdle <= 0 {
		pendingMinIdle = defaultPendingMinIdle
	}

	// имя уникально для процесса; чужие зависшие сообщения забираются через ClaimPending
	hostname, _ := os.Hostname()
	consumerName := fmt.Sprintf("%s-%d-%s", hostname, os.Getpid(), uuid.NewString()[:8])

	return &RouteStatsWorker{
		BaseWorker:     worker.NewBaseWorker("route-stats", consumerGroup, logger),
		streamRepo:     streamRepo,
		recorder:       recorder,
		consumerName:   consumerName,
		batchSize:      batchSize,
		pendingMinIdle: pendingMinIdle,
	}
}

// Start запускает цикл чтения до Stop или отмены ctx
func (w *RouteStatsWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting RouteStatsWorker",
		zap.String("stream", domain.StreamRouteCompared),
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName),
		zap.Int("batch_size", w.batchSize),
		zap.Duration("pending_min_idle", w.pendingMinIdle))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamRouteCompared, w.ConsumerGroup()); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil
		case <-ctx.Done():
			logger.Info("Context cancelled")
			return nil
		default:
		}

		processed, err := w.ProcessBatch(ctx)
		if err != nil {
			logger.Error("Failed to process batch", zap.Error(err))
			if !w.Pause(ctx, errorSleep) {
				return nil
			}
			continue
		}

		if processed == 0 && !w.Pause(ctx, emptyQueueSleep) {
			return nil
		}
	}
}

// ProcessBatch reads one batch, records every event and acknowledges it.
// The batch starts with messages left unacknowledged for longer than the
// pending idle time, by this or any other consumer, and is topped up with new ones.
// Messages that cannot be parsed are acknowledged too so they do not block the group.
// It returns the number of messages read.
func (w *RouteStatsWorker) ProcessBatch(ctx context.Context) (int, error) {
	logger := w.Logger()

	messages, err := w.streamRepo.ClaimPending(
		ctx,
		domain.StreamRouteCompared,
		w.ConsumerGroup(),
		w.consumerName,
		w.pendingMinIdle,
		w.batchSize,
	)
	if err != nil {
		logger.Warn("Failed to claim pending messages", zap.Error(err))
		messages = nil
	}

	if remaining := w.batchSize - len(messages); remaining > 0 {
		fresh, err := w.streamRepo.ConsumeBatch(
			ctx,
			domain.StreamRouteCompared,
			w.ConsumerGroup(),
			w.consumerName,
			remaining,
		)
		if err != nil {
			if len(messages) == 0 {
				return 0, fmt.Errorf("failed to consume batch: %w", err)
			}
			logger.Warn("Failed to read new messages", zap.Error(err))
		}
		messages = append(messages, fresh...)
	}

	if len(messages) == 0 {
		return 0, nil
	}

	ackIDs := make([]string, 0, len(messages))
	recorded := 0

	for _, msg := range messages {
		event, err := parseMessage(msg)
		if err != nil {
			logger.Warn("Failed to parse message, skipping",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			ackIDs = append(ackIDs, msg.ID)
			continue
		}

		if err := w.recorder.Record(ctx, event); err != nil {
			// stays pending, ClaimPending picks it up again after pendingMinIdle
			logger.Error("Failed to record comparison",
				zap.String("message_id", msg.ID),
				zap.String("event_id", event.EventID.String()),
				zap.Error(err))
			continue
		}

		ackIDs = append(ackIDs, msg.ID)
		recorded++
	}

	if err := w.streamRepo.AckMessages(ctx, domain.StreamRouteCompared, w.ConsumerGroup(), ackIDs); err != nil {
		logger.Error("Failed to ack messages", zap.Error(err))
	}

	if recorded > 0 {
		if _, err := w.recorder.RefreshStatistics(ctx); err != nil {
			logger.Warn("Failed to refresh statistics snapshot", zap.Error(err))
		}
	}

	logger.Debug("Batch processed",
		zap.Int("messages", len(messages)),
		zap.Int("recorded", recorded))

	return len(messages), nil
}

func parseMessage(msg domain.StreamMessage) (*domain.RouteComparedEvent, error) {
	raw, ok := msg.Data["data"]
	if !ok {
		return nil, fmt.Errorf("message has no data field")
	}

	var payload []byte
	switch v := raw.(type) {
	case string:
		payload = []byte(v)
	case []byte:
		payload = v
	default:
		return nil, fmt.Errorf("unexpected data type %T", raw)
	}

	var event domain.RouteComparedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	return &event, nil
}
