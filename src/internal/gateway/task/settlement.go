package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"delivery-service/src/pkg/log"

	"github.com/hibiken/asynq"
)

const TypeSettleDelivery = "delivery:settle"

const defaultMaxRetry = 10

type SettlementPayload struct {
	DeliveryID string `json:"deliveryId"`
}

func NewSettlementTask(deliveryID string) (*asynq.Task, error) {
	payload, err := json.Marshal(SettlementPayload{DeliveryID: deliveryID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeSettleDelivery, payload), nil
}

func ParseSettlementTask(t *asynq.Task) (SettlementPayload, error) {
	var payload SettlementPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("decode %s payload: %v: %w", TypeSettleDelivery, err, asynq.SkipRetry)
	}
	if payload.DeliveryID == "" {
		return payload, fmt.Errorf("%s payload without delivery id: %w", TypeSettleDelivery, asynq.SkipRetry)
	}
	return payload, nil
}

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsynqScheduler queues one settlement per delivery. The task id is the
// delivery id, so a second enqueue for the same delivery is a no-op.
type AsynqScheduler struct {
	Client    enqueuer
	Log       log.Log
	MaxRetry  int
	Retention time.Duration
}

func NewAsynqScheduler(client *asynq.Client, logger log.Log) *AsynqScheduler {
	return &AsynqScheduler{
		Client:    client,
		Log:       logger,
		MaxRetry:  defaultMaxRetry,
		Retention: 24 * time.Hour,
	}
}

func (s *AsynqScheduler) EnqueueSettlement(ctx context.Context, deliveryID string) error {
	t, err := NewSettlementTask(deliveryID)
	if err != nil {
		return err
	}

	info, err := s.Client.EnqueueContext(ctx, t,
		asynq.TaskID(deliveryID),
		asynq.MaxRetry(s.MaxRetry),
		asynq.Retention(s.Retention),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		s.Log.Info("gateway/task", "settlement already queued", "EnqueueSettlement", deliveryID)
		return nil
	}
	if err != nil {
		return err
	}

	s.Log.Info("gateway/task", "settlement queued", "EnqueueSettlement", fmt.Sprintf("%s queue=%s", info.ID, info.Queue))
	return nil
}

// InlineScheduler settles in the calling goroutine, used when no asynq
// server runs alongside the API.
type InlineScheduler struct {
	Settle func(ctx context.Context, deliveryID string) error
}

func (s *InlineScheduler) EnqueueSettlement(ctx context.Context, deliveryID string) error {
	return s.Settle(ctx, deliveryID)
}
