package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/leadflow/crm-directory/internal/entity"
)

// AssignmentNotifier tells an employee which leads they just received.
type AssignmentNotifier interface {
	SendAssignmentNotice(ctx context.Context, notice entity.LeadsAssignedPayload) error
}

// errMalformed marks messages that can never succeed.
var errMalformed = errors.New("malformed message")

type Worker struct {
	Channel  *amqp.Channel
	Notifier AssignmentNotifier
	Logger   *zap.Logger
}

func NewWorker(ch *amqp.Channel, notifier AssignmentNotifier, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{
		Channel:  ch,
		Notifier: notifier,
		Logger:   logger,
	}
}

// Start consumes the assignments queue until ctx is done or the channel
// closes. Failed deliveries are rejected without requeue so they land in
// the dead letter queue.
func (w *Worker) Start(ctx context.Context) error {
	msgs, err := w.Channel.Consume(
		QueueName,
		"",
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	w.Logger.Info("assignment worker waiting", zap.String("queue", QueueName))

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			if err := w.handle(ctx, d.Body); err != nil {
				w.Logger.Error("assignment notice failed",
					zap.String("message_id", d.MessageId),
					zap.Error(err),
				)
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (w *Worker) handle(ctx context.Context, body []byte) error {
	var event entity.Event
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}
	if event.Type != entity.EventLeadsAssigned {
		w.Logger.Warn("ignoring unexpected event", zap.String("type", string(event.Type)))
		return nil
	}

	var notice entity.LeadsAssignedPayload
	if err := event.Decode(&notice); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}
	if notice.EmployeeEmail == "" || len(notice.LeadIDs) == 0 {
		w.Logger.Warn("assignment without recipient or leads",
			zap.String("employee_id", notice.EmployeeID),
		)
		return nil
	}

	if err := w.Notifier.SendAssignmentNotice(ctx, notice); err != nil {
		return err
	}
	w.Logger.Info("assignment notice sent",
		zap.String("employee_id", notice.EmployeeID),
		zap.String("mode", notice.Mode),
		zap.Int("lead_count", len(notice.LeadIDs)),
	)
	return nil
}
