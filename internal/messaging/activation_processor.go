package messaging

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// ActivationHandler delivers a queued activation email.
type ActivationHandler interface {
	HandleActivation(ctx context.Context, payload ActivationEmailPayload) error
}

// ActivationProcessor decodes activation messages and hands them to a handler.
// Every delivery is attempted once; failures are nacked without requeue.
type ActivationProcessor struct {
	logger  *zap.Logger
	handler ActivationHandler
	timeout time.Duration
}

var _ MessageProcessor = (*ActivationProcessor)(nil)

func NewActivationProcessor(logger *zap.Logger, handler ActivationHandler, timeout time.Duration) *ActivationProcessor {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ActivationProcessor{
		logger:  logger.Named("processor"),
		handler: handler,
		timeout: timeout,
	}
}

func (p *ActivationProcessor) ProcessMessage(ctx context.Context, d amqp.Delivery) {
	log := p.logger.With(zap.Uint64("delivery_tag", d.DeliveryTag))

	var payload ActivationEmailPayload
	if err := json.Unmarshal(d.Body, &payload); err != nil {
		log.Error("Failed to decode activation message", zap.Error(err), zap.ByteString("body", d.Body))
		p.nack(log, d)
		return
	}

	processCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.handler.HandleActivation(processCtx, payload); err != nil {
		log.Error("Failed to deliver activation email", zap.String("accountID", payload.AccountID.String()), zap.Error(err))
		p.nack(log, d)
		return
	}

	if err := d.Ack(false); err != nil {
		log.Error("Failed to ack message", zap.Error(err))
		return
	}
	log.Info("Activation email delivered", zap.String("accountID", payload.AccountID.String()))
}

func (p *ActivationProcessor) nack(log *zap.Logger, d amqp.Delivery) {
	if err := d.Nack(false, false); err != nil {
		log.Error("Failed to nack message", zap.Error(err))
	}
}
