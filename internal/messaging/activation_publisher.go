package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"acara-backend/internal/domain"
	"acara-backend/internal/interfaces"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const TransportName = "amqp"

// publishChannel is the part of *amqp.Channel the publisher uses.
type publishChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type channelOpener func() (publishChannel, error)

var _ interfaces.RegistrationNotifier = (*ActivationPublisher)(nil)

// ActivationPublisher queues activation emails for the mailer worker.
type ActivationPublisher struct {
	open      channelOpener
	queueName string
	logger    *zap.Logger
}

// NewActivationPublisher declares queueName on conn and returns a publisher for it.
func NewActivationPublisher(conn *amqp.Connection, queueName string, logger *zap.Logger) (*ActivationPublisher, error) {
	if conn == nil {
		return nil, fmt.Errorf("RabbitMQ connection is nil")
	}
	open := func() (publishChannel, error) {
		ch, err := conn.Channel()
		if err != nil {
			return nil, err
		}
		return ch, nil
	}
	return newActivationPublisher(open, queueName, logger)
}

func newActivationPublisher(open channelOpener, queueName string, logger *zap.Logger) (*ActivationPublisher, error) {
	if queueName == "" {
		queueName = DefaultActivationQueue
	}
	p := &ActivationPublisher{
		open:      open,
		queueName: queueName,
		logger:    logger.Named("ActivationPublisher").With(zap.String("queue", queueName)),
	}
	if err := p.verifyQueue(); err != nil {
		return nil, fmt.Errorf("failed to verify queue %s on init: %w", queueName, err)
	}
	return p, nil
}

func (p *ActivationPublisher) verifyQueue() error {
	ch, err := p.open()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()
	return declareQueue(ch, p.queueName)
}

func declareQueue(ch publishChannel, name string) error {
	if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue '%s': %w", name, err)
	}
	return nil
}

// NotifyRegistration publishes one persistent message for account.
func (p *ActivationPublisher) NotifyRegistration(ctx context.Context, account *domain.Account) error {
	body, err := json.Marshal(NewActivationEmailPayload(account))
	if err != nil {
		return &domain.DispatchError{Transport: TransportName, Err: fmt.Errorf("marshal payload: %w", err)}
	}

	ch, err := p.open()
	if err != nil {
		return &domain.DispatchError{Transport: TransportName, Err: fmt.Errorf("open channel: %w", err)}
	}
	defer ch.Close()

	if err := declareQueue(ch, p.queueName); err != nil {
		return &domain.DispatchError{Transport: TransportName, Err: err}
	}

	err = ch.PublishWithContext(ctx, "", p.queueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		MessageId:    account.ID.String(),
		Body:         body,
	})
	if err != nil {
		p.logger.Error("Failed to publish activation email", zap.String("accountID", account.ID.String()), zap.Error(err))
		return &domain.DispatchError{Transport: TransportName, Err: err}
	}

	p.logger.Info("Activation email queued", zap.String("accountID", account.ID.String()))
	return nil
}
