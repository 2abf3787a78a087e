package messaging

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// MessageProcessor handles one delivery and is responsible for acking it.
type MessageProcessor interface {
	ProcessMessage(ctx context.Context, d amqp.Delivery)
}

// Consumer runs a fixed pool of workers over one durable queue.
type Consumer struct {
	conn        *amqp.Connection
	logger      *zap.Logger
	queueName   string
	concurrency int
	processor   MessageProcessor
	stopOnce    sync.Once
	stopChannel chan struct{}
	wg          sync.WaitGroup
}

func NewConsumer(conn *amqp.Connection, logger *zap.Logger, queueName string, concurrency int, processor MessageProcessor) *Consumer {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Consumer{
		conn:        conn,
		logger:      logger.Named("consumer").With(zap.String("queue", queueName)),
		queueName:   queueName,
		concurrency: concurrency,
		processor:   processor,
		stopChannel: make(chan struct{}),
	}
}

// Start blocks until Stop is called or the delivery channel closes.
func (c *Consumer) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(c.queueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue '%s': %w", c.queueName, err)
	}

	if err := ch.Qos(c.concurrency, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := ch.Consume(q.Name, "acara-mailer", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("Consumer started", zap.Int("concurrency", c.concurrency))

	drained := make(chan struct{})
	c.wg.Add(c.concurrency)
	for i := 0; i < c.concurrency; i++ {
		go func(workerID int) {
			defer c.wg.Done()
			c.runWorker(ctx, msgs, c.logger.With(zap.Int("worker_id", workerID)))
		}(i)
	}
	go func() {
		c.wg.Wait()
		close(drained)
	}()

	select {
	case <-c.stopChannel:
		c.logger.Info("Stop requested, cancelling workers")
		cancel()
		<-drained
	case <-drained:
	}
	c.logger.Info("All consumer workers stopped")
	return nil
}

// runWorker receives until ctx is cancelled or msgs closes. Cancelling ctx
// only stops receiving: a delivery already taken is processed under a context
// that Stop does not cancel, bounded by the processor's own timeout.
func (c *Consumer) runWorker(ctx context.Context, msgs <-chan amqp.Delivery, logger *zap.Logger) {
	processCtx := context.WithoutCancel(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-msgs:
			if !ok {
				logger.Info("Delivery channel closed, worker exiting")
				return
			}
			logger.Debug("Message received", zap.Uint64("delivery_tag", d.DeliveryTag))
			c.processor.ProcessMessage(processCtx, d)
		}
	}
}

// Stop stops receiving and waits, via Start, for in-flight deliveries to finish.
func (c *Consumer) Stop() {
	c.stopOnce.Do(func() { close(c.stopChannel) })
}
