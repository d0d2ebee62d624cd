package rabbitmq

import (
	"encoding/json"
	"fmt"
	"sync"

	"foodexpress/internal/models"

	amqp "github.com/streadway/amqp"
	"go.uber.org/zap"
)

// OrderEventsQueue receives every order start and status transition.
const OrderEventsQueue = "order_events"

// Client holds the RabbitMQ connection and channel. Publishing is serialized
// because order transitions are published from timer goroutines.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	mu      sync.Mutex
	logger  *zap.Logger
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient connects to RabbitMQ, opens a channel and declares the order events queue.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareQueue(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	logger.Info("rabbitmq connected", zap.String("queue", OrderEventsQueue))
	return &Client{
		conn:    conn,
		channel: ch,
		logger:  logger,
	}, nil
}

func declareQueue(ch *amqp.Channel) error {
	_, err := ch.QueueDeclare(
		OrderEventsQueue, // name
		true,             // durable
		false,            // delete when unused
		false,            // exclusive
		false,            // no-wait
		nil,              // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare %s: %w", OrderEventsQueue, err)
	}
	return nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors during RabbitMQ client close: %v", errs)
	}
	return nil
}

// EncodeOrderEvent renders event as the JSON message body.
func EncodeOrderEvent(event models.OrderEvent) ([]byte, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order event: %w", err)
	}
	return body, nil
}

// DecodeOrderEvent parses a message body produced by EncodeOrderEvent.
func DecodeOrderEvent(body []byte) (models.OrderEvent, error) {
	var event models.OrderEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return models.OrderEvent{}, fmt.Errorf("failed to unmarshal order event: %w", err)
	}
	if event.OrderID == "" || !event.Status.IsValid() {
		return models.OrderEvent{}, fmt.Errorf("malformed order event: %s", body)
	}
	return event, nil
}

// PublishOrderEvent sends event to the order events queue as a persistent JSON message.
func (c *Client) PublishOrderEvent(event models.OrderEvent) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	body, err := EncodeOrderEvent(event)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	err = c.channel.Publish(
		"",               // exchange: default exchange
		OrderEventsQueue, // routing key: the queue name
		false,            // mandatory
		false,            // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
			MessageId:    event.OrderID + ":" + string(event.Status),
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.logger.Debug("order event sent",
		zap.String("order_id", event.OrderID),
		zap.String("status", string(event.Status)),
	)
	return nil
}

// ConsumeOrderEvents starts a goroutine that hands every order event to
// handler. Messages that fail to decode are dropped; handler errors requeue
// the message. The goroutine ends when the channel is closed.
func (c *Client) ConsumeOrderEvents(handler func(models.OrderEvent) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	c.mu.Lock()
	if err := declareQueue(c.channel); err != nil {
		c.mu.Unlock()
		return err
	}
	msgs, err := c.channel.Consume(
		OrderEventsQueue, // queue
		"",               // consumer tag
		false,            // auto-ack
		false,            // exclusive
		false,            // no-local
		false,            // no-wait
		nil,              // args
	)
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("waiting for order events", zap.String("queue", OrderEventsQueue))

	go func() {
		for msg := range msgs {
			c.handleDelivery(msg, handler)
		}
	}()
	return nil
}

type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func (c *Client) handleDelivery(msg amqp.Delivery, handler func(models.OrderEvent) error) {
	settle(c.logger, msg.DeliveryTag, msg.Body, &msg, handler)
}

// settle decodes body, runs handler and acknowledges the delivery accordingly.
func settle(logger *zap.Logger, tag uint64, body []byte, ack acknowledger, handler func(models.OrderEvent) error) {
	event, err := DecodeOrderEvent(body)
	if err != nil {
		logger.Warn("dropping undecodable order event", zap.Uint64("tag", tag), zap.Error(err))
		if nackErr := ack.Nack(false, false); nackErr != nil {
			logger.Warn("nack failed", zap.Uint64("tag", tag), zap.Error(nackErr))
		}
		return
	}

	if err := handler(event); err != nil {
		logger.Warn("order event handler failed", zap.Uint64("tag", tag), zap.Error(err))
		if nackErr := ack.Nack(false, true); nackErr != nil {
			logger.Warn("nack failed", zap.Uint64("tag", tag), zap.Error(nackErr))
		}
		return
	}

	if ackErr := ack.Ack(false); ackErr != nil {
		logger.Warn("ack failed", zap.Uint64("tag", tag), zap.Error(ackErr))
	}
}

// LogOrderEvent is the handler the serve command consumes events with.
func LogOrderEvent(logger *zap.Logger) func(models.OrderEvent) error {
	return func(event models.OrderEvent) error {
		logger.Info("order event received",
			zap.String("order_id", event.OrderID),
			zap.String("email", event.Email),
			zap.String("status", string(event.Status)),
			zap.String("payment", string(event.Payment)),
			zap.String("total", event.Total.StringFixed(2)),
			zap.Time("occurred_at", event.OccurredAt),
		)
		return nil
	}
}
