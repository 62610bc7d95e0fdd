package messaging

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/tucanshop/order-gateway/internal/core"
	"github.com/tucanshop/order-gateway/internal/port/output"
)

const (
	ExchangeName  = "settlements"
	QueueName     = "settlement_finalization"
	RoutingKey    = "settlement.attached"
	PrefetchCount = 1 // Process one message at a time per worker

	// MaxFinalizeAttempts bounds how often a still-pending settlement is
	// re-checked before the queue gives up on it; the explicit finalize
	// endpoint remains available afterwards.
	MaxFinalizeAttempts = 10

	// retryDelay spaces out provider polls for a payment the payer has not
	// completed yet.
	retryDelay = 30 * time.Second
)

// SettlementMessage asks the worker to poll the provider and finalize an
// order. Attempt counts the polls already made for this settlement.
type SettlementMessage struct {
	OrderID   uuid.UUID `json:"order_id"`
	Attempt   int       `json:"attempt"`
	Timestamp time.Time `json:"timestamp"`
}

// deliveryAction is the consumer's verdict on a processed message
type deliveryAction int

const (
	// actionAck drops the message: handled, unusable, or out of attempts.
	actionAck deliveryAction = iota
	// actionRequeue returns the message to the queue immediately.
	actionRequeue
	// actionRetryLater re-publishes the message after retryDelay with the
	// attempt count bumped.
	actionRetryLater
)

// classifyFinalizeOutcome decides what to do with a settlement message after
// the handler ran. Provider failures requeue immediately (transient
// transport trouble), a payment the payer has not completed yet is retried
// later until the attempt budget runs out, everything else is dropped.
func classifyFinalizeOutcome(err error, attempt int) deliveryAction {
	switch {
	case err == nil:
		return actionAck
	case core.IsProviderError(err):
		return actionRequeue
	case errors.Is(err, core.ErrConfirmationPending):
		if attempt+1 >= MaxFinalizeAttempts {
			return actionAck
		}
		return actionRetryLater
	default:
		return actionAck
	}
}

// RabbitMQClient is a secondary adapter that implements the
// SettlementMessaging output port
type RabbitMQClient struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  zerolog.Logger
}

// NewRabbitMQClient creates a new RabbitMQ client (returns interface for ports)
func NewRabbitMQClient(amqpURL string, logger zerolog.Logger) (output.SettlementMessaging, error) {
	return NewRabbitMQClientConcrete(amqpURL, logger)
}

// NewRabbitMQClientConcrete creates a new RabbitMQ client (returns concrete type for workers)
func NewRabbitMQClientConcrete(amqpURL string, logger zerolog.Logger) (*RabbitMQClient, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	// Declare exchange
	err = channel.ExchangeDeclare(
		ExchangeName,
		"direct",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	// Declare queue
	_, err = channel.QueueDeclare(
		QueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	// Bind queue to exchange
	err = channel.QueueBind(
		QueueName,
		RoutingKey,
		ExchangeName,
		false,
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	return &RabbitMQClient{
		conn:    conn,
		channel: channel,
		logger:  logger.With().Str("component", "settlement_queue").Logger(),
	}, nil
}

// PublishSettlementMessage enqueues an order for finalization polling
func (c *RabbitMQClient) PublishSettlementMessage(orderID uuid.UUID) error {
	return c.publish(SettlementMessage{
		OrderID:   orderID,
		Timestamp: time.Now(),
	})
}

func (c *RabbitMQClient) publish(message SettlementMessage) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = c.channel.Publish(
		ExchangeName,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent, // Make message persistent
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.logger.Info().
		Str("order_id", message.OrderID.String()).
		Int("attempt", message.Attempt).
		Msg("published settlement message")
	return nil
}

// ConsumeSettlementMessages starts consuming settlement messages.
// Provider-side failures requeue the message, a not-yet-confirmed payment is
// rechecked after a delay until MaxFinalizeAttempts is spent, and anything
// the worker cannot act on (absent order, missing precondition) is
// acknowledged and dropped.
func (c *RabbitMQClient) ConsumeSettlementMessages(handler func(SettlementMessage) error) error {
	// Set QoS to process one message at a time
	err := c.channel.Qos(
		PrefetchCount,
		0,     // prefetch size
		false, // global
	)
	if err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := c.channel.Consume(
		QueueName,
		"",    // consumer tag
		false, // auto-ack (we'll manually ack after processing)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info().Msg("started consuming settlement messages")

	go func() {
		for msg := range msgs {
			var settlementMsg SettlementMessage
			if err := json.Unmarshal(msg.Body, &settlementMsg); err != nil {
				c.logger.Error().Err(err).Msg("error unmarshaling message")
				msg.Ack(false) // Malformed, dropping keeps the queue moving
				continue
			}

			err := handler(settlementMsg)
			switch classifyFinalizeOutcome(err, settlementMsg.Attempt) {
			case actionRequeue:
				c.logger.Error().Err(err).
					Str("order_id", settlementMsg.OrderID.String()).
					Msg("error finalizing order")
				msg.Nack(false, true)
			case actionRetryLater:
				c.logger.Info().
					Str("order_id", settlementMsg.OrderID.String()).
					Int("attempt", settlementMsg.Attempt).
					Msg("payment not confirmed yet, scheduling recheck")
				c.scheduleRecheck(settlementMsg)
				msg.Ack(false)
			default:
				if errors.Is(err, core.ErrConfirmationPending) {
					c.logger.Warn().
						Str("order_id", settlementMsg.OrderID.String()).
						Int("attempt", settlementMsg.Attempt).
						Msg("recheck budget exhausted, finalize manually")
				} else if err != nil {
					c.logger.Error().Err(err).
						Str("order_id", settlementMsg.OrderID.String()).
						Msg("dropping settlement message")
				}
				msg.Ack(false)
			}
		}
	}()

	return nil
}

// scheduleRecheck re-publishes the message after retryDelay with the attempt
// count bumped. The original delivery is acked before the timer fires, so a
// crash during the wait loses the recheck; the explicit finalize endpoint
// covers that window.
func (c *RabbitMQClient) scheduleRecheck(message SettlementMessage) {
	next := message
	next.Attempt++
	next.Timestamp = time.Now()
	time.AfterFunc(retryDelay, func() {
		if err := c.publish(next); err != nil {
			c.logger.Error().Err(err).
				Str("order_id", next.OrderID.String()).
				Msg("failed to re-publish settlement message")
		}
	})
}

// Close closes the messaging connection
func (c *RabbitMQClient) Close() error {
	if err := c.channel.Close(); err != nil {
		return err
	}
	return c.conn.Close()
}
