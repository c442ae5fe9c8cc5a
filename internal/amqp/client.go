// Package amqp publishes and consumes session activity events over RabbitMQ.
//
// Events go to a topic exchange with the event type as routing key. The
// client guards publishing with a small circuit breaker so a broker outage
// never slows down ledger operations.
package amqp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"intentos/internal/events"
	applog "intentos/internal/log"
)

// Circuit breaker states
const (
	StateClosed int32 = iota
	StateOpen
	StateHalfOpen
)

const (
	maxFailures = 5
	openTimeout = 30 * time.Second
	maxBackoff  = 30 * time.Second
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

var logger = applog.WithComponent(applog.ComponentAMQP)

type Client struct {
	url          string
	exchangeName string
	queueName    string

	mu      sync.Mutex
	conn    *amqp091.Connection
	channel *amqp091.Channel

	state        int32
	failureCount int64
	lastFailure  time.Time
}

// NewClient dials the broker and declares the exchange, queue and binding.
func NewClient(url, exchangeName, queueName string) (*Client, error) {
	c := &Client{
		url:          url,
		exchangeName: exchangeName,
		queueName:    queueName,
	}
	if err := c.connect(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.channel != nil && !c.channel.IsClosed() {
		return nil
	}

	conn, err := amqp091.Dial(c.url)
	if err != nil {
		return fmt.Errorf("dial AMQP: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}
	c.conn, c.channel = conn, channel

	if err := c.setup(); err != nil {
		c.closeLocked()
		return fmt.Errorf("setup exchange and queue: %w", err)
	}
	return nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"topic",        // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = c.channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// Every event type lands in the activity queue.
	if err := c.channel.QueueBind(c.queueName, "#", c.exchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

// Publish implements events.Publisher.
func (c *Client) Publish(ctx context.Context, e events.Event) error {
	if c.isCircuitOpen() {
		return fmt.Errorf("publish %s: %w", e.Type, ErrCircuitOpen)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := e.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := c.connect(); err != nil {
		c.recordFailure()
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	c.mu.Lock()
	ch := c.channel
	c.mu.Unlock()

	err = ch.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		string(e.Type), // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    e.Timestamp,
			Body:         body,
		},
	)
	if err != nil {
		c.recordFailure()
		if isConnectionError(err) {
			c.resetConnection()
		}
		return fmt.Errorf("publish message: %w", err)
	}
	c.recordSuccess()

	logger.DebugContext(ctx, "Published event",
		applog.FieldEventType, string(e.Type),
		applog.FieldSessionID, e.SessionID,
		"exchange", c.exchangeName)
	return nil
}

// Consume delivers events to handler until ctx is done. Malformed messages
// are dropped; handler failures are requeued. Lost connections are retried
// with exponential backoff.
func (c *Client) Consume(ctx context.Context, handler func(context.Context, events.Event) error) error {
	attempt := 0
	for {
		err := c.consumeOnce(ctx, handler)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		wait := exponentialBackoff(attempt)
		attempt++
		logger.WarnContext(ctx, "Event consumer interrupted, reconnecting",
			applog.FieldError, err, "attempt", attempt, "backoff", wait.String())
		c.resetConnection()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		if err := c.connect(); err != nil {
			logger.ErrorContext(ctx, "Reconnect failed", applog.FieldError, err)
			continue
		}
		attempt = 0
	}
}

func (c *Client) consumeOnce(ctx context.Context, handler func(context.Context, events.Event) error) error {
	if err := c.connect(); err != nil {
		return err
	}
	c.mu.Lock()
	ch := c.channel
	c.mu.Unlock()

	msgs, err := ch.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	logger.InfoContext(ctx, "Started consuming events", "queue", c.queueName)
	return drain(ctx, msgs, handler)
}

// settlement is what happened to one delivery.
type settlement int

const (
	acked settlement = iota
	dropped
	requeued
)

// drain settles deliveries until ctx is done or msgs is closed.
func drain(ctx context.Context, msgs <-chan amqp091.Delivery, handler func(context.Context, events.Event) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("message channel closed")
			}
			settle(ctx, d, handler)
		}
	}
}

// settle decodes one delivery and runs handler on it. The delivery is acked
// on success, nacked without requeue when the body is not an event, and
// requeued when the handler fails.
func settle(ctx context.Context, d amqp091.Delivery, handler func(context.Context, events.Event) error) settlement {
	e, err := events.FromJSON(d.Body)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to unmarshal event", applog.FieldError, err)
		if err := d.Nack(false, false); err != nil {
			logger.WarnContext(ctx, "Nack failed", applog.FieldError, err)
		}
		return dropped
	}

	if err := handler(ctx, e); err != nil {
		logger.ErrorContext(ctx, "Failed to handle event",
			applog.FieldError, err,
			applog.FieldEventType, string(e.Type),
			applog.FieldSessionID, e.SessionID)
		if err := d.Nack(false, true); err != nil {
			logger.WarnContext(ctx, "Nack failed", applog.FieldError, err)
		}
		return requeued
	}

	if err := d.Ack(false); err != nil {
		logger.WarnContext(ctx, "Ack failed", applog.FieldError, err)
	}
	return acked
}

func (c *Client) isCircuitOpen() bool {
	switch atomic.LoadInt32(&c.state) {
	case StateOpen:
		if time.Since(c.lastFailure) > openTimeout {
			atomic.StoreInt32(&c.state, StateHalfOpen)
			return false
		}
		return true
	default:
		return false
	}
}

func (c *Client) recordSuccess() {
	atomic.StoreInt64(&c.failureCount, 0)
	atomic.StoreInt32(&c.state, StateClosed)
}

func (c *Client) recordFailure() {
	c.lastFailure = time.Now()
	if atomic.AddInt64(&c.failureCount, 1) >= maxFailures {
		atomic.StoreInt32(&c.state, StateOpen)
	}
}

func (c *Client) resetConnection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

func (c *Client) closeLocked() {
	if c.channel != nil {
		c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

// exponentialBackoff returns 1s, 2s, 4s ... capped at maxBackoff.
func exponentialBackoff(attempt int) time.Duration {
	if attempt > 5 {
		return maxBackoff
	}
	d := time.Second << attempt
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, amqp091.ErrClosed) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"connection", "eof", "broken pipe", "closed network"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var err error
	if c.channel != nil {
		c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		err = c.conn.Close()
		c.conn = nil
	}
	return err
}

var _ events.Publisher = (*Client)(nil)
