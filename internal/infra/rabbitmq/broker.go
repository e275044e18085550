package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"storefront-orders/internal/infra/bus"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

// Broker publishes and consumes notifications on a topic exchange. Each
// Broker is one execution context: messages carrying its own origin are
// acknowledged and dropped.
type Broker struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	origin   string

	mu      sync.Mutex
	closers []func()
}

func NewBroker(amqpURL, exchange, origin string) (*Broker, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &Broker{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		origin:   origin,
	}, nil
}

func (b *Broker) Publish(ctx context.Context, pattern string, data any) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	message := bus.Message{
		Pattern: pattern,
		Origin:  b.origin,
		ID:      uuid.NewString(),
		Data:    body,
	}
	raw, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}

	log.Printf("Publishing message with pattern '%s' to exchange '%s'", pattern, b.exchange)

	b.mu.Lock()
	defer b.mu.Unlock()
	err = b.channel.Publish(
		b.exchange,
		pattern,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			MessageId:   message.ID,
			AppId:       b.origin,
			Body:        raw,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// Subscribe binds an exclusive auto-deleted queue to pattern and dispatches
// deliveries to h on a dedicated goroutine.
func (b *Broker) Subscribe(pattern string, h bus.Handler) (func(), error) {
	ch, err := b.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, pattern, b.exchange, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}
	deliveries, err := ch.Consume(q.Name, "", false, true, false, false, nil)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to consume: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		for d := range deliveries {
			b.dispatch(ctx, d, h)
		}
	}()

	var once sync.Once
	closer := func() {
		once.Do(func() {
			cancel()
			ch.Close()
			<-done
		})
	}
	b.mu.Lock()
	b.closers = append(b.closers, closer)
	b.mu.Unlock()
	return closer, nil
}

func (b *Broker) dispatch(ctx context.Context, d amqp.Delivery, h bus.Handler) {
	defer d.Ack(false)

	var msg bus.Message
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		log.Printf("rabbitmq: dropping malformed message %s: %v", d.MessageId, err)
		return
	}
	if msg.Origin == b.origin {
		return
	}
	h(ctx, msg)
}

func (b *Broker) Close() {
	b.mu.Lock()
	closers := b.closers
	b.closers = nil
	b.mu.Unlock()
	for _, c := range closers {
		c()
	}
	if b.channel != nil {
		b.channel.Close()
	}
	if b.conn != nil {
		b.conn.Close()
	}
}
