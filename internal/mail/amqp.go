package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// publisher is the subset of *amqp.Channel the queue mailer needs.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPMailer publishes messages as persistent JSON onto a durable queue for an external
// mail worker to deliver.
type AMQPMailer struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel publisher
	queue   string
	closeFn func()
}

var _ Mailer = (*AMQPMailer)(nil)

// DialAMQP connects to the broker and declares queue.
func DialAMQP(url, queue string) (*AMQPMailer, error) {
	const op = "mail.DialAMQP"

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	q, err := ch.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &AMQPMailer{
		conn:    conn,
		channel: ch,
		queue:   q.Name,
		closeFn: func() {
			_ = ch.Close()
			_ = conn.Close()
		},
	}, nil
}

// Send publishes msg. Channels are not safe for concurrent publishing, so sends are serialized.
func (m *AMQPMailer) Send(ctx context.Context, msg Message) error {
	const op = "mail.AMQPMailer.Send"

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	err = m.channel.PublishWithContext(ctx, "", m.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close releases the channel and connection.
func (m *AMQPMailer) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closeFn != nil {
		m.closeFn()
		m.closeFn = nil
	}
}
