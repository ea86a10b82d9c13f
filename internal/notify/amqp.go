package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// channel is the subset of *amqp091.Channel used for publishing.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// AMQP publishes changes to a durable topic exchange. The routing key is the
// change type, so consumers can bind to patterns such as "attendee.*".
type AMQP struct {
	mu       sync.Mutex
	conn     *amqp091.Connection
	channel  channel
	exchange string
}

// DialAMQP connects to url and declares the exchange.
func DialAMQP(url, exchange string) (*AMQP, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &AMQP{conn: conn, channel: ch, exchange: exchange}, nil
}

func newAMQPWithChannel(ch channel, exchange string) *AMQP {
	return &AMQP{channel: ch, exchange: exchange}
}

func (a *AMQP) Publish(ctx context.Context, change Change) error {
	body, err := change.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal change: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	a.mu.Lock()
	defer a.mu.Unlock()
	err = a.channel.PublishWithContext(
		ctx,
		a.exchange,          // exchange
		string(change.Type), // routing key
		false,               // mandatory
		false,               // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    change.At,
			MessageId:    fmt.Sprintf("%s/%d", change.EventID, change.Revision),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish change: %w", err)
	}

	slog.DebugContext(ctx, "Published change",
		"type", change.Type,
		"event_id", change.EventID,
		"revision", change.Revision,
		"exchange", a.exchange,
	)
	return nil
}

func (a *AMQP) Close() error {
	if a.channel != nil {
		a.channel.Close()
	}
	if a.conn != nil {
		return a.conn.Close()
	}
	return nil
}
