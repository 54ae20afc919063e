package activitylog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"workspace-access/internal/platform/logger"
	"workspace-access/internal/ports/workspace"

	"github.com/rabbitmq/amqp091-go"
)

const defaultExchange = "workspace.activity"

// amqpChannel es lo que usamos de *amqp091.Channel.
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Publisher publica cada ActivityEvent en un exchange topic con routing key
// "activity.<action>".
type Publisher struct {
	conn     *amqp091.Connection
	channel  amqpChannel
	exchange string
	log      logger.Logger
}

var _ workspace.ActivityLog = (*Publisher)(nil)

// NewPublisher conecta y declara el exchange (durable, topic).
func NewPublisher(uri, exchange string, log logger.Logger) (*Publisher, error) {
	if exchange == "" {
		exchange = defaultExchange
	}
	if log == nil {
		log = logger.Nop()
	}

	conn, err := amqp091.Dial(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &Publisher{conn: conn, channel: channel, exchange: exchange, log: log}, nil
}

// activityMessage es el cuerpo JSON publicado.
type activityMessage struct {
	OrganizationID string         `json:"organization_id"`
	ActorID        string         `json:"actor_id"`
	Action         string         `json:"action"`
	ResourceType   string         `json:"resource_type,omitempty"`
	ResourceID     string         `json:"resource_id,omitempty"`
	Details        map[string]any `json:"details,omitempty"`
	OccurredAt     time.Time      `json:"occurred_at"`
}

func newActivityMessage(ev workspace.ActivityEvent) activityMessage {
	return activityMessage{
		OrganizationID: ev.OrganizationID,
		ActorID:        ev.ActorID,
		Action:         ev.Action,
		ResourceType:   ev.ResourceType,
		ResourceID:     ev.ResourceID,
		Details:        ev.Details,
		OccurredAt:     ev.OccurredAt.UTC(),
	}
}

func routingKey(action string) string {
	return "activity." + action
}

func (p *Publisher) Append(ctx context.Context, ev workspace.ActivityEvent) error {
	body, err := json.Marshal(newActivityMessage(ev))
	if err != nil {
		return fmt.Errorf("failed to marshal activity: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(
		pubCtx,
		p.exchange,
		routingKey(ev.Action),
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    ev.OccurredAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish activity: %w", err)
	}

	p.log.Debug("activity published", map[string]any{"action": ev.Action, "organization_id": ev.OrganizationID})
	return nil
}

func (p *Publisher) Close() error {
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			p.log.Warn("error closing RabbitMQ channel", map[string]any{"error": err.Error()})
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("error closing RabbitMQ connection: %w", err)
		}
	}
	return nil
}
