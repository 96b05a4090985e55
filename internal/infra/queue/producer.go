package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ExportPayload asks the worker to render one spotlight report and email it.
// Report is "setters" or "closers"; From/To/TZ are the already-validated
// request parameters, re-validated by the worker before rendering.
type ExportPayload struct {
	Report    string `json:"report"`
	From      string `json:"from"`
	To        string `json:"to"`
	TZ        string `json:"tz"`
	Recipient string `json:"recipient"`
}

type ExportProducerInterface interface {
	PublishExport(ctx context.Context, payload ExportPayload) error
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{Conn: conn, Ch: ch}
}

func (p *RabbitMQProducer) PublishExport(ctx context.Context, payload ExportPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal export payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publish export job: %w", err)
	}
	return nil
}
