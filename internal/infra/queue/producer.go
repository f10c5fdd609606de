package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Lead event names carried on the wire.
const (
	EventLeadCreated    = "lead.created"
	EventLeadApproved   = "lead.approved"
	EventPitchCompleted = "lead.pitched"
	EventRemarkAdded    = "lead.remark_added"
	EventLeadOnboarded  = "lead.onboarded"
	EventShopVisit      = "lead.shop_visit"
)

type LeadEventPayload struct {
	Event      string    `json:"event"`
	LeadID     string    `json:"lead_id"`
	LeadName   string    `json:"lead_name"`
	Stage      string    `json:"stage"`
	Status     string    `json:"status"`
	Actor      string    `json:"actor"`
	AssignedTo string    `json:"assigned_to,omitempty"`
	ApprovedBy string    `json:"approved_by,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{
		Conn: conn,
		Ch:   ch,
	}
}

func (p *RabbitMQProducer) PublishLeadEvent(ctx context.Context, payload LeadEventPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)

	if err != nil {
		return fmt.Errorf("failed to publish lead event: %w", err)
	}

	return nil
}
