package queue

import (
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// NotificationSender is the contract the worker needs from the mail layer.
type NotificationSender interface {
	SendAssignment(to, leadName, approvedBy string) error
	SendOnboarded(to, leadName string) error
}

type Worker struct {
	Channel *amqp.Channel
	Sender  NotificationSender
}

func NewWorker(ch *amqp.Channel, sender NotificationSender) *Worker {
	return &Worker{
		Channel: ch,
		Sender:  sender,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack (manual is safer)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		log.Fatalf("failed to register RabbitMQ consumer: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload LeadEventPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("[WORKER] invalid JSON: %s", err)
				// Malformed message. Reject without requeue so the queue
				// does not wedge on it.
				d.Nack(false, false)
				continue
			}

			if err := w.processEvent(payload); err != nil {
				log.Printf("[WORKER] notification failed for %s: %s", payload.LeadID, err)
				d.Nack(false, false)
			} else {
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] Worker waiting on queue '%s'", queueName)
	<-forever
}

func (w *Worker) processEvent(payload LeadEventPayload) error {
	switch payload.Event {
	case EventLeadApproved:
		if payload.AssignedTo == "" {
			return nil
		}
		return w.Sender.SendAssignment(payload.AssignedTo, payload.LeadName, payload.Actor)

	case EventLeadOnboarded:
		if payload.ApprovedBy == "" {
			return nil
		}
		return w.Sender.SendOnboarded(payload.ApprovedBy, payload.LeadName)

	default:
		// Nothing to notify for this event; ack and move on.
		return nil
	}
}
