package rabbitmq

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
)

const (
	Exchange = "payroll.events"

	RoutingKeyClaimApproved   = "claim.approved"
	RoutingKeyPaymentReminder = "payment.reminder"
)

// ClaimApprovedEvent is published when an employer approves a claim. The
// external payment executor consumes it, moves the funds, and stamps the claim
// paid through the settlement endpoint.
type ClaimApprovedEvent struct {
	ClaimID    uuid.UUID       `json:"claim_id"`
	ScheduleID *uuid.UUID      `json:"schedule_id,omitempty"`
	EmployerID string          `json:"employer_id"`
	WorkerID   string          `json:"worker_id"`
	Amount     decimal.Decimal `json:"amount"`
	ApprovedAt time.Time       `json:"approved_at"`
}

// PaymentReminderEvent is published by the scheduler for overdue schedules.
// Delivery to humans is the notification system's job, not ours.
type PaymentReminderEvent struct {
	ScheduleID      uuid.UUID       `json:"schedule_id"`
	EmployerID      string          `json:"employer_id"`
	WorkerID        string          `json:"worker_id"`
	Amount          decimal.Decimal `json:"amount"`
	NextPaymentDate time.Time       `json:"next_payment_date"`
}

// Publisher is the interface implemented by types that can publish events.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body interface{}) error
	Close()
}

// EventProducer holds the RabbitMQ connection and channel for publishing messages.
type EventProducer struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

// NewEventProducer connects to RabbitMQ and declares the events exchange.
func NewEventProducer(amqpURL string) (*EventProducer, error) {
	conn, err := amqp091.DialConfig(amqpURL, amqp091.Config{Dial: amqp091.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &EventProducer{conn: conn, channel: ch}, nil
}

func (p *EventProducer) Publish(ctx context.Context, routingKey string, body interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	return p.channel.PublishWithContext(ctx, Exchange, routingKey, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
		Body:         payload,
	})
}

func (p *EventProducer) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

// NoopPublisher is used when the broker is unreachable at startup. Mutations
// still succeed; the skipped publish is logged for reconciliation.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, routingKey string, body interface{}) error {
	log.Printf("rabbitmq publisher in fallback mode, publish skipped: routing_key=%s", routingKey)
	return nil
}

func (NoopPublisher) Close() {}
