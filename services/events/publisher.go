package events

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/mailpin/mailpin/interfaces"
	"github.com/mailpin/mailpin/internal/logger"
	"github.com/mailpin/mailpin/internal/utils"
)

const (
	eventsExchange          = "mailpin.events"
	emailReceivedRoutingKey = "email.received"
)

type EmailReceivedEvent struct {
	EmailID        string `json:"emailId"`
	SubmissionHash string `json:"submissionHash"`
	OccurredAt     string `json:"occurredAt"`
}

type publisher struct {
	log     logger.Logger
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewPublisher connects to RabbitMQ and declares the events exchange.
// An empty url disables eventing: the returned publisher is nil and
// callers must treat a nil publisher as "not configured".
func NewPublisher(url string, log logger.Logger) (interfaces.EventsPublisher, error) {
	if url == "" {
		return nil, nil
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	if err := channel.ExchangeDeclare(eventsExchange, "topic", true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	return &publisher{
		log:     log,
		conn:    conn,
		channel: channel,
	}, nil
}

// PublishEmailReceived emits the post-ingestion event. Best effort: a
// publish failure is logged and the request proceeds unaffected.
func (p *publisher) PublishEmailReceived(ctx context.Context, emailID, submissionHash string) {
	event := EmailReceivedEvent{
		EmailID:        emailID,
		SubmissionHash: submissionHash,
		OccurredAt:     utils.Now().Format("2006-01-02T15:04:05.000Z07:00"),
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.log.Errorf("failed to encode email.received event: %v", err)
		return
	}

	err = p.channel.PublishWithContext(ctx, eventsExchange, emailReceivedRoutingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		p.log.Errorf("failed to publish email.received event for %s: %v", emailID, err)
	}
}

func (p *publisher) Close() error {
	if err := p.channel.Close(); err != nil {
		return err
	}
	return p.conn.Close()
}
