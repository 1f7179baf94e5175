package rabbitmq

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/ziflex/lecho/v3"
)

// bufPool reuses encode buffers between publishes. With the sequential
// jobs there is a single buffer in the pool at all times, but request
// handlers publishing concurrently will scale it.
var bufPool = sync.Pool{
	New: func() interface{} { return new(bytes.Buffer) },
}

const contentTypeJSON = "application/json"

// Routing keys published on the events exchange.
const (
	EventInvoiceCreated  = "invoice.created"
	EventInvoiceSettled  = "invoice.settled"
	EventPaymentSettled  = "payment.settled"
	EventPayoutSucceeded = "payout.succeeded"
	EventPayoutFailed    = "payout.failed"
)

// Client publishes domain lifecycle events. When no RABBITMQ_URI is
// configured the service runs without one and publishing is skipped.
type Client interface {
	PublishEvent(ctx context.Context, routingKey string, payload interface{}) error
	// Close will close all connections to rabbitmq
	Close() error
}

type DefaultClient struct {
	conn           *amqp.Connection
	publishChannel *amqp.Channel

	logger *lecho.Logger

	eventsExchange string
}

type ClientOption = func(client *DefaultClient)

func WithEventsExchange(exchange string) ClientOption {
	return func(client *DefaultClient) {
		client.eventsExchange = exchange
	}
}

func WithLogger(logger *lecho.Logger) ClientOption {
	return func(client *DefaultClient) {
		client.logger = logger
	}
}

func DialAMQP(uri string) (*amqp.Connection, error) {
	return amqp.Dial(uri)
}

func NewClient(conn *amqp.Connection, options ...ClientOption) (Client, error) {
	client := &DefaultClient{
		conn:           conn,
		eventsExchange: "pmp_events",
	}
	for _, opt := range options {
		opt(client)
	}

	publishChannel, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	err = publishChannel.ExchangeDeclare(
		client.eventsExchange,
		// topic exchange so consumers can bind per event family
		"topic",
		// durable
		true,
		// auto delete
		false,
		// internal
		false,
		// no wait
		false,
		nil,
	)
	if err != nil {
		return nil, err
	}
	client.publishChannel = publishChannel

	return client, nil
}

func (client *DefaultClient) PublishEvent(ctx context.Context, routingKey string, payload interface{}) error {
	buf := bufPool.Get().(*bytes.Buffer)
	defer bufPool.Put(buf)
	buf.Reset()

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		return err
	}
	err := client.publishChannel.PublishWithContext(ctx,
		client.eventsExchange,
		routingKey,
		// mandatory
		false,
		// immediate
		false,
		amqp.Publishing{
			ContentType: contentTypeJSON,
			Body:        buf.Bytes(),
		},
	)
	if err != nil && client.logger != nil {
		client.logger.Errorf("Failed to publish %s event: %v", routingKey, err)
	}
	return err
}

func (client *DefaultClient) Close() error {
	if err := client.publishChannel.Close(); err != nil {
		return err
	}
	return client.conn.Close()
}
