// Package rabbitmq publishes applied payments to an AMQP exchange so the
// back-office can consume them asynchronously.
package rabbitmq

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/vanaways/paylink/db/models"
	"github.com/ziflex/lecho/v3"
)

// bufPool reuses encode buffers between publishes instead of allocating a
// fresh one per payment.
var bufPool = sync.Pool{
	New: func() interface{} { return new(bytes.Buffer) },
}

const contentTypeJSON = "application/json"

type Client interface {
	PublishPayment(ctx context.Context, payment *models.Payment) error
	// Close will close all connections to rabbitmq
	Close() error
}

type DefaultClient struct {
	conn           *amqp.Connection
	publishChannel *amqp.Channel

	logger *lecho.Logger

	paymentExchange string
}

type ClientOption = func(client *DefaultClient)

func WithPaymentExchange(exchange string) ClientOption {
	return func(client *DefaultClient) {
		client.paymentExchange = exchange
	}
}

func WithLogger(logger *lecho.Logger) ClientOption {
	return func(client *DefaultClient) {
		client.logger = logger
	}
}

// Dial sets up a connection to rabbitmq with a channel that is ready to
// publish, and declares the payment exchange.
func Dial(uri string, options ...ClientOption) (Client, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, err
	}

	publishChannel, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	client := &DefaultClient{
		conn:            conn,
		publishChannel:  publishChannel,
		paymentExchange: "paylink_payment",
	}

	for _, opt := range options {
		opt(client)
	}

	err = client.publishChannel.ExchangeDeclare(
		client.paymentExchange,
		// topic is a type of exchange that allows routing messages to
		// different queues based on the routing key
		"topic",
		// durable keeps the exchange around between rabbitmq restarts
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}

func (client *DefaultClient) Close() error {
	return client.conn.Close()
}

// PublishPayment publishes the applied payment under the routing key
// payment.settled.<cashflow hash>.
func (client *DefaultClient) PublishPayment(ctx context.Context, payment *models.Payment) error {
	payload := bufPool.Get().(*bytes.Buffer)
	payload.Reset()
	defer bufPool.Put(payload)

	err := json.NewEncoder(payload).Encode(payment)
	if err != nil {
		return err
	}

	key := "payment." + payment.State + "." + payment.CashflowHash
	if client.logger != nil {
		client.logger.Debugf("Publishing payment to rabbitmq exchange:%s key:%s", client.paymentExchange, key)
	}

	return client.publishChannel.PublishWithContext(ctx,
		client.paymentExchange,
		key,
		false,
		false,
		amqp.Publishing{
			ContentType: contentTypeJSON,
			Body:        payload.Bytes(),
		},
	)
}
