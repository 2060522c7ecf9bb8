package rabbit

import (
	"context"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Client wraps one connection/channel pair bound to the delayed-message
// exchange used for scheduled reminder sends.
type Client struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	queue    string
	log      *zerolog.Logger
}

func New(url, exchange, queue string, log *zerolog.Logger) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	client := &Client{
		conn:     conn,
		channel:  ch,
		exchange: exchange,
		queue:    queue,
		log:      log,
	}

	if err := ch.ExchangeDeclare(
		exchange,
		"x-delayed-message",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		amqp.Table{"x-delayed-type": "direct"},
	); err != nil {
		client.Close()
		return nil, err
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		client.Close()
		return nil, err
	}

	if err := ch.QueueBind(queue, "", exchange, false, nil); err != nil {
		client.Close()
		return nil, err
	}

	log.Info().Str("exchange", exchange).Str("queue", queue).Msg("reminder queue ready")
	return client, nil
}

func (c *Client) Close() {
	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// delayHeaders builds the per-message headers the delayed exchange reads.
// A zero delay publishes for immediate delivery.
func delayHeaders(delay time.Duration) amqp.Table {
	headers := amqp.Table{}
	if delay > 0 {
		headers["x-delay"] = int32(delay.Milliseconds())
	}
	return headers
}

// Publish sends one reminder payload; a positive delay holds it in the
// exchange until the delay elapses.
func (c *Client) Publish(ctx context.Context, payload []byte, delay time.Duration) error {
	err := c.channel.PublishWithContext(ctx,
		c.exchange,
		"",
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        payload,
			Timestamp:   time.Now(),
			Headers:     delayHeaders(delay),
		},
	)
	if err != nil {
		c.log.Error().Err(err).Msg("failed to publish reminder")
		return err
	}

	c.log.Debug().
		Str("exchange", c.exchange).
		Dur("delay", delay).
		Msg("reminder published")
	return nil
}

// Consume feeds each delivery to the handler. A handler error requeues the
// delivery once the broker redelivers it.
func (c *Client) Consume(handler func([]byte) error) error {
	msgs, err := c.channel.Consume(
		c.queue,
		"",
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	go func() {
		for d := range msgs {
			if err := handler(d.Body); err != nil {
				c.log.Warn().Err(err).Msg("reminder handling failed, requeueing")
				_ = d.Nack(false, true)
				continue
			}
			_ = d.Ack(false)
		}
	}()

	c.log.Info().Str("queue", c.queue).Msg("consuming reminders")
	return nil
}
