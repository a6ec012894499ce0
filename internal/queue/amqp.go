package queue

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/streadway/amqp"

	"github.com/unclebandit/collabhub-backend/internal/logger"
)

const retryHeader = "x-retry-count"

// AMQPQueue publishes JSON messages to durable queues named after the topic
// and consumes them with manual acks. A failed delivery is republished with
// an incremented retry header until maxRetries, then dropped.
type AMQPQueue struct {
	conn       *amqp.Connection
	ch         *amqp.Channel
	mu         sync.Mutex
	declared   map[string]bool
	maxRetries int
}

func DialAMQP(url string) (*AMQPQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open a channel: %w", err)
	}
	return &AMQPQueue{conn: conn, ch: ch, declared: map[string]bool{}, maxRetries: 3}, nil
}

func (q *AMQPQueue) Close() error {
	if err := q.ch.Close(); err != nil {
		q.conn.Close()
		return err
	}
	return q.conn.Close()
}

func (q *AMQPQueue) declare(topic string) error {
	if q.declared[topic] {
		return nil
	}
	_, err := q.ch.QueueDeclare(
		topic, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", topic, err)
	}
	q.declared[topic] = true
	return nil
}

func (q *AMQPQueue) Publish(topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s message: %w", topic, err)
	}
	return q.publish(topic, body, 0)
}

func (q *AMQPQueue) publish(topic string, body []byte, retries int) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.declare(topic); err != nil {
		return err
	}
	return q.ch.Publish(
		"",
		topic,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Headers:      amqp.Table{retryHeader: int32(retries)},
			Body:         body,
		},
	)
}

// Subscribe consumes topic on a background goroutine. The handler receives
// the raw JSON body.
func (q *AMQPQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	if err := q.declare(topic); err != nil {
		q.mu.Unlock()
		return err
	}
	msgs, err := q.ch.Consume(
		topic,
		"",
		false, // autoAck = false for reliability
		false,
		false,
		false,
		nil,
	)
	q.mu.Unlock()
	if err != nil {
		return fmt.Errorf("register consumer on %s: %w", topic, err)
	}

	go func() {
		for d := range msgs {
			handleDelivery(d, topic, q.maxRetries, handler, q.publish)
		}
	}()
	return nil
}

// handleDelivery runs handler on one delivery and settles it.
func handleDelivery(d amqp.Delivery, topic string, maxRetries int, handler func(payload any) error, republish func(topic string, body []byte, retries int) error) {
	log := logger.GetAppLogger().WithField("topic", topic)

	err := handler(d.Body)
	if err == nil {
		d.Ack(false)
		return
	}

	retries := retryCount(d.Headers)
	if retries < maxRetries {
		if pubErr := republish(topic, d.Body, retries+1); pubErr == nil {
			log.WithError(err).Warnf("delivery failed, requeued (attempt %d/%d)", retries+1, maxRetries)
			d.Ack(false)
			return
		}
		// could not republish; let the broker redeliver it as is
		d.Nack(false, true)
		return
	}

	log.WithError(err).Errorf("delivery dropped after %d retries", retries)
	d.Nack(false, false)
}

func retryCount(headers amqp.Table) int {
	switch v := headers[retryHeader].(type) {
	case int:
		return v
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		return int(v)
	}
	return 0
}

var _ Queue = (*AMQPQueue)(nil)
