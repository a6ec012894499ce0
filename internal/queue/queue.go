package queue

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/unclebandit/collabhub-backend/internal/logger"
)

const (
	TopicRequestReviewed = "request_reviewed"
	TopicEMVUpdated      = "company_emv_updated"
)

// Queue interface
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue delivers to every subscriber of a topic on its own
// goroutine and retries failed handlers with a linear backoff.
type InMemoryQueue struct {
	mu         sync.Mutex
	handlers   map[string][]func(payload any) error
	maxRetries int
	backoff    time.Duration
	wg         sync.WaitGroup
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		handlers:   make(map[string][]func(payload any) error),
		maxRetries: 3,
		backoff:    500 * time.Millisecond,
	}
}

// WithRetry overrides the retry policy; tests use a zero backoff.
func (q *InMemoryQueue) WithRetry(maxRetries int, backoff time.Duration) *InMemoryQueue {
	q.maxRetries = maxRetries
	q.backoff = backoff
	return q
}

// JobPayload wraps a message payload with retry info
type JobPayload struct {
	Topic      string
	Payload    any
	RetryCount int
	MaxRetries int
}

// Publish sends a message to all subscribers
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := append([]func(payload any) error(nil), q.handlers[topic]...)
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	for _, handler := range handlers {
		job := JobPayload{Topic: topic, Payload: payload, MaxRetries: q.maxRetries}
		q.wg.Add(1)
		go q.processJob(handler, job)
	}
	return nil
}

func (q *InMemoryQueue) processJob(handler func(payload any) error, job JobPayload) {
	defer q.wg.Done()
	log := logger.GetAppLogger().WithField("topic", job.Topic)

	for {
		err := handler(job.Payload)
		if err == nil {
			log.Debug("job processed")
			return
		}

		job.RetryCount++
		if job.RetryCount > job.MaxRetries {
			log.WithError(err).Errorf("job permanently failed after %d attempts", job.RetryCount)
			return
		}
		log.WithError(err).WithFields(logrus.Fields{
			"attempt":     job.RetryCount,
			"max_retries": job.MaxRetries,
		}).Warn("job failed, retrying")
		time.Sleep(time.Duration(job.RetryCount) * q.backoff)
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// Wait blocks until every published job has finished.
func (q *InMemoryQueue) Wait() {
	q.wg.Wait()
}

var _ Queue = (*InMemoryQueue)(nil)
