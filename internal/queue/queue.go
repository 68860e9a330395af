package queue

import (
    "context"
    "fmt"
    "log"
    "sync"
    "time"
)

// TopicCampaignDispatch carries campaign IDs whose dispatch was requested
// asynchronously.
const TopicCampaignDispatch = "campaign_dispatch"

// Queue interface
type Queue interface {
    Publish(topic string, payload any) error
    Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue is an in-process queue with retry, used when no broker is
// configured and in tests.
type InMemoryQueue struct {
    mu       sync.Mutex
    handlers map[string][]func(payload any) error
}

func NewInMemoryQueue() *InMemoryQueue {
    return &InMemoryQueue{
        handlers: make(map[string][]func(payload any) error),
    }
}

// JobPayload wraps a message payload with retry info
type JobPayload struct {
    Payload    any
    RetryCount int
    MaxRetries int
}

// Publish sends a message to all subscribers
func (q *InMemoryQueue) Publish(topic string, payload any) error {
    q.mu.Lock()
    handlers := q.handlers[topic]
    q.mu.Unlock()

    if len(handlers) == 0 {
        return fmt.Errorf("no subscribers for topic %s", topic)
    }

    job := JobPayload{
        Payload:    payload,
        RetryCount: 0,
        MaxRetries: 3,
    }

    for _, handler := range handlers {
        go q.processJob(handler, job)
    }

    return nil
}

// processJob handles retries and errors
func (q *InMemoryQueue) processJob(handler func(payload any) error, job JobPayload) {
    for job.RetryCount <= job.MaxRetries {
        err := handler(job.Payload)
        if err == nil {
            return // ACK
        }

        job.RetryCount++
        log.Printf("Job failed (attempt %d/%d): %+v, error: %v\n", job.RetryCount, job.MaxRetries, job.Payload, err)

        if job.RetryCount > job.MaxRetries {
            log.Printf("Job permanently failed after %d attempts: %+v\n", job.MaxRetries, job.Payload)
            return // No requeue
        }

        // Exponential backoff before retry
        time.Sleep(time.Duration(job.RetryCount*500) * time.Millisecond)
    }
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
    q.mu.Lock()
    defer q.mu.Unlock()

    q.handlers[topic] = append(q.handlers[topic], handler)
    return nil
}

// CampaignDispatcher is the slice of the campaign service the subscriber
// needs; kept as an interface here to avoid importing the service package.
type CampaignDispatcher interface {
    DispatchByID(ctx context.Context, campaignID string) error
}

// StartDispatchSubscriber wires queued dispatch requests to the campaign
// service when running with the in-process queue.
func StartDispatchSubscriber(q Queue, svc CampaignDispatcher) {
    go func() {
        err := q.Subscribe(TopicCampaignDispatch, func(payload any) error {
            campaignID, ok := payload.(string)
            if !ok {
                log.Println("⚠️ Invalid payload type, expected campaign id string")
                return nil // no retry
            }

            log.Println("📩 Processing queued dispatch for campaign:", campaignID)
            if err := svc.DispatchByID(context.Background(), campaignID); err != nil {
                log.Println("⚠️ Queued dispatch failed:", err)
                return err // triggers retry in queue
            }
            return nil
        })

        if err != nil {
            log.Println("⚠️ Failed to start subscriber for", TopicCampaignDispatch, ":", err)
        }
    }()
}
