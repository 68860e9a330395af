package queue

import (
    "encoding/json"
    "fmt"

    "github.com/streadway/amqp"
)

// DispatchJob is the wire shape of one queued dispatch request.
type DispatchJob struct {
    CampaignID string `json:"campaign_id"`
}

// AMQPQueue publishes dispatch jobs to RabbitMQ; cmd/worker consumes them.
// Subscribe is not supported here — consumption happens in the worker
// process over a durable channel.
type AMQPQueue struct {
    conn *amqp.Connection
    ch   *amqp.Channel
}

func NewAMQPQueue(url string) (*AMQPQueue, error) {
    conn, err := amqp.Dial(url)
    if err != nil {
        return nil, fmt.Errorf("queue: connect to broker: %w", err)
    }

    ch, err := conn.Channel()
    if err != nil {
        conn.Close()
        return nil, fmt.Errorf("queue: open channel: %w", err)
    }

    if _, err := ch.QueueDeclare(
        TopicCampaignDispatch,
        true,  // durable
        false, // delete when unused
        false, // exclusive
        false, // no-wait
        nil,   // arguments
    ); err != nil {
        ch.Close()
        conn.Close()
        return nil, fmt.Errorf("queue: declare %s: %w", TopicCampaignDispatch, err)
    }

    return &AMQPQueue{conn: conn, ch: ch}, nil
}

func (q *AMQPQueue) Publish(topic string, payload any) error {
    campaignID, ok := payload.(string)
    if !ok {
        return fmt.Errorf("queue: expected campaign id string, got %T", payload)
    }

    body, err := json.Marshal(DispatchJob{CampaignID: campaignID})
    if err != nil {
        return err
    }

    return q.ch.Publish(
        "",
        topic,
        false,
        false,
        amqp.Publishing{
            ContentType: "application/json",
            Body:        body,
        },
    )
}

func (q *AMQPQueue) Subscribe(topic string, handler func(payload any) error) error {
    return fmt.Errorf("queue: AMQP consumption runs in cmd/worker, not in-process")
}

func (q *AMQPQueue) Close() error {
    if err := q.ch.Close(); err != nil {
        q.conn.Close()
        return err
    }
    return q.conn.Close()
}

var _ Queue = (*AMQPQueue)(nil)
