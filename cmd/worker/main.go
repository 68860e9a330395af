// cmd/worker/main.go
package main

import (
    "context"
    "encoding/json"
    "log"

    "github.com/joho/godotenv"
    "github.com/streadway/amqp"

    "github.com/phishsim/phishsim-backend/internal/config"
    "github.com/phishsim/phishsim-backend/internal/db"
    "github.com/phishsim/phishsim-backend/internal/mailer"
    "github.com/phishsim/phishsim-backend/internal/queue"
    "github.com/phishsim/phishsim-backend/internal/repository"
    "github.com/phishsim/phishsim-backend/internal/service"
    "github.com/phishsim/phishsim-backend/internal/tracking"
)

func main() {
    if err := godotenv.Load(); err != nil {
        log.Println("⚠️ No .env file found, relying on OS environment variables")
    }

    cfg, err := config.Load()
    if err != nil {
        log.Fatal("failed to load config:", err)
    }
    if cfg.AMQPURL == "" {
        log.Fatal("AMQP_URL is required for the worker")
    }

    conn, err := db.Open(cfg.DB)
    if err != nil {
        log.Fatal("failed to connect to DB:", err)
    }
    defer conn.Close()

    smtpSender, err := mailer.NewSMTPSender(cfg.SMTP)
    if err != nil {
        log.Fatal("failed to build mailer:", err)
    }

    campaignRepo := &repository.CampaignRepository{DB: conn}
    campaignService := &service.CampaignService{
        CampaignRepo: campaignRepo,
        ResultRepo:   &repository.DispatchResultRepository{DB: conn},
        EventRepo:    &repository.TrackingEventRepository{DB: conn},
        Dispatcher: &service.Dispatcher{
            Mailer:    smtpSender,
            Codec:     tracking.NewCodec(cfg.BaseURL),
            Workers:   cfg.Dispatch.Workers,
            SendDelay: cfg.Dispatch.SendDelay,
        },
        Mailer: smtpSender,
    }

    // Connect to RabbitMQ
    mqConn, err := amqp.Dial(cfg.AMQPURL)
    if err != nil {
        log.Fatal("Failed to connect to RabbitMQ:", err)
    }
    defer mqConn.Close()

    ch, err := mqConn.Channel()
    if err != nil {
        log.Fatal("Failed to open a channel:", err)
    }
    defer ch.Close()

    q, err := ch.QueueDeclare(
        queue.TopicCampaignDispatch,
        true,  // durable
        false, // delete when unused
        false, // exclusive
        false, // no-wait
        nil,   // arguments
    )
    if err != nil {
        log.Fatal("Failed to declare queue:", err)
    }

    msgs, err := ch.Consume(
        q.Name,
        "",
        false, // autoAck = false for reliability
        false,
        false,
        false,
        nil,
    )
    if err != nil {
        log.Fatal("Failed to register consumer:", err)
    }

    forever := make(chan bool)

    go func() {
        for d := range msgs {
            var job queue.DispatchJob
            if err := json.Unmarshal(d.Body, &job); err != nil {
                log.Println("Invalid job:", err)
                d.Ack(false)
                continue
            }

            log.Println("📩 Dispatching queued campaign:", job.CampaignID)
            if err := campaignService.DispatchByID(context.Background(), job.CampaignID); err != nil {
                log.Println("Failed to dispatch campaign:", err)
                // Redelivered jobs get one more chance, then drop.
                if !d.Redelivered {
                    d.Nack(false, true)
                    continue
                }
            }

            d.Ack(false)
        }
    }()

    log.Println("Worker running, waiting for dispatch jobs...")
    <-forever
}
