// cmd/server/main.go
package main

import (
    "encoding/json"
    "log"
    "net/http"

    "github.com/go-chi/chi/v5"
    "github.com/go-chi/cors"
    "github.com/joho/godotenv"

    "github.com/phishsim/phishsim-backend/internal/config"
    "github.com/phishsim/phishsim-backend/internal/controller"
    "github.com/phishsim/phishsim-backend/internal/db"
    "github.com/phishsim/phishsim-backend/internal/handler"
    "github.com/phishsim/phishsim-backend/internal/mailer"
    "github.com/phishsim/phishsim-backend/internal/queue"
    "github.com/phishsim/phishsim-backend/internal/repository"
    "github.com/phishsim/phishsim-backend/internal/service"
    "github.com/phishsim/phishsim-backend/internal/tracking"
)

func main() {
    // Load .env
    if err := godotenv.Load(); err != nil {
        log.Println("⚠️ No .env file found, relying on OS environment variables")
    }

    cfg, err := config.Load()
    if err != nil {
        log.Fatalf("failed to load config: %v", err)
    }

    conn, err := db.Open(cfg.DB)
    if err != nil {
        log.Fatalf("failed to open DB: %v", err)
    }
    defer conn.Close()

    campaignRepo := &repository.CampaignRepository{DB: conn}
    resultRepo := &repository.DispatchResultRepository{DB: conn}
    eventRepo := &repository.TrackingEventRepository{DB: conn}

    smtpSender, err := mailer.NewSMTPSender(cfg.SMTP)
    if err != nil {
        log.Fatalf("failed to build mailer: %v", err)
    }

    codec := tracking.NewCodec(cfg.BaseURL)
    dispatcher := &service.Dispatcher{
        Mailer:    smtpSender,
        Codec:     codec,
        Workers:   cfg.Dispatch.Workers,
        SendDelay: cfg.Dispatch.SendDelay,
    }

    campaignService := &service.CampaignService{
        CampaignRepo: campaignRepo,
        ResultRepo:   resultRepo,
        EventRepo:    eventRepo,
        Dispatcher:   dispatcher,
        Mailer:       smtpSender,
    }

    // Async dispatch goes through RabbitMQ when a broker is configured and
    // falls back to the in-process queue otherwise.
    if cfg.AMQPURL != "" {
        amqpQueue, err := queue.NewAMQPQueue(cfg.AMQPURL)
        if err != nil {
            log.Fatalf("failed to connect to queue: %v", err)
        }
        defer amqpQueue.Close()
        campaignService.Queue = amqpQueue
    } else {
        q := queue.NewInMemoryQueue()
        queue.StartDispatchSubscriber(q, campaignService)
        campaignService.Queue = q
    }

    trackingService := &service.TrackingService{
        Codec:        codec,
        CampaignRepo: campaignRepo,
        EventRepo:    eventRepo,
    }

    campaignController := controller.NewCampaignController(campaignService)
    trackHandler := &handler.TrackHandler{
        Tracking:   trackingService,
        LandingURL: cfg.LandingURL,
    }

    r := chi.NewRouter()
    r.Use(cors.Handler(cors.Options{
        AllowedOrigins:   []string{cfg.FrontendURL},
        AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
        AllowedHeaders:   []string{"Accept", "Content-Type"},
        AllowCredentials: true,
    }))

    r.Get("/api/health", func(w http.ResponseWriter, _ *http.Request) {
        w.Header().Set("Content-Type", "application/json")
        json.NewEncoder(w).Encode(map[string]string{"status": "OK", "message": "Server is running"})
    })
    r.Get("/api/email-config", func(w http.ResponseWriter, _ *http.Request) {
        w.Header().Set("Content-Type", "application/json")
        json.NewEncoder(w).Encode(map[string]interface{}{
            "smtp_host":      cfg.SMTP.Host,
            "smtp_port":      cfg.SMTP.Port,
            "smtp_user":      maskUser(cfg.SMTP.User),
            "smtp_from":      cfg.SMTP.From,
            "smtp_from_name": cfg.SMTP.FromName,
            "base_url":       cfg.BaseURL,
        })
    })

    // Campaign routes
    r.Post("/api/campaigns", campaignController.CreateCampaign)
    r.Get("/api/campaigns", campaignController.ListCampaigns)
    r.Get("/api/campaigns/{id}", campaignController.GetCampaign)
    r.Delete("/api/campaigns/{id}", campaignController.DeleteCampaign)
    r.Post("/api/campaigns/{id}/dispatch", campaignController.RedispatchCampaign)
    r.Post("/api/campaigns/test-email", campaignController.TestEmail)

    // Tracking routes
    r.Get("/api/track/open/{token}", trackHandler.HandleOpen)
    r.Get("/api/track/click/{token}", trackHandler.HandleClick)

    log.Println("🚀 Server running on :" + cfg.Port)
    log.Fatal(http.ListenAndServe(":"+cfg.Port, r))
}

func maskUser(user string) string {
    if user == "" {
        return "Not set"
    }
    if len(user) <= 4 {
        return "***"
    }
    return "***" + user[len(user)-4:]
}
