// internal/service/campaign_service.go
package service

import (
    "context"
    "fmt"
    "log"
    "time"

    "github.com/phishsim/phishsim-backend/internal/mailer"
    "github.com/phishsim/phishsim-backend/internal/model"
    "github.com/phishsim/phishsim-backend/internal/queue"
    "github.com/phishsim/phishsim-backend/internal/repository"
)

type CampaignService struct {
    CampaignRepo repository.CampaignRepositoryInterface
    ResultRepo   repository.DispatchResultRepositoryInterface
    EventRepo    repository.TrackingEventRepositoryInterface
    Dispatcher   *Dispatcher
    Mailer       mailer.Sender
    Queue        queue.Queue
}

// CampaignDetails is the GET /campaigns/{id} payload: the stored campaign
// plus dispatch outcomes and tracking activity.
type CampaignDetails struct {
    Campaign      *model.Campaign        `json:"campaign"`
    DispatchStats map[string]int         `json:"dispatch_stats"`
    TrackingStats map[string]int         `json:"tracking_stats"`
    Results       []model.DispatchResult `json:"results"`
}

// CreateCampaign stores a new campaign. Input shape is validated at the
// HTTP boundary; this only guards invariants the store relies on.
func (s *CampaignService) CreateCampaign(name, subject, message string, recipients []string) (*model.Campaign, error) {
    if len(recipients) == 0 {
        return nil, fmt.Errorf("campaign must have at least one recipient")
    }

    c := &model.Campaign{
        Name:       name,
        Subject:    subject,
        Message:    message,
        Recipients: recipients,
        CreatedAt:  time.Now(),
    }
    if err := s.CampaignRepo.Create(c); err != nil {
        return nil, err
    }
    return c, nil
}

// DispatchCampaign runs the full send and persists the per-recipient
// outcomes. The campaign record itself is never mutated.
func (s *CampaignService) DispatchCampaign(ctx context.Context, campaign *model.Campaign) (*model.CampaignSummary, error) {
    summary, err := s.Dispatcher.Dispatch(ctx, campaign)
    if err != nil {
        return nil, err
    }

    if err := s.ResultRepo.SaveResults(campaign.ID, summary.Results); err != nil {
        // The emails are already out; losing the audit trail is worth a log
        // line but not a failed response.
        log.Println("⚠️ failed to persist dispatch results for campaign", campaign.ID, ":", err)
    }

    log.Printf("✅ Campaign %s dispatched: %d/%d sent", campaign.ID, summary.Success, summary.Total)
    return summary, nil
}

// DispatchByID loads and dispatches a stored campaign; used by the queue
// worker for asynchronous re-sends.
func (s *CampaignService) DispatchByID(ctx context.Context, campaignID string) error {
    campaign, err := s.CampaignRepo.GetByID(campaignID)
    if err != nil {
        return err
    }
    _, err = s.DispatchCampaign(ctx, campaign)
    return err
}

// EnqueueDispatch requests an asynchronous dispatch via the queue.
func (s *CampaignService) EnqueueDispatch(campaignID string) error {
    return s.Queue.Publish(queue.TopicCampaignDispatch, campaignID)
}

func (s *CampaignService) ListCampaigns() ([]model.Campaign, error) {
    return s.CampaignRepo.List()
}

func (s *CampaignService) DeleteCampaign(id string) (*model.Campaign, error) {
    return s.CampaignRepo.Delete(id)
}

func (s *CampaignService) GetCampaignDetails(id string) (*CampaignDetails, error) {
    campaign, err := s.CampaignRepo.GetByID(id)
    if err != nil {
        return nil, err
    }

    dispatchStats, err := s.ResultRepo.StatsByCampaign(id)
    if err != nil {
        return nil, err
    }

    trackingStats, err := s.EventRepo.CountsByType(id)
    if err != nil {
        return nil, err
    }

    results, err := s.ResultRepo.ListByCampaign(id)
    if err != nil {
        return nil, err
    }

    return &CampaignDetails{
        Campaign:      campaign,
        DispatchStats: dispatchStats,
        TrackingStats: trackingStats,
        Results:       results,
    }, nil
}

// SendTestEmail sends one fixed diagnostic message, bypassing the
// dispatcher, so operators can verify the transport configuration.
func (s *CampaignService) SendTestEmail(ctx context.Context, email string) (string, error) {
    body := fmt.Sprintf(`
        <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
          <h2 style="color: #3b82f6;">Test email delivered</h2>
          <p>This message was sent by PhishSim to verify the mail transport configuration.</p>
          <p><strong>Time:</strong> %s</p>
          <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
          <p style="color: #666; font-size: 12px;">
            If you are reading this, the SMTP settings are working.
          </p>
        </div>`, time.Now().Format(time.RFC1123))

    return s.Mailer.Send(ctx, email, "Test Email - PhishSim", body)
}
