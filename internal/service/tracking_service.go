// internal/service/tracking_service.go
package service

import (
    "errors"
    "log"
    "time"

    appErrors "github.com/phishsim/phishsim-backend/internal/errors"
    "github.com/phishsim/phishsim-backend/internal/model"
    "github.com/phishsim/phishsim-backend/internal/repository"
    "github.com/phishsim/phishsim-backend/internal/tracking"
)

// TrackingService turns raw tracking hits into stored events. It is
// stateless and safe under arbitrary concurrent invocation.
type TrackingService struct {
    Codec        *tracking.Codec
    CampaignRepo repository.CampaignRepositoryInterface
    EventRepo    repository.TrackingEventRepositoryInterface
}

// RecordHit decodes the token, resolves the campaign and stores one event.
// A malformed token or a deleted campaign yields an error and no event; the
// HTTP layer still answers with a success-looking response so probing
// clients learn nothing about token validity.
func (s *TrackingService) RecordHit(rawToken string, eventType model.EventType) (*model.TrackingEvent, error) {
    campaignID, recipient, err := s.Codec.Decode(rawToken)
    if err != nil {
        return nil, err
    }

    if _, err := s.CampaignRepo.GetByID(campaignID); err != nil {
        var notFound *appErrors.ErrCampaignNotFound
        if errors.As(err, &notFound) {
            return nil, appErrors.NewUnknownCampaign(campaignID)
        }
        return nil, err
    }

    event := &model.TrackingEvent{
        CampaignID: campaignID,
        Recipient:  recipient,
        EventType:  eventType,
        CreatedAt:  time.Now(),
    }
    if err := s.EventRepo.Insert(event); err != nil {
        return nil, err
    }

    log.Printf("📩 %s recorded: campaign=%s recipient=%s", eventType, campaignID, recipient)
    return event, nil
}
