package repository

import (
    "database/sql"
    "time"

    "github.com/phishsim/phishsim-backend/internal/model"
)

type TrackingEventRepositoryInterface interface {
    Insert(e *model.TrackingEvent) error
    ListByCampaign(campaignID string) ([]model.TrackingEvent, error)
    CountsByType(campaignID string) (map[string]int, error)
}

// TrackingEventRepository persists tracking hits. Inserts happen straight
// from inbound HTTP traffic and must tolerate concurrent writes; each event
// is an independent row, so no coordination is needed beyond the DB itself.
type TrackingEventRepository struct {
    DB *sql.DB
}

func (r *TrackingEventRepository) Insert(e *model.TrackingEvent) error {
    if e.CreatedAt.IsZero() {
        e.CreatedAt = time.Now()
    }
    query := `
        INSERT INTO tracking_events (campaign_id, recipient, event_type, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `
    return r.DB.QueryRow(query, e.CampaignID, e.Recipient, string(e.EventType), e.CreatedAt).Scan(&e.ID)
}

func (r *TrackingEventRepository) ListByCampaign(campaignID string) ([]model.TrackingEvent, error) {
    query := `
        SELECT id, campaign_id, recipient, event_type, created_at
        FROM tracking_events
        WHERE campaign_id=$1
        ORDER BY created_at ASC
    `
    rows, err := r.DB.Query(query, campaignID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    events := []model.TrackingEvent{}
    for rows.Next() {
        var e model.TrackingEvent
        var eventType string
        if err := rows.Scan(&e.ID, &e.CampaignID, &e.Recipient, &eventType, &e.CreatedAt); err != nil {
            return nil, err
        }
        e.EventType = model.EventType(eventType)
        events = append(events, e)
    }
    return events, rows.Err()
}

func (r *TrackingEventRepository) CountsByType(campaignID string) (map[string]int, error) {
    query := `SELECT event_type, COUNT(*) FROM tracking_events WHERE campaign_id=$1 GROUP BY event_type`
    rows, err := r.DB.Query(query, campaignID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    stats := map[string]int{"open": 0, "click": 0}
    for rows.Next() {
        var eventType string
        var count int
        if err := rows.Scan(&eventType, &count); err != nil {
            return nil, err
        }
        stats[eventType] = count
    }
    return stats, rows.Err()
}

var _ TrackingEventRepositoryInterface = (*TrackingEventRepository)(nil)
