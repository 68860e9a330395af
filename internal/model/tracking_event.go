// internal/model/tracking_event.go
package model

import "time"

type EventType string

const (
    EventOpen  EventType = "open"
    EventClick EventType = "click"
)

type TrackingEvent struct {
    ID         int       `db:"id" json:"id"`
    CampaignID string    `db:"campaign_id" json:"campaign_id"`
    Recipient  string    `db:"recipient" json:"recipient"`
    EventType  EventType `db:"event_type" json:"event_type"`
    CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
