// internal/model/dispatch_result.go
package model

// Outcome is the terminal state of one recipient's send attempt.
type Outcome string

const (
    OutcomeSuccess Outcome = "success"
    OutcomeFailed  Outcome = "failed"
    OutcomeSkipped Outcome = "skipped" // dispatch cancelled before this recipient was attempted
)

// DispatchResult is a tagged per-recipient record: exactly one of TransportID
// (success) or Error (failed) is set; skipped entries carry neither.
type DispatchResult struct {
    Recipient   string  `db:"recipient" json:"recipient"`
    Outcome     Outcome `db:"outcome" json:"outcome"`
    TransportID string  `db:"transport_id" json:"transport_id,omitempty"`
    Error       string  `db:"last_error" json:"error,omitempty"`
}

// CampaignSummary aggregates one full dispatch. Results preserve recipient
// submission order regardless of send completion order.
type CampaignSummary struct {
    Total    int              `json:"total"`
    Success  int              `json:"success"`
    Failed   int              `json:"failed"`
    Skipped  int              `json:"skipped,omitempty"`
    Results  []DispatchResult `json:"results"`
    Warnings []string         `json:"warnings,omitempty"`
}
