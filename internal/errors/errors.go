// internal/errors/errors.go
package appErrors

import (
    "errors"
    "fmt"
)

// ErrMalformedReference is returned when a tracking token cannot be parsed
// back into its (campaign, recipient) fields.
var ErrMalformedReference = errors.New("malformed tracking reference")

// ErrCampaignNotFound is a sentinel error
type ErrCampaignNotFound struct {
    CampaignID string
}

func (e *ErrCampaignNotFound) Error() string {
    return fmt.Sprintf("campaign %q not found", e.CampaignID)
}

// Helper constructor
func NewCampaignNotFound(id string) error {
    return &ErrCampaignNotFound{CampaignID: id}
}

// ErrUnknownCampaign marks a tracking hit whose token decoded cleanly but
// points at a campaign that no longer exists.
type ErrUnknownCampaign struct {
    CampaignID string
}

func (e *ErrUnknownCampaign) Error() string {
    return fmt.Sprintf("tracking hit for unknown campaign %q", e.CampaignID)
}

func NewUnknownCampaign(id string) error {
    return &ErrUnknownCampaign{CampaignID: id}
}
