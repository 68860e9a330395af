// internal/controller/campaign_controller.go
package controller

import (
    "encoding/json"
    "errors"
    "fmt"
    "net/http"

    "github.com/go-chi/chi/v5"
    "github.com/go-playground/validator/v10"

    appErrors "github.com/phishsim/phishsim-backend/internal/errors"
    "github.com/phishsim/phishsim-backend/internal/service"
)

type CampaignController struct {
    CampaignService *service.CampaignService
    Validate        *validator.Validate
}

func NewCampaignController(svc *service.CampaignService) *CampaignController {
    return &CampaignController{
        CampaignService: svc,
        Validate:        validator.New(),
    }
}

// createCampaignRequest deliberately does NOT validate each recipient as an
// email address: a phishing simulation may carry junk addresses on purpose,
// and those fail at the transport, per recipient, not up front.
type createCampaignRequest struct {
    Name       string   `json:"name" validate:"required"`
    Subject    string   `json:"subject" validate:"required"`
    Message    string   `json:"message" validate:"required"`
    Recipients []string `json:"recipients" validate:"required,min=1,dive,required"`
}

// CreateCampaign handles POST /api/campaigns: create, dispatch synchronously,
// return the stored campaign plus the send summary. Partial recipient
// failure is still a 200 — the operator sees the breakdown.
func (c *CampaignController) CreateCampaign(w http.ResponseWriter, r *http.Request) {
    var body createCampaignRequest
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        http.Error(w, "invalid body", http.StatusBadRequest)
        return
    }

    if err := c.Validate.Struct(body); err != nil {
        var fields validator.ValidationErrors
        if errors.As(err, &fields) && len(fields) > 0 {
            http.Error(w, fmt.Sprintf("missing or invalid field: %s", fields[0].Field()), http.StatusBadRequest)
            return
        }
        http.Error(w, "invalid body", http.StatusBadRequest)
        return
    }

    campaign, err := c.CampaignService.CreateCampaign(body.Name, body.Subject, body.Message, body.Recipients)
    if err != nil {
        http.Error(w, err.Error(), http.StatusInternalServerError)
        return
    }

    summary, err := c.CampaignService.DispatchCampaign(r.Context(), campaign)
    if err != nil {
        http.Error(w, err.Error(), http.StatusInternalServerError)
        return
    }

    writeJSON(w, map[string]interface{}{
        "message":  fmt.Sprintf("Sent %d/%d emails successfully", summary.Success, summary.Total),
        "campaign": campaign,
        "summary":  summary,
    })
}

func (c *CampaignController) ListCampaigns(w http.ResponseWriter, r *http.Request) {
    campaigns, err := c.CampaignService.ListCampaigns()
    if err != nil {
        http.Error(w, err.Error(), http.StatusInternalServerError)
        return
    }
    writeJSON(w, campaigns)
}

func (c *CampaignController) GetCampaign(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")

    details, err := c.CampaignService.GetCampaignDetails(id)
    if err != nil {
        var notFound *appErrors.ErrCampaignNotFound
        if errors.As(err, &notFound) {
            http.Error(w, "campaign not found", http.StatusNotFound)
            return
        }
        http.Error(w, err.Error(), http.StatusInternalServerError)
        return
    }
    writeJSON(w, details)
}

func (c *CampaignController) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")

    campaign, err := c.CampaignService.DeleteCampaign(id)
    if err != nil {
        var notFound *appErrors.ErrCampaignNotFound
        if errors.As(err, &notFound) {
            http.Error(w, "campaign not found", http.StatusNotFound)
            return
        }
        http.Error(w, err.Error(), http.StatusInternalServerError)
        return
    }

    writeJSON(w, map[string]interface{}{
        "message":  "campaign deleted",
        "campaign": campaign,
    })
}

// RedispatchCampaign handles POST /api/campaigns/{id}/dispatch: queue an
// asynchronous re-send instead of blocking the request for the whole batch.
func (c *CampaignController) RedispatchCampaign(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")

    if _, err := c.CampaignService.CampaignRepo.GetByID(id); err != nil {
        var notFound *appErrors.ErrCampaignNotFound
        if errors.As(err, &notFound) {
            http.Error(w, "campaign not found", http.StatusNotFound)
            return
        }
        http.Error(w, err.Error(), http.StatusInternalServerError)
        return
    }

    if err := c.CampaignService.EnqueueDispatch(id); err != nil {
        http.Error(w, "failed to enqueue dispatch: "+err.Error(), http.StatusInternalServerError)
        return
    }

    writeJSON(w, map[string]interface{}{
        "campaign_id": id,
        "status":      "queued",
    })
}

func (c *CampaignController) TestEmail(w http.ResponseWriter, r *http.Request) {
    var body struct {
        Email string `json:"email"`
    }
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" {
        http.Error(w, "email address is required", http.StatusBadRequest)
        return
    }

    transportID, err := c.CampaignService.SendTestEmail(r.Context(), body.Email)
    if err != nil {
        http.Error(w, "failed to send test email: "+err.Error(), http.StatusInternalServerError)
        return
    }

    writeJSON(w, map[string]interface{}{
        "message":    "test email sent",
        "message_id": transportID,
        "email":      body.Email,
    })
}

func writeJSON(w http.ResponseWriter, v interface{}) {
    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(v)
}
