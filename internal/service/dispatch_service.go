// internal/service/dispatch_service.go
package service

import (
    "context"
    "fmt"
    "log"
    "sync"
    "time"

    "github.com/phishsim/phishsim-backend/internal/mailer"
    "github.com/phishsim/phishsim-backend/internal/model"
    "github.com/phishsim/phishsim-backend/internal/tracking"
)

// Dispatcher sends one campaign to all of its recipients. Sends run on a
// small bounded worker pool paced by a shared minimum-interval limiter; a
// failure for one recipient never stops the rest.
type Dispatcher struct {
    Mailer mailer.Sender
    Codec  *tracking.Codec

    // Workers bounds in-flight sends; values below 1 mean sequential.
    Workers int
    // SendDelay is the minimum interval between consecutive sends across
    // the whole pool.
    SendDelay time.Duration
}

type dispatchJob struct {
    idx       int
    recipient string
}

// Dispatch sends the campaign and returns a summary with one result per
// recipient in submission order. It only errors for structural problems
// (campaign without an id); per-recipient transport failures are captured in
// the summary. On context cancellation in-flight sends complete, remaining
// recipients are reported as skipped and the partial summary is returned.
func (d *Dispatcher) Dispatch(ctx context.Context, campaign *model.Campaign) (*model.CampaignSummary, error) {
    if campaign == nil || campaign.ID == "" {
        return nil, fmt.Errorf("dispatch: campaign has no id")
    }

    summary := &model.CampaignSummary{
        Total:   len(campaign.Recipients),
        Results: make([]model.DispatchResult, len(campaign.Recipients)),
    }
    if !HasTrackingSlot(campaign.Message) {
        summary.Warnings = append(summary.Warnings,
            "template has no "+LinkPlaceholder+" placeholder; emails were sent without a trackable link")
    }

    workers := d.Workers
    if workers < 1 {
        workers = 1
    }
    if workers > len(campaign.Recipients) {
        workers = len(campaign.Recipients)
    }

    pace := newPacer(d.SendDelay)
    jobs := make(chan dispatchJob)
    var wg sync.WaitGroup

    for w := 0; w < workers; w++ {
        wg.Add(1)
        go func() {
            defer wg.Done()
            for job := range jobs {
                summary.Results[job.idx] = d.sendOne(ctx, pace, campaign, job.recipient)
            }
        }()
    }

    // Hand out jobs in submission order. Each slot in Results is written by
    // exactly one goroutine, so no lock is needed around the slice.
    cancelledAt := -1
feed:
    for i, recipient := range campaign.Recipients {
        if ctx.Err() != nil {
            cancelledAt = i
            break feed
        }
        select {
        case <-ctx.Done():
            cancelledAt = i
            break feed
        case jobs <- dispatchJob{idx: i, recipient: recipient}:
        }
    }
    close(jobs)
    wg.Wait()

    if cancelledAt >= 0 {
        for k := cancelledAt; k < len(campaign.Recipients); k++ {
            summary.Results[k] = model.DispatchResult{
                Recipient: campaign.Recipients[k],
                Outcome:   model.OutcomeSkipped,
            }
        }
    }

    d.tally(summary)
    return summary, nil
}

func (d *Dispatcher) sendOne(ctx context.Context, pace *pacer, campaign *model.Campaign, recipient string) model.DispatchResult {
    if err := pace.wait(ctx); err != nil {
        return model.DispatchResult{Recipient: recipient, Outcome: model.OutcomeSkipped}
    }

    token, err := d.Codec.Encode(campaign.ID, recipient)
    if err != nil {
        // Encode only fails on an empty campaign id, which Dispatch guards
        // against; treat anything else as a failed recipient.
        return model.DispatchResult{Recipient: recipient, Outcome: model.OutcomeFailed, Error: err.Error()}
    }

    body := RenderTrackedMessage(campaign.Message, d.Codec.ClickURL(token))
    body = AppendOpenPixel(body, d.Codec.OpenURL(token))

    transportID, err := d.Mailer.Send(ctx, recipient, campaign.Subject, body)
    if err != nil {
        log.Println("⚠️ failed to send to", recipient, ":", err)
        return model.DispatchResult{Recipient: recipient, Outcome: model.OutcomeFailed, Error: err.Error()}
    }

    return model.DispatchResult{Recipient: recipient, Outcome: model.OutcomeSuccess, TransportID: transportID}
}

func (d *Dispatcher) tally(summary *model.CampaignSummary) {
    for _, r := range summary.Results {
        switch r.Outcome {
        case model.OutcomeSuccess:
            summary.Success++
        case model.OutcomeFailed:
            summary.Failed++
        case model.OutcomeSkipped:
            summary.Skipped++
        }
    }
}

// pacer enforces a minimum interval between sends across all workers. Each
// caller reserves the next free slot and blocks until it arrives.
type pacer struct {
    mu       sync.Mutex
    interval time.Duration
    next     time.Time
}

func newPacer(interval time.Duration) *pacer {
    return &pacer{interval: interval}
}

// wait blocks until this caller's send slot arrives or ctx is cancelled.
func (p *pacer) wait(ctx context.Context) error {
    if p.interval <= 0 {
        return ctx.Err()
    }

    p.mu.Lock()
    now := time.Now()
    slot := p.next
    if slot.Before(now) {
        slot = now
    }
    p.next = slot.Add(p.interval)
    p.mu.Unlock()

    delay := time.Until(slot)
    if delay <= 0 {
        return ctx.Err()
    }

    timer := time.NewTimer(delay)
    defer timer.Stop()
    select {
    case <-ctx.Done():
        return ctx.Err()
    case <-timer.C:
        return nil
    }
}
