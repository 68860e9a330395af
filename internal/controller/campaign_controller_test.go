package controller_test

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "net/http"
    "net/http/httptest"
    "strings"
    "sync"
    "testing"

    "github.com/go-chi/chi/v5"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/phishsim/phishsim-backend/internal/controller"
    appErrors "github.com/phishsim/phishsim-backend/internal/errors"
    "github.com/phishsim/phishsim-backend/internal/model"
    "github.com/phishsim/phishsim-backend/internal/service"
    "github.com/phishsim/phishsim-backend/internal/tracking"
)

// --- in-memory fakes ---

type memCampaignRepo struct {
    mu        sync.Mutex
    order     []string
    campaigns map[string]*model.Campaign
}

func newMemCampaignRepo() *memCampaignRepo {
    return &memCampaignRepo{campaigns: map[string]*model.Campaign{}}
}

func (m *memCampaignRepo) Create(c *model.Campaign) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    if c.ID == "" {
        c.ID = fmt.Sprintf("campaign-%d", len(m.order)+1)
    }
    m.campaigns[c.ID] = c
    m.order = append(m.order, c.ID)
    return nil
}

func (m *memCampaignRepo) GetByID(id string) (*model.Campaign, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    c, ok := m.campaigns[id]
    if !ok {
        return nil, appErrors.NewCampaignNotFound(id)
    }
    return c, nil
}

func (m *memCampaignRepo) List() ([]model.Campaign, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    out := []model.Campaign{}
    for i := len(m.order) - 1; i >= 0; i-- {
        out = append(out, *m.campaigns[m.order[i]])
    }
    return out, nil
}

func (m *memCampaignRepo) Delete(id string) (*model.Campaign, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    c, ok := m.campaigns[id]
    if !ok {
        return nil, appErrors.NewCampaignNotFound(id)
    }
    delete(m.campaigns, id)
    return c, nil
}

type memResultRepo struct {
    mu      sync.Mutex
    results map[string][]model.DispatchResult
}

func newMemResultRepo() *memResultRepo {
    return &memResultRepo{results: map[string][]model.DispatchResult{}}
}

func (m *memResultRepo) SaveResults(campaignID string, results []model.DispatchResult) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    m.results[campaignID] = results
    return nil
}

func (m *memResultRepo) ListByCampaign(campaignID string) ([]model.DispatchResult, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    return m.results[campaignID], nil
}

func (m *memResultRepo) StatsByCampaign(campaignID string) (map[string]int, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    stats := map[string]int{"total": 0, "success": 0, "failed": 0, "skipped": 0}
    for _, r := range m.results[campaignID] {
        stats[string(r.Outcome)]++
        stats["total"]++
    }
    return stats, nil
}

type memEventRepo struct {
    mu     sync.Mutex
    events []model.TrackingEvent
}

func (m *memEventRepo) Insert(e *model.TrackingEvent) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    e.ID = len(m.events) + 1
    m.events = append(m.events, *e)
    return nil
}

func (m *memEventRepo) ListByCampaign(string) ([]model.TrackingEvent, error) { return m.events, nil }

func (m *memEventRepo) CountsByType(campaignID string) (map[string]int, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    stats := map[string]int{"open": 0, "click": 0}
    for _, e := range m.events {
        if e.CampaignID == campaignID {
            stats[string(e.EventType)]++
        }
    }
    return stats, nil
}

type recordingSender struct {
    mu      sync.Mutex
    sent    map[string]string // recipient -> body
    failFor map[string]bool
}

func (s *recordingSender) Send(_ context.Context, to, subject, body string) (string, error) {
    if s.failFor[to] {
        return "", fmt.Errorf("relay rejected %s", to)
    }
    s.mu.Lock()
    defer s.mu.Unlock()
    if s.sent == nil {
        s.sent = map[string]string{}
    }
    s.sent[to] = body
    return "<" + to + "-id>", nil
}

func newTestRouter(sender *recordingSender) (*chi.Mux, *service.CampaignService) {
    codec := tracking.NewCodec("http://localhost:5000")
    svc := &service.CampaignService{
        CampaignRepo: newMemCampaignRepo(),
        ResultRepo:   newMemResultRepo(),
        EventRepo:    &memEventRepo{},
        Dispatcher: &service.Dispatcher{
            Mailer:  sender,
            Codec:   codec,
            Workers: 2,
        },
        Mailer: sender,
    }

    ctrl := controller.NewCampaignController(svc)

    r := chi.NewRouter()
    r.Post("/api/campaigns", ctrl.CreateCampaign)
    r.Get("/api/campaigns", ctrl.ListCampaigns)
    r.Get("/api/campaigns/{id}", ctrl.GetCampaign)
    r.Delete("/api/campaigns/{id}", ctrl.DeleteCampaign)
    r.Post("/api/campaigns/test-email", ctrl.TestEmail)
    return r, svc
}

func postJSON(t *testing.T, router http.Handler, path string, payload interface{}) *httptest.ResponseRecorder {
    t.Helper()
    b, err := json.Marshal(payload)
    require.NoError(t, err)
    req := httptest.NewRequest("POST", path, bytes.NewReader(b))
    w := httptest.NewRecorder()
    router.ServeHTTP(w, req)
    return w
}

// --- tests ---

func TestCreateCampaignDispatchesAndReportsPartialFailure(t *testing.T) {
    sender := &recordingSender{failFor: map[string]bool{"bad@@": true}}
    router, svc := newTestRouter(sender)

    w := postJSON(t, router, "/api/campaigns", map[string]interface{}{
        "name":       "Q4 Test",
        "subject":    "S",
        "message":    `Hello <a href="#">Go</a> team`,
        "recipients": []string{"a@x.com", "bad@@", "c@x.com"},
    })
    require.Equal(t, http.StatusOK, w.Code, w.Body.String())

    var res struct {
        Message  string                `json:"message"`
        Campaign model.Campaign        `json:"campaign"`
        Summary  model.CampaignSummary `json:"summary"`
    }
    require.NoError(t, json.NewDecoder(w.Body).Decode(&res))

    assert.NotEmpty(t, res.Campaign.ID)
    assert.Equal(t, 3, res.Summary.Total)
    assert.Equal(t, 2, res.Summary.Success)
    assert.Equal(t, 1, res.Summary.Failed)
    require.Len(t, res.Summary.Results, 3)
    assert.Equal(t, "a@x.com", res.Summary.Results[0].Recipient)
    assert.Equal(t, "bad@@", res.Summary.Results[1].Recipient)
    assert.Equal(t, model.OutcomeFailed, res.Summary.Results[1].Outcome)

    // The body delivered to a@x.com decodes back to (campaign id, a@x.com).
    body := sender.sent["a@x.com"]
    marker := `href="http://localhost:5000/api/track/click/`
    idx := strings.Index(body, marker)
    require.GreaterOrEqual(t, idx, 0)
    token := body[idx+len(marker):]
    token = token[:strings.Index(token, `"`)]

    codec := tracking.NewCodec("http://localhost:5000")
    campaignID, recipient, err := codec.Decode(token)
    require.NoError(t, err)
    assert.Equal(t, res.Campaign.ID, campaignID)
    assert.Equal(t, "a@x.com", recipient)

    // Results were persisted for later stats.
    stats, err := svc.ResultRepo.StatsByCampaign(res.Campaign.ID)
    require.NoError(t, err)
    assert.Equal(t, 3, stats["total"])
    assert.Equal(t, 2, stats["success"])
}

func TestCreateCampaignValidation(t *testing.T) {
    router, _ := newTestRouter(&recordingSender{})

    cases := []map[string]interface{}{
        {"subject": "S", "message": "m", "recipients": []string{"a@x.com"}}, // no name
        {"name": "n", "message": "m", "recipients": []string{"a@x.com"}},    // no subject
        {"name": "n", "subject": "S", "recipients": []string{"a@x.com"}},    // no message
        {"name": "n", "subject": "S", "message": "m"},                       // no recipients
        {"name": "n", "subject": "S", "message": "m", "recipients": []string{}},
    }
    for i, payload := range cases {
        w := postJSON(t, router, "/api/campaigns", payload)
        assert.Equal(t, http.StatusBadRequest, w.Code, "case %d", i)
    }
}

func TestGetAndDeleteCampaign(t *testing.T) {
    sender := &recordingSender{}
    router, _ := newTestRouter(sender)

    w := postJSON(t, router, "/api/campaigns", map[string]interface{}{
        "name":       "Drill",
        "subject":    "S",
        "message":    `<a href="#">x</a>`,
        "recipients": []string{"a@x.com"},
    })
    require.Equal(t, http.StatusOK, w.Code)

    var created struct {
        Campaign model.Campaign `json:"campaign"`
    }
    require.NoError(t, json.NewDecoder(w.Body).Decode(&created))

    req := httptest.NewRequest("GET", "/api/campaigns/"+created.Campaign.ID, nil)
    get := httptest.NewRecorder()
    router.ServeHTTP(get, req)
    require.Equal(t, http.StatusOK, get.Code)

    var details service.CampaignDetails
    require.NoError(t, json.NewDecoder(get.Body).Decode(&details))
    assert.Equal(t, created.Campaign.ID, details.Campaign.ID)
    assert.Equal(t, 1, details.DispatchStats["success"])

    del := httptest.NewRecorder()
    router.ServeHTTP(del, httptest.NewRequest("DELETE", "/api/campaigns/"+created.Campaign.ID, nil))
    require.Equal(t, http.StatusOK, del.Code)

    gone := httptest.NewRecorder()
    router.ServeHTTP(gone, httptest.NewRequest("GET", "/api/campaigns/"+created.Campaign.ID, nil))
    assert.Equal(t, http.StatusNotFound, gone.Code)
}

func TestTestEmailEndpoint(t *testing.T) {
    sender := &recordingSender{}
    router, _ := newTestRouter(sender)

    w := postJSON(t, router, "/api/campaigns/test-email", map[string]string{"email": "ops@x.com"})
    require.Equal(t, http.StatusOK, w.Code)

    var res map[string]interface{}
    require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
    assert.Equal(t, "ops@x.com", res["email"])
    assert.NotEmpty(t, res["message_id"])
    assert.Contains(t, sender.sent["ops@x.com"], "mail transport configuration")

    missing := postJSON(t, router, "/api/campaigns/test-email", map[string]string{})
    assert.Equal(t, http.StatusBadRequest, missing.Code)
}
