package repository

import (
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    appErrors "github.com/phishsim/phishsim-backend/internal/errors"
    "github.com/phishsim/phishsim-backend/internal/model"
)

func TestCampaignCreateAssignsID(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectExec("INSERT INTO campaigns").
        WithArgs(sqlmock.AnyArg(), "Drill", "S", "msg", sqlmock.AnyArg(), sqlmock.AnyArg()).
        WillReturnResult(sqlmock.NewResult(0, 1))

    repo := &CampaignRepository{DB: db}
    c := &model.Campaign{
        Name:       "Drill",
        Subject:    "S",
        Message:    "msg",
        Recipients: []string{"a@x.com", "b@x.com"},
    }
    require.NoError(t, repo.Create(c))

    assert.NotEmpty(t, c.ID)
    assert.False(t, c.CreatedAt.IsZero())
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignGetByID(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    now := time.Now()
    rows := sqlmock.NewRows([]string{"id", "name", "subject", "message", "recipients", "created_at"}).
        AddRow("c1", "Drill", "S", "msg", "{a@x.com,b@x.com}", now)
    mock.ExpectQuery("SELECT id, name, subject, message, recipients, created_at").
        WithArgs("c1").
        WillReturnRows(rows)

    repo := &CampaignRepository{DB: db}
    c, err := repo.GetByID("c1")
    require.NoError(t, err)

    assert.Equal(t, "Drill", c.Name)
    assert.Equal(t, []string{"a@x.com", "b@x.com"}, []string(c.Recipients))
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignGetByIDNotFound(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectQuery("SELECT id, name, subject, message, recipients, created_at").
        WithArgs("missing").
        WillReturnRows(sqlmock.NewRows([]string{"id", "name", "subject", "message", "recipients", "created_at"}))

    repo := &CampaignRepository{DB: db}
    _, err = repo.GetByID("missing")
    require.Error(t, err)

    var notFound *appErrors.ErrCampaignNotFound
    assert.ErrorAs(t, err, &notFound)
    assert.Equal(t, "missing", notFound.CampaignID)
}

func TestCampaignListNewestFirst(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    now := time.Now()
    rows := sqlmock.NewRows([]string{"id", "name", "subject", "message", "recipients", "created_at"}).
        AddRow("c2", "Newer", "S", "m", "{a@x.com}", now).
        AddRow("c1", "Older", "S", "m", "{a@x.com}", now.Add(-time.Hour))
    mock.ExpectQuery("ORDER BY created_at DESC").WillReturnRows(rows)

    repo := &CampaignRepository{DB: db}
    campaigns, err := repo.List()
    require.NoError(t, err)

    require.Len(t, campaigns, 2)
    assert.Equal(t, "Newer", campaigns[0].Name)
    assert.Equal(t, "Older", campaigns[1].Name)
}

func TestSaveResultsSingleInsertPreservesPositions(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectExec("INSERT INTO dispatch_results").
        WithArgs(
            "c1", 0, "a@x.com", "success", "<id-a>", "",
            "c1", 1, "bad@@", "failed", "", "mailbox unavailable",
        ).
        WillReturnResult(sqlmock.NewResult(0, 2))

    repo := &DispatchResultRepository{DB: db}
    err = repo.SaveResults("c1", []model.DispatchResult{
        {Recipient: "a@x.com", Outcome: model.OutcomeSuccess, TransportID: "<id-a>"},
        {Recipient: "bad@@", Outcome: model.OutcomeFailed, Error: "mailbox unavailable"},
    })
    require.NoError(t, err)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsByCampaign(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    rows := sqlmock.NewRows([]string{"outcome", "count"}).
        AddRow("success", 2).
        AddRow("failed", 1)
    mock.ExpectQuery("SELECT outcome, COUNT").WithArgs("c1").WillReturnRows(rows)

    repo := &DispatchResultRepository{DB: db}
    stats, err := repo.StatsByCampaign("c1")
    require.NoError(t, err)

    assert.Equal(t, 3, stats["total"])
    assert.Equal(t, 2, stats["success"])
    assert.Equal(t, 1, stats["failed"])
    assert.Equal(t, 0, stats["skipped"])
}

func TestTrackingEventInsert(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectQuery("INSERT INTO tracking_events").
        WithArgs("c1", "a@x.com", "click", sqlmock.AnyArg()).
        WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

    repo := &TrackingEventRepository{DB: db}
    e := &model.TrackingEvent{CampaignID: "c1", Recipient: "a@x.com", EventType: model.EventClick}
    require.NoError(t, repo.Insert(e))

    assert.Equal(t, 7, e.ID)
    assert.False(t, e.CreatedAt.IsZero())
}
