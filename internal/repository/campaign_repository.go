package repository

import (
    "database/sql"
    "time"

    "github.com/google/uuid"
    "github.com/lib/pq"

    appErrors "github.com/phishsim/phishsim-backend/internal/errors"
    "github.com/phishsim/phishsim-backend/internal/model"
)

type CampaignRepositoryInterface interface {
    Create(c *model.Campaign) error
    GetByID(id string) (*model.Campaign, error)
    List() ([]model.Campaign, error)
    Delete(id string) (*model.Campaign, error)
}

type CampaignRepository struct {
    DB *sql.DB
}

// Create inserts the campaign, assigning an id and creation time if unset.
func (r *CampaignRepository) Create(c *model.Campaign) error {
    if c.ID == "" {
        c.ID = uuid.NewString()
    }
    if c.CreatedAt.IsZero() {
        c.CreatedAt = time.Now()
    }
    query := `
        INSERT INTO campaigns (id, name, subject, message, recipients, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `
    _, err := r.DB.Exec(query, c.ID, c.Name, c.Subject, c.Message, pq.Array([]string(c.Recipients)), c.CreatedAt)
    return err
}

func (r *CampaignRepository) GetByID(id string) (*model.Campaign, error) {
    query := `
        SELECT id, name, subject, message, recipients, created_at
        FROM campaigns WHERE id=$1
    `
    var c model.Campaign
    err := r.DB.QueryRow(query, id).Scan(&c.ID, &c.Name, &c.Subject, &c.Message, &c.Recipients, &c.CreatedAt)
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, appErrors.NewCampaignNotFound(id)
        }
        return nil, err
    }
    return &c, nil
}

// List returns all campaigns, most recent first.
func (r *CampaignRepository) List() ([]model.Campaign, error) {
    query := `
        SELECT id, name, subject, message, recipients, created_at
        FROM campaigns
        ORDER BY created_at DESC
    `
    rows, err := r.DB.Query(query)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    campaigns := []model.Campaign{}
    for rows.Next() {
        var c model.Campaign
        if err := rows.Scan(&c.ID, &c.Name, &c.Subject, &c.Message, &c.Recipients, &c.CreatedAt); err != nil {
            return nil, err
        }
        campaigns = append(campaigns, c)
    }
    return campaigns, rows.Err()
}

// Delete removes the campaign and returns the deleted record.
func (r *CampaignRepository) Delete(id string) (*model.Campaign, error) {
    query := `
        DELETE FROM campaigns WHERE id=$1
        RETURNING id, name, subject, message, recipients, created_at
    `
    var c model.Campaign
    err := r.DB.QueryRow(query, id).Scan(&c.ID, &c.Name, &c.Subject, &c.Message, &c.Recipients, &c.CreatedAt)
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, appErrors.NewCampaignNotFound(id)
        }
        return nil, err
    }
    return &c, nil
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
