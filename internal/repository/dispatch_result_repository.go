package repository

import (
    "database/sql"
    "fmt"
    "strings"

    "github.com/phishsim/phishsim-backend/internal/model"
)

type DispatchResultRepositoryInterface interface {
    SaveResults(campaignID string, results []model.DispatchResult) error
    ListByCampaign(campaignID string) ([]model.DispatchResult, error)
    StatsByCampaign(campaignID string) (map[string]int, error)
}

type DispatchResultRepository struct {
    DB *sql.DB
}

// SaveResults stores the full outcome of one dispatch in a single insert,
// keeping the recipient submission order in the position column.
func (r *DispatchResultRepository) SaveResults(campaignID string, results []model.DispatchResult) error {
    if len(results) == 0 {
        return nil
    }

    var sb strings.Builder
    sb.WriteString(`INSERT INTO dispatch_results (campaign_id, position, recipient, outcome, transport_id, last_error) VALUES `)
    args := []interface{}{}
    for i, res := range results {
        if i > 0 {
            sb.WriteString(", ")
        }
        base := i * 6
        fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4, base+5, base+6)
        args = append(args, campaignID, i, res.Recipient, string(res.Outcome), res.TransportID, res.Error)
    }

    _, err := r.DB.Exec(sb.String(), args...)
    return err
}

// ListByCampaign returns results in original submission order.
func (r *DispatchResultRepository) ListByCampaign(campaignID string) ([]model.DispatchResult, error) {
    query := `
        SELECT recipient, outcome, transport_id, last_error
        FROM dispatch_results
        WHERE campaign_id=$1
        ORDER BY position ASC
    `
    rows, err := r.DB.Query(query, campaignID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    results := []model.DispatchResult{}
    for rows.Next() {
        var res model.DispatchResult
        var outcome string
        if err := rows.Scan(&res.Recipient, &outcome, &res.TransportID, &res.Error); err != nil {
            return nil, err
        }
        res.Outcome = model.Outcome(outcome)
        results = append(results, res)
    }
    return results, rows.Err()
}

func (r *DispatchResultRepository) StatsByCampaign(campaignID string) (map[string]int, error) {
    query := `SELECT outcome, COUNT(*) FROM dispatch_results WHERE campaign_id=$1 GROUP BY outcome`
    rows, err := r.DB.Query(query, campaignID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    stats := map[string]int{"total": 0, "success": 0, "failed": 0, "skipped": 0}
    for rows.Next() {
        var outcome string
        var count int
        if err := rows.Scan(&outcome, &count); err != nil {
            return nil, err
        }
        if _, ok := stats[outcome]; ok {
            stats[outcome] = count
        }
        stats["total"] += count
    }
    return stats, rows.Err()
}

var _ DispatchResultRepositoryInterface = (*DispatchResultRepository)(nil)
