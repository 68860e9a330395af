// internal/model/campaign.go
package model

import (
    "time"

    "github.com/lib/pq"
)

type Campaign struct {
    ID         string         `db:"id" json:"id"`
    Name       string         `db:"name" json:"name"`
    Subject    string         `db:"subject" json:"subject"`
    Message    string         `db:"message" json:"message"`
    Recipients pq.StringArray `db:"recipients" json:"recipients"`
    CreatedAt  time.Time      `db:"created_at" json:"created_at"`
}
