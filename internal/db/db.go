// internal/db/db.go
package db

import (
    "database/sql"
    "fmt"

    _ "github.com/lib/pq"

    "github.com/phishsim/phishsim-backend/internal/config"
)

// Open connects to postgres using the given config and verifies the
// connection with a ping.
func Open(cfg config.Postgres) (*sql.DB, error) {
    dsn := fmt.Sprintf(
        "postgres://%s:%s@%s:%s/%s?sslmode=disable",
        cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name,
    )

    conn, err := sql.Open("postgres", dsn)
    if err != nil {
        return nil, fmt.Errorf("failed to connect to DB: %w", err)
    }

    if err = conn.Ping(); err != nil {
        return nil, fmt.Errorf("failed to ping DB: %w", err)
    }

    return conn, nil
}
