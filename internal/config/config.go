// internal/config/config.go
package config

import (
    "time"

    "github.com/caarlos0/env/v11"
)

// Config is built once at startup and handed to the components that need it.
// Nothing else in the codebase reads the process environment directly.
type Config struct {
    Env         string `env:"APP_ENV" envDefault:"production"`
    Port        string `env:"PORT" envDefault:"5000"`
    BaseURL     string `env:"BASE_URL" envDefault:"http://localhost:5000"`
    FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`
    // LandingURL is where tracked clicks are redirected (typically the
    // awareness/training page shown to a phished recipient).
    LandingURL string `env:"LANDING_URL" envDefault:"http://localhost:5173/awareness"`
    AMQPURL    string `env:"AMQP_URL"`

    DB       Postgres `envPrefix:"DB_"`
    SMTP     SMTP     `envPrefix:"SMTP_"`
    Dispatch Dispatch `envPrefix:"DISPATCH_"`
}

type Postgres struct {
    Host     string `env:"HOST" envDefault:"localhost"`
    Port     string `env:"PORT" envDefault:"5432"`
    User     string `env:"USER"`
    Password string `env:"PASSWORD"`
    Name     string `env:"NAME" envDefault:"phishsim"`
}

type SMTP struct {
    Host     string `env:"HOST" envDefault:"smtp.mailtrap.io"`
    Port     int    `env:"PORT" envDefault:"2525"`
    User     string `env:"USER"`
    Password string `env:"PASS"`
    From     string `env:"FROM"`
    FromName string `env:"FROM_NAME" envDefault:"PhishSim"`
}

type Dispatch struct {
    // Workers bounds concurrent sends within one campaign.
    Workers int `env:"WORKERS" envDefault:"4"`
    // SendDelay is the minimum interval between consecutive sends across all
    // workers, to stay under transport rate limits.
    SendDelay time.Duration `env:"SEND_DELAY" envDefault:"500ms"`
}

// Load parses the configuration from environment variables.
func Load() (Config, error) {
    var cfg Config
    if err := env.Parse(&cfg); err != nil {
        return cfg, err
    }
    return cfg, nil
}
