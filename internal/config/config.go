// Package config handles runtime configuration: defaults first, then
// environment variables, then command-line flags.
package config

import (
	"flag"
	"os"
	"time"
)

// Notifier kinds selectable via config.
const (
	NotifierLog   = "log"
	NotifierEmail = "email"
	NotifierNATS  = "nats"
)

// Config holds runtime settings for the auction server.
//
// Fields:
//   - Addr: bind address for the HTTP endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty selects the in-memory store.
//   - SweepInterval: period of the background sweep over due auctions.
//   - Notifier: which auction-ended notifier to use (log, email, nats).
//   - ResendAPIKey / EmailFrom: Resend credentials for the email notifier.
//   - NATSURL: server URL for the NATS notifier.
type Config struct {
	Addr          string
	DatabaseDSN   string
	SweepInterval time.Duration
	Notifier      string
	ResendAPIKey  string
	EmailFrom     string
	NATSURL       string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.DatabaseDSN = ""
	c.SweepInterval = time.Minute
	c.Notifier = NotifierLog
	c.EmailFrom = "BidWize <onboarding@resend.dev>"
	c.NATSURL = "nats://127.0.0.1:4222"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from the environment and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

func parseEnv(cfg *Config) {
	if v := os.Getenv("ADDRESS"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Addr = ":" + v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.DatabaseDSN = v
	}
	if v := os.Getenv("SWEEP_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.SweepInterval = d
		}
	}
	if v := os.Getenv("NOTIFIER"); v != "" {
		cfg.Notifier = v
	}
	if v := os.Getenv("RESEND_API_KEY"); v != "" {
		cfg.ResendAPIKey = v
	}
	if v := os.Getenv("EMAIL_FROM"); v != "" {
		cfg.EmailFrom = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATSURL = v
	}
}

func parseFlags(cfg *Config) {
	flag.StringVar(&cfg.Addr, "a", cfg.Addr, "bind address")
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "postgres dsn (empty: in-memory store)")
	flag.DurationVar(&cfg.SweepInterval, "s", cfg.SweepInterval, "sweep interval")
	flag.StringVar(&cfg.Notifier, "n", cfg.Notifier, "notifier kind: log, email or nats")
	flag.Parse()
}
