package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Notify     NotifyConfig     `yaml:"notify"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
	Booking    BookingConfig    `yaml:"booking"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// NotifyConfig holds the credentials for the two delivery channels. Each
// channel is optional: a channel with missing credentials is never
// attempted. Every field can be overridden from the process environment so
// secrets can stay out of the config file.
type NotifyConfig struct {
	TwilioAccountSID  string `yaml:"twilio_account_sid"`
	TwilioAuthToken   string `yaml:"twilio_auth_token"`
	TwilioPhoneNumber string `yaml:"twilio_phone_number"`
	SendgridAPIKey    string `yaml:"sendgrid_api_key"`
	FromEmail         string `yaml:"from_email"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// BookingConfig holds the capacity-release policy for cancellations.
// Cancelling a booking whose current status is listed here gives the slot
// seat back; other cancellations leave booked_count untouched.
type BookingConfig struct {
	ReleaseOnCancelFrom []string `yaml:"release_on_cancel_from"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 60
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	if len(cfg.Booking.ReleaseOnCancelFrom) == 0 {
		cfg.Booking.ReleaseOnCancelFrom = []string{"pending", "confirmed"}
	}

	applyEnvOverrides(&cfg.Notify)

	if cfg.Notify.FromEmail == "" {
		cfg.Notify.FromEmail = "notifications@autocare.com"
	}

	return &cfg, nil
}

// applyEnvOverrides lets provider credentials come from the environment,
// taking precedence over whatever the config file carries.
func applyEnvOverrides(n *NotifyConfig) {
	overrides := map[string]*string{
		"TWILIO_ACCOUNT_SID":  &n.TwilioAccountSID,
		"TWILIO_AUTH_TOKEN":   &n.TwilioAuthToken,
		"TWILIO_PHONE_NUMBER": &n.TwilioPhoneNumber,
		"SENDGRID_API_KEY":    &n.SendgridAPIKey,
		"FROM_EMAIL":          &n.FromEmail,
	}
	for key, dst := range overrides {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
}
