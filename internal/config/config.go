package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v6"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

type Config struct {
	LineChannelAccessToken string        `env:"LINE_CHANNEL_ACCESS_TOKEN"`
	LineChannelSecret      string        `env:"LINE_CHANNEL_SECRET"`
	LineAPIBaseURL         url.URL       `env:"LINE_API_BASE_URL" envDefault:"https://api.line.me"`
	LineRequestTimeout     time.Duration `env:"LINE_REQUEST_TIMEOUT" envDefault:"10s"`

	PostgresqlURL      string        `env:"POSTGRESQL_URL"`
	PostgresqlPassword string        `env:"POSTGRESQL_PASSWORD"`
	StoreTimeout       time.Duration `env:"STORE_TIMEOUT" envDefault:"5s"`
	MigrationsPath     string        `env:"MIGRATIONS_PATH"`

	RedisURL        string        `env:"REDIS_URL"`
	WebhookEventTTL time.Duration `env:"WEBHOOK_EVENT_TTL" envDefault:"24h"`

	RemindSecret        string `env:"REMIND_SECRET"`
	ReminderConcurrency int    `env:"REMINDER_CONCURRENCY" envDefault:"4"`
	ReminderSchedule    string `env:"REMINDER_SCHEDULE" envDefault:"0 20 * * *"`

	BaseURL  string `env:"BASE_URL"`
	Port     int    `env:"PORT" envDefault:"8080"`
	Timezone string `env:"TIMEZONE" envDefault:"Asia/Tokyo"`
	Debug    bool   `env:"DEBUG" envDefault:"false"`

	Location *time.Location `env:"-"`
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() (*Config, error) {
	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("could not parse config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	location, err := time.LoadLocation(config.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid config: TIMEZONE: %w", err)
	}
	config.Location = location
	return config, nil
}

// Validate reports every invalid key at once.
func (c *Config) Validate() error {
	return validation.Errors{
		"LINE_CHANNEL_ACCESS_TOKEN": validation.Validate(c.LineChannelAccessToken, validation.Required),
		"LINE_CHANNEL_SECRET":       validation.Validate(c.LineChannelSecret, validation.Required),
		"POSTGRESQL_URL":            validation.Validate(c.PostgresqlURL, validation.Required),
		"BASE_URL":                  validation.Validate(c.BaseURL, is.URL),
		"PORT":                      validation.Validate(c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		"REMINDER_CONCURRENCY":      validation.Validate(c.ReminderConcurrency, validation.Required, validation.Min(1)),
		"REMINDER_SCHEDULE":         validation.Validate(c.ReminderSchedule, validation.Required, validation.By(cronSpec)),
	}.Filter()
}

func cronSpec(value interface{}) error {
	spec, _ := value.(string)
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("must be a cron expression")
	}
	return nil
}
