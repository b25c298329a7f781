// Package config reads the configuration of the backend from the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mirrorbank/backend/internal/models"
	"github.com/mirrorbank/backend/internal/notify"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var (
	ErrAPIURLMissing = errors.New("environment variable API_URL must be set")
	ErrAPIURLInvalid = errors.New("environment variable API_URL must be a valid URL")
)

// DefaultDBPath is the database file used when DB_PATH is not set.
const DefaultDBPath = "data/mirrorbank.db"

// Config is the configuration of the backend.
type Config struct {
	GinMode   string   // GIN_MODE. Defaults to release.
	LogFormat string   // LOG_FORMAT, "human" or "json". Empty selects by gin mode.
	APIURL    *url.URL // API_URL, the external URL of the API
	Port      string   // PORT. Defaults to 8080.
	DBPath    string   // DB_PATH

	AllowOrigins []string // CORS_ALLOW_ORIGINS, space separated
	Pprof        bool     // ENABLE_PPROF

	Owner     uuid.UUID               // OWNER_ID, the owner of requests without X-Owner-ID header
	Policy    models.AlertPolicy      // ALERT_WARNING_PERCENT, ALERT_EXCEEDED_PERCENT
	Recurring models.RecurringOptions // RECURRING_WINDOW_DAYS

	Notify notify.Options // MAILGUN_DOMAIN, MAILGUN_API_KEY, MAILGUN_API_BASE, ALERT_EMAIL_FROM, ALERT_EMAIL_TO
}

// Load reads the .env file in the working directory, if there is one, and
// parses the configuration from the environment. Variables that are already
// set are not overwritten by the .env file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Str("reason", err.Error()).Msg("no .env file loaded")
	}

	return FromEnv()
}

// FromEnv parses the configuration from the environment.
func FromEnv() (Config, error) {
	c := Config{
		GinMode:   getEnv("GIN_MODE", "release"),
		LogFormat: os.Getenv("LOG_FORMAT"),
		Port:      getEnv("PORT", "8080"),
		DBPath:    getEnv("DB_PATH", DefaultDBPath),
		Policy:    models.DefaultAlertPolicy,
		Recurring: models.DefaultRecurringOptions,
		Notify: notify.Options{
			Domain:  os.Getenv("MAILGUN_DOMAIN"),
			APIKey:  os.Getenv("MAILGUN_API_KEY"),
			APIBase: os.Getenv("MAILGUN_API_BASE"),
			From:    os.Getenv("ALERT_EMAIL_FROM"),
			To:      strings.Fields(strings.ReplaceAll(os.Getenv("ALERT_EMAIL_TO"), ",", " ")),
		},
	}

	apiURL, ok := os.LookupEnv("API_URL")
	if !ok || apiURL == "" {
		return Config{}, ErrAPIURLMissing
	}

	u, err := url.Parse(apiURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Config{}, ErrAPIURLInvalid
	}

	// Links are built by appending paths, so the URL must not end in a slash
	u.Path = strings.TrimSuffix(u.Path, "/")
	c.APIURL = u

	c.AllowOrigins = strings.Fields(os.Getenv("CORS_ALLOW_ORIGINS"))

	if v, ok := os.LookupEnv("ENABLE_PPROF"); ok {
		c.Pprof, err = strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("environment variable ENABLE_PPROF must be a boolean: %w", err)
		}
	}

	if v, ok := os.LookupEnv("OWNER_ID"); ok && v != "" {
		c.Owner, err = uuid.Parse(v)
		if err != nil {
			return Config{}, fmt.Errorf("environment variable OWNER_ID must be a UUID: %w", err)
		}
	}

	if v, ok := os.LookupEnv("ALERT_WARNING_PERCENT"); ok {
		c.Policy.Warning, err = decimal.NewFromString(v)
		if err != nil {
			return Config{}, fmt.Errorf("environment variable ALERT_WARNING_PERCENT must be a number: %w", err)
		}
	}

	if v, ok := os.LookupEnv("ALERT_EXCEEDED_PERCENT"); ok {
		c.Policy.Exceeded, err = decimal.NewFromString(v)
		if err != nil {
			return Config{}, fmt.Errorf("environment variable ALERT_EXCEEDED_PERCENT must be a number: %w", err)
		}
	}

	if err := c.Policy.Validate(); err != nil {
		return Config{}, err
	}

	if v, ok := os.LookupEnv("RECURRING_WINDOW_DAYS"); ok {
		c.Recurring.Days, err = strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("environment variable RECURRING_WINDOW_DAYS must be an integer: %w", err)
		}
	}

	if err := c.Recurring.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
