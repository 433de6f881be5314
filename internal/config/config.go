package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// envConfig holds runtime configuration loaded from the environment.
// Field names mirror the environment variable keys.
type envConfig struct {
	APP_PORT      string
	LOG_FILE_PATH string

	GCP_PROJECT_ID string

	// APP_TIMEZONE is the reference timezone for calendar-date logic
	// (task createdDate comparisons). IANA name, e.g. "Europe/London".
	APP_TIMEZONE string

	// RECONCILE_INTERVAL_HOURS controls the in-process periodic
	// reconciliation trigger. The pass is time-absolute, so a missed or
	// delayed tick needs no catch-up.
	RECONCILE_INTERVAL_HOURS int

	// ELASTIC_URL enables the task search index when set.
	ELASTIC_URL string

	// SPENDING_REPORT_LAYOUT optionally points at a YAML layout file for
	// the spending export. Empty means the built-in layout.
	SPENDING_REPORT_LAYOUT string
}

// DefaultEnvConfig is populated by LoadEnvConfig during bootstrap.
var DefaultEnvConfig envConfig

// LoadEnvConfig reads .env (if present) and the process environment into
// DefaultEnvConfig.
func LoadEnvConfig() error {
	// A missing .env is fine; production supplies real env vars.
	_ = godotenv.Load()

	DefaultEnvConfig = envConfig{
		APP_PORT:                 getEnv("APP_PORT", "8080"),
		LOG_FILE_PATH:            getEnv("LOG_FILE_PATH", ""),
		GCP_PROJECT_ID:           getEnv("GCP_PROJECT_ID", ""),
		APP_TIMEZONE:             getEnv("APP_TIMEZONE", "UTC"),
		RECONCILE_INTERVAL_HOURS: getEnvInt("RECONCILE_INTERVAL_HOURS", 24),
		ELASTIC_URL:              getEnv("ELASTIC_URL", ""),
		SPENDING_REPORT_LAYOUT:   getEnv("SPENDING_REPORT_LAYOUT", ""),
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
