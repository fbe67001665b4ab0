package config

import (
	"os"
	"strconv"

	"github.com/google/uuid"
)

// Config holds all process configuration, loaded once at startup.
type Config struct {
	Port string

	// AdminToken is the bearer credential that bypasses hub auth.
	// Generated at startup when ADMIN_TOKEN is unset, so the bypass is
	// never accidentally open with a well-known default.
	AdminToken string
	// EmailFrom is the default sender address.
	EmailFrom string
	// HubHost is the identity service used to resolve bearer credentials.
	HubHost string

	EmailProvider  string // smtp | sendgrid
	SMTPHost       string
	SMTPPort       int
	SMTPUser       string
	SMTPPassword   string
	SMTPSecure     bool
	SendGridAPIKey string

	// DatabaseURL selects the postgres audit store. When empty the service
	// falls back to an embedded sqlite file at DBPath.
	DatabaseURL string
	DBPath      string

	TemplateDir string
	SentryDSN   string
}

// Load reads configuration from the environment, applying defaults.
func Load() Config {
	return Config{
		Port:           getEnv("PORT", "3003"),
		AdminToken:     getEnv("ADMIN_TOKEN", uuid.NewString()),
		EmailFrom:      getEnv("EMAIL_FROM", "notifications@naas.ai"),
		HubHost:        getEnv("HUB_HOST", "app.naas.ai"),
		EmailProvider:  getEnv("EMAIL_PROVIDER", "smtp"),
		SMTPHost:       getEnv("EMAIL_HOST", "localhost"),
		SMTPPort:       getInt("EMAIL_PORT", 25),
		SMTPUser:       getEnv("EMAIL_USER", ""),
		SMTPPassword:   getEnv("EMAIL_PASSWORD", ""),
		SMTPSecure:     getBool("EMAIL_SECURE", false),
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		DatabaseURL:    getEnv("PROXY_DB", ""),
		DBPath:         getEnv("PROXY_DB_PATH", "database.sqlite"),
		TemplateDir:    getEnv("TEMPLATE_DIR", "emails"),
		SentryDSN:      getEnv("SENTRY_DSN", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
