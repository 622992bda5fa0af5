package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// PlaceholderResendKey is the value shipped in the sample .env. It counts as "not configured".
const PlaceholderResendKey = "your_resend_api_key_here"

type Config struct {
	Port string

	DatabaseDriver string
	DatabaseURL    string
	AutoMigrate    bool

	StorageDriver        string
	StorageBucket        string
	StoragePublicBaseURL string
	GCSCredentialsFile   string
	LocalStorageDir      string
	MaxUploadBytes       int64

	MailProvider         string
	ResendAPIKey         string
	MailFrom             string
	GmailCredentialsFile string
	GmailTokenFile       string

	RedisURL         string
	SessionTTL       time.Duration
	SecureCookies    bool
	SubmitRatePerMin int

	CatalogFile string
	StaticDir   string
	GelfAddr    string
	CORSOrigins []string
}

// Load reads the configuration from the environment. Nothing is mandatory: an empty
// DATABASE_URL with the sqlite driver opens a local file and a missing mail credential
// turns confirmation emails into a no-op.
func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8080"),

		DatabaseDriver: strings.ToLower(getEnv("DATABASE_DRIVER", "postgres")),
		DatabaseURL:    getEnv("DATABASE_URL", "host=localhost user=postgres password=password dbname=careers port=5432 sslmode=disable"),
		AutoMigrate:    getBool("DB_AUTO_MIGRATE", true),

		StorageDriver:        strings.ToLower(getEnv("STORAGE_DRIVER", "gcs")),
		StorageBucket:        getEnv("STORAGE_BUCKET", "applicatns"),
		StoragePublicBaseURL: getEnv("STORAGE_PUBLIC_BASE_URL", ""),
		GCSCredentialsFile:   getEnv("GCS_CREDENTIALS_FILE", ""),
		LocalStorageDir:      getEnv("LOCAL_STORAGE_DIR", "uploads"),
		MaxUploadBytes:       int64(getInt("MAX_UPLOAD_MB", 10)) << 20,

		MailProvider:         strings.ToLower(getEnv("MAIL_PROVIDER", "resend")),
		ResendAPIKey:         getEnv("RESEND_API_KEY", ""),
		MailFrom:             getEnv("MAIL_FROM", "onboarding@resend.dev"),
		GmailCredentialsFile: getEnv("GMAIL_CREDENTIALS_FILE", "credential.json"),
		GmailTokenFile:       getEnv("GMAIL_TOKEN_FILE", "token.json"),

		RedisURL:         getEnv("REDIS_URL", ""),
		SessionTTL:       getDuration("SESSION_TTL", 2*time.Hour),
		SecureCookies:    getBool("COOKIE_SECURE", false),
		SubmitRatePerMin: getInt("SUBMIT_RATE_PER_MIN", 10),

		CatalogFile: getEnv("CATALOG_FILE", ""),
		StaticDir:   getEnv("STATIC_DIR", ""),
		GelfAddr:    getEnv("GELF_ADDR", ""),
		CORSOrigins: getList("CORS_ORIGINS"),
	}
}

// MailConfigured reports whether a real provider credential is present.
func (c *Config) MailConfigured() bool {
	switch c.MailProvider {
	case "gmail":
		return c.GmailCredentialsFile != "" && c.GmailTokenFile != ""
	default:
		return c.ResendAPIKey != "" && c.ResendAPIKey != PlaceholderResendKey
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getList(key string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	var items []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}
