package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds the application configuration.
type Config struct {
	AppEnv  string
	Version string
	Port    string
	GinMode string

	StoreDriver   string
	MongoURI      string
	MongoDatabase string
	DatabaseURL   string
	RedisURL      string

	Secret string

	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string

	SMTPHost           string
	SMTPPort           int
	SMTPUsername       string
	SMTPPassword       string
	MailSender         string
	MailSenderName     string
	EmailWorkers       int
	EmailRatePerSecond int

	SentryDSN              string
	RateLimitPerSecond     uint
	ResubmitRejectedOnEdit bool
	SearchCacheTTL         time.Duration
	CORSAllowedOrigins     []string
}

// LoadConfig loads configuration from environment variables.
// A .env file is read first when present; variables already set win.
func LoadConfig() (*Config, error) {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	smtpPort, err := getInt("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}
	workers, err := getInt("EMAIL_WORKERS", 2)
	if err != nil {
		return nil, err
	}
	emailRate, err := getInt("EMAIL_RATE_PER_SECOND", 5)
	if err != nil {
		return nil, err
	}
	rateLimit, err := getInt("RATE_LIMIT_PER_SECOND", 5)
	if err != nil {
		return nil, err
	}
	resubmit, err := strconv.ParseBool(getEnv("RESUBMIT_REJECTED_ON_EDIT", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid RESUBMIT_REJECTED_ON_EDIT: %w", err)
	}
	ttl, err := time.ParseDuration(getEnv("SEARCH_CACHE_TTL", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEARCH_CACHE_TTL: %w", err)
	}

	cfg := &Config{
		AppEnv:  getEnv("APP_ENV", "development"),
		Version: getEnv("VERSION", "dev"),
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),

		StoreDriver:   getEnv("STORE_DRIVER", DriverMongo),
		MongoURI:      getEnv("MONGO_URI", ""),
		MongoDatabase: getEnv("MONGO_DATABASE", "ceylonhomes"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisURL:      getEnv("REDIS_URL", ""),

		Secret: getEnv("SECRET", ""),

		CloudinaryCloudName:    getEnv("CLOUDINARY_CLOUDNAME", ""),
		CloudinaryAPIKey:       getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret:    getEnv("CLOUDINARY_API_SECRET", ""),
		CloudinaryUploadFolder: getEnv("CLOUDINARY_UPLOAD_FOLDER", "ceylonhomes/listings"),

		SMTPHost:           getEnv("SMTP_HOST", ""),
		SMTPPort:           smtpPort,
		SMTPUsername:       getEnv("SMTP_USERNAME", ""),
		SMTPPassword:       getEnv("SMTP_PASSWORD", ""),
		MailSender:         getEnv("MAIL_SENDER", "no-reply@ceylonhomes.lk"),
		MailSenderName:     getEnv("MAIL_SENDER_NAME", "CeylonHomes"),
		EmailWorkers:       workers,
		EmailRatePerSecond: emailRate,

		SentryDSN:              getEnv("SENTRY_DSN", ""),
		RateLimitPerSecond:     uint(max(rateLimit, 1)),
		ResubmitRejectedOnEdit: resubmit,
		SearchCacheTTL:         ttl,
		CORSAllowedOrigins:     splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Secret == "" {
		return fmt.Errorf("SECRET is required")
	}
	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required for the mongo store")
		}
	case DriverPostgres, DriverSQLite:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s store", c.StoreDriver)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.SentryDSN == "" {
		log.Println("Warning: SENTRY_DSN is not set. Error tracking disabled.")
	}
	if c.RedisURL == "" {
		log.Println("Warning: REDIS_URL is not set. Search cache and token revocation disabled.")
	}
	return nil
}

// MediaEnabled reports whether photo uploads can be stored.
func (c *Config) MediaEnabled() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

// MailEnabled reports whether outbound email is configured.
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != ""
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
