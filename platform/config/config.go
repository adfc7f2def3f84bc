// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces
// =============================================================================

// HTTPConfig provides listener and CORS settings.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTSecret() string
	GetJWTIssuer() string
}

// RedisConfig provides the Redis connection used by the view gate.
type RedisConfig interface {
	GetRedisURL() string
}

// SchedulerConfig provides asynq settings.
type SchedulerConfig interface {
	RedisConfig
	GetAsynqQueue() string
	GetAsynqConcurrency() int
	GetReminderLeadTime() time.Duration
}

// StorageConfig provides MinIO settings for job-posting source files.
type StorageConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOMaxFileSize() int64
	GetMinIOBucketJobFiles() string
	IsMinIOEnabled() bool
}

// SMTPConfig provides outgoing mail settings.
type SMTPConfig interface {
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetSMTPFrom() string
	IsSMTPEnabled() bool
}

// NotificationConfig provides recipients and links used in mails.
type NotificationConfig interface {
	GetAdminNotifyEmail() string
	GetSiteURL() string
}

// GeminiConfig provides generative-AI settings.
type GeminiConfig interface {
	GetGeminiAPIKey() string
	GetGeminiExtractionModel() string
	GetGeminiRefineModel() string
}

// CalcomConfig provides Cal.com webhook and booking-link settings.
type CalcomConfig interface {
	GetCalcomWebhookSecret() string
	GetCalcomApplySlug() string
	GetCalcomConsultSlug() string
}

// TrackingConfig provides job-view tracking settings.
type TrackingConfig interface {
	GetViewDedupeWindow() time.Duration
}

// RateLimitConfig provides public endpoint throttling.
type RateLimitConfig interface {
	GetPublicRateLimitRPS() float64
	GetPublicRateLimitBurst() int
}

// Config is the full application configuration.
type Config struct {
	Env      string
	HTTPAddr string

	DatabaseURL string

	JWTSecret string
	JWTIssuer string

	CORSAllowAll   bool
	CORSOrigins    []string
	CORSAllowCreds bool

	RedisURL         string
	AsynqQueue       string
	AsynqConcurrency int
	ReminderLeadTime time.Duration
	ViewDedupeWindow time.Duration
	PublicRateRPS    float64
	PublicRateBurst  int

	MinIOEndpoint       string
	MinIOAccessKey      string
	MinIOSecretKey      string
	MinIOUseSSL         bool
	MinIOMaxFileSize    int64
	MinIOBucketJobFiles string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	AdminNotifyEmail string
	SiteURL          string

	GeminiAPIKey          string
	GeminiExtractionModel string
	GeminiRefineModel     string

	CalcomWebhookSecret string
	CalcomApplySlug     string
	CalcomConsultSlug   string
}

func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

func (c *Config) GetJWTSecret() string { return c.JWTSecret }
func (c *Config) GetJWTIssuer() string { return c.JWTIssuer }

func (c *Config) GetRedisURL() string                { return c.RedisURL }
func (c *Config) GetAsynqQueue() string              { return c.AsynqQueue }
func (c *Config) GetAsynqConcurrency() int           { return c.AsynqConcurrency }
func (c *Config) GetReminderLeadTime() time.Duration { return c.ReminderLeadTime }
func (c *Config) GetViewDedupeWindow() time.Duration { return c.ViewDedupeWindow }
func (c *Config) GetPublicRateLimitRPS() float64     { return c.PublicRateRPS }
func (c *Config) GetPublicRateLimitBurst() int       { return c.PublicRateBurst }

func (c *Config) GetMinIOEndpoint() string       { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string      { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string      { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool           { return c.MinIOUseSSL }
func (c *Config) GetMinIOMaxFileSize() int64     { return c.MinIOMaxFileSize }
func (c *Config) GetMinIOBucketJobFiles() string { return c.MinIOBucketJobFiles }
func (c *Config) IsMinIOEnabled() bool           { return c.MinIOEndpoint != "" }

func (c *Config) GetSMTPHost() string     { return c.SMTPHost }
func (c *Config) GetSMTPPort() int        { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string { return c.SMTPPassword }
func (c *Config) GetSMTPFrom() string     { return c.SMTPFrom }
func (c *Config) IsSMTPEnabled() bool     { return c.SMTPHost != "" && c.SMTPFrom != "" }

func (c *Config) GetAdminNotifyEmail() string { return c.AdminNotifyEmail }
func (c *Config) GetSiteURL() string          { return c.SiteURL }

func (c *Config) GetGeminiAPIKey() string          { return c.GeminiAPIKey }
func (c *Config) GetGeminiExtractionModel() string { return c.GeminiExtractionModel }
func (c *Config) GetGeminiRefineModel() string     { return c.GeminiRefineModel }

func (c *Config) GetCalcomWebhookSecret() string { return c.CalcomWebhookSecret }
func (c *Config) GetCalcomApplySlug() string     { return c.CalcomApplySlug }
func (c *Config) GetCalcomConsultSlug() string   { return c.CalcomConsultSlug }

// Load reads configuration from the environment, with an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                   getEnv("APP_ENV", "development"),
		HTTPAddr:              getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		JWTSecret:             getEnv("JWT_SECRET", ""),
		JWTIssuer:             getEnv("JWT_ISSUER", ""),
		CORSAllowAll:          corsAllowAll,
		CORSOrigins:           corsOrigins,
		CORSAllowCreds:        strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		RedisURL:              getEnv("REDIS_URL", "redis://localhost:6379/0"),
		AsynqQueue:            getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:      mustInt(getEnv("ASYNQ_CONCURRENCY", "5")),
		ReminderLeadTime:      mustDuration(getEnv("REMINDER_LEAD_TIME", "24h")),
		ViewDedupeWindow:      mustDuration(getEnv("VIEW_DEDUPE_WINDOW", "5m")),
		PublicRateRPS:         mustFloat(getEnv("PUBLIC_RATE_LIMIT_RPS", "2")),
		PublicRateBurst:       mustInt(getEnv("PUBLIC_RATE_LIMIT_BURST", "20")),
		MinIOEndpoint:         getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:        getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:        getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:           strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinIOMaxFileSize:      mustInt64(getEnv("MINIO_MAX_FILE_SIZE", "20971520")),
		MinIOBucketJobFiles:   getEnv("MINIO_BUCKET_JOB_FILES", "job-files"),
		SMTPHost:              getEnv("SMTP_HOST", ""),
		SMTPPort:              mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:          getEnv("SMTP_USERNAME", ""),
		SMTPPassword:          getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:              getEnv("SMTP_FROM", ""),
		AdminNotifyEmail:      getEnv("ADMIN_NOTIFY_EMAIL", ""),
		SiteURL:               strings.TrimRight(getEnv("SITE_URL", "http://localhost:3000"), "/"),
		GeminiAPIKey:          getEnv("GEMINI_API_KEY", ""),
		GeminiExtractionModel: getEnv("GEMINI_EXTRACTION_MODEL", "gemini-2.0-flash"),
		GeminiRefineModel:     getEnv("GEMINI_REFINE_MODEL", "gemini-2.0-flash"),
		CalcomWebhookSecret:   getEnv("CALCOM_WEBHOOK_SECRET", ""),
		CalcomApplySlug:       getEnv("CALCOM_APPLY_SLUG", ""),
		CalcomConsultSlug:     getEnv("CALCOM_CONSULT_SLUG", ""),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if cfg.ViewDedupeWindow <= 0 {
		return nil, fmt.Errorf("VIEW_DEDUPE_WINDOW must be a positive duration")
	}
	if cfg.IsMinIOEnabled() && (cfg.MinIOAccessKey == "" || cfg.MinIOSecretKey == "") {
		return nil, fmt.Errorf("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required when MINIO_ENDPOINT is set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func mustInt64(value string) int64 {
	result, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
