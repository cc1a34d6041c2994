package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port                  int              `json:"port"`
	SiteURL               string           `json:"site_url"`
	AdminPassword         string           `json:"admin_password"`
	AdminPasswordHash     string           `json:"admin_password_hash"`
	SessionSecret         string           `json:"session_secret"`
	Session               SessionConfig    `json:"session"`
	Database              DatabaseConfig   `json:"database"`
	LogConfig             logger.LogConfig `json:"log_config"`
	FileStore             FileStoreConfig  `json:"file_store"`
	Share                 ShareConfig      `json:"share"`
	Upload                UploadConfig     `json:"upload"`
	CORSAllowlist         []string         `json:"cors_allowlist"`
	LoginRateLimitSeconds int              `json:"login_rate_limit_seconds"`
	RequestTimeoutSeconds int              `json:"request_timeout_seconds"`
}

type SessionConfig struct {
	TTLHours     int  `json:"ttl_hours"`
	CookieSecure bool `json:"cookie_secure"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	SSLMode  string `json:"sslmode"`
}

type FileStoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type ShareConfig struct {
	IDBytes             int    `json:"id_bytes"`
	MaxCreateAttempts   int    `json:"max_create_attempts"`
	RedeemMaxFailures   int    `json:"redeem_max_failures"`
	RedeemWindowSeconds int    `json:"redeem_window_seconds"`
	RedisAddr           string `json:"redis_addr"`
	RedisPassword       string `json:"redis_password"`
	CleanupCron         string `json:"cleanup_cron"`
	CleanupGraceDays    int    `json:"cleanup_grace_days"`
}

type UploadConfig struct {
	MaxImageBytes    int64 `json:"max_image_bytes"`
	MaxDocumentBytes int64 `json:"max_document_bytes"`
}

const (
	minShareIDBytes         = 10
	defaultShareIDBytes     = 16
	defaultMaxImageBytes    = 100 * 1024 * 1024
	defaultMaxDocumentBytes = 250 * 1024 * 1024
)

// envOverrides maps environment variables onto secret fields so credentials
// can stay out of the config file.
var envOverrides = []struct {
	key string
	set func(cfg *Config, value string)
}{
	{"ADMIN_PASSWORD", func(cfg *Config, v string) { cfg.AdminPassword = v }},
	{"ADMIN_PASSWORD_HASH", func(cfg *Config, v string) { cfg.AdminPasswordHash = v }},
	{"SESSION_SECRET", func(cfg *Config, v string) { cfg.SessionSecret = v }},
	{"DATABASE_DSN", func(cfg *Config, v string) { cfg.Database.DSN = v }},
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	for _, item := range envOverrides {
		if value, ok := os.LookupEnv(item.key); ok && value != "" {
			item.set(&cfg, value)
		}
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() error {
	if c.Port == 0 {
		return fmt.Errorf("port is required")
	}
	if c.Database.DSN == "" && c.Database.Host == "" {
		return fmt.Errorf("database.dsn or database.host is required")
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	c.SiteURL = strings.TrimSuffix(strings.TrimSpace(c.SiteURL), "/")
	if c.SessionSecret == "" {
		c.SessionSecret = c.AdminPassword
	}
	if c.Session.TTLHours <= 0 {
		c.Session.TTLHours = 24
	}
	if c.LogConfig.Level == "" {
		c.LogConfig.Level = "info"
	}
	if c.FileStore.Type == "" {
		c.FileStore.Type = "local"
	}
	switch c.Share.IDBytes {
	case 0:
		c.Share.IDBytes = defaultShareIDBytes
	default:
		if c.Share.IDBytes < minShareIDBytes {
			return fmt.Errorf("share.id_bytes must be at least %d", minShareIDBytes)
		}
	}
	if c.Share.MaxCreateAttempts <= 0 {
		c.Share.MaxCreateAttempts = 3
	}
	c.Share.RedeemMaxFailures = defaultOrDisabled(c.Share.RedeemMaxFailures, 5)
	if c.Share.RedeemWindowSeconds <= 0 {
		c.Share.RedeemWindowSeconds = 600
	}
	if c.Share.CleanupGraceDays <= 0 {
		c.Share.CleanupGraceDays = 30
	}
	if c.Upload.MaxImageBytes <= 0 {
		c.Upload.MaxImageBytes = defaultMaxImageBytes
	}
	if c.Upload.MaxDocumentBytes <= 0 {
		c.Upload.MaxDocumentBytes = defaultMaxDocumentBytes
	}
	c.LoginRateLimitSeconds = defaultOrDisabled(c.LoginRateLimitSeconds, 2)
	if c.RequestTimeoutSeconds <= 0 {
		c.RequestTimeoutSeconds = 10
	}
	return nil
}

// defaultOrDisabled maps an unset value to def and any negative value to 0 (disabled).
func defaultOrDisabled(value, def int) int {
	switch {
	case value < 0:
		return 0
	case value == 0:
		return def
	}
	return value
}

// AdminLoginConfigured reports whether any admin credential is present.
func (c *Config) AdminLoginConfigured() bool {
	return c.AdminPassword != "" || c.AdminPasswordHash != ""
}

// Properties reports which optional settings are present, never their values.
type Properties struct {
	AdminPassword    bool   `json:"admin_password"`
	SessionSecret    bool   `json:"session_secret"`
	SiteURL          bool   `json:"site_url"`
	Database         bool   `json:"database"`
	FileStore        string `json:"file_store"`
	SharedCounters   bool   `json:"shared_counters"`
	ShareCleanup     bool   `json:"share_cleanup"`
	MaxImageBytes    int64  `json:"max_image_bytes"`
	MaxDocumentBytes int64  `json:"max_document_bytes"`
}

func (c *Config) Properties() Properties {
	return Properties{
		AdminPassword:    c.AdminLoginConfigured(),
		SessionSecret:    c.SessionSecret != "",
		SiteURL:          c.SiteURL != "",
		Database:         c.Database.DSN != "" || c.Database.Host != "",
		FileStore:        c.FileStore.Type,
		SharedCounters:   c.Share.RedisAddr != "",
		ShareCleanup:     c.Share.CleanupCron != "",
		MaxImageBytes:    c.Upload.MaxImageBytes,
		MaxDocumentBytes: c.Upload.MaxDocumentBytes,
	}
}
