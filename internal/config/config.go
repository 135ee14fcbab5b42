package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the web process reads from the environment.
type Config struct {
	HTTPAddr string

	Catalog  CatalogConfig
	Session  SessionConfig
	WhatsApp WhatsAppConfig
	Images   ImagesConfig
	Storage  StorageConfig
	Log      LogConfig
}

type CatalogConfig struct {
	BaseURL string
	Timeout time.Duration
}

type SessionConfig struct {
	Driver     string // memory | mysql
	DSN        string
	Secret     string
	CookieName string
	Secure     bool
	TTL        time.Duration
}

type WhatsAppConfig struct {
	Number        string
	ContactNumber string
	Greeting      string
	Currency      string
}

type ImagesConfig struct {
	// Delivery is "inline" (data URL in the product record) or "storage"
	// (compressed JPEG uploaded, public URL in the product record).
	Delivery string
}

type StorageConfig struct {
	Driver string // local | s3

	LocalDir       string
	LocalURLPrefix string

	S3Region        string
	S3Bucket        string
	S3Prefix        string
	S3PublicBaseURL string
	S3Endpoint      string // S3-compatible servers (MinIO); empty for AWS
}

type LogConfig struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// .env is optional; production uses real env vars.
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	e := env{get: getenv}

	cfg := &Config{
		HTTPAddr: e.str("HTTP_ADDR", ":8080"),
		Catalog: CatalogConfig{
			BaseURL: strings.TrimRight(e.str("CATALOG_API_URL", "http://localhost:5000"), "/"),
			Timeout: e.duration("CATALOG_TIMEOUT", 10*time.Second),
		},
		Session: SessionConfig{
			Driver:     e.str("SESSION_DRIVER", "memory"),
			DSN:        e.str("DB_DSN", ""),
			Secret:     e.str("SESSION_SECRET", ""),
			CookieName: e.str("SESSION_COOKIE", "lafelle_session"),
			Secure:     e.boolean("COOKIE_SECURE", false),
			TTL:        e.duration("SESSION_TTL", 7*24*time.Hour),
		},
		WhatsApp: WhatsAppConfig{
			Number:        e.str("WHATSAPP_NUMBER", ""),
			ContactNumber: e.str("WHATSAPP_CONTACT_NUMBER", ""),
			Greeting:      e.str("WHATSAPP_GREETING", "Hi, I'm interested in your products!"),
			Currency:      e.str("CURRENCY", "USD"),
		},
		Images: ImagesConfig{
			Delivery: e.str("IMAGE_DELIVERY", "inline"),
		},
		Storage: StorageConfig{
			Driver:          e.str("STORAGE_DRIVER", "local"),
			LocalDir:        e.str("LOCAL_UPLOAD_DIR", "./storage/uploads"),
			LocalURLPrefix:  e.str("LOCAL_UPLOAD_URL_PREFIX", "/uploads"),
			S3Region:        e.str("S3_REGION", ""),
			S3Bucket:        e.str("S3_BUCKET", ""),
			S3Prefix:        e.str("S3_PREFIX", "uploads"),
			S3PublicBaseURL: e.str("S3_PUBLIC_BASE_URL", ""),
			S3Endpoint:      e.str("S3_ENDPOINT", ""),
		},
		Log: LogConfig{
			Level:      e.str("LOG_LEVEL", "info"),
			Format:     e.str("LOG_FORMAT", "json"),
			File:       e.str("LOG_FILE", ""),
			MaxSizeMB:  e.integer("LOG_MAX_SIZE_MB", 100),
			MaxBackups: e.integer("LOG_MAX_BACKUPS", 5),
		},
	}
	if cfg.WhatsApp.ContactNumber == "" {
		cfg.WhatsApp.ContactNumber = cfg.WhatsApp.Number
	}

	if e.err != nil {
		return nil, e.err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks required fields and enumerations.
func (c *Config) Validate() error {
	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("CATALOG_API_URL is required")
	}
	if len(c.Session.Secret) < 16 {
		return fmt.Errorf("SESSION_SECRET must be at least 16 characters")
	}
	switch c.Session.Driver {
	case "memory":
	case "mysql":
		if c.Session.DSN == "" {
			return fmt.Errorf("DB_DSN is required when SESSION_DRIVER=mysql")
		}
	default:
		return fmt.Errorf("unknown SESSION_DRIVER: %s", c.Session.Driver)
	}
	switch c.Images.Delivery {
	case "inline", "storage":
	default:
		return fmt.Errorf("unknown IMAGE_DELIVERY: %s", c.Images.Delivery)
	}
	if c.Images.Delivery == "storage" && c.Storage.Driver == "s3" {
		if c.Storage.S3Region == "" || c.Storage.S3Bucket == "" || c.Storage.S3PublicBaseURL == "" {
			return fmt.Errorf("S3 config missing: S3_REGION, S3_BUCKET, S3_PUBLIC_BASE_URL required")
		}
	}
	return nil
}

type env struct {
	get func(string) string
	err error
}

func (e *env) str(k, def string) string {
	if v := strings.TrimSpace(e.get(k)); v != "" {
		return v
	}
	return def
}

func (e *env) integer(k string, def int) int {
	v := e.str(k, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(k, err)
		return def
	}
	return n
}

func (e *env) boolean(k string, def bool) bool {
	v := e.str(k, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.fail(k, err)
		return def
	}
	return b
}

func (e *env) duration(k string, def time.Duration) time.Duration {
	v := e.str(k, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(k, err)
		return def
	}
	return d
}

func (e *env) fail(k string, err error) {
	if e.err == nil {
		e.err = fmt.Errorf("parse %s: %w", k, err)
	}
}
