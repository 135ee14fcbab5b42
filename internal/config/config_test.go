package config

import (
	"strings"
	"testing"
	"time"
)

func lookup(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(lookup(map[string]string{
		"SESSION_SECRET":  "0123456789abcdef",
		"WHATSAPP_NUMBER": "+971589114422",
	}))
	if err != nil {
		t.Fatalf("FromEnv() error = %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.Catalog.Timeout != 10*time.Second {
		t.Errorf("Catalog.Timeout = %v", cfg.Catalog.Timeout)
	}
	if cfg.Session.Driver != "memory" || cfg.Images.Delivery != "inline" {
		t.Errorf("unexpected drivers: %+v %+v", cfg.Session, cfg.Images)
	}
	if cfg.WhatsApp.ContactNumber != "+971589114422" {
		t.Errorf("ContactNumber should fall back to Number, got %q", cfg.WhatsApp.ContactNumber)
	}
}

func TestFromEnvTrimsBaseURL(t *testing.T) {
	cfg, err := FromEnv(lookup(map[string]string{
		"SESSION_SECRET":  "0123456789abcdef",
		"CATALOG_API_URL": "https://api.example.com/",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Catalog.BaseURL != "https://api.example.com" {
		t.Fatalf("BaseURL = %q", cfg.Catalog.BaseURL)
	}
}

func TestFromEnvErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"short secret", map[string]string{"SESSION_SECRET": "short"}, "SESSION_SECRET"},
		{"mysql without dsn", map[string]string{"SESSION_SECRET": "0123456789abcdef", "SESSION_DRIVER": "mysql"}, "DB_DSN"},
		{"bad delivery", map[string]string{"SESSION_SECRET": "0123456789abcdef", "IMAGE_DELIVERY": "ftp"}, "IMAGE_DELIVERY"},
		{"bad duration", map[string]string{"SESSION_SECRET": "0123456789abcdef", "SESSION_TTL": "soon"}, "SESSION_TTL"},
		{"s3 incomplete", map[string]string{
			"SESSION_SECRET": "0123456789abcdef", "IMAGE_DELIVERY": "storage", "STORAGE_DRIVER": "s3",
		}, "S3 config missing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(lookup(tt.env))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}
