package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.App.Port != "8080" {
		t.Errorf("App.Port = %q, want 8080", cfg.App.Port)
	}
	if cfg.Auth.AccessTokenTTL() != 30*time.Minute {
		t.Errorf("AccessTokenTTL = %v, want 30m", cfg.Auth.AccessTokenTTL())
	}
	if cfg.Upload.MaxBytes != 5242880 {
		t.Errorf("Upload.MaxBytes = %d, want 5242880", cfg.Upload.MaxBytes)
	}
	want := []string{"jpg", "jpeg", "png", "gif", "pdf"}
	if len(cfg.Upload.AllowedExtensions) != len(want) {
		t.Fatalf("AllowedExtensions = %v, want %v", cfg.Upload.AllowedExtensions, want)
	}
	for i, ext := range want {
		if cfg.Upload.AllowedExtensions[i] != ext {
			t.Errorf("AllowedExtensions[%d] = %q, want %q", i, cfg.Upload.AllowedExtensions[i], ext)
		}
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "5")
	t.Setenv("ALLOWED_EXTENSIONS", "png, pdf")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Auth.AccessTokenTTLMinutes != 5 {
		t.Errorf("AccessTokenTTLMinutes = %d, want 5", cfg.Auth.AccessTokenTTLMinutes)
	}
	if len(cfg.Upload.AllowedExtensions) != 2 || cfg.Upload.AllowedExtensions[1] != "pdf" {
		t.Errorf("AllowedExtensions = %v, want [png pdf]", cfg.Upload.AllowedExtensions)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 {
		t.Errorf("AllowedOrigins = %v, want two entries", cfg.CORS.AllowedOrigins)
	}
}
