package config

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(viper.New())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.AppPort != "8080" {
		t.Errorf("AppPort = %q, want 8080", cfg.AppPort)
	}
	if cfg.DataBackend != "mongo" {
		t.Errorf("DataBackend = %q, want mongo", cfg.DataBackend)
	}
	if cfg.DatabaseName != "pocketclass" {
		t.Errorf("DatabaseName = %q, want pocketclass", cfg.DatabaseName)
	}
	if cfg.ClientCacheTTL != 60 {
		t.Errorf("ClientCacheTTL = %d, want 60", cfg.ClientCacheTTL)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DATA_BACKEND", "firestore")
	t.Setenv("FIREBASE_PROJECT_ID", "pocketclass-dev")
	t.Setenv("CLIENT_CACHE_TTL", "15")

	cfg, err := Load(viper.New())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.DataBackend != "firestore" || cfg.FirebaseProjectID != "pocketclass-dev" {
		t.Errorf("env values not applied: %+v", cfg)
	}
	if cfg.ClientCacheTTL != 15 {
		t.Errorf("ClientCacheTTL = %d, want 15", cfg.ClientCacheTTL)
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		DataBackend:              "mongo",
		DatabaseURL:              "mongodb://localhost:27017",
		AuthMode:                 "firebase",
		ProfileLookupConcurrency: 4,
	}

	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad backend", func(c *Config) { c.DataBackend = "sqlite" }, "DATA_BACKEND"},
		{"bad auth mode", func(c *Config) { c.AuthMode = "basic" }, "AUTH_MODE"},
		{"jwt without secret", func(c *Config) { c.AuthMode = "jwt" }, "JWT_SECRET"},
		{"firestore without project", func(c *Config) { c.DataBackend = "firestore" }, "FIREBASE_PROJECT_ID"},
		{"negative ttl", func(c *Config) { c.ClientCacheTTL = -1 }, "CLIENT_CACHE_TTL"},
		{"zero concurrency", func(c *Config) { c.ProfileLookupConcurrency = 0 }, "PROFILE_LOOKUP_CONCURRENCY"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error mentioning %s, got %v", tc.wantErr, err)
			}
		})
	}
}
