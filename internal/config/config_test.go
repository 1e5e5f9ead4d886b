package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("FIREBASE_CREDENTIALS_JSON", `{"type":"service_account"}`)
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.AppPort != 3000 {
		t.Errorf("expected default port 3000, got %d", cfg.AppPort)
	}
	if cfg.MongoDatabase != "echo_serve" {
		t.Errorf("expected default database, got %q", cfg.MongoDatabase)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("expected default shutdown timeout, got %v", cfg.ShutdownTimeout)
	}
	if cfg.RateLimitEnabled {
		t.Error("rate limiting must be off by default")
	}
	if !cfg.IsDevelopment() {
		t.Error("expected development mode by default")
	}
}

func TestLoad_MissingMongoURI(t *testing.T) {
	t.Setenv("FIREBASE_CREDENTIALS_JSON", `{"type":"service_account"}`)

	if _, err := Load(); err == nil {
		t.Fatal("expected error when MONGO_URI is missing")
	}
}

func TestLoad_MissingFirebaseCredentials(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when FIREBASE_CREDENTIALS_JSON is missing")
	}
}

func TestLoad_RateLimitRequiresRedis(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("RATE_LIMIT_ENABLED", "true")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when rate limiting is enabled without REDIS_URL")
	}
}

func TestGetCORSAllowedOrigins(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	origins := cfg.GetCORSAllowedOrigins()
	if len(origins) != 2 {
		t.Fatalf("expected 2 origins, got %d: %v", len(origins), origins)
	}
	if origins[0] != "https://a.example" || origins[1] != "https://b.example" {
		t.Errorf("unexpected origins: %v", origins)
	}
}
