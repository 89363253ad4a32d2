package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "DB_DRIVER", "DATABASE_URL", "DB_PASSWORD", "MONGO_URI",
		"SESSION_SECRET", "SESSION_TTL", "CORS_ALLOWED_ORIGINS", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "memory")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Session.TTL != 24*time.Hour {
		t.Errorf("Session.TTL = %v, want 24h", cfg.Session.TTL)
	}
	if !cfg.UsesInsecureSecret() {
		t.Error("expected the insecure default secret to be flagged")
	}
	if cfg.Log.Level != slog.LevelInfo {
		t.Errorf("Log.Level = %v, want INFO", cfg.Log.Level)
	}
}

func TestLoadRejectsDefaultSecretInProduction(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("APP_ENV", "production")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err == nil || !strings.Contains(err.Error(), "SESSION_SECRET") {
		t.Fatalf("Load error = %v, want SESSION_SECRET error", err)
	}

	t.Setenv("SESSION_SECRET", "a-real-secret")
	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("Load with secret: %v", err)
	}
}

func TestLoadRequiresPostgresCredentials(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "postgres")

	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatal("expected error without DATABASE_URL or DB_PASSWORD")
	}

	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/todo")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.Database.GetDSN(); got != "postgres://u:p@db:5432/todo" {
		t.Errorf("GetDSN = %q, want DATABASE_URL verbatim", got)
	}
}

func TestLoadUnknownDriver(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "sqlite")

	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "memory")

	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("SESSION_SECRET=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// godotenv.Load does not override variables that are already set,
	// and clearEnv set SESSION_SECRET to the empty string.
	os.Unsetenv("SESSION_SECRET")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Session.Secret != "from-file" {
		t.Errorf("Session.Secret = %q, want from-file", cfg.Session.Secret)
	}
	os.Unsetenv("SESSION_SECRET")
}

func TestGetStringSliceEnv(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", " http://a.test, ,http://b.test ")

	got := getStringSliceEnv("CORS_ALLOWED_ORIGINS", nil)
	want := []string{"http://a.test", "http://b.test"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestGetDSNEscapesCredentials(t *testing.T) {
	d := DatabaseConfig{
		User:        "app",
		Password:    "p@ss:word",
		Host:        "db",
		Port:        "5432",
		Name:        "todo_app",
		SSLMode:     "disable",
		ConnTimeout: 5 * time.Second,
	}
	want := "postgres://app:p%40ss%3Aword@db:5432/todo_app?sslmode=disable&connect_timeout=5"
	if got := d.GetDSN(); got != want {
		t.Errorf("GetDSN = %q, want %q", got, want)
	}
}
