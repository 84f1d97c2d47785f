//go:build !integration

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("missing file falls back to env and defaults", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost:5432/app")

		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), false)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Server.Port != 8080 {
			t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
		}
		if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
			t.Errorf("unexpected log defaults %+v", cfg.Log)
		}
		if cfg.Plans.Monthly.AmountMinor != 79900 || cfg.Plans.Yearly.AmountMinor != 729900 {
			t.Errorf("unexpected plan defaults %+v", cfg.Plans)
		}
		if cfg.Plans.Yearly.DurationMonths != 12 {
			t.Errorf("expected 12 month yearly duration, got %d", cfg.Plans.Yearly.DurationMonths)
		}
	})

	t.Run("env vars override file values", func(t *testing.T) {
		path := writeTempConfig(t, `
server:
  port: 9000
database:
  url: postgres://file-host/app
razorpay:
  key_id: rzp_from_file
`)
		t.Setenv("DATABASE_URL", "postgres://env-host/app")
		t.Setenv("RAZORPAY_KEY_ID", "rzp_from_env")
		t.Setenv("RAZORPAY_KEY_SECRET", "secret_from_env")

		cfg, err := LoadConfig(path, false)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Server.Port != 9000 {
			t.Errorf("file port must survive, got %d", cfg.Server.Port)
		}
		if cfg.Database.URL != "postgres://env-host/app" {
			t.Errorf("env must win for the database url, got %q", cfg.Database.URL)
		}
		if cfg.Razorpay.KeyID != "rzp_from_env" || cfg.Razorpay.KeySecret != "secret_from_env" {
			t.Errorf("env must win for gateway credentials, got %+v", cfg.Razorpay)
		}
	})

	t.Run("public key id defaults to the key id", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/app")
		t.Setenv("RAZORPAY_KEY_ID", "rzp_test_abc")

		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), false)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Razorpay.PublicKeyID != "rzp_test_abc" {
			t.Errorf("expected public key to fall back to key id, got %q", cfg.Razorpay.PublicKeyID)
		}
	})

	t.Run("missing database url is a startup failure", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")

		if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), false); err == nil {
			t.Fatal("expected an error without a database url")
		}
	})

	t.Run("missing gateway credentials are not a startup failure", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/app")
		t.Setenv("RAZORPAY_KEY_ID", "")
		t.Setenv("RAZORPAY_KEY_SECRET", "")

		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), false)
		if err != nil {
			t.Fatalf("credentials absence must not fail startup: %v", err)
		}
		if cfg.Razorpay.KeyID != "" {
			t.Errorf("unexpected key id %q", cfg.Razorpay.KeyID)
		}
	})

	t.Run("malformed yaml is rejected", func(t *testing.T) {
		path := writeTempConfig(t, "server: [not a map")
		var parseErr error
		if _, parseErr = LoadConfig(path, false); parseErr == nil {
			t.Fatal("expected a parse error")
		}
		if errors.Is(parseErr, os.ErrNotExist) {
			t.Fatalf("wrong error kind: %v", parseErr)
		}
	})

	t.Run("dev flag lands in runtime config", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/app")

		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), true)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !cfg.Runtime.Dev {
			t.Error("expected dev mode to be set")
		}
	})
}
