package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(viper.New(), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.BackendURL != "http://localhost:5000" {
		t.Errorf("BackendURL = %q", cfg.BackendURL)
	}
	if cfg.BackendTimeout != 15*time.Second {
		t.Errorf("BackendTimeout = %s", cfg.BackendTimeout)
	}
	if !cfg.EphemeralSession() {
		t.Error("expected a generated session key without SESSION_KEY")
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := "BACKEND_URL=http://from-dotenv:5000\nPUBLIC_URL=https://vote.example.org/\nLOG_LEVEL=debug\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LOG_LEVEL", "warn")

	v := viper.New()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(v, fs); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}
	if err := fs.Parse([]string{"-p", "9090"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(v, envFile)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want flag value 9090", cfg.Port)
	}
	if cfg.BackendURL != "http://from-dotenv:5000" {
		t.Errorf("BackendURL = %q, want .env value", cfg.BackendURL)
	}
	if cfg.PublicURL != "https://vote.example.org" {
		t.Errorf("PublicURL = %q, want trailing slash trimmed", cfg.PublicURL)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, environment must beat .env", cfg.LogLevel)
	}
}

func TestLoadMissingEnvFile(t *testing.T) {
	if _, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Fatalf("missing .env should be ignored: %v", err)
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		Port:           8080,
		BackendURL:     "http://localhost:5000",
		PublicURL:      "http://localhost:8080",
		BackendTimeout: time.Second,
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errSub string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.Port = 70000 }, errSub: "port"},
		{name: "relative backend", mutate: func(c *Config) { c.BackendURL = "/api" }, errSub: "BACKEND_URL"},
		{name: "zero timeout", mutate: func(c *Config) { c.BackendTimeout = 0 }, errSub: "timeout"},
		{name: "non hex key", mutate: func(c *Config) { c.SessionKey = "zz" }, errSub: "hex"},
		{name: "short key", mutate: func(c *Config) { c.SessionKey = "abcd" }, errSub: "32 bytes"},
		{
			name: "bad encryption key length",
			mutate: func(c *Config) {
				c.SessionKey = strings.Repeat("ab", 32)
				c.SessionEncryptionKey = strings.Repeat("ab", 10)
			},
			errSub: "16, 24 or 32",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errSub == "" {
				if err != nil {
					t.Errorf("Validate() = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.errSub) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.errSub)
			}
		})
	}
}

func TestSessionKeysDecode(t *testing.T) {
	cfg := Config{SessionKey: strings.Repeat("01", 32), SessionEncryptionKey: strings.Repeat("02", 16)}
	auth, enc, err := cfg.SessionKeys()
	if err != nil {
		t.Fatalf("SessionKeys: %v", err)
	}
	if len(auth) != 32 || len(enc) != 16 {
		t.Errorf("key lengths = %d, %d", len(auth), len(enc))
	}
	if cfg.EphemeralSession() {
		t.Error("configured key reported as ephemeral")
	}
}

func TestSessionKeysDeriveEncryptionKey(t *testing.T) {
	cfg := Config{SessionKey: strings.Repeat("01", 32)}
	auth, enc, err := cfg.SessionKeys()
	if err != nil {
		t.Fatalf("SessionKeys: %v", err)
	}
	if len(enc) != 32 {
		t.Fatalf("derived key length = %d, want 32", len(enc))
	}
	if bytes.Equal(auth, enc) {
		t.Error("encryption key equals the signing key")
	}

	_, again, err := cfg.SessionKeys()
	if err != nil {
		t.Fatalf("SessionKeys: %v", err)
	}
	if !bytes.Equal(enc, again) {
		t.Error("derived key is not stable across calls")
	}
}
