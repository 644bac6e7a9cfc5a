// Package config resolves the frontend settings from flags, the environment
// and an optional .env file, in that order of precedence.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/crypto/hkdf"
)

type Config struct {
	Port                 int
	BackendURL           string
	PublicURL            string
	SessionKey           string
	SessionEncryptionKey string
	CookieSecure         bool
	BackendTimeout       time.Duration
	LogLevel             string
	LogFormat            string
}

const encryptionKeyInfo = "voterz session encryption"

const (
	keyPort                 = "port"
	keyBackendURL           = "backend_url"
	keyPublicURL            = "public_url"
	keySessionKey           = "session_key"
	keySessionEncryptionKey = "session_encryption_key"
	keyCookieSecure         = "cookie_secure"
	keyBackendTimeout       = "backend_timeout"
	keyLogLevel             = "log_level"
	keyLogFormat            = "log_format"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyPort, 8080)
	v.SetDefault(keyBackendURL, "http://localhost:5000")
	v.SetDefault(keyPublicURL, "http://localhost:8080")
	v.SetDefault(keyCookieSecure, false)
	v.SetDefault(keyBackendTimeout, 15*time.Second)
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyLogFormat, "console")
}

// BindFlags registers the command line flags and binds them into v.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	fs.IntP("port", "p", 8080, "HTTP port to listen on")
	fs.String("backend-url", "http://localhost:5000", "base URL of the voting API")
	fs.String("public-url", "http://localhost:8080", "public base URL used in voting links")
	fs.Bool("cookie-secure", false, "mark the session cookie Secure")
	fs.Duration("backend-timeout", 15*time.Second, "timeout of a single backend request")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.String("log-format", "console", "log format (console or json)")

	binds := map[string]string{
		keyPort:           "port",
		keyBackendURL:     "backend-url",
		keyPublicURL:      "public-url",
		keyCookieSecure:   "cookie-secure",
		keyBackendTimeout: "backend-timeout",
		keyLogLevel:       "log-level",
		keyLogFormat:      "log-format",
	}
	for key, flag := range binds {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}
	return nil
}

// Load reads envFile (a missing file is fine), then the environment and any
// bound flags, and validates the result. Values from the .env file never
// override the real environment.
func Load(v *viper.Viper, envFile string) (Config, error) {
	setDefaults(v)
	v.AutomaticEnv()

	if envFile != "" {
		vals, err := godotenv.Read(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read %s: %w", envFile, err)
		}
		for k, val := range vals {
			v.SetDefault(strings.ToLower(k), val)
		}
	}

	cfg := Config{
		Port:                 v.GetInt(keyPort),
		BackendURL:           v.GetString(keyBackendURL),
		PublicURL:            strings.TrimRight(v.GetString(keyPublicURL), "/"),
		SessionKey:           v.GetString(keySessionKey),
		SessionEncryptionKey: v.GetString(keySessionEncryptionKey),
		CookieSecure:         v.GetBool(keyCookieSecure),
		BackendTimeout:       v.GetDuration(keyBackendTimeout),
		LogLevel:             v.GetString(keyLogLevel),
		LogFormat:            v.GetString(keyLogFormat),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	for name, raw := range map[string]string{"BACKEND_URL": c.BackendURL, "PUBLIC_URL": c.PublicURL} {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%s must be an absolute http(s) URL, got %q", name, raw)
		}
	}
	if c.BackendTimeout <= 0 {
		return fmt.Errorf("invalid backend timeout %s", c.BackendTimeout)
	}
	if _, _, err := c.SessionKeys(); err != nil {
		return err
	}
	return nil
}

// SessionKeys decodes the hex encoded cookie keys. Without SESSION_KEY a
// random signing key is generated and sessions do not survive a restart.
// Without SESSION_ENCRYPTION_KEY the encryption key is derived from the
// signing key, so the bearer token never sits in the cookie in clear.
func (c Config) SessionKeys() (auth, enc []byte, err error) {
	if c.SessionKey == "" {
		auth = securecookie.GenerateRandomKey(32)
	} else {
		auth, err = hex.DecodeString(c.SessionKey)
		if err != nil {
			return nil, nil, fmt.Errorf("SESSION_KEY must be hex encoded: %w", err)
		}
		if len(auth) < 32 {
			return nil, nil, errors.New("SESSION_KEY must be at least 32 bytes")
		}
	}
	if c.SessionEncryptionKey != "" {
		enc, err = hex.DecodeString(c.SessionEncryptionKey)
		if err != nil {
			return nil, nil, fmt.Errorf("SESSION_ENCRYPTION_KEY must be hex encoded: %w", err)
		}
		switch len(enc) {
		case 16, 24, 32:
		default:
			return nil, nil, errors.New("SESSION_ENCRYPTION_KEY must be 16, 24 or 32 bytes")
		}
		return auth, enc, nil
	}

	enc = make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, auth, nil, []byte(encryptionKeyInfo)), enc); err != nil {
		return nil, nil, fmt.Errorf("derive session encryption key: %w", err)
	}
	return auth, enc, nil
}

// EphemeralSession reports whether the session signing key is generated at
// startup.
func (c Config) EphemeralSession() bool {
	return c.SessionKey == ""
}
