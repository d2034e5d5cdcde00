package app

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultAPIURL      = "http://localhost:8000"
	defaultVerifyDelay = 2 * time.Second
	configFilename     = "config.yaml"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Home         string        `yaml:"-"`                    // data directory, e.g. $HOME/.aura
	APIURL       string        `yaml:"api_url"`              // backend base URL
	PublicURL    string        `yaml:"public_url"`           // join URL base when the server gives none
	PollInterval time.Duration `yaml:"poll_interval"`        // doctor's session refresh
	VerifyDelay  time.Duration `yaml:"license_verify_delay"` // simulated license check
	LogLevel     string        `yaml:"log_level"`            // debug, info, warn, error
	Passphrase   string        `yaml:"-"`                    // keystore secret; device key when empty
	HTTP         *http.Client  `yaml:"-"`                    // optional; defaults to the vault client's own
}

// DefaultHome returns $AURA_HOME or ~/.aura.
func DefaultHome() (string, error) {
	if h := os.Getenv("AURA_HOME"); h != "" {
		return h, nil
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ".aura"), nil
}

// LoadConfig resolves configuration for home.
//
// Later sources win: built-in defaults, home/config.yaml, then environment
// variables (including those from ./.env and home/.env, which never
// override variables already set). Command-line flags are applied by the
// caller on top.
func LoadConfig(home string) (Config, error) {
	cfg := Config{
		Home:         home,
		APIURL:       defaultAPIURL,
		PollInterval: 2 * time.Second,
		VerifyDelay:  defaultVerifyDelay,
		LogLevel:     "warn",
	}

	for _, f := range []string{".env", filepath.Join(home, ".env")} {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	b, err := os.ReadFile(filepath.Join(home, configFilename))
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Config{}, err
	default:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", configFilename, err)
		}
	}

	cfg.APIURL = get("AURA_API_URL", cfg.APIURL)
	cfg.PublicURL = get("AURA_PUBLIC_URL", cfg.PublicURL)
	cfg.LogLevel = get("AURA_LOG_LEVEL", cfg.LogLevel)
	cfg.Passphrase = get("AURA_PASSPHRASE", cfg.Passphrase)
	if v := os.Getenv("AURA_POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("AURA_POLL_INTERVAL: %w", err)
		}
		cfg.PollInterval = d
	}
	return cfg, cfg.Validate()
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	if c.Home == "" {
		return errors.New("home directory is not set")
	}
	if c.APIURL == "" {
		return errors.New("api url is not set")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", c.PollInterval)
	}
	return nil
}

// joinBase is the base used to build join URLs locally.
func (c Config) joinBase() string {
	if c.PublicURL != "" {
		return c.PublicURL
	}
	return c.APIURL
}

// get returns the value of the environment variable k or def if not set.
func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
