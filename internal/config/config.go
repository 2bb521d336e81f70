// Package config loads CLI settings from defaults, an optional YAML file,
// .env files and the environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/henrybloomingdale/arxiv-cli/arxiv"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by every subcommand.
type Config struct {
	BaseURL          string        `yaml:"base_url"`
	UserAgent        string        `yaml:"user_agent"`
	Timeout          time.Duration `yaml:"timeout"`
	MaxResponseBytes int64         `yaml:"max_response_bytes"`
	MaxResults       int           `yaml:"max_results"`
	LogLevel         string        `yaml:"log_level"`
	FeedPDFLinks     bool          `yaml:"feed_pdf_links"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		BaseURL:          arxiv.DefaultBaseURL,
		UserAgent:        arxiv.DefaultUserAgent,
		Timeout:          arxiv.DefaultTimeout,
		MaxResponseBytes: arxiv.DefaultMaxResponseBytes,
		MaxResults:       arxiv.DefaultMaxResults,
		LogLevel:         "info",
	}
}

// DefaultPath returns the per-user config file location. The file is optional.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "arxiv-cli", "config.yaml")
}

// Load builds a Config. path, or ARXIV_CONFIG when path is empty, names a
// YAML file that must exist; with neither set the file at DefaultPath is
// read if present.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	c := Defaults()

	explicit := true
	if path == "" {
		path = os.Getenv("ARXIV_CONFIG")
	}
	if path == "" {
		path = DefaultPath()
		explicit = false
	}
	if path != "" {
		if err := c.loadFile(path); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}

	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func loadEnvFiles() {
	// Do not override environment provided by the shell.
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.BaseURL = getEnv("ARXIV_BASE_URL", c.BaseURL)
	c.UserAgent = getEnv("ARXIV_USER_AGENT", c.UserAgent)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	if raw := os.Getenv("ARXIV_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("ARXIV_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	if raw := os.Getenv("ARXIV_MAX_RESPONSE_BYTES"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("ARXIV_MAX_RESPONSE_BYTES: %w", err)
		}
		c.MaxResponseBytes = n
	}
	if raw := os.Getenv("ARXIV_MAX_RESULTS"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("ARXIV_MAX_RESULTS: %w", err)
		}
		c.MaxResults = n
	}
	if raw := os.Getenv("ARXIV_FEED_PDF_LINKS"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("ARXIV_FEED_PDF_LINKS: %w", err)
		}
		c.FeedPDFLinks = b
	}
	return nil
}

// Validate rejects settings the client cannot work with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base URL %q must be an absolute URL", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxResponseBytes <= 0 {
		return fmt.Errorf("max response bytes must be positive")
	}
	if c.MaxResults < 0 {
		return fmt.Errorf("max results cannot be negative")
	}
	return nil
}

// ClientOptions translates the configuration into arxiv client options.
func (c *Config) ClientOptions(logger *slog.Logger) []arxiv.Option {
	return []arxiv.Option{
		arxiv.WithBaseURL(c.BaseURL),
		arxiv.WithUserAgent(c.UserAgent),
		arxiv.WithMaxResponseBytes(c.MaxResponseBytes),
		arxiv.WithFeedPDFLinks(c.FeedPDFLinks),
		arxiv.WithLogger(logger),
		arxiv.WithHTTPClient(&http.Client{Timeout: c.Timeout}),
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
