package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultSourcesFile is the default sources configuration file name.
const DefaultSourcesFile = ".news-crawler.yml"

// Load builds the effective configuration: defaults first, then a .env
// file when present, then process environment variables (which win over
// .env values), then the sources file when one is found. The result is
// not validated; callers run Validate after applying CLI flag
// overrides.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	cfg := NewConfig()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	path := FindSourcesFile(cfg.SourcesFile)
	if path == "" {
		if cfg.SourcesFile != "" {
			return nil, fmt.Errorf("%w: %s", ErrSourcesNotFound, cfg.SourcesFile)
		}
		// No file anywhere: the built-in default source stays in effect.
		return cfg, nil
	}

	file, err := LoadSourcesFile(path)
	if err != nil {
		return nil, err
	}
	cfg.Sources = file.Sources
	cfg.SourcesFile = path

	return cfg, nil
}

// LoadSourcesFile loads source configurations from a YAML file.
// If the file does not exist, it returns ErrSourcesNotFound.
func LoadSourcesFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSourcesNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse sources file %s: %w", path, err)
	}

	return &f, nil
}

// FindSourcesFile searches for the sources file in the following order:
// 1. If explicit is specified, use it directly
// 2. Look for .news-crawler.yml in the current directory
// 3. Look for .news-crawler.yml in the user's home directory
//
// Returns the path to the file if found, or empty string if not found.
func FindSourcesFile(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		p := filepath.Join(cwd, DefaultSourcesFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		p := filepath.Join(home, DefaultSourcesFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// applyEnv overlays recognized environment variables onto the config.
// Unset or empty variables leave the current value untouched; malformed
// numeric values are reported rather than silently defaulted.
func (c *Config) applyEnv() error {
	var err error
	if c.MaxArticles, err = envInt("MAX_ARTICLES", c.MaxArticles); err != nil {
		return err
	}
	if c.Temperature, err = envFloat("API_TEMPERATURE", c.Temperature); err != nil {
		return err
	}
	if c.MaxTokens, err = envInt("API_MAX_TOKENS", c.MaxTokens); err != nil {
		return err
	}
	if c.MaxRetries, err = envInt("API_MAX_RETRIES", c.MaxRetries); err != nil {
		return err
	}

	c.APIKey = envString("API_KEY", c.APIKey)
	c.APIURL = envString("API_URL", c.APIURL)
	c.APIModel = envString("API_MODEL", c.APIModel)
	c.HTTPProxy = firstEnv("HTTP_PROXY", "http_proxy")
	c.HTTPSProxy = firstEnv("HTTPS_PROXY", "https_proxy")
	c.Referer = envString("HTTP_REFERER", c.Referer)
	c.AppTitle = envString("X_TITLE", c.AppTitle)
	c.OutputDir = envString("OUTPUT_DIR", c.OutputDir)
	c.DebugDir = envString("DEBUG_DIR", c.DebugDir)
	c.StaticDir = envString("STATIC_DIR", c.StaticDir)
	c.ServerAddr = envString("SERVER_ADDR", c.ServerAddr)
	c.SourcesFile = envString("SOURCES_FILE", c.SourcesFile)

	return nil
}

// envString returns the environment value for key, or fallback when the
// variable is unset or empty.
func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// firstEnv returns the first non-empty value among the given keys.
func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// envInt parses an integer environment variable.
func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("parse %s=%q: %w", key, v, err)
	}
	return n, nil
}

// envFloat parses a float environment variable.
func envFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s=%q: %w", key, v, err)
	}
	return f, nil
}
