// Package config loads the client configuration from YAML with
// first-match discovery: an explicit path, then ./beijshop.yaml, then
// ~/.beijshop/config.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	projectConfigName = "beijshop.yaml"
	homeConfigName    = "config.yaml"
	homeConfigDir     = ".beijshop"

	// EnvAPIURL overrides the backend base URL when set.
	EnvAPIURL = "BEIJSHOP_API_URL"
)

// Config is the full client configuration.
type Config struct {
	API       APIConfig       `yaml:"api"`
	Storage   StorageConfig   `yaml:"storage"`
	LivePrice LivePriceConfig `yaml:"live_price"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// APIConfig selects the backend.
type APIConfig struct {
	// BaseURL is the backend base path, e.g. "http://host:8000/api/v1".
	BaseURL string `yaml:"base_url"`
}

// StorageConfig selects the durable store location.
type StorageConfig struct {
	// SQLitePath defaults to ~/.beijshop/beijshop.db.
	SQLitePath string `yaml:"sqlite_path"`
}

// LivePriceConfig configures the live-price watcher.
type LivePriceConfig struct {
	Endpoint string `yaml:"endpoint"`
	// Schedule is a five-field UTC cron expression.
	Schedule string `yaml:"schedule"`
}

// TelemetryConfig configures OTLP export.
type TelemetryConfig struct {
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	Insecure     bool   `yaml:"insecure"`
}

// DiscoverPath resolves the config location with first-match semantics.
func DiscoverPath(explicitPath string) (string, bool, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", false, fmt.Errorf("config: resolve working directory: %w", err)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", false, fmt.Errorf("config: resolve user home: %w", err)
	}
	return DiscoverPathFrom(explicitPath, cwd, homeDir)
}

// DiscoverPathFrom is a testable variant of DiscoverPath.
func DiscoverPathFrom(explicitPath, cwd, homeDir string) (string, bool, error) {
	candidates := make([]string, 0, 2)
	if clean := strings.TrimSpace(explicitPath); clean != "" {
		candidates = append(candidates, filepath.Clean(clean))
	} else {
		candidates = append(candidates, filepath.Join(cwd, projectConfigName))
		candidates = append(candidates, filepath.Join(homeDir, homeConfigDir, homeConfigName))
	}

	for i, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, true, nil
		}
		if errors.Is(err, os.ErrNotExist) {
			// An explicit path that does not exist is an error.
			if i == 0 && strings.TrimSpace(explicitPath) != "" {
				return "", false, fmt.Errorf("config: file %q not found", candidate)
			}
			continue
		}
		if err != nil {
			return "", false, fmt.Errorf("config: checking path %q: %w", candidate, err)
		}
	}
	return "", false, nil
}

// Load reads and parses one config file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %q: %w", path, err)
	}
	return cfg, nil
}

// Resolve discovers, loads, and finishes a config: discovery failures
// for implicit locations fall back to the zero config, and the
// BEIJSHOP_API_URL environment variable overrides the base URL.
func Resolve(explicitPath string) (Config, error) {
	path, found, err := DiscoverPath(explicitPath)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if found {
		cfg, err = Load(path)
		if err != nil {
			return Config{}, err
		}
	}

	if env := strings.TrimSpace(os.Getenv(EnvAPIURL)); env != "" {
		cfg.API.BaseURL = env
	}
	return cfg, nil
}
