package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds the per-process settings of the adapter. The GitHub token is
// deliberately not part of it: the credential comes from the environment at
// startup and is injected into the client constructor.
type Config struct {
	Language string `json:"language"`
	// MaxPages caps how many pages a single list fetch (files, comments,
	// reviews) may follow. Exceeding it truncates the sequence, it is not
	// an error.
	MaxPages int `json:"max_pages"`
	// PerPage is the page size requested from the GitHub API (1-100).
	PerPage int `json:"per_page"`
	// RequestTimeoutSeconds bounds every outbound GitHub call.
	RequestTimeoutSeconds int    `json:"request_timeout_seconds"`
	APIBaseURL            string `json:"api_base_url,omitempty"`
	PathFile              string `json:"path_file"`
}

const (
	defaultLang           = "en"
	defaultMaxPages       = 10
	defaultPerPage        = 100
	defaultTimeoutSeconds = 30
)

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func LoadConfig(path string) (*Config, error) {
	var configPath string

	if filepath.Ext(path) == ".json" {
		configPath = path
	} else {
		configDir := filepath.Join(path, ".github-review")
		configPath = filepath.Join(configDir, "config.json")

		if _, err := os.Stat(configDir); os.IsNotExist(err) {
			if err := os.MkdirAll(configDir, 0755); err != nil {
				return nil, fmt.Errorf("error creating config directory: %w", err)
			}
		}
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error decoding config file: %w", err)
	}
	config.PathFile = configPath
	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("loaded config is not valid: %w", err)
	}

	return &config, nil
}

func createDefaultConfig(path string) (*Config, error) {
	config := &Config{
		Language:              defaultLang,
		MaxPages:              defaultMaxPages,
		PerPage:               defaultPerPage,
		RequestTimeoutSeconds: defaultTimeoutSeconds,
		PathFile:              path,
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error encoding default config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("error saving default config: %w", err)
	}

	return config, nil
}

func SaveConfig(config *Config) error {
	if err := validateConfig(config); err != nil {
		return fmt.Errorf("config to save is not valid: %w", err)
	}

	if config.PathFile == "" {
		return errors.New("config file path is not set")
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}

	if err := os.WriteFile(config.PathFile, data, 0644); err != nil {
		return fmt.Errorf("error saving config: %w", err)
	}

	return nil
}

func applyDefaults(config *Config) {
	if config.Language == "" {
		config.Language = defaultLang
	}
	if config.MaxPages == 0 {
		config.MaxPages = defaultMaxPages
	}
	if config.PerPage == 0 {
		config.PerPage = defaultPerPage
	}
	if config.RequestTimeoutSeconds == 0 {
		config.RequestTimeoutSeconds = defaultTimeoutSeconds
	}
}

func validateConfig(config *Config) error {
	if config.MaxPages <= 0 {
		return errors.New("max_pages must be greater than 0")
	}
	if config.PerPage <= 0 || config.PerPage > 100 {
		return errors.New("per_page must be between 1 and 100")
	}
	if config.RequestTimeoutSeconds <= 0 {
		return errors.New("request_timeout_seconds must be greater than 0")
	}
	if config.Language == "" {
		return errors.New("language must not be empty")
	}
	return nil
}
