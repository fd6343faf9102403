package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables that override the config file.
const (
	EnvAPIKey  = "FORKIFY_API_KEY"
	EnvAPIURL  = "FORKIFY_API_URL"
	EnvBackend = "FORKIFY_STORAGE"
)

// Config holds application configuration.
type Config struct {
	APIURL            string  `json:"apiUrl"`
	APIKey            string  `json:"apiKey"`
	ResultsPerPage    int     `json:"resultsPerPage"`
	ModalCloseSeconds float64 `json:"modalCloseSeconds"`
	TimeoutSeconds    float64 `json:"timeoutSeconds"`
	Backend           string  `json:"storage"`           // "file", "sqlite" or "bolt"
	CacheMinutes      float64 `json:"cacheMinutes"`      // negative disables the response cache
	RequestsPerSecond float64 `json:"requestsPerSecond"` // API rate limit
	RequestBurst      int     `json:"requestBurst"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		APIURL:            "https://forkify-api.herokuapp.com/api/v2/recipes/",
		ResultsPerPage:    10,
		ModalCloseSeconds: 2.5,
		TimeoutSeconds:    10,
		Backend:           BackendFile,
		CacheMinutes:      10,
		RequestsPerSecond: 5,
		RequestBurst:      3,
	}
}

// ModalCloseDelay is how long the upload panel stays open after a
// successful upload.
func (c Config) ModalCloseDelay() time.Duration {
	return time.Duration(c.ModalCloseSeconds * float64(time.Second))
}

// CacheTTL is how long API responses are cached, 0 when caching is off.
func (c Config) CacheTTL() time.Duration {
	if c.CacheMinutes < 0 {
		return 0
	}
	return time.Duration(c.CacheMinutes * float64(time.Minute))
}

// Timeout is the per-request API timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds * float64(time.Second))
}

// LoadConfig reads config from the JSON file.
// Creates the file with defaults if it doesn't exist.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			config := DefaultConfig()
			// Non-fatal: return defaults even if save fails
			_ = SaveConfig(path, &config)
			return &config, nil
		}
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	// Apply defaults for missing fields
	defaults := DefaultConfig()
	if config.APIURL == "" {
		config.APIURL = defaults.APIURL
	}
	if config.ResultsPerPage <= 0 {
		config.ResultsPerPage = defaults.ResultsPerPage
	}
	if config.ModalCloseSeconds <= 0 {
		config.ModalCloseSeconds = defaults.ModalCloseSeconds
	}
	if config.TimeoutSeconds <= 0 {
		config.TimeoutSeconds = defaults.TimeoutSeconds
	}
	if config.Backend == "" {
		config.Backend = defaults.Backend
	}
	if config.CacheMinutes == 0 {
		config.CacheMinutes = defaults.CacheMinutes
	}
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = defaults.RequestsPerSecond
	}
	if config.RequestBurst <= 0 {
		config.RequestBurst = defaults.RequestBurst
	}

	return &config, nil
}

// SaveConfig writes config to the JSON file.
// Creates the directory if it doesn't exist.
func SaveConfig(path string, config *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyEnv loads .env files (missing files are ignored) and lets the
// environment override the API key, API URL and storage backend.
func (c *Config) ApplyEnv(envFiles ...string) {
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv(EnvBackend); v != "" {
		c.Backend = v
	}
}

// DefaultConfigFilePath returns the default config path: ~/.config/forkify/config.json
func DefaultConfigFilePath() (string, error) {
	dir, err := DefaultDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}
