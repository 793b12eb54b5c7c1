// Package config provides application settings loaded from environment variables.
//
// Settings are created via New() which handles:
// - Environment variable parsing with validation
// - Default value application
// - Store path resolution

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Settings holds all application configuration.
type Settings struct {
	LLM   LLMConfig
	Store StoreConfig
	Cache CacheConfig
}

// LLMConfig holds inference provider configuration.
type LLMConfig struct {
	Provider    string
	Model       string
	MaxTokens   uint32
	Temperature float32
}

// StoreConfig holds the local store location.
type StoreConfig struct {
	Path string
}

// CacheConfig holds result-cache and history bounds.
type CacheConfig struct {
	MaxResults    int
	MaxHistory    int
	PreviewLength int
}

// New creates settings for the specified provider, loading values from
// environment variables. Returns an error if an environment variable
// contains an invalid value.
func New(provider string) (Settings, error) {
	if provider == "" {
		provider = getEnv("CODESCOPE_PROVIDER", "ollama")
	}

	maxTokens, err := getEnvUint32("LLM_MAX_TOKENS", 4096)
	if err != nil {
		return Settings{}, err
	}

	temperature, err := getEnvFloat32("LLM_TEMPERATURE", 0.7)
	if err != nil {
		return Settings{}, err
	}

	maxResults, err := getEnvInt("CODESCOPE_MAX_RESULTS", 10)
	if err != nil {
		return Settings{}, err
	}

	maxHistory, err := getEnvInt("CODESCOPE_MAX_HISTORY", 10)
	if err != nil {
		return Settings{}, err
	}

	previewLength, err := getEnvInt("CODESCOPE_PREVIEW_LENGTH", 50)
	if err != nil {
		return Settings{}, err
	}

	storePath, err := resolveStorePath()
	if err != nil {
		return Settings{}, err
	}

	return Settings{
		LLM: LLMConfig{
			Provider:    provider,
			Model:       os.Getenv("CODESCOPE_MODEL"),
			MaxTokens:   maxTokens,
			Temperature: temperature,
		},
		Store: StoreConfig{
			Path: storePath,
		},
		Cache: CacheConfig{
			MaxResults:    maxResults,
			MaxHistory:    maxHistory,
			PreviewLength: previewLength,
		},
	}, nil
}

// MustNew creates settings for the specified provider.
// Panics if an environment variable is invalid.
// Use this only when configuration errors should be fatal.
func MustNew(provider string) Settings {
	settings, err := New(provider)
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return settings
}

// resolveStorePath returns the store file location: CODESCOPE_DB if set,
// otherwise ~/.codescope/codescope.db.
func resolveStorePath() (string, error) {
	if path := os.Getenv("CODESCOPE_DB"); path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving store path: %w", err)
	}
	return filepath.Join(home, ".codescope", "codescope.db"), nil
}

// Environment variable helpers with proper error handling

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return i, nil
}

func getEnvUint32(key string, defaultVal uint32) (uint32, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	i, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return uint32(i), nil
}

func getEnvFloat32(key string, defaultVal float32) (float32, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(val, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return float32(f), nil
}
