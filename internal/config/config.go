package config

import (
	"os"
	"strconv"
	"strings"

	"crankview/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server ServerConfig
	Data   DataConfig
	Stats  StatsConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// DataConfig holds data processing settings
type DataConfig struct {
	DefaultSentinels []float64
	ExportFile       string
}

// StatsConfig holds the permutation engine settings
type StatsConfig struct {
	Shuffles int
	Seed     int64
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	sentinels, err := loadSentinels()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load sentinel configuration")
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Data: DataConfig{
			DefaultSentinels: sentinels,
			ExportFile:       getEnvOrDefault("EXPORT_FILE", "crankview_report.xlsx"),
		},
		Stats: StatsConfig{
			Shuffles: getEnvIntOrDefault("PERMUTATION_SHUFFLES", 400),
			Seed:     int64(getEnvIntOrDefault("STATS_SEED", 42)),
		},
	}

	if config.Stats.Shuffles < 1 {
		return nil, errors.ConfigInvalid("PERMUTATION_SHUFFLES must be positive")
	}
	return config, nil
}

// loadSentinels parses DEFAULT_SENTINELS as a comma-separated numeric list.
// Unset means the standard 9999 sentinel.
func loadSentinels() ([]float64, error) {
	raw := os.Getenv("DEFAULT_SENTINELS")
	if raw == "" {
		return []float64{9999}, nil
	}
	var out []float64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, errors.ConfigInvalid("DEFAULT_SENTINELS must be a comma-separated numeric list")
		}
		out = append(out, v)
	}
	return out, nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
