package config

import (
	"os"
	"strconv"

	"github.com/rollbound/rollbound/internal/domain/combat"
	rberr "github.com/rollbound/rollbound/internal/errors"
)

// Config holds the process configuration, loaded from the environment
type Config struct {
	// HTTPAddr is the listen address for the API server
	HTTPAddr string

	// RedisURL selects the Redis-backed stores; empty runs fully in memory
	RedisURL string

	GridSize int
	Rules    combat.Rules

	// Stat defaults applied to adversaries authored without skills
	DefaultCloseCombat int
	DefaultDodge       int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		HTTPAddr: getEnvOrDefault("HTTP_ADDR", ":8080"),
		RedisURL: os.Getenv("REDIS_URL"),
		GridSize: getEnvAsIntOrDefault("GRID_SIZE", combat.DefaultGridSize),
		Rules: combat.Rules{
			CritThreshold:   getEnvAsIntOrDefault("CRIT_THRESHOLD", 5),
			FumbleThreshold: getEnvAsIntOrDefault("FUMBLE_THRESHOLD", 96),
			CritMultiplier:  getEnvAsIntOrDefault("CRIT_MULTIPLIER", 2),
		},
		DefaultCloseCombat: getEnvAsIntOrDefault("DEFAULT_CLOSE_COMBAT", 40),
		DefaultDodge:       getEnvAsIntOrDefault("DEFAULT_DODGE", 30),
	}

	if cfg.GridSize < 1 {
		return nil, rberr.Validation("GRID_SIZE must be at least 1")
	}
	if cfg.Rules.CritThreshold < 0 || cfg.Rules.CritThreshold > 100 {
		return nil, rberr.Validation("CRIT_THRESHOLD must be between 0 and 100")
	}
	if cfg.Rules.FumbleThreshold < 1 || cfg.Rules.FumbleThreshold > 101 {
		return nil, rberr.Validation("FUMBLE_THRESHOLD must be between 1 and 101")
	}
	if cfg.Rules.CritThreshold >= cfg.Rules.FumbleThreshold {
		return nil, rberr.Validation("CRIT_THRESHOLD must be below FUMBLE_THRESHOLD")
	}
	if cfg.Rules.CritMultiplier < 1 {
		return nil, rberr.Validation("CRIT_MULTIPLIER must be at least 1")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
