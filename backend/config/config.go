// ABOUTME: Configuration loader for backend service
// ABOUTME: Loads settings from an optional .env file and environment variables with defaults

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/markalston/fabric-designer/backend/models"
)

var storeDrivers = []string{"memory", "sqlite", "bolt"}

type Config struct {
	// Server
	Port               string
	CORSAllowedOrigins []string      // allowed CORS origins (empty = block all cross-origin)
	ShutdownTimeout    time.Duration // graceful shutdown budget (default 10s)
	MetricsEnabled     bool          // serve /metrics (default: true)

	// Storage
	StoreDriver string // memory, sqlite, bolt (default: memory)
	StorePath   string // database file for sqlite and bolt

	// Topology
	CacheTTL    int    // seconds a synthesized topology stays cached (default 300)
	SwitchModel string // catalog model for ad-hoc synthesis (default 9336C-FX2)

	// Rate Limiting
	RateLimitEnabled bool // Enable rate limiting (default: true)
	RateLimitWrite   int  // Requests per minute for write endpoints (default: 30)
	RateLimitDefault int  // Requests per minute for all other endpoints (default: 300)
}

// Load reads configuration. Variables from the file named by ENV_FILE
// (default .env) are applied first without overriding the real environment;
// a missing file is ignored.
func Load() (*Config, error) {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", envFile, err)
	}

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		CORSAllowedOrigins: getEnvStringList("CORS_ALLOWED_ORIGINS"),
		ShutdownTimeout:    getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		MetricsEnabled:     getEnvBool("METRICS_ENABLED", true),

		StoreDriver: getEnv("STORE_DRIVER", "memory"),
		StorePath:   os.Getenv("STORE_PATH"),

		CacheTTL:    getEnvInt("CACHE_TTL", 300),
		SwitchModel: getEnv("SWITCH_MODEL", models.DefaultSwitchModel),

		RateLimitEnabled: getEnvBool("RATE_LIMIT_ENABLED", true),
		RateLimitWrite:   getEnvInt("RATE_LIMIT_WRITE", 30),
		RateLimitDefault: getEnvInt("RATE_LIMIT_DEFAULT", 300),
	}

	if !slices.Contains(storeDrivers, cfg.StoreDriver) {
		return nil, fmt.Errorf("STORE_DRIVER must be one of %s, got %q", strings.Join(storeDrivers, ", "), cfg.StoreDriver)
	}
	if cfg.StoreDriver != "memory" && cfg.StorePath == "" {
		return nil, fmt.Errorf("STORE_PATH is required for STORE_DRIVER=%s", cfg.StoreDriver)
	}
	if _, ok := models.LookupSwitchModel(cfg.SwitchModel); !ok {
		return nil, fmt.Errorf("SWITCH_MODEL %q is not in the switch catalog", cfg.SwitchModel)
	}
	if cfg.CacheTTL < 1 {
		return nil, fmt.Errorf("CACHE_TTL must be positive, got %d", cfg.CacheTTL)
	}

	// Validate rate limit values
	for _, rl := range []struct {
		name  string
		value int
	}{
		{"RATE_LIMIT_WRITE", cfg.RateLimitWrite},
		{"RATE_LIMIT_DEFAULT", cfg.RateLimitDefault},
	} {
		if rl.value < 1 || rl.value > 10000 {
			return nil, fmt.Errorf("%s must be between 1 and 10000, got %d", rl.name, rl.value)
		}
	}

	return cfg, nil
}

// DefaultSwitchModel returns the catalog entry named by SwitchModel.
func (c *Config) DefaultSwitchModel() models.SwitchModel {
	m, _ := models.LookupSwitchModel(c.SwitchModel)
	return m
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvStringList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
