package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	API      APIConfig
	Web      WebConfig
	Session  SessionConfig
	Database DatabaseConfig
	DevAPI   DevAPIConfig
	Auth     AuthConfig
}

// APIConfig describes how the dashboard reaches the SMS platform API.
type APIConfig struct {
	BaseURL         string        // e.g. "http://localhost:8000"
	WithCredentials bool          // attach the stored session credential to every request
	Timeout         time.Duration // 0 means no client timeout
	SOCKS5          string        // optional "host:port" or "host:port:user:pass"
}

// WebConfig contains the local dashboard UI settings.
type WebConfig struct {
	Address string // listen address of the dashboard UI
}

// SessionConfig holds client side session policy.
type SessionConfig struct {
	// ClearOnLogoutFailure drops the local user even when POST /logout fails.
	ClearOnLogoutFailure bool
}

// DatabaseConfig contains database-related settings.
type DatabaseConfig struct {
	Path string // SQLite database file path
}

// DevAPIConfig contains settings of the development API server.
type DevAPIConfig struct {
	Address           string        // HTTP listen address
	GRPCAddress       string        // gRPC health listen address
	SimulatorInterval time.Duration // 0 disables the delivery simulator
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	JWTSecret  string        // JWT signing secret
	SessionTTL time.Duration // lifetime of issued session tokens
}

// Load loads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg, err := load("")
	if err != nil {
		return nil, err
	}

	// Validate critical settings
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set; required for production")
	}

	return cfg, nil
}

// LoadWithDefaults is like Load but uses a safe default for JWT_SECRET in development.
// WARNING: Only use in development! Use Load() in production.
func LoadWithDefaults() (*Config, error) {
	return load("dev-secret-change-me")
}

func load(defaultSecret string) (*Config, error) {
	withCreds, err := getEnvBool("API_WITH_CREDENTIALS", true)
	if err != nil {
		return nil, err
	}
	timeout, err := getEnvDuration("API_TIMEOUT", 0)
	if err != nil {
		return nil, err
	}
	clearOnFailure, err := getEnvBool("LOGOUT_CLEAR_ON_FAILURE", false)
	if err != nil {
		return nil, err
	}
	ttl, err := getEnvDuration("SESSION_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive, got %s", ttl)
	}
	simInterval, err := getEnvDuration("SIMULATOR_INTERVAL", 0)
	if err != nil {
		return nil, err
	}

	return &Config{
		API: APIConfig{
			BaseURL:         getEnv("API_URL", "http://localhost:8000"),
			WithCredentials: withCreds,
			Timeout:         timeout,
			SOCKS5:          getEnv("API_SOCKS5", ""),
		},
		Web: WebConfig{
			Address: getEnv("WEB_ADDRESS", "127.0.0.1:8080"),
		},
		Session: SessionConfig{
			ClearOnLogoutFailure: clearOnFailure,
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "sms.db"),
		},
		DevAPI: DevAPIConfig{
			Address:           getEnv("DEVAPI_ADDRESS", ":8000"),
			GRPCAddress:       getEnv("DEVAPI_GRPC_ADDRESS", ":50051"),
			SimulatorInterval: simInterval,
		},
		Auth: AuthConfig{
			JWTSecret:  getEnv("JWT_SECRET", defaultSecret),
			SessionTTL: ttl,
		},
	}, nil
}

// getEnv retrieves an environment variable with a default fallback.
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

// getEnvBool retrieves an environment variable as a boolean with a default fallback.
func getEnvBool(key string, defaultVal bool) (bool, error) {
	if value, exists := os.LookupEnv(key); exists {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid boolean for %s: %w", key, err)
		}
		return b, nil
	}
	return defaultVal, nil
}

// getEnvDuration retrieves an environment variable as a time.Duration with a default fallback.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	if value, exists := os.LookupEnv(key); exists {
		d, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
		}
		return d, nil
	}
	return defaultVal, nil
}

// String returns a string representation of the config (sensitive values are masked).
func (c *Config) String() string {
	proxy := "direct"
	if c.API.SOCKS5 != "" {
		proxy = "socks5"
	}
	return fmt.Sprintf("Config{API: %s (credentials=%t, egress=%s), Web: %s, DB: %s, DevAPI: %s, gRPC: %s, Auth: *** (masked) ***}",
		c.API.BaseURL, c.API.WithCredentials, proxy, c.Web.Address, c.Database.Path, c.DevAPI.Address, c.DevAPI.GRPCAddress)
}
