package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	GearsAPI  GearsAPIConfig
	Checkout  CheckoutConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Database  DatabaseConfig
	Redis     RedisConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

// GearsAPIConfig describes the remote GrindGears API. BaseURL is used by the
// storefront client, Port/Storage/Seed by the reference server.
type GearsAPIConfig struct {
	BaseURL string
	Timeout time.Duration
	Port    string
	Storage string // "postgres" or "memory"
	Seed    bool
}

type CheckoutConfig struct {
	ClearDelay time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RateLimitConfig struct {
	Enabled  bool
	Requests int
	Window   time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// IsDevelopment reports whether the server runs outside production.
func (c ServerConfig) IsDevelopment() bool {
	return c.Env != "production"
}

// DSN builds the PostgreSQL connection string for pgx.
func (c DatabaseConfig) DSN() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + c.Port + "/" + c.Database +
		"?sslmode=disable&search_path=" + c.Schema
}

// Addr returns the host:port pair for the Redis client.
func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func Load() *Config {
	// Populate the process environment from .env; real env vars win
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("GEARS_API_BASE_URL", "http://localhost:5175/api/v1")
	viper.SetDefault("GEARS_API_TIMEOUT", "15s")
	viper.SetDefault("GEARSAPI_PORT", "5175")
	viper.SetDefault("GEARSAPI_STORAGE", "postgres")
	viper.SetDefault("GEARSAPI_SEED", true)
	viper.SetDefault("CHECKOUT_CLEAR_DELAY", "3s")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	viper.SetDefault("RATE_LIMIT_ENABLED", false)
	viper.SetDefault("RATE_LIMIT_REQUESTS", 120)
	viper.SetDefault("RATE_LIMIT_WINDOW", "1m")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SCHEMA", "public")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
			Env:  viper.GetString("SERVER_ENV"),
		},
		GearsAPI: GearsAPIConfig{
			BaseURL: strings.TrimRight(viper.GetString("GEARS_API_BASE_URL"), "/"),
			Timeout: viper.GetDuration("GEARS_API_TIMEOUT"),
			Port:    viper.GetString("GEARSAPI_PORT"),
			Storage: viper.GetString("GEARSAPI_STORAGE"),
			Seed:    viper.GetBool("GEARSAPI_SEED"),
		},
		Checkout: CheckoutConfig{
			ClearDelay: viper.GetDuration("CHECKOUT_CLEAR_DELAY"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
		RateLimit: RateLimitConfig{
			Enabled:  viper.GetBool("RATE_LIMIT_ENABLED"),
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   viper.GetDuration("RATE_LIMIT_WINDOW"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Database: viper.GetString("DB_DATABASE"),
			Schema:   viper.GetString("DB_SCHEMA"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
