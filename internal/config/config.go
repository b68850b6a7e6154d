package config

import (
	"errors"
	"fmt"
	"log"
	"net"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrDatabaseURLMissing is returned when DATABASE_URL is not set.
var ErrDatabaseURLMissing = errors.New("DATABASE_URL must be set")

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Security  SecurityConfig
}

type ServerConfig struct {
	Host     string
	Port     string
	Env      string
	LogLevel string
}

type DatabaseConfig struct {
	URL            string
	MaxConns       int
	MigrateOnStart bool
}

type CORSConfig struct {
	Enabled        bool
	AllowedOrigins []string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

type SecurityConfig struct {
	PasswordHashing string // "bcrypt" or "plaintext"
}

// Addr returns the host:port the HTTP server binds to.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

// Load reads configuration from a .env file (if present) and the process
// environment. DATABASE_URL is mandatory.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not read .env file: %v", err)
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_HOST", "127.0.0.1")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("DB_MAX_CONNS", 5)
	v.SetDefault("DB_MIGRATE", true)
	v.SetDefault("CORS_ENABLED", false)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_WINDOW", time.Minute)
	v.SetDefault("PASSWORD_HASHING", "bcrypt")

	cfg := &Config{
		Server: ServerConfig{
			Host:     v.GetString("SERVER_HOST"),
			Port:     v.GetString("SERVER_PORT"),
			Env:      v.GetString("SERVER_ENV"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		Database: DatabaseConfig{
			URL:            strings.TrimSpace(v.GetString("DATABASE_URL")),
			MaxConns:       v.GetInt("DB_MAX_CONNS"),
			MigrateOnStart: v.GetBool("DB_MIGRATE"),
		},
		CORS: CORSConfig{
			Enabled:        v.GetBool("CORS_ENABLED"),
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   v.GetDuration("RATE_LIMIT_WINDOW"),
		},
		Security: SecurityConfig{
			PasswordHashing: strings.ToLower(v.GetString("PASSWORD_HASHING")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the values Load cannot default.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return ErrDatabaseURLMissing
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be positive, got %d", c.Database.MaxConns)
	}
	switch c.Security.PasswordHashing {
	case "bcrypt", "plaintext":
	default:
		return fmt.Errorf("unsupported PASSWORD_HASHING %q", c.Security.PasswordHashing)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
