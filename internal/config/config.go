package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultSQLiteURL = "file:mvpvote.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
)

type Config struct {
	Port                 int
	DatabaseDriver       string
	DatabaseURL          string
	JWTSecret            string
	JWTSecretGenerated   bool
	AdminDefaultPassword string
	AllowedOrigins       []string
	SessionTTL           time.Duration
	CacheTTL             time.Duration
	LogLevel             slog.Level
	SecureCookies        bool
}

// LoadDotEnv loads a .env file from the working directory when one exists.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}
	return nil
}

// Parse reads the flags in args. Every flag defaults to its environment
// variable, and then to a built-in value.
func Parse(name string, args []string) (Config, error) {
	var (
		cfg      Config
		origins  string
		logLevel string
	)

	port, err := envInt("PORT", 8080)
	if err != nil {
		return Config{}, err
	}
	sessionTTL, err := envDuration("ADMIN_SESSION_TTL", 12*time.Hour)
	if err != nil {
		return Config{}, err
	}
	cacheTTL, err := envDuration("CACHE_TTL", 30*time.Second)
	if err != nil {
		return Config{}, err
	}
	secureCookies, err := envBool("COOKIE_SECURE", false)
	if err != nil {
		return Config{}, err
	}

	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.IntVar(&cfg.Port, "p", port, "Server port")
	flags.StringVar(&cfg.DatabaseDriver, "driver", envOr("DATABASE_DRIVER", DriverSQLite), "Database driver (sqlite or postgres)")
	flags.StringVar(&cfg.DatabaseURL, "d", os.Getenv("DATABASE_URL"), "Database URL")
	flags.StringVar(&cfg.JWTSecret, "jwt-secret", os.Getenv("JWT_SECRET"), "Admin session signing secret (prefer env)")
	flags.StringVar(&cfg.AdminDefaultPassword, "admin-password", envOr("ADMIN_DEFAULT_PASSWORD", "0909"), "Admin password seeded on first start")
	flags.StringVar(&origins, "origins", envOr("ALLOWED_ORIGINS", "*"), "Comma separated CORS origins")
	flags.DurationVar(&cfg.SessionTTL, "session-ttl", sessionTTL, "Admin session lifetime")
	flags.DurationVar(&cfg.CacheTTL, "cache-ttl", cacheTTL, "Snapshot cache lifetime, 0 disables expiry")
	flags.BoolVar(&cfg.SecureCookies, "secure-cookies", secureCookies, "Mark the admin session cookie as Secure")
	flags.StringVar(&logLevel, "log-level", envOr("LOG_LEVEL", "info"), "Log level (debug, info, warn, error)")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.DatabaseDriver = strings.ToLower(strings.TrimSpace(cfg.DatabaseDriver))
	switch cfg.DatabaseDriver {
	case DriverSQLite:
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = defaultSQLiteURL
		}
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = postgresURLFromEnv()
		}
	default:
		return Config{}, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid port %d", cfg.Port)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(logLevel)); err != nil {
		return Config{}, fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}

	cfg.AllowedOrigins = splitList(origins)
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	if cfg.JWTSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return Config{}, err
		}
		cfg.JWTSecret = secret
		cfg.JWTSecretGenerated = true
	}

	return cfg, nil
}

func postgresURLFromEnv() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		envOr("POSTGRES_HOST", "localhost"),
		envOr("POSTGRES_PORT", "5432"),
		os.Getenv("POSTGRES_DB"),
	)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable: %w", key, err)
	}
	return n, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable: %w", key, err)
	}
	return d, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s env variable: %w", key, err)
	}
	return b, nil
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

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate jwt secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
