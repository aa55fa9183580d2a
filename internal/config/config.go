package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds application runtime configuration.
type Config struct {
	Env                string
	HTTPPort           string
	StoreDriver        string
	DatabaseURL        string
	SQLitePath         string
	JWTSecret          string
	DefaultCurrency    string
	DefaultIndustry    string
	StrictValidation   bool
	LogLevel           string
	HealthTimeout      time.Duration
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	ShutdownTimeout    time.Duration
	RequestTimeout     time.Duration
	RateLimitPerMinute int
	CORSAllowedOrigins []string
}

// Load reads .env (if present), an optional CONFIG_FILE and the environment.
// Environment variables win over the file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	if file := v.GetString("config_file"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	cfg := Config{
		Env:                v.GetString("app_env"),
		HTTPPort:           v.GetString("http_port"),
		StoreDriver:        strings.ToLower(strings.TrimSpace(v.GetString("store_driver"))),
		DatabaseURL:        v.GetString("database_url"),
		SQLitePath:         v.GetString("sqlite_path"),
		JWTSecret:          v.GetString("jwt_secret"),
		DefaultCurrency:    strings.ToUpper(v.GetString("currency_code")),
		DefaultIndustry:    v.GetString("default_industry_type"),
		StrictValidation:   v.GetBool("settings_strict_validation"),
		LogLevel:           v.GetString("log_level"),
		HealthTimeout:      getDuration(v, "health_timeout", 3*time.Second),
		ReadTimeout:        getDuration(v, "http_read_timeout", 15*time.Second),
		WriteTimeout:       getDuration(v, "http_write_timeout", 15*time.Second),
		IdleTimeout:        getDuration(v, "http_idle_timeout", 60*time.Second),
		ShutdownTimeout:    getDuration(v, "http_shutdown_timeout", 10*time.Second),
		RequestTimeout:     getDuration(v, "http_request_timeout", 30*time.Second),
		RateLimitPerMinute: v.GetInt("rate_limit_per_minute"),
		CORSAllowedOrigins: splitList(v.GetString("cors_allowed_origins")),
	}

	switch cfg.StoreDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return cfg, errors.New("DATABASE_URL is required")
		}
	case DriverSQLite:
		if cfg.SQLitePath == "" {
			return cfg, errors.New("SQLITE_PATH is required")
		}
	default:
		return cfg, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, cfg.StoreDriver)
	}
	return cfg, nil
}

// ValidateServer checks the settings only the HTTP server needs.
func (c Config) ValidateServer() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	return nil
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "development")
	v.SetDefault("http_port", "8080")
	v.SetDefault("store_driver", DriverPostgres)
	v.SetDefault("sqlite_path", "data/settings.db")
	v.SetDefault("currency_code", "IDR")
	v.SetDefault("default_industry_type", "retail")
	v.SetDefault("settings_strict_validation", true)
	v.SetDefault("log_level", "info")
	v.SetDefault("rate_limit_per_minute", 120)
	v.SetDefault("cors_allowed_origins", "*")
}

func getDuration(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	val := strings.TrimSpace(v.GetString(key))
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		// Support seconds as integer without suffix.
		if secs, convErr := strconv.Atoi(val); convErr == nil {
			return time.Duration(secs) * time.Second
		}
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
