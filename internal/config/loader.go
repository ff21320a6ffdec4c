package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/example/room-booking/internal/logging"
)

// EnvPrefix is prepended to every variable name read by Load.
const EnvPrefix = "BOOKING_"

// Config captures environment driven configuration values for the booking service.
type Config struct {
	HTTPPort      int           `env:"HTTP_PORT" envDefault:"8080"`
	SQLitePath    string        `env:"SQLITE_DSN" envDefault:"booking.db"`
	Timezone      string        `env:"TIMEZONE"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat     string        `env:"LOG_FORMAT" envDefault:"json"`
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"30s"`
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
}

// Load reads .env from the working directory, if present, and then parses
// the process environment.
func Load() (Config, error) {
	return LoadWithEnvFiles(".env")
}

// LoadWithEnvFiles is Load with explicit dotenv files. Missing files are
// skipped and variables already set in the environment win.
//
// Every invalid value is reported in the returned error, not just the first.
func LoadWithEnvFiles(files ...string) (Config, error) {
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", file, err)
		}
	}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	cfg.SQLitePath = strings.TrimSpace(cfg.SQLitePath)
	cfg.Timezone = strings.TrimSpace(cfg.Timezone)
	cfg.RedisAddr = strings.TrimSpace(cfg.RedisAddr)

	if invalid := cfg.invalidVariables(); len(invalid) > 0 {
		return Config{}, fmt.Errorf("config: invalid environment values: %s", strings.Join(invalid, ", "))
	}
	return cfg, nil
}

func (c Config) invalidVariables() []string {
	var invalid []string
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		invalid = append(invalid, EnvPrefix+"HTTP_PORT")
	}
	if c.SQLitePath == "" {
		invalid = append(invalid, EnvPrefix+"SQLITE_DSN")
	}
	if _, err := c.Location(); err != nil {
		invalid = append(invalid, EnvPrefix+"TIMEZONE")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		invalid = append(invalid, EnvPrefix+"LOG_LEVEL")
	}
	switch strings.ToLower(strings.TrimSpace(c.LogFormat)) {
	case "json", "text":
	default:
		invalid = append(invalid, EnvPrefix+"LOG_FORMAT")
	}
	if c.CacheTTL <= 0 {
		invalid = append(invalid, EnvPrefix+"CACHE_TTL")
	}
	if c.RedisDB < 0 {
		invalid = append(invalid, EnvPrefix+"REDIS_DB")
	}
	return invalid
}

// Location resolves Timezone. Empty and "Local" mean the process local zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Addr is the HTTP listen address.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
