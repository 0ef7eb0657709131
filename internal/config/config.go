package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
)

const (
	defaultDatabaseURL    = "todo_calendar.db"
	defaultTimezone       = "America/Sao_Paulo"
	defaultReportInterval = 24 * time.Hour
	defaultHTTPTimeout    = 10 * time.Second
)

// Config keeps runtime settings for the bot.
type Config struct {
	TelegramToken  string
	DatabaseURL    string
	ReportInterval time.Duration
	// ReportTime is an optional HH:MM clock; when set it replaces the interval.
	ReportTime   string
	Timezone     string
	Location     *time.Location
	ViaCEPURL    string
	BrasilAPIURL string
	HTTPTimeout  time.Duration
}

// fileConfig mirrors the optional TOML file named by CONFIG_FILE.
type fileConfig struct {
	TelegramToken       string `toml:"telegram_token"`
	DatabaseURL         string `toml:"database_url"`
	ReportIntervalHours int    `toml:"report_interval_hours"`
	ReportTime          string `toml:"report_time"`
	Timezone            string `toml:"timezone"`
	ViaCEPURL           string `toml:"viacep_url"`
	BrasilAPIURL        string `toml:"brasilapi_url"`
	HTTPTimeoutSeconds  int    `toml:"http_timeout_seconds"`
}

// Load reads the optional CONFIG_FILE, then lets environment variables
// override it, then applies defaults and validates the result.
func Load() (Config, error) {
	var cfg Config
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		fc, err := readFile(path)
		if err != nil {
			return cfg, err
		}
		cfg = fc.config()
	}
	applyEnv(&cfg, os.Getenv)
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func readFile(path string) (fileConfig, error) {
	var fc fileConfig
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return fc, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fc, fmt.Errorf("read config %s: unknown keys %v", path, undecoded)
	}
	return fc, nil
}

func (fc fileConfig) config() Config {
	cfg := Config{
		TelegramToken: fc.TelegramToken,
		DatabaseURL:   fc.DatabaseURL,
		ReportTime:    fc.ReportTime,
		Timezone:      fc.Timezone,
		ViaCEPURL:     fc.ViaCEPURL,
		BrasilAPIURL:  fc.BrasilAPIURL,
	}
	if fc.ReportIntervalHours > 0 {
		cfg.ReportInterval = time.Duration(fc.ReportIntervalHours) * time.Hour
	}
	if fc.HTTPTimeoutSeconds > 0 {
		cfg.HTTPTimeout = time.Duration(fc.HTTPTimeoutSeconds) * time.Second
	}
	return cfg
}

func applyEnv(cfg *Config, getenv func(string) string) {
	env := func(key string) string { return strings.TrimSpace(getenv(key)) }
	setString := func(dst *string, key string) {
		if v := env(key); v != "" {
			*dst = v
		}
	}
	setString(&cfg.TelegramToken, "TELEGRAM_TOKEN")
	setString(&cfg.DatabaseURL, "DATABASE_URL")
	setString(&cfg.ReportTime, "REPORT_TIME")
	setString(&cfg.Timezone, "TIMEZONE")
	setString(&cfg.ViaCEPURL, "VIACEP_URL")
	setString(&cfg.BrasilAPIURL, "BRASILAPI_URL")
	if d := parsePositive(env("REPORT_INTERVAL_HOURS"), time.Hour); d > 0 {
		cfg.ReportInterval = d
	}
	if d := parsePositive(env("HTTP_TIMEOUT_SECONDS"), time.Second); d > 0 {
		cfg.HTTPTimeout = d
	}
}

func applyDefaults(cfg *Config) {
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = defaultDatabaseURL
	}
	if cfg.ReportInterval == 0 {
		cfg.ReportInterval = defaultReportInterval
	}
	if cfg.Timezone == "" {
		cfg.Timezone = defaultTimezone
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = defaultHTTPTimeout
	}
}

// Validate checks required fields and resolves the timezone.
func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return errors.New("TELEGRAM_TOKEN is required")
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("TIMEZONE %q: %w", c.Timezone, err)
	}
	c.Location = loc
	if c.ReportTime != "" {
		if _, err := time.Parse("15:04", c.ReportTime); err != nil {
			return fmt.Errorf("REPORT_TIME %q must be HH:MM", c.ReportTime)
		}
	}
	return nil
}

// parsePositive reads a whole number of units; anything else yields zero.
func parsePositive(raw string, unit time.Duration) time.Duration {
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0
	}
	return time.Duration(n) * unit
}
