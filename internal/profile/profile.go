package profile

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/hrygo/schedtext/server/timezone"
)

const (
	defaultTimeFormat     = "g:ia"
	defaultDateTimeFormat = "D, M jS g:ia"
)

// Profile is the configuration to start the server and the CLI.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Version is the current version of server
	Version string

	// Timezone is the server reference frame for ISO dates ("" or "Local" for the host zone)
	Timezone string
	// TimeFormat is the PHP-style layout for time displays
	TimeFormat string // SCHEDTEXT_TIME_FORMAT (default: g:ia)
	// DateTimeFormat is the PHP-style layout for date-time displays
	DateTimeFormat string // SCHEDTEXT_DATETIME_FORMAT (default: D, M jS g:ia)

	// LocaleDir holds <tag>.yaml locale tables; empty means built-in English only
	LocaleDir string // SCHEDTEXT_LOCALE_DIR
	// Locale is the default BCP 47 tag used when a request names none
	Locale string // SCHEDTEXT_LOCALE (default: en)

	// LogLevel is one of debug, info, warn, error
	LogLevel string // SCHEDTEXT_LOG_LEVEL (default: info)

	// RateLimit is the sustained requests per second allowed per client
	RateLimit float64 // SCHEDTEXT_RATE_LIMIT (default: 10)
	// RateBurst is the burst size per client
	RateBurst int // SCHEDTEXT_RATE_BURST (default: 20)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv fills unset fields from SCHEDTEXT_* environment variables.
// Values already set (e.g. from flags) win.
func (p *Profile) FromEnv() {
	setString := func(field *string, key, defaultValue string) {
		if *field == "" {
			*field = getEnvOrDefault(key, defaultValue)
		}
	}

	setString(&p.Mode, "SCHEDTEXT_MODE", "dev")
	setString(&p.Addr, "SCHEDTEXT_ADDR", "")
	setString(&p.Timezone, "SCHEDTEXT_TIMEZONE", timezone.TimezoneLocal)
	setString(&p.TimeFormat, "SCHEDTEXT_TIME_FORMAT", defaultTimeFormat)
	setString(&p.DateTimeFormat, "SCHEDTEXT_DATETIME_FORMAT", defaultDateTimeFormat)
	setString(&p.LocaleDir, "SCHEDTEXT_LOCALE_DIR", "")
	setString(&p.Locale, "SCHEDTEXT_LOCALE", "en")
	setString(&p.LogLevel, "SCHEDTEXT_LOG_LEVEL", "info")

	if p.Port == 0 {
		if v, err := strconv.Atoi(os.Getenv("SCHEDTEXT_PORT")); err == nil {
			p.Port = v
		} else {
			p.Port = 8081
		}
	}
	if p.RateLimit == 0 {
		if v, err := strconv.ParseFloat(os.Getenv("SCHEDTEXT_RATE_LIMIT"), 64); err == nil {
			p.RateLimit = v
		} else {
			p.RateLimit = 10
		}
	}
	if p.RateBurst == 0 {
		if v, err := strconv.Atoi(os.Getenv("SCHEDTEXT_RATE_BURST")); err == nil {
			p.RateBurst = v
		} else {
			p.RateBurst = 20
		}
	}
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (p *Profile) SlogLevel() slog.Level {
	switch strings.ToLower(p.LogLevel) {
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

func checkLocaleDir(dir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dir) {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return "", err
		}
		dir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dir = strings.TrimRight(dir, "\\/")
	info, err := os.Stat(dir)
	if err != nil {
		return "", errors.Wrapf(err, "unable to access locale folder %s", dir)
	}
	if !info.IsDir() {
		return "", errors.Errorf("locale path %s is not a directory", dir)
	}
	return dir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Port < 0 || p.Port > 65535 {
		return errors.Errorf("invalid port %d", p.Port)
	}

	if !timezone.IsValidTimezone(p.Timezone) {
		slog.Error("invalid timezone", slog.String("timezone", p.Timezone))
		return errors.Errorf("invalid timezone %q", p.Timezone)
	}

	if p.TimeFormat == "" {
		p.TimeFormat = defaultTimeFormat
	}
	if p.DateTimeFormat == "" {
		p.DateTimeFormat = defaultDateTimeFormat
	}

	if p.RateLimit <= 0 || p.RateBurst <= 0 {
		return errors.Errorf("rate limit %v/s with burst %d must be positive", p.RateLimit, p.RateBurst)
	}

	if p.LocaleDir != "" {
		dir, err := checkLocaleDir(p.LocaleDir)
		if err != nil {
			slog.Error("failed to check locale dir", slog.String("dir", p.LocaleDir), slog.String("error", err.Error()))
			return err
		}
		p.LocaleDir = dir
	}

	return nil
}
