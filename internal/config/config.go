package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/maltedev/product-image-generator/internal/compositor"
	"github.com/maltedev/product-image-generator/internal/events"
	"github.com/maltedev/product-image-generator/internal/pricing"
	"github.com/maltedev/product-image-generator/internal/scraper"
)

const (
	FetchModeHTTP    = "http"
	FetchModeBrowser = "browser"
)

type Config struct {
	Server  ServerConfig
	Fetch   FetchConfig
	Browser BrowserConfig
	Render  RenderConfig
	Redis   RedisConfig
	Logging LoggingConfig
}

type ServerConfig struct {
	Port            int
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

type FetchConfig struct {
	PageTimeout  time.Duration
	ImageTimeout time.Duration
	UserAgent    string
	MaxBodyBytes int64
	Mode         string
}

type BrowserConfig struct {
	Headless bool
	Timeout  time.Duration
}

type RenderConfig struct {
	FontDirs       []string
	DefaultFormula string
	JPEGQuality    int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Stream   string
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getIntOrDefault("SERVER_PORT", getIntOrDefault("PORT", 5000)),
			Host:            getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:     getDurationOrDefault("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationOrDefault("SERVER_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			AllowedOrigins:  getStringSliceOrDefault("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Fetch: FetchConfig{
			PageTimeout:  getDurationOrDefault("FETCH_PAGE_TIMEOUT", scraper.DefaultPageTimeout),
			ImageTimeout: getDurationOrDefault("FETCH_IMAGE_TIMEOUT", scraper.DefaultImageTimeout),
			UserAgent:    getEnvOrDefault("FETCH_USER_AGENT", scraper.DefaultUserAgent),
			MaxBodyBytes: int64(getIntOrDefault("FETCH_MAX_BODY_BYTES", scraper.DefaultMaxBodyBytes)),
			Mode:         strings.ToLower(getEnvOrDefault("FETCH_MODE", FetchModeHTTP)),
		},
		Browser: BrowserConfig{
			Headless: getBoolOrDefault("BROWSER_HEADLESS", true),
			Timeout:  getDurationOrDefault("BROWSER_TIMEOUT", 30*time.Second),
		},
		Render: RenderConfig{
			FontDirs:       getStringSliceOrDefault("RENDER_FONT_DIRS", compositor.DefaultFontDirs),
			DefaultFormula: getEnvOrDefault("RENDER_DEFAULT_FORMULA", pricing.DefaultFormula),
			JPEGQuality:    getIntOrDefault("RENDER_JPEG_QUALITY", compositor.DefaultJPEGQuality),
		},
		Redis: RedisConfig{
			Addr:     getEnvOrDefault("REDIS_ADDR", ""),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       getIntOrDefault("REDIS_DB", 0),
			Stream:   getEnvOrDefault("REDIS_STREAM", events.DefaultStream),
		},
		Logging: LoggingConfig{
			Level:  strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnvOrDefault("LOG_FORMAT", "json")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Fetch.PageTimeout <= 0 || c.Fetch.ImageTimeout <= 0 {
		return fmt.Errorf("FETCH_PAGE_TIMEOUT and FETCH_IMAGE_TIMEOUT must be positive")
	}

	if c.Fetch.MaxBodyBytes <= 0 {
		return fmt.Errorf("FETCH_MAX_BODY_BYTES must be positive")
	}

	if c.Fetch.Mode != FetchModeHTTP && c.Fetch.Mode != FetchModeBrowser {
		return fmt.Errorf("unknown FETCH_MODE %q, expected %s or %s", c.Fetch.Mode, FetchModeHTTP, FetchModeBrowser)
	}

	if c.Browser.Timeout <= 0 {
		return fmt.Errorf("BROWSER_TIMEOUT must be positive")
	}

	if c.Render.JPEGQuality < 1 || c.Render.JPEGQuality > 100 {
		return fmt.Errorf("RENDER_JPEG_QUALITY must be between 1 and 100, got %d", c.Render.JPEGQuality)
	}

	if _, err := parseLevel(c.Logging.Level); err != nil {
		return err
	}

	return nil
}

// Addr is the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func (l LoggingConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(l.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown LOG_LEVEL %q", level)
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getStringSliceOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
