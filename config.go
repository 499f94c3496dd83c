package folio

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"go.uber.org/zap"
)

// SiteConfig holds all configuration for a folio site.
type SiteConfig struct {
	Name        string // Site name (default "Portfolio")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags
	Author      string // Author name for JSON-LD

	Addr      string // Listen address (default ":3000")
	PostsPath string // Posts data file (default "data/posts.json")

	ContentDir string        // Directory of content files (default "content")
	ContentURL string        // Remote content endpoint; overrides ContentDir when set
	ContentTTL time.Duration // Resolved body cache TTL (default 5min)

	ContentRateLimit int // Content endpoint requests per IP per minute (default 60)

	LogPath  string // Log file path; empty logs to stdout only
	LogLevel string // debug|info|warn|error (default "info")
	Env      string // dev|prod (default "prod")

	MetricsEnabled bool // Expose Prometheus metrics on /metrics
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Portfolio"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.PostsPath == "" {
		c.PostsPath = "data/posts.json"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.ContentTTL == 0 {
		c.ContentTTL = 5 * time.Minute
	}
	if c.ContentRateLimit == 0 {
		c.ContentRateLimit = 60
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Env == "" {
		c.Env = "prod"
	}
}

// ConfigFromEnv loads .env if present, then builds a SiteConfig from
// environment variables. It does not log so callers can configure logging
// from the result.
func ConfigFromEnv() SiteConfig {
	_ = godotenv.Load(".env")

	def := func(v, d string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return d
		}
		return v
	}

	cfg := SiteConfig{
		Name:        def(os.Getenv("SITE_NAME"), "Portfolio"),
		URL:         def(os.Getenv("SITE_URL"), "http://localhost:3000"),
		Description: os.Getenv("SITE_DESCRIPTION"),
		Author:      os.Getenv("SITE_AUTHOR"),

		Addr:      def(os.Getenv("ADDR"), ":3000"),
		PostsPath: def(os.Getenv("POSTS_PATH"), "data/posts.json"),

		ContentDir: def(os.Getenv("CONTENT_DIR"), "content"),
		ContentURL: os.Getenv("CONTENT_URL"),

		LogPath:  os.Getenv("LOG_PATH"),
		LogLevel: strings.ToLower(def(os.Getenv("LOG_LEVEL"), "info")),
		Env:      strings.ToLower(def(os.Getenv("ENV"), "prod")),
	}

	if ttl, err := time.ParseDuration(def(os.Getenv("CONTENT_TTL"), "5m")); err == nil {
		cfg.ContentTTL = ttl
	}
	if n, err := strconv.Atoi(def(os.Getenv("CONTENT_RATE_LIMIT"), "60")); err == nil {
		cfg.ContentRateLimit = n
	}
	if on, err := strconv.ParseBool(def(os.Getenv("METRICS"), "true")); err == nil {
		cfg.MetricsEnabled = on
	}
	return cfg
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithSource overrides the content source derived from the config. Useful
// for serving post bodies from anywhere that can implement Source.
func WithSource(src Source) Option {
	return func(a *App) {
		a.source = src
	}
}

// WithLogger replaces the logger built from the config.
func WithLogger(log *zap.Logger) Option {
	return func(a *App) {
		a.log = log
	}
}
