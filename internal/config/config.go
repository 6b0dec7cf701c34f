// Package config parses server configuration from flags, SITECMS_*
// environment variables, and an optional .env file.
package config

import (
	"errors"
	"flag"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ServerConfig holds everything the serve command needs.
type ServerConfig struct {
	Listen         string
	DBPath         string
	BaseURL        string // public origin, e.g. https://craftlinecabinets.com
	SitePath       string // site profile YAML
	MediaDir       string
	APIKeyPepper   string
	TLSMode        string // off|auto
	CertCacheDir   string
	LogLevel       string
	LogFormat      string
	WAFEnabled     bool
	RequestTimeout time.Duration
	MaxUploadBytes int64
	ContactRate    float64 // contact form submissions per second per client
	ContactBurst   int
	ThankYouSlug   string
}

const defaultListen = ":8080"
const defaultDBPath = "./sitecms.db"
const defaultSitePath = "./site.yaml"
const defaultMediaDir = "./media"
const defaultCertCacheDir = "./cert"
const defaultThankYouSlug = "thank-you"

// ParseServeFlags builds a ServerConfig from env defaults and flags.
// A .env file in the working directory is loaded first if present.
func ParseServeFlags(args []string) (ServerConfig, error) {
	_ = godotenv.Load()

	cfg := ServerConfig{
		Listen:         envOrDefault("SITECMS_LISTEN", defaultListen),
		DBPath:         envOrDefault("SITECMS_DB_PATH", defaultDBPath),
		BaseURL:        envOrDefault("SITECMS_BASE_URL", ""),
		SitePath:       envOrDefault("SITECMS_SITE_PATH", defaultSitePath),
		MediaDir:       envOrDefault("SITECMS_MEDIA_DIR", defaultMediaDir),
		APIKeyPepper:   envOrDefault("SITECMS_API_KEY_PEPPER", ""),
		TLSMode:        envOrDefault("SITECMS_TLS_MODE", "off"),
		CertCacheDir:   envOrDefault("SITECMS_CERT_CACHE_DIR", defaultCertCacheDir),
		LogLevel:       envOrDefault("SITECMS_LOG_LEVEL", "info"),
		LogFormat:      envOrDefault("SITECMS_LOG_FORMAT", "text"),
		WAFEnabled:     envBoolOrDefault("SITECMS_WAF", true),
		RequestTimeout: 30 * time.Second,
		MaxUploadBytes: 20 * 1024 * 1024,
		ContactRate:    envFloatOrDefault("SITECMS_CONTACT_RATE", 0.2),
		ContactBurst:   envIntOrDefault("SITECMS_CONTACT_BURST", 3),
		ThankYouSlug:   envOrDefault("SITECMS_THANK_YOU_SLUG", defaultThankYouSlug),
	}

	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.StringVar(&cfg.Listen, "listen", cfg.Listen, "HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	fs.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "Public base URL, e.g. https://example.com")
	fs.StringVar(&cfg.SitePath, "site", cfg.SitePath, "Site profile YAML path")
	fs.StringVar(&cfg.MediaDir, "media-dir", cfg.MediaDir, "Uploaded media directory")
	fs.StringVar(&cfg.APIKeyPepper, "api-key-pepper", cfg.APIKeyPepper, "API key hash pepper override")
	fs.StringVar(&cfg.TLSMode, "tls-mode", cfg.TLSMode, "TLS mode: off|auto")
	fs.StringVar(&cfg.CertCacheDir, "cert-cache-dir", cfg.CertCacheDir, "TLS cert cache dir")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug|info|warn|error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: text|json")
	fs.BoolVar(&cfg.WAFEnabled, "waf", cfg.WAFEnabled, "Enable scanner-blocking middleware")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	cfg.BaseURL = strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		return cfg, errors.New("missing --base-url or SITECMS_BASE_URL")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return cfg, errors.New("base url must include scheme and host")
	}

	cfg.TLSMode = strings.ToLower(strings.TrimSpace(cfg.TLSMode))
	if cfg.TLSMode == "" {
		cfg.TLSMode = "off"
	}
	switch cfg.TLSMode {
	case "off", "auto":
	default:
		return cfg, errors.New("tls mode must be one of: off, auto")
	}
	if cfg.TLSMode == "auto" && u.Scheme != "https" {
		return cfg, errors.New("tls mode auto requires an https base url")
	}
	if cfg.ContactRate <= 0 {
		return cfg, errors.New("contact rate must be > 0")
	}
	if cfg.ContactBurst <= 0 {
		return cfg, errors.New("contact burst must be > 0")
	}
	cfg.ThankYouSlug = strings.Trim(strings.TrimSpace(cfg.ThankYouSlug), "/")
	if cfg.ThankYouSlug == "" {
		cfg.ThankYouSlug = defaultThankYouSlug
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOrDefault(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envFloatOrDefault(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func envBoolOrDefault(key string, def bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch v {
	case "":
		return def
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}
