package config

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	defaultEnvFile         = ".env"
	defaultAddress         = ":8080"
	defaultBasePath        = "/admin"
	defaultEnvironment     = "Development"
	defaultCatalogBaseURL  = "https://api.escuelajs.co/api/v1/products"
	defaultSearchDebounce  = 500 * time.Millisecond
	defaultPageSize        = 10
	defaultSessionIdle     = 30 * time.Minute
	defaultServiceName     = "catalog-admin"
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

// CatalogMode selects the catalog backend.
type CatalogMode string

const (
	CatalogModeHTTP   CatalogMode = "http"
	CatalogModeStatic CatalogMode = "static"
)

var defaultPageSizes = []int{5, 10, 20, 50}

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	Console   ConsoleConfig
	Session   SessionConfig
	Telemetry TelemetryConfig
}

// ServerConfig configures the HTTP listener and route mounting.
type ServerConfig struct {
	Address         string
	BasePath        string
	Environment     string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// CatalogConfig points the console at the remote products collection.
type CatalogConfig struct {
	BaseURL string
	Mode    CatalogMode
	// Timeout bounds each catalog call. Zero leaves calls unbounded.
	Timeout time.Duration
}

// ConsoleConfig tunes list behaviour.
type ConsoleConfig struct {
	SearchDebounce  time.Duration
	PageSizes       []int
	DefaultPageSize int
}

// SessionConfig configures the signed session cookie and CSRF cookie.
type SessionConfig struct {
	HashKey          []byte
	BlockKey         []byte
	IdleTimeout      time.Duration
	CSRFCookieSecure bool
}

// TelemetryConfig controls logging and tracing.
type TelemetryConfig struct {
	LogLevel     string
	ServiceName  string
	OTLPEndpoint string
	OTLPInsecure bool
}

// ValidationError is returned when configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from os.Getenv, relying only on provided maps and .env files.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the configuration from defaults, .env overrides, environment variables
// and explicit maps, in increasing order of precedence.
func Load(_ context.Context, opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if dotEnvValues != nil {
			if value, ok := dotEnvValues[key]; ok {
				return value, true
			}
		}
		return "", false
	}

	var invalid []string

	pageSizes, ok := intListWithDefault(lookup, "ADMIN_PAGE_SIZES", defaultPageSizes)
	if !ok {
		invalid = append(invalid, "Console.PageSizes")
	}

	cfg := Config{
		Server: ServerConfig{
			Address:         stringWithDefault(lookup, "ADMIN_HTTP_ADDR", defaultAddress),
			BasePath:        stringWithDefault(lookup, "ADMIN_BASE_PATH", defaultBasePath),
			Environment:     stringWithDefault(lookup, "ADMIN_ENVIRONMENT", defaultEnvironment),
			ReadTimeout:     durationWithDefault(lookup, "ADMIN_SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout:    durationWithDefault(lookup, "ADMIN_SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:     durationWithDefault(lookup, "ADMIN_SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
			ShutdownTimeout: durationWithDefault(lookup, "ADMIN_SERVER_SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		},
		Catalog: CatalogConfig{
			BaseURL: stringWithDefault(lookup, "ADMIN_CATALOG_BASE_URL", defaultCatalogBaseURL),
			Mode:    CatalogMode(strings.ToLower(stringWithDefault(lookup, "ADMIN_CATALOG_MODE", string(CatalogModeHTTP)))),
			Timeout: durationWithDefault(lookup, "ADMIN_CATALOG_TIMEOUT", 0),
		},
		Console: ConsoleConfig{
			SearchDebounce:  durationWithDefault(lookup, "ADMIN_SEARCH_DEBOUNCE", defaultSearchDebounce),
			PageSizes:       pageSizes,
			DefaultPageSize: intWithDefault(lookup, "ADMIN_DEFAULT_PAGE_SIZE", defaultPageSize),
		},
		Session: SessionConfig{
			HashKey:          []byte(stringWithDefault(lookup, "ADMIN_SESSION_HASH_KEY", "")),
			BlockKey:         []byte(stringWithDefault(lookup, "ADMIN_SESSION_BLOCK_KEY", "")),
			IdleTimeout:      durationWithDefault(lookup, "ADMIN_SESSION_IDLE_TIMEOUT", defaultSessionIdle),
			CSRFCookieSecure: boolWithDefault(lookup, "ADMIN_CSRF_COOKIE_SECURE", false),
		},
		Telemetry: TelemetryConfig{
			LogLevel:     stringWithDefault(lookup, "LOG_LEVEL", "info"),
			ServiceName:  stringWithDefault(lookup, "ADMIN_SERVICE_NAME", defaultServiceName),
			OTLPEndpoint: stringWithDefault(lookup, "ADMIN_OTEL_ENDPOINT", ""),
			OTLPInsecure: boolWithDefault(lookup, "ADMIN_OTEL_INSECURE", false),
		},
	}

	if err := validateConfig(cfg, invalid); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config, invalid []string) error {
	if strings.TrimSpace(cfg.Server.Address) == "" {
		invalid = append(invalid, "Server.Address")
	}
	if !strings.HasPrefix(cfg.Server.BasePath, "/") {
		invalid = append(invalid, "Server.BasePath")
	}
	switch cfg.Catalog.Mode {
	case CatalogModeHTTP:
		if u, err := url.Parse(cfg.Catalog.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			invalid = append(invalid, "Catalog.BaseURL")
		}
	case CatalogModeStatic:
	default:
		invalid = append(invalid, "Catalog.Mode")
	}
	if cfg.Catalog.Timeout < 0 {
		invalid = append(invalid, "Catalog.Timeout")
	}
	if cfg.Console.SearchDebounce <= 0 {
		invalid = append(invalid, "Console.SearchDebounce")
	}
	if len(cfg.Console.PageSizes) > 0 && !containsInt(cfg.Console.PageSizes, cfg.Console.DefaultPageSize) {
		invalid = append(invalid, "Console.DefaultPageSize")
	}
	switch len(cfg.Session.BlockKey) {
	case 0, 16, 24, 32:
	default:
		invalid = append(invalid, "Session.BlockKey")
	}

	if len(invalid) > 0 {
		return &ValidationError{fields: invalid}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	file, err := os.Open(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	values := make(map[string]string)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		values[key] = strings.Trim(strings.TrimSpace(value), "\"'")
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: failed parsing %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(value)); err == nil {
			return d
		}
	}
	return fallback
}

func intWithDefault(lookup func(string) (string, bool), key string, fallback int) int {
	if value, ok := lookup(key); ok && value != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}

// intListWithDefault parses a comma separated list of positive integers. It reports false when any entry is invalid.
func intListWithDefault(lookup func(string) (string, bool), key string, fallback []int) ([]int, bool) {
	raw, ok := lookup(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return append([]int(nil), fallback...), true
	}
	var out []int
	for _, part := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		n, err := strconv.Atoi(trimmed)
		if err != nil || n <= 0 {
			return append([]int(nil), fallback...), false
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return append([]int(nil), fallback...), true
	}
	return out, true
}

func containsInt(values []int, target int) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
