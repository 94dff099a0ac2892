package testutil

import (
	"net/http/httptest"
	"testing"
	"time"

	"finitefield.org/catalog-admin/internal/admin/catalog"
	"finitefield.org/catalog-admin/internal/admin/console"
	"finitefield.org/catalog-admin/internal/admin/httpserver"
)

// ServerOption customises the HTTP server configuration for tests.
type ServerOption func(*httpserver.Config)

// WithBasePath sets a custom base path for the admin routes.
func WithBasePath(path string) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.BasePath = path
	}
}

// WithCatalogService wires a custom catalog implementation.
func WithCatalogService(service catalog.Service) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.CatalogService = service
	}
}

// WithSearchDebounce overrides the search debounce delay.
func WithSearchDebounce(delay time.Duration) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.ConsoleOptions.SearchDebounce = delay
	}
}

// WithEnvironment sets the environment label shown in the header.
func WithEnvironment(env string) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Environment = env
	}
}

// NewServer constructs an httptest server running the admin HTTP stack with sensible defaults.
// The catalog is the in-memory static service and the search debounce is shortened.
func NewServer(t testing.TB, opts ...ServerOption) *httptest.Server {
	t.Helper()

	cfg := httpserver.Config{
		Address:        ":0",
		BasePath:       "/admin",
		Environment:    "Test",
		CSRFCookieName: "csrf_token",
		CSRFHeaderName: "X-CSRF-Token",
		CatalogService: catalog.NewStaticService(),
		ConsoleOptions: console.Options{
			PageSizes:       console.DefaultPageSizes,
			DefaultPageSize: console.DefaultPageSize,
			SearchDebounce:  10 * time.Millisecond,
		},
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	srv := httpserver.New(cfg)
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}
