package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := Load(context.Background(), WithEnvMap(map[string]string{}), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Address != ":8080" {
		t.Errorf("expected default address :8080, got %s", cfg.Server.Address)
	}
	if cfg.Server.BasePath != "/admin" {
		t.Errorf("unexpected base path: %s", cfg.Server.BasePath)
	}
	if cfg.Catalog.Mode != CatalogModeHTTP {
		t.Errorf("expected http catalog mode, got %s", cfg.Catalog.Mode)
	}
	if cfg.Catalog.BaseURL != defaultCatalogBaseURL {
		t.Errorf("unexpected catalog base url: %s", cfg.Catalog.BaseURL)
	}
	if cfg.Catalog.Timeout != 0 {
		t.Errorf("expected no catalog timeout, got %s", cfg.Catalog.Timeout)
	}
	if cfg.Console.SearchDebounce != 500*time.Millisecond {
		t.Errorf("unexpected debounce: %s", cfg.Console.SearchDebounce)
	}
	if len(cfg.Console.PageSizes) != 4 || cfg.Console.DefaultPageSize != 10 {
		t.Errorf("unexpected page sizes %v / %d", cfg.Console.PageSizes, cfg.Console.DefaultPageSize)
	}
	if cfg.Session.IdleTimeout != 30*time.Minute {
		t.Errorf("unexpected session idle timeout: %s", cfg.Session.IdleTimeout)
	}
	if len(cfg.Session.HashKey) != 0 {
		t.Errorf("expected empty hash key to be generated by the caller")
	}
	if cfg.Telemetry.ServiceName != "catalog-admin" {
		t.Errorf("unexpected service name: %s", cfg.Telemetry.ServiceName)
	}
}

func TestLoadWithOverrides(t *testing.T) {
	env := map[string]string{
		"ADMIN_HTTP_ADDR":          ":9090",
		"ADMIN_BASE_PATH":          "/console",
		"ADMIN_CATALOG_MODE":       "STATIC",
		"ADMIN_CATALOG_BASE_URL":   "",
		"ADMIN_CATALOG_TIMEOUT":    "3s",
		"ADMIN_SEARCH_DEBOUNCE":    "250ms",
		"ADMIN_PAGE_SIZES":         "10, 25,100",
		"ADMIN_DEFAULT_PAGE_SIZE":  "25",
		"ADMIN_SESSION_BLOCK_KEY":  "abcdefghijklmnop",
		"ADMIN_CSRF_COOKIE_SECURE": "yes",
		"ADMIN_OTEL_ENDPOINT":      "collector:4317",
		"ADMIN_OTEL_INSECURE":      "true",
		"LOG_LEVEL":                "debug",
	}

	cfg, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Address != ":9090" || cfg.Server.BasePath != "/console" {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Catalog.Mode != CatalogModeStatic {
		t.Errorf("expected static mode, got %s", cfg.Catalog.Mode)
	}
	if cfg.Catalog.Timeout != 3*time.Second {
		t.Errorf("unexpected timeout: %s", cfg.Catalog.Timeout)
	}
	if cfg.Console.SearchDebounce != 250*time.Millisecond {
		t.Errorf("unexpected debounce: %s", cfg.Console.SearchDebounce)
	}
	if got := cfg.Console.PageSizes; len(got) != 3 || got[1] != 25 || got[2] != 100 {
		t.Errorf("unexpected page sizes: %v", got)
	}
	if cfg.Console.DefaultPageSize != 25 {
		t.Errorf("unexpected default page size: %d", cfg.Console.DefaultPageSize)
	}
	if !cfg.Session.CSRFCookieSecure {
		t.Errorf("expected secure csrf cookie")
	}
	if cfg.Telemetry.OTLPEndpoint != "collector:4317" || !cfg.Telemetry.OTLPInsecure {
		t.Errorf("unexpected telemetry config: %+v", cfg.Telemetry)
	}
	if cfg.Telemetry.LogLevel != "debug" {
		t.Errorf("unexpected log level: %s", cfg.Telemetry.LogLevel)
	}
}

func TestLoadValidation(t *testing.T) {
	env := map[string]string{
		"ADMIN_CATALOG_MODE":      "grpc",
		"ADMIN_PAGE_SIZES":        "5,abc",
		"ADMIN_DEFAULT_PAGE_SIZE": "7",
		"ADMIN_SESSION_BLOCK_KEY": "short",
		"ADMIN_SEARCH_DEBOUNCE":   "-1s",
	}

	_, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	want := map[string]bool{
		"Console.PageSizes":       true,
		"Catalog.Mode":            true,
		"Console.SearchDebounce":  true,
		"Console.DefaultPageSize": true,
		"Session.BlockKey":        true,
	}
	fields := vErr.Fields()
	if len(fields) != len(want) {
		t.Fatalf("unexpected fields: %v", fields)
	}
	for _, f := range fields {
		if !want[f] {
			t.Errorf("unexpected invalid field %s", f)
		}
	}
}

func TestLoadRejectsRelativeCatalogURL(t *testing.T) {
	env := map[string]string{"ADMIN_CATALOG_BASE_URL": "/api/v1/products"}
	_, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if fields := vErr.Fields(); len(fields) != 1 || fields[0] != "Catalog.BaseURL" {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# local overrides\nexport ADMIN_ENVIRONMENT=\"Staging\"\nADMIN_HTTP_ADDR=:7070\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := Load(context.Background(), WithEnvFile(path), WithoutSystemEnv(), WithEnvMap(map[string]string{
		"ADMIN_HTTP_ADDR": ":6060",
	}))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Environment != "Staging" {
		t.Errorf("expected environment from .env, got %s", cfg.Server.Environment)
	}
	if cfg.Server.Address != ":6060" {
		t.Errorf("explicit map must win over .env, got %s", cfg.Server.Address)
	}
}
