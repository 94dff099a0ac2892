package helpers

import (
	"context"
	"strings"

	"finitefield.org/catalog-admin/internal/admin/httpserver/middleware"
)

// BasePath returns the configured admin base path.
func BasePath(ctx context.Context) string {
	return middleware.BasePathFromContext(ctx)
}

// Route joins suffix onto the admin base path.
func Route(ctx context.Context, suffix string) string {
	return JoinBase(BasePath(ctx), suffix)
}

// JoinBase joins suffix onto base, tolerating missing or duplicate slashes.
func JoinBase(base, suffix string) string {
	base = strings.TrimSpace(base)
	if !strings.HasPrefix(suffix, "/") {
		suffix = "/" + suffix
	}
	if base == "" || base == "/" {
		return suffix
	}
	return strings.TrimRight(base, "/") + suffix
}
