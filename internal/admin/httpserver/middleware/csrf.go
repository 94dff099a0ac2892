package middleware

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"finitefield.org/catalog-admin/internal/admin/observability"
)

type csrfContextKey string

const csrfTokenContextKey csrfContextKey = "csrf.token"

// CSRFRejectedMessage is the toast shown to htmx clients whose token no longer matches.
const CSRFRejectedMessage = "Your session changed. Reload the page and try again."

// CSRFConfig controls cookie/header behaviour.
type CSRFConfig struct {
	CookieName string
	CookiePath string
	HeaderName string
	// FieldName is the form field checked when the header is absent (plain form posts).
	FieldName string
	MaxAge    time.Duration
	Secure    bool
}

type csrfGuard struct {
	cookie string
	path   string
	header string
	field  string
	maxAge time.Duration
	secure bool
}

func newCSRFGuard(cfg CSRFConfig) csrfGuard {
	return csrfGuard{
		cookie: firstSet(cfg.CookieName, "catalog_admin_csrf"),
		path:   firstSet(cfg.CookiePath, "/"),
		header: firstSet(cfg.HeaderName, "X-CSRF-Token"),
		field:  firstSet(cfg.FieldName, "_csrf"),
		maxAge: durationSet(cfg.MaxAge, 24*time.Hour),
		secure: cfg.Secure,
	}
}

// CSRF applies double-submit cookie protection to the console. Every request carries the
// cookie token in its context so pages can embed it in hx-headers and form fields; console
// commands (POST) must echo it back through the header or the form field.
func CSRF(cfg CSRFConfig) func(http.Handler) http.Handler {
	guard := newCSRFGuard(cfg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := guard.token(w, r)
			if err != nil {
				observability.FromContext(r.Context()).Error("csrf token issue failed", zap.Error(err))
				http.Error(w, "csrf token error", http.StatusInternalServerError)
				return
			}

			if isUnsafeMethod(r.Method) {
				if reason := guard.verify(r, token); reason != "" {
					guard.reject(w, r, reason)
					return
				}
			}

			ctx := context.WithValue(r.Context(), csrfTokenContextKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CSRFTokenFromContext returns the token issued for the current request (to embed in forms or hx-headers).
func CSRFTokenFromContext(ctx context.Context) string {
	if token, ok := ctx.Value(csrfTokenContextKey).(string); ok {
		return token
	}
	return ""
}

// token returns the cookie token, issuing a new cookie when the browser has none.
func (g csrfGuard) token(w http.ResponseWriter, r *http.Request) (string, error) {
	if c, err := r.Cookie(g.cookie); err == nil && c.Value != "" {
		return c.Value, nil
	}

	token, err := generateToken(32)
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     g.cookie,
		Value:    token,
		Path:     g.path,
		HttpOnly: true,
		Secure:   g.secure || r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(g.maxAge.Seconds()),
	})
	return token, nil
}

// verify returns an empty string when the submitted token matches, otherwise the rejection reason.
func (g csrfGuard) verify(r *http.Request, token string) string {
	submitted := r.Header.Get(g.header)
	if submitted == "" {
		submitted = r.PostFormValue(g.field)
	}
	switch {
	case submitted == "":
		return "missing"
	case subtle.ConstantTimeCompare([]byte(submitted), []byte(token)) != 1:
		return "mismatch"
	default:
		return ""
	}
}

func (g csrfGuard) reject(w http.ResponseWriter, r *http.Request, reason string) {
	ctx := r.Context()
	observability.FromContext(ctx).Warn("csrf check rejected console command",
		zap.String("reason", reason),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Bool("htmx", IsHTMXRequest(ctx)),
	)
	if IsHTMXRequest(ctx) {
		_ = TriggerEvent(w, "toast", map[string]string{"message": CSRFRejectedMessage, "tone": "danger"})
	}
	http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
}

func generateToken(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func isUnsafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return false
	default:
		return true
	}
}

func firstSet(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func durationSet(value, fallback time.Duration) time.Duration {
	if value <= 0 {
		return fallback
	}
	return value
}
