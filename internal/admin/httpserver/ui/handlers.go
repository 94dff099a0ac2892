package ui

import (
	"net/http"

	"finitefield.org/catalog-admin/internal/admin/catalog"
	"finitefield.org/catalog-admin/internal/admin/console"
	custommw "finitefield.org/catalog-admin/internal/admin/httpserver/middleware"
)

// Dependencies collects external services required by the UI handlers.
type Dependencies struct {
	Consoles *console.Registry
}

// Handlers exposes HTTP handlers for admin UI pages and fragments.
type Handlers struct {
	consoles *console.Registry
}

// NewHandlers wires the UI handler set.
func NewHandlers(deps Dependencies) *Handlers {
	consoles := deps.Consoles
	if consoles == nil {
		consoles = console.NewRegistry(func() *console.Shell {
			return console.NewShell(catalog.NewStaticService(), console.Options{})
		}, console.DefaultIdleTimeout)
	}
	return &Handlers{
		consoles: consoles,
	}
}

// Healthz reports liveness.
func (h *Handlers) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func sessionID(r *http.Request) (string, bool) {
	sess, ok := custommw.SessionFromContext(r.Context())
	if !ok {
		return "", false
	}
	return sess.ID(), true
}

// shell returns the console bound to the caller's session, writing 401 when no session is attached.
func (h *Handlers) shell(w http.ResponseWriter, r *http.Request) (*console.Shell, bool) {
	id, ok := sessionID(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return nil, false
	}
	return h.consoles.Get(id), true
}
