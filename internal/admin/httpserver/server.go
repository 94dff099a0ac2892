package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/securecookie"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"finitefield.org/catalog-admin/internal/admin/catalog"
	"finitefield.org/catalog-admin/internal/admin/console"
	custommw "finitefield.org/catalog-admin/internal/admin/httpserver/middleware"
	"finitefield.org/catalog-admin/internal/admin/httpserver/ui"
	"finitefield.org/catalog-admin/internal/admin/observability"
	"finitefield.org/catalog-admin/internal/admin/session"
	"finitefield.org/catalog-admin/public"
)

const (
	defaultServiceName    = "catalog-admin"
	defaultRequestTimeout = 60 * time.Second
	defaultReadTimeout    = 10 * time.Second
	defaultWriteTimeout   = 30 * time.Second
	defaultIdleTimeout    = 60 * time.Second
)

// Config holds runtime options for the admin HTTP server.
type Config struct {
	Address     string
	BasePath    string
	Environment string
	ServiceName string
	Logger      *zap.Logger

	CatalogService     catalog.Service
	ConsoleOptions     console.Options
	ConsoleIdleTimeout time.Duration

	Sessions         custommw.SessionStore
	CSRFCookieName   string
	CSRFCookiePath   string
	CSRFCookieSecure bool
	CSRFHeaderName   string

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// New constructs the HTTP server with middleware stack and embedded assets.
func New(cfg Config) *http.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(observability.InjectLogger(logger))
	router.Use(observability.RequestLogger())
	router.Use(chimw.Recoverer)
	router.Use(chimw.Timeout(defaultRequestTimeout))

	staticContent, err := public.StaticFS()
	if err != nil {
		logger.Fatal("embed static", zap.Error(err))
	}
	router.Handle("/public/static/*", http.StripPrefix("/public/static/", http.FileServer(http.FS(staticContent))))

	basePath := normalizeBasePath(cfg.BasePath)

	consoles := newConsoleRegistry(cfg, logger)
	handlers := ui.NewHandlers(ui.Dependencies{Consoles: consoles})
	router.Get("/healthz", handlers.Healthz)

	sessions := cfg.Sessions
	if sessions == nil {
		sessions = ephemeralSessions(logger)
	}

	csrfCfg := custommw.CSRFConfig{
		CookieName: cfg.CSRFCookieName,
		CookiePath: firstNonEmpty(cfg.CSRFCookiePath, basePath),
		HeaderName: cfg.CSRFHeaderName,
		Secure:     cfg.CSRFCookieSecure,
	}

	mountAdminRoutes(router, basePath, routeOptions{
		Environment: cfg.Environment,
		Sessions:    sessions,
		CSRF:        csrfCfg,
		Handlers:    handlers,
	})

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      otelhttp.NewHandler(router, firstNonEmpty(cfg.ServiceName, defaultServiceName)),
		ReadTimeout:  durationOr(cfg.ReadTimeout, defaultReadTimeout),
		WriteTimeout: durationOr(cfg.WriteTimeout, defaultWriteTimeout),
		IdleTimeout:  durationOr(cfg.IdleTimeout, defaultIdleTimeout),
	}
	srv.RegisterOnShutdown(consoles.Close)
	return srv
}

type routeOptions struct {
	Environment string
	Sessions    custommw.SessionStore
	CSRF        custommw.CSRFConfig
	Handlers    *ui.Handlers
}

func mountAdminRoutes(router chi.Router, base string, opts routeOptions) {
	productsPath := joinPath(base, "/products")
	if base != "/" {
		router.Get(base, redirectTo(productsPath))
	}

	router.Route(base, func(r chi.Router) {
		r.Use(custommw.RequestInfoMiddleware(base, opts.Environment))
		r.Use(custommw.HTMX())
		r.Use(custommw.NoStore())
		r.Use(custommw.Session(opts.Sessions))
		r.Use(custommw.CSRF(opts.CSRF))

		r.Get("/", redirectTo(productsPath))

		h := opts.Handlers
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ProductsPage)
			r.Get("/search", h.ProductsSearch)
			r.Get("/export.csv", h.ProductsExport)
			r.Post("/page-size", h.ProductsPageSize)
			r.Post("/prev", h.ProductsPrev)
			r.Post("/next", h.ProductsNext)
			r.Post("/sort/{key}", h.ProductsSort)
			r.Post("/save", h.ProductSave)

			RegisterFragment(r, "/new", h.ProductNew)
			RegisterFragment(r, "/{productID}", h.ProductDetail)
			RegisterFragment(r, "/{productID}/edit", h.ProductEdit)
		})
	})
}

func newConsoleRegistry(cfg Config, logger *zap.Logger) *console.Registry {
	service := cfg.CatalogService
	if service == nil {
		service = catalog.NewStaticService()
	}
	opts := cfg.ConsoleOptions
	if opts.Logger == nil {
		opts.Logger = logger
	}
	return console.NewRegistry(func() *console.Shell {
		return console.NewShell(service, opts)
	}, cfg.ConsoleIdleTimeout)
}

// ephemeralSessions signs cookies with a per-process key. Sessions do not survive a restart.
func ephemeralSessions(logger *zap.Logger) custommw.SessionStore {
	manager, err := session.NewManager(session.Config{
		HashKey: securecookie.GenerateRandomKey(32),
	})
	if err != nil {
		logger.Fatal("session manager", zap.Error(err))
	}
	return manager
}

func redirectTo(target string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target, http.StatusFound)
	}
}

func normalizeBasePath(path string) string {
	p := strings.TrimSpace(path)
	if p == "" {
		return "/admin"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	if p == "" {
		return "/"
	}
	return p
}

func joinPath(base, suffix string) string {
	if base == "/" {
		return suffix
	}
	return base + suffix
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func durationOr(value, fallback time.Duration) time.Duration {
	if value > 0 {
		return value
	}
	return fallback
}

// RegisterFragment registers a GET handler intended for htmx fragment rendering.
func RegisterFragment(r chi.Router, pattern string, handler http.HandlerFunc) {
	r.With(custommw.RequireHTMX()).Get(pattern, handler)
}
