package transport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/i18n"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/requestid"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/tenant"
)

// RouterOptions configures the service router. Only Workflow is required.
type RouterOptions struct {
	Workflow *Handler

	// Live and Ready are mounted at /healthz and /readyz when set.
	Live  http.Handler
	Ready http.Handler
	// Metrics defaults to the Prometheus default registry.
	Metrics http.Handler

	// Tenant resolves the store id; defaults to the X-Store-ID header.
	Tenant tenant.Resolver

	// Languages and DefaultLanguage drive ?lang= and Accept-Language matching.
	Languages       []string
	DefaultLanguage string

	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// Router builds the HTTP API:
//
//	POST  /v1/{kind}
//	GET   /v1/{kind}/actions?state=
//	GET   /v1/{kind}/{id}
//	PATCH /v1/{kind}/{id}/fields
//	POST  /v1/{kind}/{id}/transitions
//	GET   /v1/{kind}/{id}/actions
//	GET   /v1/{kind}/{id}/history
//	GET   /v1/stock_transfer/{id}/movements
func Router(opts RouterOptions) chi.Router {
	if opts.Workflow == nil {
		panic("transport: workflow handler cannot be nil")
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	resolver := opts.Tenant
	if resolver == nil {
		resolver = tenant.NewHeaderResolver(tenant.DefaultHeader)
	}
	defaultLang := opts.DefaultLanguage
	if defaultLang == "" {
		defaultLang = i18n.DefaultLanguage
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = promhttp.Handler()
	}

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(observe(log))
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { writeError(w, ErrNotFound) })
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) { writeError(w, ErrMethodNotAllowed) })

	if opts.Live != nil {
		r.Method(http.MethodGet, "/healthz", opts.Live)
	}
	if opts.Ready != nil {
		r.Method(http.MethodGet, "/readyz", opts.Ready)
	}
	r.Method(http.MethodGet, "/metrics", metrics)

	h := opts.Workflow
	r.Route("/v1", func(v1 chi.Router) {
		if opts.RequestTimeout > 0 {
			v1.Use(middleware.Timeout(opts.RequestTimeout))
		}
		v1.Use(i18n.Middleware(i18n.QueryOrHeaderExtractor(opts.Languages, defaultLang)))

		// Next actions are derived from the registry alone and need no store.
		v1.Get("/{kind}/actions", h.Actions)

		v1.Group(func(scoped chi.Router) {
			scoped.Use(tenant.Middleware(resolver, func(w http.ResponseWriter, _ *http.Request, err error) {
				writeError(w, err)
			}))
			scoped.Use(ActorMiddleware)

			scoped.Post("/{kind}", h.Create)
			scoped.Route("/{kind}/{id}", func(e chi.Router) {
				e.Get("/", h.Get)
				e.Patch("/fields", h.EditFields)
				e.Post("/transitions", h.Transition)
				e.Get("/actions", h.EntityActions)
				e.Get("/history", h.History)
				e.Get("/movements", h.Movements)
			})
		})
	})

	return r
}
