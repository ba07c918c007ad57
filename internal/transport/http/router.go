// Package httptransport is the thin HTTP layer. Handlers decode requests,
// delegate to the workflows and translate domain errors, and nothing else.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agusdc111/arreglocuil/internal/audit"
	"github.com/agusdc111/arreglocuil/internal/platform/middleware"
	"github.com/agusdc111/arreglocuil/internal/ratelimit"
	"github.com/agusdc111/arreglocuil/pkg/platform/httputil"
)

// Dependencies carries everything the router needs. Optional fields may be
// nil; the matching routes degrade gracefully (no rate limiting, no auth
// allow list).
type Dependencies struct {
	Logger          *slog.Logger
	Verifier        VerifyService
	Batch           BatchService
	AuditStore      audit.Store
	Validator       middleware.JWTValidator
	AllowedChannels []string
	RateLimitStore  ratelimit.Store
	RateLimit       int
}

// NewRouter wires the public endpoints. Health and metrics stay outside the
// authenticated group so probes and scrapers need no token.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.ClientIP)

	r.Get("/healthz", handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(ratelimit.Middleware(deps.RateLimitStore, deps.RateLimit, deps.Logger))
		r.Use(middleware.RequireAuth(deps.Validator, deps.AllowedChannels, deps.Logger))

		verify := NewVerifyHandler(deps.Verifier, deps.Logger)
		verify.Register(r)

		batch := NewBatchHandler(deps.Batch, deps.Logger)
		batch.Register(r)

		auditH := NewAuditHandler(deps.AuditStore, deps.Logger)
		auditH.Register(r)

		r.Post("/normalize", handleNormalize)
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
