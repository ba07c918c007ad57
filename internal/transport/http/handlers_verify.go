package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/agusdc111/arreglocuil/internal/identity"
	"github.com/agusdc111/arreglocuil/internal/narration"
	"github.com/agusdc111/arreglocuil/internal/pipeline"
	"github.com/agusdc111/arreglocuil/pkg/platform/httputil"
	platformstrings "github.com/agusdc111/arreglocuil/pkg/platform/strings"
	"github.com/agusdc111/arreglocuil/pkg/requestcontext"
)

// VerifyService runs the single-person verification workflows.
type VerifyService interface {
	VerifyGeneral(ctx context.Context, doc identity.Document, name string, sink narration.Sink) (*pipeline.Report, error)
	VerifyMonotributo(ctx context.Context, doc identity.Document, name string, sink narration.Sink) (*pipeline.Report, error)
}

// VerifyHandler wires the verification endpoints to the pipeline.
type VerifyHandler struct {
	service VerifyService
	logger  *slog.Logger
}

func NewVerifyHandler(service VerifyService, logger *slog.Logger) *VerifyHandler {
	return &VerifyHandler{service: service, logger: logger}
}

// Register mounts verification endpoints on the router.
func (h *VerifyHandler) Register(r chi.Router) {
	r.Post("/verify", h.HandleGeneral)
	r.Post("/verify/mono", h.HandleMonotributo)
}

type verifyRequest struct {
	Document string `json:"document"`
	Name     string `json:"name,omitempty"`
}

type verifyResponse struct {
	Identity  *identity.Resolved `json:"identity,omitempty"`
	Verdict   verdictBody        `json:"verdict"`
	Narration []string           `json:"narration"`

	// Messages is the verdict pre-split for chat channels, which cap
	// outgoing messages at 2000 characters.
	Messages []string `json:"messages"`
}

const chatMessageLimit = 2000

type verdictBody struct {
	Label string   `json:"label"`
	Lines []string `json:"lines"`
}

// HandleGeneral handles POST /v1/verify requests.
func (h *VerifyHandler) HandleGeneral(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, h.service.VerifyGeneral, "general verification")
}

// HandleMonotributo handles POST /v1/verify/mono requests.
func (h *VerifyHandler) HandleMonotributo(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, h.service.VerifyMonotributo, "monotributo verification")
}

func (h *VerifyHandler) handle(
	w http.ResponseWriter,
	r *http.Request,
	verify func(context.Context, identity.Document, string, narration.Sink) (*pipeline.Report, error),
	what string,
) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	var req verifyRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	doc, err := identity.ParseDocument(req.Document)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var collector narration.Collector
	report, err := verify(ctx, doc, req.Name, collector.Sink())
	if err != nil {
		h.logger.ErrorContext(ctx, what+" failed",
			"request_id", requestID,
			"document", doc.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, what+" completed",
		"request_id", requestID,
		"document", doc.String(),
		"label", report.Verdict.Label,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, verifyResponse{
		Identity:  report.Identity,
		Verdict:   verdictBody{Label: report.Verdict.Label, Lines: report.Verdict.Lines},
		Narration: collector.Lines(),
		Messages:  platformstrings.ChunkLines(strings.Join(report.Verdict.Lines, "\n"), chatMessageLimit),
	})
}
