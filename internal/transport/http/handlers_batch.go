package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/agusdc111/arreglocuil/internal/pipeline"
	"github.com/agusdc111/arreglocuil/pkg/platform/httputil"
	"github.com/agusdc111/arreglocuil/pkg/requestcontext"
)

// BatchService runs the list workflows.
type BatchService interface {
	RunEmployment(ctx context.Context, ids []string) (*pipeline.BatchReport, error)
	RunMono(ctx context.Context, ids []string) (*pipeline.BatchReport, error)
}

// BatchHandler wires the batch endpoints to the runner.
type BatchHandler struct {
	service BatchService
	logger  *slog.Logger
}

func NewBatchHandler(service BatchService, logger *slog.Logger) *BatchHandler {
	return &BatchHandler{service: service, logger: logger}
}

// Register mounts batch endpoints on the router.
func (h *BatchHandler) Register(r chi.Router) {
	r.Post("/batch/employment", h.HandleEmployment)
	r.Post("/batch/mono", h.HandleMono)
}

// batchRequest accepts either a pasted text blob or an explicit ID list.
// When both are present the list wins.
type batchRequest struct {
	Input string   `json:"input,omitempty"`
	IDs   []string `json:"ids,omitempty"`
}

func (req batchRequest) ids() []string {
	if len(req.IDs) > 0 {
		return pipeline.FilterBatchIDs(req.IDs)
	}
	return pipeline.ParseBatchIDs(req.Input)
}

// HandleEmployment handles POST /v1/batch/employment requests.
func (h *BatchHandler) HandleEmployment(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, h.service.RunEmployment, "employment batch")
}

// HandleMono handles POST /v1/batch/mono requests.
func (h *BatchHandler) HandleMono(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, h.service.RunMono, "monotributo batch")
}

func (h *BatchHandler) handle(
	w http.ResponseWriter,
	r *http.Request,
	run func(context.Context, []string) (*pipeline.BatchReport, error),
	what string,
) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	var req batchRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	report, err := run(ctx, req.ids())
	if err != nil {
		h.logger.ErrorContext(ctx, what+" failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, what+" completed",
		"request_id", requestID,
		"items", len(report.Items),
		"qualified", report.Qualified,
		"rejected", report.Rejected,
		"errors", report.Errors,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, report)
}
