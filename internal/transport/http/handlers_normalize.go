package httptransport

import (
	"net/http"

	"github.com/agusdc111/arreglocuil/internal/normalizer"
	"github.com/agusdc111/arreglocuil/pkg/platform/httputil"
)

type normalizeRequest struct {
	Input string `json:"input"`
}

// handleNormalize handles POST /v1/normalize requests. Normalization is a
// pure function, so the endpoint needs no handler struct.
func handleNormalize(w http.ResponseWriter, r *http.Request) {
	var req normalizeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := normalizer.Normalize(req.Input)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}
