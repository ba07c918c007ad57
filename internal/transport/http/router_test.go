package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agusdc111/arreglocuil/internal/audit"
	"github.com/agusdc111/arreglocuil/internal/identity"
	"github.com/agusdc111/arreglocuil/internal/narration"
	"github.com/agusdc111/arreglocuil/internal/pipeline"
	"github.com/agusdc111/arreglocuil/internal/platform/middleware"
	"github.com/agusdc111/arreglocuil/internal/verdict"
	"github.com/agusdc111/arreglocuil/pkg/domainerrors"
)

type fakeVerifier struct {
	report *pipeline.Report
	err    error
	lines  []string

	gotDoc  identity.Document
	gotName string
}

func (f *fakeVerifier) VerifyGeneral(_ context.Context, doc identity.Document, name string, sink narration.Sink) (*pipeline.Report, error) {
	return f.run(doc, name, sink)
}

func (f *fakeVerifier) VerifyMonotributo(_ context.Context, doc identity.Document, name string, sink narration.Sink) (*pipeline.Report, error) {
	return f.run(doc, name, sink)
}

func (f *fakeVerifier) run(doc identity.Document, name string, sink narration.Sink) (*pipeline.Report, error) {
	f.gotDoc = doc
	f.gotName = name
	for _, line := range f.lines {
		sink.Say(line)
	}
	return f.report, f.err
}

type fakeBatch struct {
	report *pipeline.BatchReport
	err    error
	gotIDs []string
}

func (f *fakeBatch) RunEmployment(_ context.Context, ids []string) (*pipeline.BatchReport, error) {
	f.gotIDs = ids
	return f.report, f.err
}

func (f *fakeBatch) RunMono(_ context.Context, ids []string) (*pipeline.BatchReport, error) {
	f.gotIDs = ids
	return f.report, f.err
}

type allowAllValidator struct{}

func (allowAllValidator) ValidateToken(string) (*middleware.JWTClaims, error) {
	return &middleware.JWTClaims{ChannelID: "canal-test"}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(t *testing.T, verifier VerifyService, batch BatchService, store audit.Store) http.Handler {
	t.Helper()
	if store == nil {
		store = audit.NewInMemoryStore()
	}
	return NewRouter(Dependencies{
		Logger:     discardLogger(),
		Verifier:   verifier,
		Batch:      batch,
		AuditStore: store,
		Validator:  allowAllValidator{},
	})
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Authorization", "Bearer token")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestVerifyGeneral(t *testing.T) {
	verifier := &fakeVerifier{
		report: &pipeline.Report{
			Identity: &identity.Resolved{TaxID: "20304050605", Source: "afip"},
			Verdict:  verdict.Verdict{Label: verdict.LabelContribOK, Lines: []string{"APORTES OK", "OSDE 2021"}},
		},
		lines: []string{"CUIL: 20304050605"},
	}
	router := newTestRouter(t, verifier, &fakeBatch{}, nil)

	rec := doJSON(t, router, http.MethodPost, "/v1/verify", map[string]string{
		"document": "30405060",
		"name":     "PEREZ JUAN",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "30405060", verifier.gotDoc.String())
	assert.Equal(t, "PEREZ JUAN", verifier.gotName)

	var resp verifyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "20304050605", resp.Identity.TaxID)
	assert.Equal(t, []string{"APORTES OK", "OSDE 2021"}, resp.Verdict.Lines)
	assert.Equal(t, []string{"CUIL: 20304050605"}, resp.Narration)
	assert.Equal(t, []string{"APORTES OK\nOSDE 2021"}, resp.Messages)
}

func TestVerifyRejectsBadDocument(t *testing.T) {
	router := newTestRouter(t, &fakeVerifier{}, &fakeBatch{}, nil)

	rec := doJSON(t, router, http.MethodPost, "/v1/verify", map[string]string{"document": "12ab34"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerifyMonoServiceError(t *testing.T) {
	verifier := &fakeVerifier{err: domainerrors.New(domainerrors.CodeNotFound, "no se pudo obtener un CUIL válido")}
	router := newTestRouter(t, verifier, &fakeBatch{}, nil)

	rec := doJSON(t, router, http.MethodPost, "/v1/verify/mono", map[string]string{"document": "30405060"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not_found", body["error"])
}

func TestBatchEmploymentParsesInputBlob(t *testing.T) {
	batch := &fakeBatch{report: &pipeline.BatchReport{
		Variant:   pipeline.BatchEmployment,
		Items:     []pipeline.BatchItem{{ID: "20304050605", Result: pipeline.ResultContributions}},
		Qualified: 1,
	}}
	router := newTestRouter(t, &fakeVerifier{}, batch, nil)

	rec := doJSON(t, router, http.MethodPost, "/v1/batch/employment", map[string]string{
		"input": "20304050605\nno-es-un-id\n20304050605",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"20304050605"}, batch.gotIDs)
}

func TestBatchMonoExplicitIDs(t *testing.T) {
	batch := &fakeBatch{report: &pipeline.BatchReport{Variant: pipeline.BatchMono}}
	router := newTestRouter(t, &fakeVerifier{}, batch, nil)

	rec := doJSON(t, router, http.MethodPost, "/v1/batch/mono", map[string][]string{
		"ids": {"20304050605", "27112223334"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"20304050605", "27112223334"}, batch.gotIDs)
}

func TestBatchMonoExplicitIDsAreFiltered(t *testing.T) {
	batch := &fakeBatch{report: &pipeline.BatchReport{Variant: pipeline.BatchMono}}
	router := newTestRouter(t, &fakeVerifier{}, batch, nil)

	rec := doJSON(t, router, http.MethodPost, "/v1/batch/mono", map[string][]string{
		"ids": {"20304050605", "no-es-un-id", "123", "20304050605"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"20304050605", "20304050605"}, batch.gotIDs)
}

func TestBatchValidationErrorMapsToBadRequest(t *testing.T) {
	batch := &fakeBatch{err: domainerrors.New(domainerrors.CodeBadRequest, "La lista no contiene IDs válidos")}
	router := newTestRouter(t, &fakeVerifier{}, batch, nil)

	rec := doJSON(t, router, http.MethodPost, "/v1/batch/mono", map[string]string{"input": ""})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNormalizeEndpoint(t *testing.T) {
	router := newTestRouter(t, &fakeVerifier{}, &fakeBatch{}, nil)

	rec := doJSON(t, router, http.MethodPost, "/v1/normalize", map[string]string{
		"input": "CIERRE\n20-30405060-5\nPEREZ JUAN",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "cali 20304050605 PEREZ JUAN", body["command"])
}

func TestAuditListBySubject(t *testing.T) {
	store := audit.NewInMemoryStore()
	require.NoError(t, store.Append(context.Background(), audit.Event{
		Workflow: audit.WorkflowGeneral,
		Subject:  "20304050605",
		Verdict:  "APORTES OK",
	}))
	router := newTestRouter(t, &fakeVerifier{}, &fakeBatch{}, store)

	rec := doJSON(t, router, http.MethodGet, "/v1/audit?subject=20304050605", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp auditResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Events, 1)
	assert.Equal(t, "APORTES OK", resp.Events[0].Verdict)
}

func TestAuditListRecentEmpty(t *testing.T) {
	router := newTestRouter(t, &fakeVerifier{}, &fakeBatch{}, nil)

	rec := doJSON(t, router, http.MethodGet, "/v1/audit?limit=5", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp auditResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Events)
}

func TestRoutesRequireAuth(t *testing.T) {
	router := newTestRouter(t, &fakeVerifier{}, &fakeBatch{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/verify", bytes.NewBufferString(`{"document":"30405060"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealthRequiresNoAuth(t *testing.T) {
	router := newTestRouter(t, &fakeVerifier{}, &fakeBatch{}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
