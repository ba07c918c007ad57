// Package core is the HTTP client for the scraping core service that fronts
// every remote registry (tax padrons, employer contributions, labor registry,
// health fund, monotributo). Route names follow the core service's API.
package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/agusdc111/arreglocuil/internal/provider"
)

// Scrapes are slow; the core proxies headless-browser sessions.
const defaultTimeout = 90 * time.Second

// Upstream failure markers in core error payloads.
const (
	outageMarker    = "WEB_CAIDA"
	rateLimitMarker = "Rate limit exceeded"
)

// Client talks to the scraping core service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a core client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// NewClientWithHTTP creates a core client using a caller-supplied http.Client.
func NewClientWithHTTP(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: hc}
}

// IdentityRecord is the raw identity lookup payload. The cuil and nombre
// fields carry sentinel strings on partial results; parsing them into a
// typed outcome happens in internal/identity.
type IdentityRecord struct {
	OK              bool   `json:"ok"`
	CUIL            string `json:"cuil"`
	Nombre          string `json:"nombre"`
	FechaNacimiento string `json:"fecha_nacimiento"`
	Error           string `json:"error"`
}

// EmployerRows is one employer's contribution table, rows of raw cells.
type EmployerRows struct {
	Rows [][]string `json:"rows"`
}

// ContributionsRecord is the employer contributions payload.
type ContributionsRecord struct {
	OK            bool           `json:"ok"`
	EmployersData []EmployerRows `json:"empleadores_data"`
	Images        []string       `json:"images"`
	Error         string         `json:"error"`
}

// HealthFundRecord is the health fund registry payload. Tipo selects the
// shape: "traspasos" fills Datos, "padron" fills ObraSocial/FechaAlta.
type HealthFundRecord struct {
	OK         bool                `json:"ok"`
	Tipo       string              `json:"tipo"`
	CUIL       string              `json:"cuil"`
	Datos      []map[string]string `json:"datos"`
	ObraSocial string              `json:"obra_social"`
	FechaAlta  string              `json:"fecha_alta"`
	Error      string              `json:"error"`
}

// MonoPaymentsRecord is the monotributo payment history payload.
type MonoPaymentsRecord struct {
	OK       bool   `json:"ok"`
	Nombre   string `json:"nombre"`
	Periodos []int  `json:"periodos"`
	Error    string `json:"error"`
}

// EvolutionEntry is one health fund enrollment span, MM/YYYY bounds with
// "/" marking an open end.
type EvolutionEntry struct {
	PeriodoInicio string `json:"periodo_inicio"`
	PeriodoFin    string `json:"periodo_fin"`
	ObraSocial    string `json:"obra_social"`
}

// MonoTransfersRecord is the monotributo transfer history payload.
type MonoTransfersRecord struct {
	OK        bool             `json:"ok"`
	Nombre    string           `json:"nombre"`
	Situacion string           `json:"situacion"`
	Categoria string           `json:"categoria"`
	Evolucion []EvolutionEntry `json:"evolucion"`
	Error     string           `json:"error"`
}

// LookupIdentity queries one of the identity routes (nosis3, nosis2, nosis).
func (c *Client) LookupIdentity(ctx context.Context, route, providerID, document, name string) (*IdentityRecord, error) {
	q := url.Values{"dni": {document}}
	if name != "" {
		q.Set("nombre", name)
	}
	var rec IdentityRecord
	if err := c.getJSON(ctx, providerID, "/"+route, q, &rec); err != nil {
		return nil, err
	}
	if !rec.OK {
		return nil, classify(providerID, rec.Error)
	}
	return &rec, nil
}

// Contributions fetches the per-employer contribution tables for a tax ID.
func (c *Client) Contributions(ctx context.Context, taxID string) (*ContributionsRecord, error) {
	var rec ContributionsRecord
	if err := c.getJSON(ctx, "arca", "/arca", url.Values{"cuil": {taxID}}, &rec); err != nil {
		return nil, err
	}
	if !rec.OK {
		return nil, classify("arca", rec.Error)
	}
	return &rec, nil
}

// LaborRegistry fetches the labor registry report as free text.
func (c *Client) LaborRegistry(ctx context.Context, document string) (string, error) {
	const providerID = "codem"
	u := c.baseURL + "/codem?" + url.Values{"doc": {document}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", provider.NewError(provider.ErrorInternal, providerID, "build request", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", transportError(providerID, err)
	}
	defer resp.Body.Close()
	if err := statusError(providerID, resp.StatusCode); err != nil {
		return "", err
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", provider.NewError(provider.ErrorBadData, providerID, "read response", err)
	}
	return string(body), nil
}

// HealthFund fetches the health fund registry record for a document or tax ID.
func (c *Client) HealthFund(ctx context.Context, id string) (*HealthFundRecord, error) {
	var rec HealthFundRecord
	if err := c.getJSON(ctx, "sss", "/sss", url.Values{"cuil_o_dni": {id}}, &rec); err != nil {
		return nil, err
	}
	if !rec.OK {
		return nil, classify("sss", rec.Error)
	}
	return &rec, nil
}

// MonoPayments fetches the monotributo payment history for a tax ID.
func (c *Client) MonoPayments(ctx context.Context, taxID string) (*MonoPaymentsRecord, error) {
	var rec MonoPaymentsRecord
	if err := c.postJSON(ctx, "mono_pagos", "/mono_pagos", map[string]string{"cuil": taxID}, &rec); err != nil {
		return nil, err
	}
	if !rec.OK {
		return nil, classify("mono_pagos", rec.Error)
	}
	return &rec, nil
}

// MonoTransfers fetches the monotributo transfer history for a tax ID.
func (c *Client) MonoTransfers(ctx context.Context, taxID string) (*MonoTransfersRecord, error) {
	var rec MonoTransfersRecord
	if err := c.postJSON(ctx, "monotras", "/monotras", map[string]string{"cuil": taxID}, &rec); err != nil {
		return nil, err
	}
	if !rec.OK {
		return nil, classify("monotras", rec.Error)
	}
	return &rec, nil
}

func (c *Client) getJSON(ctx context.Context, providerID, path string, q url.Values, out any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return provider.NewError(provider.ErrorInternal, providerID, "build request", err)
	}
	return c.decode(providerID, req, out)
}

func (c *Client) postJSON(ctx context.Context, providerID, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return provider.NewError(provider.ErrorInternal, providerID, "encode request", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return provider.NewError(provider.ErrorInternal, providerID, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.decode(providerID, req, out)
}

func (c *Client) decode(providerID string, req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(providerID, err)
	}
	defer resp.Body.Close()
	if err := statusError(providerID, resp.StatusCode); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return provider.NewError(provider.ErrorBadData, providerID, "malformed response", err)
	}
	return nil
}

func transportError(providerID string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return provider.NewError(provider.ErrorTimeout, providerID, "request timed out", err)
	}
	return provider.NewError(provider.ErrorProviderOutage, providerID, "core unreachable", err)
}

func statusError(providerID string, status int) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusTooManyRequests:
		return provider.NewError(provider.ErrorRateLimited, providerID, rateLimitMarker, nil)
	case status >= 500:
		return provider.NewError(provider.ErrorProviderOutage, providerID, fmt.Sprintf("core returned %d", status), nil)
	default:
		return provider.NewError(provider.ErrorBadData, providerID, fmt.Sprintf("core returned %d", status), nil)
	}
}

// classify maps an ok=false error payload onto the failure taxonomy.
func classify(providerID, msg string) error {
	switch {
	case strings.Contains(msg, rateLimitMarker):
		return provider.NewError(provider.ErrorRateLimited, providerID, msg, nil)
	case strings.Contains(msg, outageMarker):
		return provider.NewError(provider.ErrorProviderOutage, providerID, msg, nil)
	default:
		return provider.NewError(provider.ErrorNotFound, providerID, msg, nil)
	}
}
