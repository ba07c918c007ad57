package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/agusdc111/arreglocuil/internal/audit"
	"github.com/agusdc111/arreglocuil/internal/contrib"
	"github.com/agusdc111/arreglocuil/internal/platform/metrics"
	"github.com/agusdc111/arreglocuil/internal/provider"
	"github.com/agusdc111/arreglocuil/internal/provider/core"
	"github.com/agusdc111/arreglocuil/internal/registry"
	"github.com/agusdc111/arreglocuil/pkg/domainerrors"
)

// Batch variants.
const (
	BatchEmployment = "employment"
	BatchMono       = "mono"
)

// Per-item results.
const (
	ResultContributions = "APORTES"
	ResultRegistry      = "CODEM"
	ResultActive        = "ACTIVO"
	ResultNo            = "NO"
	ResultError         = "ERROR"
)

// noContributionsMarker flags the upstream error that routes an item to the
// registry fallback.
const noContributionsMarker = "no tiene aportes"

var batchIDRe = regexp.MustCompile(`^\d{10,11}$`)

// BatchConfig caps and paces the batch runs. The mono upstream allows ten
// queries a minute, hence its seven-second spacing.
type BatchConfig struct {
	EmploymentCap   int
	MonoCap         int
	EmploymentDelay time.Duration
	MonoDelay       time.Duration
	Cooldown        time.Duration
}

func (c BatchConfig) withDefaults() BatchConfig {
	if c.EmploymentCap <= 0 {
		c.EmploymentCap = 100
	}
	if c.MonoCap <= 0 {
		c.MonoCap = 170
	}
	if c.MonoDelay <= 0 {
		c.MonoDelay = 7 * time.Second
	}
	if c.Cooldown <= 0 {
		c.Cooldown = 60 * time.Second
	}
	return c
}

// BatchItem is the per-ID outcome. Detail carries the category, situation
// or error message behind the result.
type BatchItem struct {
	ID     string `json:"id"`
	Result string `json:"result"`
	Detail string `json:"detail,omitempty"`
}

// BatchReport aggregates a full run. One item failing never aborts the
// rest.
type BatchReport struct {
	Variant   string      `json:"variant"`
	Items     []BatchItem `json:"items"`
	Qualified int         `json:"qualified"`
	Rejected  int         `json:"rejected"`
	Errors    int         `json:"errors"`
}

// BatchRunner walks ID lists against the upstream registries, pacing the
// calls and riding out rate limits with a cooldown plus a single retry.
type BatchRunner struct {
	client   CoreAPI
	logger   *slog.Logger
	metrics  *metrics.Metrics
	recorder AuditRecorder
	cfg      BatchConfig

	// sleep is swapped out by tests.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewBatchRunner(logger *slog.Logger, m *metrics.Metrics, client CoreAPI, rec AuditRecorder, cfg BatchConfig) *BatchRunner {
	return &BatchRunner{
		client:   client,
		logger:   logger,
		metrics:  m,
		recorder: rec,
		cfg:      cfg.withDefaults(),
		sleep:    sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ParseBatchIDs extracts the 10-11 digit IDs from free text, dropping
// anything that does not look like a CUIL. Duplicates are kept in order;
// the operator pasted them, the operator gets a row for each.
func ParseBatchIDs(raw string) []string {
	return FilterBatchIDs(strings.Fields(raw))
}

// FilterBatchIDs keeps only the tokens that look like a 10-11 digit ID,
// preserving order and duplicates.
func FilterBatchIDs(tokens []string) []string {
	var ids []string
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if batchIDRe.MatchString(tok) {
			ids = append(ids, tok)
		}
	}
	return ids
}

// RunEmployment checks each ID's employer tables, falling back to the
// labor registry when the upstream reports no contributions at all.
func (r *BatchRunner) RunEmployment(ctx context.Context, ids []string) (*BatchReport, error) {
	if err := r.validate(ids, r.cfg.EmploymentCap); err != nil {
		return nil, err
	}
	report := &BatchReport{Variant: BatchEmployment}
	for i, id := range ids {
		item := r.employmentItem(ctx, id)
		r.finishItem(ctx, report, audit.WorkflowBatchEmployment, item)
		if err := r.pause(ctx, i, len(ids), r.cfg.EmploymentDelay); err != nil {
			return report, err
		}
	}
	return report, nil
}

func (r *BatchRunner) employmentItem(ctx context.Context, id string) BatchItem {
	rec, err := r.withRateLimitRetry(ctx, id, func() (any, error) {
		return r.client.Contributions(ctx, id)
	})
	if err != nil {
		msg := provider.GetMessage(err)
		if strings.Contains(msg, noContributionsMarker) {
			return r.registryFallback(ctx, id)
		}
		return BatchItem{ID: id, Result: ResultError, Detail: msg}
	}

	record := rec.(*core.ContributionsRecord)
	tables := make([]contrib.EmployerTable, 0, len(record.EmployersData))
	for _, emp := range record.EmployersData {
		tables = append(tables, contrib.EmployerTable{Rows: emp.Rows})
	}
	switch contrib.Analyze(tables).Status {
	case contrib.ActiveEmployment:
		return BatchItem{ID: id, Result: ResultContributions}
	case contrib.OnLeave:
		return BatchItem{ID: id, Result: ResultNo, Detail: "LICENCIA"}
	}
	return BatchItem{ID: id, Result: ResultNo, Detail: "DESEMPLEADO"}
}

// registryFallback decides an item with no contribution records through the
// labor registry disqualifiers.
func (r *BatchRunner) registryFallback(ctx context.Context, id string) BatchItem {
	report, err := r.client.LaborRegistry(ctx, id)
	if err != nil {
		return BatchItem{ID: id, Result: ResultError, Detail: "error verificando CODEM: " + provider.GetMessage(err)}
	}
	if registry.Assess(report).Disqualified {
		return BatchItem{ID: id, Result: ResultNo, Detail: "CODEM rechazado"}
	}
	return BatchItem{ID: id, Result: ResultRegistry}
}

// RunMono checks each ID's monotributo situation.
func (r *BatchRunner) RunMono(ctx context.Context, ids []string) (*BatchReport, error) {
	if err := r.validate(ids, r.cfg.MonoCap); err != nil {
		return nil, err
	}
	report := &BatchReport{Variant: BatchMono}
	for i, id := range ids {
		item := r.monoItem(ctx, id)
		r.finishItem(ctx, report, audit.WorkflowBatchMono, item)
		if err := r.pause(ctx, i, len(ids), r.cfg.MonoDelay); err != nil {
			return report, err
		}
	}
	return report, nil
}

func (r *BatchRunner) monoItem(ctx context.Context, id string) BatchItem {
	rec, err := r.withRateLimitRetry(ctx, id, func() (any, error) {
		return r.client.MonoTransfers(ctx, id)
	})
	if err != nil {
		return BatchItem{ID: id, Result: ResultError, Detail: provider.GetMessage(err)}
	}

	record := rec.(*core.MonoTransfersRecord)
	situation := strings.ToUpper(strings.TrimSpace(record.Situacion))
	if situation == "ACTIVO" || situation == "ACTIVA" {
		category := record.Categoria
		if category == "" {
			category = "S/D"
		}
		return BatchItem{ID: id, Result: ResultActive, Detail: category}
	}
	if situation == "" {
		situation = "Sin situación"
	}
	return BatchItem{ID: id, Result: ResultNo, Detail: situation}
}

// withRateLimitRetry runs the call, and on a rate-limit failure waits out
// the cooldown and retries exactly once.
func (r *BatchRunner) withRateLimitRetry(ctx context.Context, id string, call func() (any, error)) (any, error) {
	out, err := call()
	if err == nil {
		return out, nil
	}
	if provider.GetCategory(err) != provider.ErrorRateLimited {
		return nil, err
	}

	r.logger.WarnContext(ctx, "rate limit hit, cooling down",
		"id", id, "cooldown", r.cfg.Cooldown)
	r.metrics.ObserveRateLimitWait()
	if serr := r.sleep(ctx, r.cfg.Cooldown); serr != nil {
		return nil, serr
	}
	return call()
}

func (r *BatchRunner) validate(ids []string, limit int) error {
	if len(ids) == 0 {
		return domainerrors.New(domainerrors.CodeBadRequest, "no se detectaron CUILs válidos")
	}
	if len(ids) > limit {
		return domainerrors.New(domainerrors.CodeBadRequest,
			fmt.Sprintf("demasiados CUILs: máximo %d, recibidos %d", limit, len(ids)))
	}
	return nil
}

func (r *BatchRunner) finishItem(ctx context.Context, report *BatchReport, workflow string, item BatchItem) {
	report.Items = append(report.Items, item)
	switch item.Result {
	case ResultContributions, ResultRegistry, ResultActive:
		report.Qualified++
	case ResultNo:
		report.Rejected++
	default:
		report.Errors++
	}
	r.metrics.ObserveBatchItem(report.Variant, item.Result)
	if r.recorder != nil {
		r.recorder.Record(ctx, audit.Event{
			Workflow: workflow,
			Subject:  item.ID,
			Verdict:  item.Result,
			Detail:   item.Detail,
		})
	}
}

// pause spaces consecutive items; the last item is never followed by one.
func (r *BatchRunner) pause(ctx context.Context, i, total int, delay time.Duration) error {
	if delay <= 0 || i >= total-1 {
		return nil
	}
	return r.sleep(ctx, delay)
}
