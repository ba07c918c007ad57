// Package pipeline orchestrates the verification workflows: resolve the
// person's CUIL through the provider chain, query the upstream registries
// and collapse everything into an operator-facing verdict.
package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/agusdc111/arreglocuil/internal/audit"
	"github.com/agusdc111/arreglocuil/internal/contrib"
	"github.com/agusdc111/arreglocuil/internal/healthfund"
	"github.com/agusdc111/arreglocuil/internal/identity"
	"github.com/agusdc111/arreglocuil/internal/mono"
	"github.com/agusdc111/arreglocuil/internal/narration"
	"github.com/agusdc111/arreglocuil/internal/platform/metrics"
	"github.com/agusdc111/arreglocuil/internal/provider"
	"github.com/agusdc111/arreglocuil/internal/provider/core"
	"github.com/agusdc111/arreglocuil/internal/registry"
	"github.com/agusdc111/arreglocuil/internal/verdict"
	"github.com/agusdc111/arreglocuil/pkg/domainerrors"
	"github.com/agusdc111/arreglocuil/pkg/period"
	"github.com/agusdc111/arreglocuil/pkg/requestcontext"
)

// householdRegimeMarker appears in the contributions error for domestic
// workers, whose regime is out of scope for this verification.
const householdRegimeMarker = "CASAS PARTICULARES"

// CoreAPI is the slice of the scraping core client the workflows use.
type CoreAPI interface {
	Contributions(ctx context.Context, taxID string) (*core.ContributionsRecord, error)
	LaborRegistry(ctx context.Context, document string) (string, error)
	HealthFund(ctx context.Context, id string) (*core.HealthFundRecord, error)
	MonoPayments(ctx context.Context, taxID string) (*core.MonoPaymentsRecord, error)
	MonoTransfers(ctx context.Context, taxID string) (*core.MonoTransfersRecord, error)
}

// IdentityResolver resolves a document to a CUIL through the provider chain.
type IdentityResolver interface {
	Resolve(ctx context.Context, doc identity.Document, name string, sink narration.Sink) (*identity.Resolved, error)
}

// AuditRecorder receives one event per completed verification.
type AuditRecorder interface {
	Record(ctx context.Context, event audit.Event)
}

// Pipeline wires the resolver, the core client and the analyzers together.
type Pipeline struct {
	resolver IdentityResolver
	client   CoreAPI
	aliases  *healthfund.AliasTable
	logger   *slog.Logger
	metrics  *metrics.Metrics
	recorder AuditRecorder
	tracer   trace.Tracer
}

func New(logger *slog.Logger, m *metrics.Metrics, r IdentityResolver, c CoreAPI, aliases *healthfund.AliasTable, rec AuditRecorder) *Pipeline {
	if aliases == nil {
		aliases = healthfund.EmptyAliases()
	}
	return &Pipeline{
		resolver: r,
		client:   c,
		aliases:  aliases,
		logger:   logger,
		metrics:  m,
		recorder: rec,
		tracer:   otel.Tracer("arreglocuil/pipeline"),
	}
}

// Report is the outcome of a verification workflow. Terminal is set when a
// rejection stopped the flow before the closing summary.
type Report struct {
	Identity *identity.Resolved `json:"identity,omitempty"`
	Verdict  verdict.Verdict    `json:"verdict"`
	Terminal bool               `json:"terminal,omitempty"`
}

// VerifyGeneral runs the employment workflow: identity, contributions,
// labor registry and health-fund lookup, gated by the rejection rules.
func (p *Pipeline) VerifyGeneral(ctx context.Context, doc identity.Document, name string, sink narration.Sink) (*Report, error) {
	ctx, span := p.tracer.Start(ctx, "verify.general",
		trace.WithAttributes(attribute.String("document", doc.String())))
	defer span.End()

	resolved, err := p.resolveTaxID(ctx, doc, name, sink)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	taxID := resolved.TaxID

	sink.Say("Consultando aportes...")
	labor, planContinue, rep, err := p.contributionGate(ctx, taxID, sink)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if rep != nil {
		rep.Identity = resolved
		return p.finishGeneral(ctx, resolved, rep), nil
	}

	sink.Say("Consultando CODEM...")
	registryReport, err := p.client.LaborRegistry(ctx, taxID)
	if err != nil {
		// The registry report is advisory when unreachable.
		sink.Sayf("CODEM: %s", provider.GetMessage(err))
		registryReport = ""
	} else {
		sink.Say(registryReport)
	}
	assessment := registry.Assess(registryReport)
	if rejected, overridden := verdict.RegistryRejection(labor, assessment); rejected {
		sink.Say("Búsqueda detenida por RECHAZO en CODEM.")
		rep := &Report{
			Identity: resolved,
			Verdict:  verdict.Verdict{Label: verdict.RejectRegistry, Lines: append([]string{verdict.RejectRegistry}, assessment.Reasons...)},
			Terminal: true,
		}
		return p.finishGeneral(ctx, resolved, rep), nil
	} else if overridden {
		sink.Say("NOTA: CODEM indica rechazo, pero hay inclusión en Declaración Jurada. Continuando verificación...")
	}

	sink.Say("Consultando SSS...")
	planLine := p.healthFundLine(ctx, taxID, sink)

	lines := verdict.GeneralSummary(planContinue, planLine)
	rep = &Report{
		Identity: resolved,
		Verdict:  verdict.Verdict{Label: lines[0], Lines: lines},
	}
	return p.finishGeneral(ctx, resolved, rep), nil
}

// resolveTaxID runs the provider chain and insists on a full 11-digit CUIL.
func (p *Pipeline) resolveTaxID(ctx context.Context, doc identity.Document, name string, sink narration.Sink) (*identity.Resolved, error) {
	resolved, err := p.resolver.Resolve(ctx, doc, name, sink)
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.CodeNotFound, "no se pudo obtener un CUIL válido", err)
	}
	if len(resolved.TaxID) != 11 {
		sink.Say("No se pudo obtener un CUIL válido")
		return nil, domainerrors.New(domainerrors.CodeNotFound, "no se pudo obtener un CUIL válido")
	}
	return resolved, nil
}

// contributionGate fetches the employer tables and applies the labor
// rejections. It returns a terminal report when the flow must stop, or the
// labor report plus the valid-contribution flag when it continues.
func (p *Pipeline) contributionGate(ctx context.Context, taxID string, sink narration.Sink) (contrib.Report, bool, *Report, error) {
	rec, err := p.client.Contributions(ctx, taxID)
	if err != nil {
		msg := provider.GetMessage(err)
		if strings.Contains(msg, householdRegimeMarker) {
			sink.Say(msg)
			sink.Say("Búsqueda detenida (régimen de aportes no compatible)")
			return contrib.Report{}, false, &Report{
				Verdict:  verdict.Verdict{Label: verdict.RejectHouseholdRegime, Lines: []string{msg, verdict.RejectHouseholdRegime}},
				Terminal: true,
			}, nil
		}
		// Other contribution failures degrade: the registry check still
		// decides, with no active declaration to override it.
		sink.Sayf("Aportes: %s", msg)
		return contrib.Report{Status: contrib.Unemployed}, false, nil, nil
	}

	tables := make([]contrib.EmployerTable, 0, len(rec.EmployersData))
	for _, emp := range rec.EmployersData {
		tables = append(tables, contrib.EmployerTable{Rows: emp.Rows})
	}
	labor := contrib.Analyze(tables)

	if label, rejected := verdict.LaborRejection(labor); rejected {
		sink.Sayf("Calificación detenida: %s", label)
		return labor, false, &Report{
			Verdict:  verdict.Verdict{Label: label, Lines: []string{label}},
			Terminal: true,
		}, nil
	}
	return labor, labor.ValidContribution, nil, nil
}

// healthFundLine resolves the current plan line for the summary, empty when
// the SSS lookup cannot produce one.
func (p *Pipeline) healthFundLine(ctx context.Context, taxID string, sink narration.Sink) string {
	rec, err := p.client.HealthFund(ctx, taxID)
	if err != nil {
		if provider.GetCategory(err) == provider.ErrorProviderOutage {
			sink.Say("La web de SSS está caída o no responde. No se pudo obtener información de obra social.")
		} else {
			sink.Say("SSS: No se encontraron datos ni en traspasos ni en padrón")
		}
		return ""
	}
	line, ok := healthfund.Summarize(rec, p.aliases)
	if !ok {
		sink.Say("SSS: No se encontraron datos ni en traspasos ni en padrón")
		return ""
	}
	return line
}

func (p *Pipeline) finishGeneral(ctx context.Context, resolved *identity.Resolved, rep *Report) *Report {
	p.metrics.ObserveVerdict(audit.WorkflowGeneral, rep.Verdict.Label)
	p.record(ctx, audit.WorkflowGeneral, resolved.TaxID, rep.Verdict.Label)
	return rep
}

// VerifyMonotributo runs the monotributista workflow: identity, payment
// recency and transfer history, collapsed by the priority rules.
func (p *Pipeline) VerifyMonotributo(ctx context.Context, doc identity.Document, name string, sink narration.Sink) (*Report, error) {
	ctx, span := p.tracer.Start(ctx, "verify.mono",
		trace.WithAttributes(attribute.String("document", doc.String())))
	defer span.End()

	resolved, err := p.resolveTaxID(ctx, doc, name, sink)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	taxID := resolved.TaxID
	now := period.FromTime(requestcontext.Now(ctx))

	sink.Say("Consultando pagos de monotributo...")
	recency := p.paymentRecency(ctx, taxID, now, sink)

	sink.Say("Consultando traspasos de monotributo...")
	transfers, planLine := p.transferAnalysis(ctx, taxID, now, sink)

	v := verdict.EvaluateMono(verdict.MonoInput{
		Recency:   recency,
		Transfers: transfers,
		PlanLine:  planLine,
	})

	p.metrics.ObserveVerdict(audit.WorkflowMono, v.Label)
	p.record(ctx, audit.WorkflowMono, taxID, v.Label)
	return &Report{Identity: resolved, Verdict: v}, nil
}

func (p *Pipeline) paymentRecency(ctx context.Context, taxID string, now period.Period, sink narration.Sink) mono.PaymentRecency {
	rec, err := p.client.MonoPayments(ctx, taxID)
	if err != nil {
		sink.Sayf("Pagos: %s", provider.GetMessage(err))
		return mono.RecencyNone
	}
	periods := make([]period.Period, 0, len(rec.Periodos))
	for _, raw := range rec.Periodos {
		if parsed, err := period.Parse(raw); err == nil {
			periods = append(periods, parsed)
		}
	}
	return mono.ClassifyPayments(now, periods)
}

func (p *Pipeline) transferAnalysis(ctx context.Context, taxID string, now period.Period, sink narration.Sink) (mono.TransferAnalysis, string) {
	rec, err := p.client.MonoTransfers(ctx, taxID)
	if err != nil {
		sink.Sayf("MONOTRAS: %s", provider.GetMessage(err))
		return mono.TransferAnalysis{}, ""
	}

	sink.Sayf("Situación: %s", rec.Situacion)
	sink.Sayf("Categoría: %s", rec.Categoria)

	spans := make([]mono.Span, 0, len(rec.Evolucion))
	for _, e := range rec.Evolucion {
		spans = append(spans, mono.Span{Start: e.PeriodoInicio, End: e.PeriodoFin, Plan: e.ObraSocial})
	}
	analysis := mono.AnalyzeTransfers(now, rec.Situacion, rec.Categoria, spans)

	var planLine string
	if analysis.PlanName != "" && analysis.PlanStart != "" {
		planLine = p.aliases.Apply(analysis.PlanName) + " " + analysis.PlanStart
	}
	return analysis, planLine
}

func (p *Pipeline) record(ctx context.Context, workflow, subject, label string) {
	if p.recorder == nil {
		return
	}
	p.recorder.Record(ctx, audit.Event{
		Workflow:  workflow,
		Subject:   subject,
		Verdict:   label,
		ChannelID: requestcontext.ChannelID(ctx),
		RequestID: requestcontext.RequestID(ctx),
		Timestamp: time.Now(),
	})
}
