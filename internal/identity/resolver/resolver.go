// Package resolver runs the ordered provider fallback that turns a document
// (plus optional name) into a resolved fiscal identity.
package resolver

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/agusdc111/arreglocuil/internal/identity"
	"github.com/agusdc111/arreglocuil/internal/narration"
	"github.com/agusdc111/arreglocuil/internal/platform/metrics"
	"github.com/agusdc111/arreglocuil/internal/provider"
)

// Provider is one identity source in the fallback chain.
type Provider interface {
	// ID returns the provider's short name for narration and metrics.
	ID() string

	// Accepts reports whether the provider can process this document at
	// all. Rejected documents are skipped without a network call.
	Accepts(doc identity.Document) bool

	// Lookup queries the provider. Transport and upstream failures come
	// back as errors; semantic results (including "no record") come back
	// as a parsed Outcome.
	Lookup(ctx context.Context, doc identity.Document, name string) (identity.Outcome, error)
}

// Resolver tries each provider in order until one produces a match.
type Resolver struct {
	chain   []Provider
	logger  *slog.Logger
	metrics *metrics.Metrics
	group   singleflight.Group
}

// New builds a resolver over the given provider chain.
func New(logger *slog.Logger, m *metrics.Metrics, chain ...Provider) *Resolver {
	return &Resolver{chain: chain, logger: logger, metrics: m}
}

// flightResult carries the outcome of one collapsed resolution pass. The
// narration is collected inside the flight and replayed to every caller's
// sink, so late joiners see the same trail as the caller that ran it.
type flightResult struct {
	resolved *identity.Resolved
	lines    []string
	err      error
}

// Resolve walks the provider chain. Identical concurrent resolutions are
// collapsed into one upstream pass; resolution is read-only and
// deterministic per document+name, so sharing the result is safe.
func (r *Resolver) Resolve(ctx context.Context, doc identity.Document, name string, sink narration.Sink) (*identity.Resolved, error) {
	v, _, _ := r.group.Do(doc.Value+"|"+name, func() (any, error) {
		var col narration.Collector
		resolved, err := r.resolve(ctx, doc, name, col.Sink())
		return flightResult{resolved: resolved, lines: col.Lines(), err: err}, nil
	})
	res := v.(flightResult)
	for _, line := range res.lines {
		sink.Say(line)
	}
	if res.err != nil {
		return nil, res.err
	}
	return res.resolved, nil
}

func (r *Resolver) resolve(ctx context.Context, doc identity.Document, name string, sink narration.Sink) (*identity.Resolved, error) {
	attempted := 0
	for _, p := range r.chain {
		if !p.Accepts(doc) {
			sink.Sayf("%s no puede procesar este documento", p.ID())
			continue
		}
		attempted++
		sink.Sayf("Buscando con %s...", p.ID())

		start := time.Now()
		out, err := p.Lookup(ctx, doc, name)
		elapsed := time.Since(start)

		if err != nil {
			r.metrics.ObserveResolution(p.ID(), "error", elapsed)
			r.logger.WarnContext(ctx, "provider lookup failed",
				"provider", p.ID(),
				"category", provider.GetCategory(err),
				"error", err)
			sink.Sayf("Error en %s: %s", p.ID(), provider.GetMessage(err))
			continue
		}

		switch out.Kind {
		case identity.OutcomeExact:
			r.metrics.ObserveResolution(p.ID(), "exact", elapsed)
			sink.Sayf("Encontrado con %s: CUIL %s, nombre %s", p.ID(), out.TaxID, out.FullName)
			return &identity.Resolved{
				TaxID:     out.TaxID,
				FullName:  out.FullName,
				BirthDate: out.BirthDate,
				Source:    p.ID(),
			}, nil
		case identity.OutcomeCandidate:
			r.metrics.ObserveResolution(p.ID(), "candidate", elapsed)
			sink.Sayf("ADVERTENCIA: el nombre no coincide exactamente con el registrado. CUIL encontrado: %s, nombre registrado: %s", out.TaxID, out.FullName)
			return &identity.Resolved{
				TaxID:            out.TaxID,
				FullName:         out.FullName,
				BirthDate:        out.BirthDate,
				Source:           p.ID(),
				NameMatchWarning: true,
			}, nil
		case identity.OutcomeFailed:
			r.metrics.ObserveResolution(p.ID(), "failed", elapsed)
			sink.Sayf("%s: %s", p.ID(), out.Detail)
		default: // OutcomeNoRecord
			r.metrics.ObserveResolution(p.ID(), "no_record", elapsed)
			sink.Sayf("%s no encontró información", p.ID())
		}
	}

	if attempted == 0 {
		return nil, provider.ErrNoProvidersAvailable
	}
	sink.Say("Todos los métodos fallaron. No se pudo obtener información.")
	return nil, provider.ErrAllProvidersFailed
}
