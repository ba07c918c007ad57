package healthfund

import (
	"regexp"
	"strings"

	"github.com/agusdc111/arreglocuil/internal/provider/core"
	"github.com/agusdc111/arreglocuil/pkg/period"
)

var enrollDateRe = regexp.MustCompile(`\d{2}-\d{2}-(\d{4})`)

// Summarize extracts the "most recent plan" line shown in verdict
// summaries: the alias-substituted plan name plus when it started, MM/YY
// for transfer records, bare year for padron records. ok is false when the
// record carries no usable plan information.
func Summarize(rec *core.HealthFundRecord, aliases *AliasTable) (line string, ok bool) {
	if rec == nil {
		return "", false
	}
	switch rec.Tipo {
	case "traspasos":
		return summarizeTransfers(rec.Datos, aliases)
	case "padron":
		return summarizePadron(rec.ObraSocial, rec.FechaAlta, aliases)
	default:
		return "", false
	}
}

func summarizeTransfers(transfers []map[string]string, aliases *AliasTable) (string, bool) {
	if len(transfers) == 0 {
		return "", false
	}
	last := transfers[len(transfers)-1]

	var name, since string
	for key, value := range last {
		k := strings.ToLower(strings.TrimSpace(key))
		if strings.Contains(k, "obra social") && strings.Contains(k, "elegida") {
			name = value
		}
		if strings.Contains(k, "período desde") || strings.Contains(k, "periodo desde") || k == "desde" {
			since = value
		}
	}
	if name == "" || since == "" {
		return "", false
	}
	if p, ok := period.ParseMonthYear(since); ok {
		since = p.FormatShort()
	}
	return aliases.Apply(name) + " " + since, true
}

func summarizePadron(plan, enrolledAt string, aliases *AliasTable) (string, bool) {
	if plan == "" || enrolledAt == "" {
		return "", false
	}
	when := enrolledAt
	if m := enrollDateRe.FindStringSubmatch(enrolledAt); m != nil {
		when = m[1]
	}
	return aliases.Apply(plan) + " " + when, true
}
