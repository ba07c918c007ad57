package identity

import (
	"regexp"
	"strings"

	"github.com/agusdc111/arreglocuil/internal/provider/core"
)

// OutcomeKind tags what a provider lookup actually meant.
type OutcomeKind int

const (
	// OutcomeExact is a definitive single match.
	OutcomeExact OutcomeKind = iota
	// OutcomeCandidate is a near-match: the provider could not confirm the
	// name, the first candidate is taken with a warning.
	OutcomeCandidate
	// OutcomeNoRecord means the provider explicitly found nothing.
	OutcomeNoRecord
	// OutcomeFailed means the provider reported a processing error.
	OutcomeFailed
)

// Outcome is a provider response parsed once at the boundary. Downstream
// code never re-inspects raw payload strings.
type Outcome struct {
	Kind      OutcomeKind
	TaxID     string
	FullName  string
	BirthDate string

	// Detail carries the provider's own wording for NoRecord/Failed.
	Detail string
}

// Sentinel values providers embed in the nombre/cuil payload fields.
const (
	sentinelError           = "ERROR"
	sentinelUnidentified    = "NO IDENTIFICADO"
	sentinelNoMatch         = "NO_MATCH"
	sentinelMultipleResults = "MULTIPLE_RESULTS"
	sentinelNoMatchAll      = "NO_MATCH_SHOWING_ALL"
	sentinelFilteredSingle  = "FILTERED_SINGLE"
	sentinelFilteredMulti   = "FILTERED_MULTIPLE"

	invalidRowMarker = "@cuit@"
)

// Markers inside free-text candidate blocks. Tax IDs appear dashed
// (20-30405060-7) or plain depending on the source.
var (
	blockTaxIDRe         = regexp.MustCompile(`(?i)CUIL:\s*(\d{2}-?\d{8}-?\d)`)
	blockNameRe          = regexp.MustCompile(`(?i)NOMBRE:\s*([^\n]+)`)
	blockBirthRe         = regexp.MustCompile(`(?i)NACIMIENTO:\s*([^\n]+)`)
	blockNumberedTaxIDRe = regexp.MustCompile(`(?i)CUIL\s+\d+:\s*(\d{2}-?\d{8}-?\d)`)
	blockNumberedNameRe  = regexp.MustCompile(`(?i)NOMBRE\s+\d+:\s*([^\n]+)`)
	plainTaxIDRe         = regexp.MustCompile(`^\d{11}$`)
)

// ParseDirectoryRecord interprets a padron-style provider payload (the
// primary and secondary sources).
func ParseDirectoryRecord(rec *core.IdentityRecord) Outcome {
	if rec == nil {
		return Outcome{Kind: OutcomeNoRecord}
	}
	if rec.Nombre == sentinelError {
		return Outcome{Kind: OutcomeFailed, Detail: rec.CUIL}
	}
	if rec.CUIL == "" || rec.CUIL == sentinelUnidentified {
		return Outcome{Kind: OutcomeNoRecord, Detail: "no record found"}
	}
	if rec.Nombre == sentinelNoMatch || rec.Nombre == sentinelMultipleResults {
		out, ok := parseBlock(rec.CUIL, blockTaxIDRe, blockNameRe)
		if !ok {
			return Outcome{Kind: OutcomeNoRecord, Detail: "no usable candidate in response"}
		}
		out.Kind = OutcomeCandidate
		if out.BirthDate == "" {
			out.BirthDate = rec.FechaNacimiento
		}
		return out
	}
	return exactFrom(rec.CUIL, rec.Nombre, rec.FechaNacimiento)
}

// ParseWebRecord interprets the tertiary web source payload, which signals
// filtering results through FILTERED_* sentinels and numbered candidate
// blocks, and marks unusable scrape rows with an @cuit@ placeholder.
func ParseWebRecord(rec *core.IdentityRecord) Outcome {
	if rec == nil || rec.CUIL == "" || strings.Contains(rec.CUIL, invalidRowMarker) {
		return Outcome{Kind: OutcomeNoRecord, Detail: "no record found"}
	}
	switch rec.Nombre {
	case sentinelFilteredSingle:
		out, ok := parseBlock(rec.CUIL, blockTaxIDRe, blockNameRe)
		if !ok {
			return Outcome{Kind: OutcomeNoRecord, Detail: "no usable candidate in response"}
		}
		out.Kind = OutcomeExact
		return out
	case sentinelFilteredMulti, sentinelNoMatchAll:
		out, ok := parseBlock(rec.CUIL, blockNumberedTaxIDRe, blockNumberedNameRe)
		if !ok {
			return Outcome{Kind: OutcomeNoRecord, Detail: "no usable candidate in response"}
		}
		out.Kind = OutcomeCandidate
		return out
	default:
		return exactFrom(rec.CUIL, rec.Nombre, rec.FechaNacimiento)
	}
}

func exactFrom(rawTaxID, name, birth string) Outcome {
	cleaned := cleanTaxID(rawTaxID)
	if !plainTaxIDRe.MatchString(cleaned) {
		return Outcome{Kind: OutcomeNoRecord, Detail: "unrecognized tax id in response"}
	}
	return Outcome{Kind: OutcomeExact, TaxID: cleaned, FullName: name, BirthDate: birth}
}

// parseBlock extracts the first candidate from a free-text block.
func parseBlock(block string, taxIDRe, nameRe *regexp.Regexp) (Outcome, bool) {
	m := taxIDRe.FindStringSubmatch(block)
	if m == nil {
		return Outcome{}, false
	}
	out := Outcome{TaxID: cleanTaxID(m[1]), FullName: sentinelUnidentified}
	if nm := nameRe.FindStringSubmatch(block); nm != nil {
		out.FullName = strings.TrimSpace(nm[1])
	}
	if bm := blockBirthRe.FindStringSubmatch(block); bm != nil {
		out.BirthDate = strings.TrimSpace(bm[1])
	}
	return out, true
}

func cleanTaxID(s string) string {
	return strings.NewReplacer("-", "", " ", "").Replace(s)
}
