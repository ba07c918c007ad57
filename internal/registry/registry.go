// Package registry assesses labor registry reports. The registry responds
// with free text; disqualification is decided by a fixed ordered set of
// marker patterns.
package registry

import "regexp"

// Disqualifying report patterns, checked in order. Accent variants appear
// because the registry renders both forms depending on the lookup path.
var disqualifiers = []struct {
	Name    string
	Pattern *regexp.Regexp
}{
	{"retiree", regexp.MustCompile(`(?i)Situaci[óo]n:\s*PASIVO`)},
	{"monotributista", regexp.MustCompile(`(?i)Situaci[óo]n:\s*MONOTRIBUTISTA`)},
	{"family_member", regexp.MustCompile(`(?i)Condici[óo]n:\s*Familiar`)},
	{"no_results", regexp.MustCompile(`(?i)La consulta no arroj[óo] resultados\.`)},
}

// Assessment is the outcome of scanning one registry report.
type Assessment struct {
	Disqualified bool
	Reasons      []string
}

// Assess scans a raw registry report for disqualifying markers.
func Assess(report string) Assessment {
	var a Assessment
	for _, d := range disqualifiers {
		if d.Pattern.MatchString(report) {
			a.Disqualified = true
			a.Reasons = append(a.Reasons, d.Name)
		}
	}
	return a
}
