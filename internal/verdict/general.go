package verdict

import (
	"github.com/agusdc111/arreglocuil/internal/contrib"
	"github.com/agusdc111/arreglocuil/internal/registry"
)

// LaborRejection maps the labor status of a contribution report to a
// terminal rejection of the general workflow. Active employment passes.
func LaborRejection(r contrib.Report) (label string, rejected bool) {
	switch r.Status {
	case contrib.Unemployed:
		return RejectUnemployed, true
	case contrib.OnLeave:
		return RejectOnLeave, true
	}
	return "", false
}

// RegistryRejection decides whether a registry assessment stops the general
// workflow. An active declaration in the employer tables overrides the
// registry verdict: the rejection is reported but the workflow continues.
func RegistryRejection(labor contrib.Report, a registry.Assessment) (rejected, overridden bool) {
	if !a.Disqualified {
		return false, false
	}
	if labor.Status == contrib.ActiveEmployment {
		return false, true
	}
	return true, false
}

// GeneralSummary builds the closing lines of the general workflow: the
// contribution status followed by the current health plan, or a review
// marker when the plan could not be determined.
func GeneralSummary(validContribution bool, planLine string) []string {
	lines := make([]string, 0, 2)
	if validContribution {
		lines = append(lines, LabelContribOK)
	} else {
		lines = append(lines, LabelContribCheck)
	}
	if planLine != "" {
		lines = append(lines, planLine)
	} else {
		lines = append(lines, LabelHealthFundCheck)
	}
	return lines
}
