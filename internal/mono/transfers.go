package mono

import (
	"strings"

	"github.com/agusdc111/arreglocuil/pkg/period"
)

// Marker for the parity plan: already holding it disqualifies a transfer.
const parityPlanMarker = "OBRA SOCIAL DE TRABAJADORES DE PRENSA DE BUENOS AIRES"

// openEndMarker is how the registry renders a still-open enrollment span.
const openEndMarker = "/"

// In an open-ended enrollment, qualification completes at the 12-month mark.
const qualificationMonths = 12

// Rejection is a transfer-analysis rejection, higher priority than any
// positive outcome.
type Rejection int

const (
	RejectionNone Rejection = iota
	// RejectionSocialPlan: the situation or category marks a social-regime
	// monotributista.
	RejectionSocialPlan
	// RejectionParityPlan: the current plan already is the parity plan.
	RejectionParityPlan
	// RejectionRecentTransfer: the open enrollment is too young (four or
	// more months short of its first anniversary).
	RejectionRecentTransfer
)

// TransferOutcome is the positive classification of the enrollment history.
type TransferOutcome int

const (
	// OutcomeIndeterminate means the history did not support a conclusion.
	OutcomeIndeterminate TransferOutcome = iota
	// OutcomePerfect qualifies outright.
	OutcomePerfect
	// OutcomePending is one to three months short of qualifying.
	OutcomePending
	// OutcomeAdhesion: a fully-empty month between enrollments marks a
	// fresh adhesion, which qualifies outright.
	OutcomeAdhesion
)

// Span is one enrollment period in the evolution, MM/YYYY bounds with "/"
// marking an open end.
type Span struct {
	Start string
	End   string
	Plan  string
}

// TransferAnalysis is the full result of analyzing a transfer record.
type TransferAnalysis struct {
	Rejection Rejection
	Outcome   TransferOutcome

	// PlanName/PlanStart describe the most recent enrollment, kept even
	// under a rejection so summaries can name the current plan.
	PlanName  string
	PlanStart string
}

// AnalyzeTransfers classifies a monotributista's transfer situation.
// Rejection checks run before the evolution walk; the evolution walk still
// runs under a rejection so the current plan is reported.
func AnalyzeTransfers(now period.Period, situation, category string, evolution []Span) TransferAnalysis {
	var a TransferAnalysis

	if strings.Contains(strings.ToUpper(situation), "SOCIAL") ||
		strings.Contains(strings.ToUpper(category), "MONOTRIBUTO SOCIAL") {
		a.Rejection = RejectionSocialPlan
	}

	if len(evolution) > 0 && a.Rejection == RejectionNone {
		current := evolution[len(evolution)-1]
		if strings.Contains(strings.ToUpper(current.Plan), parityPlanMarker) {
			a.Rejection = RejectionParityPlan
		}
	}

	switch {
	case len(evolution) == 0:
		return a
	case len(evolution) == 1:
		a.PlanName = evolution[0].Plan
		a.PlanStart = evolution[0].Start
		a.Outcome = OutcomePerfect
		return a
	}

	previous := evolution[len(evolution)-2]
	current := evolution[len(evolution)-1]
	a.PlanName = current.Plan
	a.PlanStart = current.Start

	if emptyMonthBetween(previous.End, current.Start) {
		a.Outcome = OutcomeAdhesion
		return a
	}

	if current.End != openEndMarker {
		// A closed span means the period was completed.
		a.Outcome = OutcomePerfect
		return a
	}

	start, ok := period.ParseMonthYear(current.Start)
	if !ok {
		return a
	}
	remaining := qualificationMonths - now.MonthsSince(start)
	switch {
	case remaining <= 0:
		a.Outcome = OutcomePerfect
	case remaining <= 3:
		a.Outcome = OutcomePending
	case a.Rejection == RejectionNone:
		a.Rejection = RejectionRecentTransfer
	}
	return a
}

// emptyMonthBetween reports whether at least one whole calendar month sits
// between the end of one span and the start of the next.
func emptyMonthBetween(prevEnd, nextStart string) bool {
	end, ok := period.ParseMonthYear(prevEnd)
	if !ok {
		return false
	}
	start, ok := period.ParseMonthYear(nextStart)
	if !ok {
		return false
	}
	return start.MonthsSince(end)-1 >= 1
}
