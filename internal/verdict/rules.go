package verdict

import (
	"github.com/agusdc111/arreglocuil/internal/mono"
)

// MonoInput is everything the monotributo rule chain looks at. PlanLine is
// the already-formatted current-plan description and may be empty.
type MonoInput struct {
	Recency   mono.PaymentRecency
	Transfers mono.TransferAnalysis
	PlanLine  string
}

type monoRule struct {
	name  string
	match func(MonoInput) bool
	build func(MonoInput) Verdict
}

// Rules run in order and the first match wins. Transfer rejections outrank
// everything; qualifying transfer outcomes require up-to-date payments and
// otherwise fall through to the payment-status rules.
var monoRules = []monoRule{
	{
		name:  "social_plan",
		match: func(in MonoInput) bool { return in.Transfers.Rejection == mono.RejectionSocialPlan },
		build: func(in MonoInput) Verdict { return label(MonoRejectSocial) },
	},
	{
		name:  "parity_plan",
		match: func(in MonoInput) bool { return in.Transfers.Rejection == mono.RejectionParityPlan },
		build: func(in MonoInput) Verdict { return label(MonoRejectParity) },
	},
	{
		name:  "recent_transfer",
		match: func(in MonoInput) bool { return in.Transfers.Rejection == mono.RejectionRecentTransfer },
		build: func(in MonoInput) Verdict { return planThenLabel(in.PlanLine, MonoRejectRecent) },
	},
	{
		name: "qualifies_perfect",
		match: func(in MonoInput) bool {
			return in.Transfers.Outcome == mono.OutcomePerfect && in.Recency == mono.RecencyUpToDate
		},
		build: func(in MonoInput) Verdict { return qualifying(in.PlanLine, MonoPerfect) },
	},
	{
		name: "qualifies_pending",
		match: func(in MonoInput) bool {
			return in.Transfers.Outcome == mono.OutcomePending && in.Recency == mono.RecencyUpToDate
		},
		build: func(in MonoInput) Verdict { return qualifying(in.PlanLine, MonoPendingQualifies) },
	},
	{
		name: "qualifies_adhesion",
		match: func(in MonoInput) bool {
			return in.Transfers.Outcome == mono.OutcomeAdhesion && in.Recency == mono.RecencyUpToDate
		},
		build: func(in MonoInput) Verdict { return qualifying(in.PlanLine, MonoAdhesionPerfect) },
	},
	{
		name:  "payments_pending",
		match: func(in MonoInput) bool { return in.Recency == mono.RecencyPending },
		build: func(in MonoInput) Verdict { return qualifying(in.PlanLine, MonoPendingPayments) },
	},
	{
		name: "payments_rejected",
		match: func(in MonoInput) bool {
			return in.Recency == mono.RecencyLate || in.Recency == mono.RecencyNone
		},
		build: func(in MonoInput) Verdict { return planThenLabel(in.PlanLine, MonoRejectPayments) },
	},
	{
		name:  "payments_ok",
		match: func(in MonoInput) bool { return in.Recency == mono.RecencyUpToDate },
		build: func(in MonoInput) Verdict { return planThenLabel(in.PlanLine, LabelContribOK) },
	},
}

// EvaluateMono walks the rule chain and returns the first matching verdict.
func EvaluateMono(in MonoInput) Verdict {
	for _, r := range monoRules {
		if r.match(in) {
			return r.build(in)
		}
	}
	// Unreachable: payments_ok covers the remaining recency value.
	return label(LabelContribCheck)
}

func label(l string) Verdict {
	return Verdict{Label: l, Lines: []string{l}}
}

func planThenLabel(planLine, l string) Verdict {
	v := Verdict{Label: l}
	if planLine != "" {
		v.Lines = append(v.Lines, planLine)
	}
	v.Lines = append(v.Lines, l)
	return v
}

// qualifying verdicts lead with the payment status, then the plan, then
// the label.
func qualifying(planLine, l string) Verdict {
	v := Verdict{Label: l, Lines: []string{LabelContribOK}}
	if planLine != "" {
		v.Lines = append(v.Lines, planLine)
	}
	v.Lines = append(v.Lines, l)
	return v
}
