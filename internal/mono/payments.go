// Package mono analyzes monotributo records: payment recency over monthly
// periods and transfer outcomes over the health fund enrollment evolution.
package mono

import "github.com/agusdc111/arreglocuil/pkg/period"

// PaymentRecency classifies how current a monotributista's payments are.
type PaymentRecency int

const (
	// RecencyNone means no payment periods at all.
	RecencyNone PaymentRecency = iota
	// RecencyLate means the newest payment is more than two months old.
	RecencyLate
	// RecencyPending means payments are current but the consecutive run is
	// shorter than three months.
	RecencyPending
	// RecencyUpToDate means payments are current with at least three
	// consecutive months.
	RecencyUpToDate
)

func (r PaymentRecency) String() string {
	switch r {
	case RecencyLate:
		return "late"
	case RecencyPending:
		return "pending"
	case RecencyUpToDate:
		return "up_to_date"
	default:
		return "none"
	}
}

// ClassifyPayments evaluates the payment periods against the current month.
// Duplicates are ignored; order of the input does not matter.
func ClassifyPayments(now period.Period, paid []period.Period) PaymentRecency {
	desc := period.DedupeDesc(paid)
	if len(desc) == 0 {
		return RecencyNone
	}
	if now.MonthsSince(desc[0]) > 2 {
		return RecencyLate
	}
	if period.ConsecutiveRun(desc) >= 3 {
		return RecencyUpToDate
	}
	return RecencyPending
}
