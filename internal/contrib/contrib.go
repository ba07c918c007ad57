// Package contrib analyzes per-employer contribution tables from the tax
// registry. Only the last row of each employer's table is authoritative:
// it reflects the current declaration period.
package contrib

import "strings"

// Cell markers in contribution tables.
const (
	declaredMarker      = "SI"
	leaveMarker         = "-"
	informationalMarker = "INFORMATIVO"

	// declarationColumn is the DDJJ column; column 0 is the period.
	declarationColumn = 1
)

// LaborStatus is the aggregate employment classification.
type LaborStatus int

const (
	Unemployed LaborStatus = iota
	OnLeave
	ActiveEmployment
)

func (s LaborStatus) String() string {
	switch s {
	case ActiveEmployment:
		return "active"
	case OnLeave:
		return "on_leave"
	default:
		return "unemployed"
	}
}

// EmployerTable is one employer's contribution rows, oldest first.
type EmployerTable struct {
	Rows [][]string
}

// Report is the outcome of analyzing all employers.
type Report struct {
	Status LaborStatus

	// ValidContribution is true when any employer's last row carries at
	// least one real value (non-empty, not a leave placeholder, not an
	// informational marker). It is independent of Status.
	ValidContribution bool
}

// Analyze classifies the employment situation across all employers.
//
// Per employer, last row only: declaration flag set and a leave placeholder
// anywhere in the row means OnLeave; declaration flag set with no
// placeholder means ActiveEmployment; anything else contributes nothing.
// The aggregate is a three-way priority: any active employer wins, then
// any on-leave employer, then unemployed.
func Analyze(employers []EmployerTable) Report {
	var report Report
	var anyActive, anyOnLeave bool

	for _, emp := range employers {
		if len(emp.Rows) == 0 {
			continue
		}
		last := emp.Rows[len(emp.Rows)-1]

		if hasRealValue(last) {
			report.ValidContribution = true
		}

		if !isDeclared(last) {
			continue
		}
		if hasLeaveMarker(last) {
			anyOnLeave = true
		} else {
			anyActive = true
		}
	}

	switch {
	case anyActive:
		report.Status = ActiveEmployment
	case anyOnLeave:
		report.Status = OnLeave
	default:
		report.Status = Unemployed
	}
	return report
}

func isDeclared(row []string) bool {
	if len(row) <= declarationColumn {
		return false
	}
	return strings.ToUpper(strings.TrimSpace(row[declarationColumn])) == declaredMarker
}

func hasLeaveMarker(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) == leaveMarker {
			return true
		}
	}
	return false
}

func hasRealValue(row []string) bool {
	for _, cell := range row {
		v := strings.ToUpper(strings.TrimSpace(cell))
		if v != "" && v != leaveMarker && v != informationalMarker {
			return true
		}
	}
	return false
}
