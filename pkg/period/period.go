// Package period models monthly billing periods in YYYYMM form and the
// calendar arithmetic the contribution analyzers rely on.
package period

import (
	"fmt"
	"regexp"
	"sort"
	"time"
)

// Period is a calendar month encoded as YYYYMM, e.g. 202403 for March 2024.
type Period int

var monthYearRe = regexp.MustCompile(`^(\d{2})/(\d{4})$`)

// FromTime returns the period containing t.
func FromTime(t time.Time) Period {
	return Period(t.Year()*100 + int(t.Month()))
}

// Parse validates a YYYYMM integer.
func Parse(v int) (Period, error) {
	if v < 100001 || v > 999912 {
		return 0, fmt.Errorf("period out of range: %d", v)
	}
	if m := v % 100; m < 1 || m > 12 {
		return 0, fmt.Errorf("invalid month in period %d", v)
	}
	return Period(v), nil
}

// ParseMonthYear parses an "MM/YYYY" string as used by the health fund
// registries. It reports false for empty strings and open markers such
// as "/".
func ParseMonthYear(s string) (Period, bool) {
	m := monthYearRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	month := int(m[1][0]-'0')*10 + int(m[1][1]-'0')
	if month < 1 || month > 12 {
		return 0, false
	}
	year := 0
	for _, c := range m[2] {
		year = year*10 + int(c-'0')
	}
	return Period(year*100 + month), true
}

// Year returns the calendar year.
func (p Period) Year() int { return int(p) / 100 }

// Month returns the calendar month, 1 through 12.
func (p Period) Month() int { return int(p) % 100 }

// Prev returns the preceding month.
func (p Period) Prev() Period {
	if p.Month() == 1 {
		return Period((p.Year()-1)*100 + 12)
	}
	return p - 1
}

// Next returns the following month.
func (p Period) Next() Period {
	if p.Month() == 12 {
		return Period((p.Year()+1)*100 + 1)
	}
	return p + 1
}

// MonthsSince returns the signed number of calendar months from q to p.
// Adjacent months differ by one regardless of year boundaries.
func (p Period) MonthsSince(q Period) int {
	return (p.Year()-q.Year())*12 + (p.Month() - q.Month())
}

// Format renders the period as "MM/YYYY".
func (p Period) Format() string {
	return fmt.Sprintf("%02d/%04d", p.Month(), p.Year())
}

// FormatShort renders the period as "MM/YY".
func (p Period) FormatShort() string {
	return fmt.Sprintf("%02d/%02d", p.Month(), p.Year()%100)
}

// DedupeDesc removes duplicates and sorts newest first.
func DedupeDesc(periods []Period) []Period {
	seen := make(map[Period]struct{}, len(periods))
	out := make([]Period, 0, len(periods))
	for _, p := range periods {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] > out[j] })
	return out
}

// ConsecutiveRun counts how many leading periods of a newest-first slice
// form an unbroken month-by-month run.
func ConsecutiveRun(desc []Period) int {
	if len(desc) == 0 {
		return 0
	}
	run := 1
	for i := 1; i < len(desc); i++ {
		if desc[i] != desc[i-1].Prev() {
			break
		}
		run++
	}
	return run
}
