package mono

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agusdc111/arreglocuil/pkg/period"
)

func TestClassifyPayments(t *testing.T) {
	tests := []struct {
		name string
		now  period.Period
		paid []period.Period
		want PaymentRecency
	}{
		{
			name: "no periods",
			now:  202404,
			paid: nil,
			want: RecencyNone,
		},
		{
			name: "three consecutive months is up to date",
			now:  202404,
			paid: []period.Period{202401, 202402, 202403},
			want: RecencyUpToDate,
		},
		{
			name: "single old payment is late",
			now:  202410,
			paid: []period.Period{202401},
			want: RecencyLate,
		},
		{
			name: "recent but short run is pending",
			now:  202404,
			paid: []period.Period{202403, 202401},
			want: RecencyPending,
		},
		{
			name: "exactly two months old is not late",
			now:  202404,
			paid: []period.Period{202402, 202401, 202312},
			want: RecencyUpToDate,
		},
		{
			name: "duplicates do not break the run",
			now:  202404,
			paid: []period.Period{202403, 202403, 202402, 202401},
			want: RecencyUpToDate,
		},
		{
			name: "run across year boundary",
			now:  202402,
			paid: []period.Period{202401, 202312, 202311},
			want: RecencyUpToDate,
		},
		{
			name: "broken run with recent payment is pending",
			now:  202404,
			paid: []period.Period{202403, 202402, 202312},
			want: RecencyPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyPayments(tt.now, tt.paid))
		})
	}
}
