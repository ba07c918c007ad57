package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssess(t *testing.T) {
	tests := []struct {
		name         string
		report       string
		disqualified bool
		reasons      []string
	}{
		{
			name:         "active titular passes",
			report:       "Situación: ACTIVO\nCondición: Titular",
			disqualified: false,
		},
		{
			name:         "retiree rejected",
			report:       "Situación: PASIVO\nCondición: Titular",
			disqualified: true,
			reasons:      []string{"retiree"},
		},
		{
			name:         "monotributista rejected",
			report:       "situación:  MONOTRIBUTISTA",
			disqualified: true,
			reasons:      []string{"monotributista"},
		},
		{
			name:         "family member rejected",
			report:       "Situación: ACTIVO\nCondición: Familiar",
			disqualified: true,
			reasons:      []string{"family_member"},
		},
		{
			name:         "empty result rejected",
			report:       "La consulta no arrojó resultados.",
			disqualified: true,
			reasons:      []string{"no_results"},
		},
		{
			name:         "accent-stripped variant still matches",
			report:       "Situacion: PASIVO",
			disqualified: true,
			reasons:      []string{"retiree"},
		},
		{
			name:         "multiple markers collected in order",
			report:       "Situación: PASIVO\nCondición: Familiar",
			disqualified: true,
			reasons:      []string{"retiree", "family_member"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Assess(tt.report)
			assert.Equal(t, tt.disqualified, got.Disqualified)
			assert.Equal(t, tt.reasons, got.Reasons)
		})
	}
}
