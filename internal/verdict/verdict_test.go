package verdict

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agusdc111/arreglocuil/internal/contrib"
	"github.com/agusdc111/arreglocuil/internal/mono"
	"github.com/agusdc111/arreglocuil/internal/registry"
)

func TestLaborRejection(t *testing.T) {
	tests := []struct {
		name     string
		status   contrib.LaborStatus
		label    string
		rejected bool
	}{
		{"unemployed", contrib.Unemployed, RejectUnemployed, true},
		{"on leave", contrib.OnLeave, RejectOnLeave, true},
		{"active", contrib.ActiveEmployment, "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			label, rejected := LaborRejection(contrib.Report{Status: tc.status})
			assert.Equal(t, tc.rejected, rejected)
			assert.Equal(t, tc.label, label)
		})
	}
}

func TestRegistryRejection(t *testing.T) {
	disqualified := registry.Assessment{Disqualified: true, Reasons: []string{"retiree"}}

	t.Run("clean assessment passes", func(t *testing.T) {
		rejected, overridden := RegistryRejection(contrib.Report{Status: contrib.OnLeave}, registry.Assessment{})
		assert.False(t, rejected)
		assert.False(t, overridden)
	})

	t.Run("disqualified without active declaration stops", func(t *testing.T) {
		rejected, overridden := RegistryRejection(contrib.Report{Status: contrib.Unemployed}, disqualified)
		assert.True(t, rejected)
		assert.False(t, overridden)
	})

	t.Run("active declaration overrides", func(t *testing.T) {
		rejected, overridden := RegistryRejection(contrib.Report{Status: contrib.ActiveEmployment}, disqualified)
		assert.False(t, rejected)
		assert.True(t, overridden)
	})
}

func TestGeneralSummary(t *testing.T) {
	assert.Equal(t,
		[]string{LabelContribOK, "OSDE 03/24"},
		GeneralSummary(true, "OSDE 03/24"))
	assert.Equal(t,
		[]string{LabelContribCheck, LabelHealthFundCheck},
		GeneralSummary(false, ""))
}

func TestEvaluateMonoPriorities(t *testing.T) {
	plan := "SWISS 01/2024"

	t.Run("social rejection wins over everything", func(t *testing.T) {
		v := EvaluateMono(MonoInput{
			Recency:   mono.RecencyUpToDate,
			Transfers: mono.TransferAnalysis{Rejection: mono.RejectionSocialPlan, Outcome: mono.OutcomePerfect},
			PlanLine:  plan,
		})
		assert.Equal(t, MonoRejectSocial, v.Label)
		assert.Equal(t, []string{MonoRejectSocial}, v.Lines)
	})

	t.Run("parity rejection", func(t *testing.T) {
		v := EvaluateMono(MonoInput{
			Recency:   mono.RecencyUpToDate,
			Transfers: mono.TransferAnalysis{Rejection: mono.RejectionParityPlan},
		})
		assert.Equal(t, MonoRejectParity, v.Label)
	})

	t.Run("recent transfer keeps plan line", func(t *testing.T) {
		v := EvaluateMono(MonoInput{
			Recency:   mono.RecencyUpToDate,
			Transfers: mono.TransferAnalysis{Rejection: mono.RejectionRecentTransfer},
			PlanLine:  plan,
		})
		assert.Equal(t, MonoRejectRecent, v.Label)
		assert.Equal(t, []string{plan, MonoRejectRecent}, v.Lines)
	})

	t.Run("perfect requires up-to-date payments", func(t *testing.T) {
		v := EvaluateMono(MonoInput{
			Recency:   mono.RecencyUpToDate,
			Transfers: mono.TransferAnalysis{Outcome: mono.OutcomePerfect},
			PlanLine:  plan,
		})
		assert.Equal(t, MonoPerfect, v.Label)
		assert.Equal(t, []string{LabelContribOK, plan, MonoPerfect}, v.Lines)
	})

	t.Run("perfect with late payments falls to payment rejection", func(t *testing.T) {
		v := EvaluateMono(MonoInput{
			Recency:   mono.RecencyLate,
			Transfers: mono.TransferAnalysis{Outcome: mono.OutcomePerfect},
			PlanLine:  plan,
		})
		assert.Equal(t, MonoRejectPayments, v.Label)
		assert.Equal(t, []string{plan, MonoRejectPayments}, v.Lines)
	})

	t.Run("pending transfer qualifies", func(t *testing.T) {
		v := EvaluateMono(MonoInput{
			Recency:   mono.RecencyUpToDate,
			Transfers: mono.TransferAnalysis{Outcome: mono.OutcomePending},
		})
		assert.Equal(t, MonoPendingQualifies, v.Label)
		assert.Equal(t, []string{LabelContribOK, MonoPendingQualifies}, v.Lines)
	})

	t.Run("adhesion qualifies", func(t *testing.T) {
		v := EvaluateMono(MonoInput{
			Recency:   mono.RecencyUpToDate,
			Transfers: mono.TransferAnalysis{Outcome: mono.OutcomeAdhesion},
			PlanLine:  plan,
		})
		assert.Equal(t, MonoAdhesionPerfect, v.Label)
	})

	t.Run("pending payments", func(t *testing.T) {
		v := EvaluateMono(MonoInput{
			Recency:   mono.RecencyPending,
			Transfers: mono.TransferAnalysis{Outcome: mono.OutcomeIndeterminate},
			PlanLine:  plan,
		})
		assert.Equal(t, MonoPendingPayments, v.Label)
		assert.Equal(t, []string{LabelContribOK, plan, MonoPendingPayments}, v.Lines)
	})

	t.Run("no payments rejected", func(t *testing.T) {
		v := EvaluateMono(MonoInput{Recency: mono.RecencyNone})
		assert.Equal(t, MonoRejectPayments, v.Label)
	})

	t.Run("default up-to-date without transfer data", func(t *testing.T) {
		v := EvaluateMono(MonoInput{
			Recency:   mono.RecencyUpToDate,
			Transfers: mono.TransferAnalysis{Outcome: mono.OutcomeIndeterminate},
			PlanLine:  plan,
		})
		assert.Equal(t, LabelContribOK, v.Label)
		assert.Equal(t, []string{plan, LabelContribOK}, v.Lines)
	})
}
