// Package verdict turns analyzer results into the operator-facing verdicts.
// Labels are in Spanish, exactly as the back-office reads them.
package verdict

// Terminal rejections of the general workflow.
const (
	RejectUnemployed      = "DESEMPLEADO"
	RejectOnLeave         = "LICENCIA"
	RejectRegistry        = "CODEM"
	RejectHouseholdRegime = "REGIMEN DE APORTES NO COMPATIBLE"
)

// Summary lines of the general workflow.
const (
	LabelContribOK       = "APORTES OK"
	LabelContribCheck    = "APORTES **VER**"
	LabelHealthFundCheck = "SSS **VER**"
)

// Monotributo verdict labels, in priority order.
const (
	MonoRejectSocial     = "NO CALIFICA: MONOTRIBUTO SOCIAL"
	MonoRejectParity     = "NO CALIFICA: YA TIENE IGUALDAD"
	MonoRejectRecent     = "NO CALIFICA: TRASPASO RECIENTE"
	MonoPerfect          = "CALIFICA PERFECTO"
	MonoPendingQualifies = "PENDIENTE - CALIFICA"
	MonoAdhesionPerfect  = "ADHESION - CALIFICA PERFECTO"
	MonoPendingPayments  = "PENDIENTE: FALTAN APORTES"
	MonoRejectPayments   = "RECHAZO: FALTA DE APORTES O POSIBLE ADHESION"
)

// Verdict is a resolved verdict: the headline label plus the full summary
// block, in presentation order (the label is always one of the lines).
type Verdict struct {
	Label string   `json:"label"`
	Lines []string `json:"lines"`
}
