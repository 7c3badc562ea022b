package panel

import "math"

// Fixed composite weights. These are business constants, not tunables.
const (
	weightHR        = 0.30
	weightTechnical = 0.40
	weightManager   = 0.30
)

// Finalize fills in the composite score when the synthesizer did not
// supply one explicitly. An explicit synthesizer score — including an
// explicit zero — is kept unchanged.
func Finalize(v *Verdict) {
	if v.Composite.Found {
		return
	}
	composite := v.HR.Score.Value*weightHR +
		v.Technical.Score.Value*weightTechnical +
		v.Manager.Score.Value*weightManager
	v.Composite = Score{Value: round2(composite)}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
