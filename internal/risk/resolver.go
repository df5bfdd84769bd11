package risk

import (
	"fmt"
	"math"

	"github.com/danribes/hypertension-microsim-sub000/internal/model"
)

// ProbabilityError reports a numerical-consistency defect surfacing from
// an upstream risk function: a candidate probability outside [0,1). These
// are calibration bugs and are never clamped.
type ProbabilityError struct {
	Outcome model.Outcome
	Value   float64
}

func (e *ProbabilityError) Error() string {
	return fmt.Sprintf("probability for %s is %g, want [0, 1)", e.Outcome, e.Value)
}

// Resolve converts independent per-outcome candidate probabilities into a
// mutually consistent vector via the hazard transform: h = −ln(1−p),
// H = Σh, total event probability P = 1 − e^(−H), reallocated as
// p' = (h/H)·P. Relative risk ratios between outcomes are preserved and
// the resolved vector sums to P ≤ 1, with 1−P the no-event residual.
func Resolve(raw model.TransitionProbabilities) (model.TransitionProbabilities, error) {
	hazards := make(map[model.Outcome]float64, len(raw))
	var total float64
	for o, p := range raw {
		if p < 0 || p >= 1 {
			return nil, &ProbabilityError{Outcome: o, Value: p}
		}
		h := -math.Log1p(-p)
		hazards[o] = h
		total += h
	}

	resolved := make(model.TransitionProbabilities, len(raw))
	if total == 0 {
		for o := range raw {
			resolved[o] = 0
		}
		return resolved, nil
	}

	eventProb := 1 - math.Exp(-total)
	for o, h := range hazards {
		resolved[o] = h / total * eventProb
	}
	return resolved, nil
}
