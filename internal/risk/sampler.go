package risk

import (
	"math/rand"

	"github.com/danribes/hypertension-microsim-sub000/internal/model"
)

// DrawOutcome samples exactly one of {each outcome, no event} from a
// resolved probability vector using a single multinomial draw. Sequential
// independent Bernoulli trials would double-count within a cycle; a single
// uniform walked over the cumulative distribution cannot.
//
// The walk follows model.AllOutcomes order, so the mapping from uniform
// to outcome is deterministic for a given vector. Exactly one uniform is
// consumed from the patient's stream per call regardless of the result,
// which keeps paired-arm streams aligned for Common Random Numbers.
func DrawOutcome(resolved model.TransitionProbabilities, rng *rand.Rand) model.Outcome {
	u := rng.Float64()
	var cum float64
	for _, o := range model.AllOutcomes {
		cum += resolved[o]
		if u < cum {
			return o
		}
	}
	return model.OutcomeNone
}
