package model

import "math"

// Outcome is one of the competing events that can be sampled in a cycle.
type Outcome int8

const (
	OutcomeNone Outcome = iota
	OutcomeMI
	OutcomeIschemicStroke
	OutcomeHemorrhagicStroke
	OutcomeTIA
	OutcomeHeartFailure
	OutcomeAFOnset
	OutcomeCVDeath
	OutcomeRenalDeath
	OutcomeOtherDeath
)

// AllOutcomes lists the competing outcomes in canonical sampling order.
// Order matters: the multinomial draw walks this slice, so it is part of
// the deterministic seeding contract.
var AllOutcomes = []Outcome{
	OutcomeMI,
	OutcomeIschemicStroke,
	OutcomeHemorrhagicStroke,
	OutcomeTIA,
	OutcomeHeartFailure,
	OutcomeAFOnset,
	OutcomeCVDeath,
	OutcomeRenalDeath,
	OutcomeOtherDeath,
}

var outcomeNames = map[Outcome]string{
	OutcomeNone:              "none",
	OutcomeMI:                "mi",
	OutcomeIschemicStroke:    "ischemic_stroke",
	OutcomeHemorrhagicStroke: "hemorrhagic_stroke",
	OutcomeTIA:               "tia",
	OutcomeHeartFailure:      "heart_failure",
	OutcomeAFOnset:           "af_onset",
	OutcomeCVDeath:           "cv_death",
	OutcomeRenalDeath:        "renal_death",
	OutcomeOtherDeath:        "other_death",
}

func (o Outcome) String() string { return outcomeNames[o] }

// Fatal reports whether the outcome is a death event.
func (o Outcome) Fatal() bool {
	return o == OutcomeCVDeath || o == OutcomeRenalDeath || o == OutcomeOtherDeath
}

// Cardiovascular reports whether the outcome counts toward CV event history.
func (o Outcome) Cardiovascular() bool {
	switch o {
	case OutcomeMI, OutcomeIschemicStroke, OutcomeHemorrhagicStroke, OutcomeTIA, OutcomeHeartFailure:
		return true
	}
	return false
}

// TransitionProbabilities holds one cycle's per-outcome probabilities.
// Before resolution the entries are independent candidate probabilities;
// after resolution they sum to ≤1 with the residual being "no event".
type TransitionProbabilities map[Outcome]float64

// Total returns the sum over all outcomes.
func (tp TransitionProbabilities) Total() float64 {
	var sum float64
	for _, p := range tp {
		sum += p
	}
	return sum
}

// TotalHazard returns the sum of cause-specific hazards -ln(1-p).
func (tp TransitionProbabilities) TotalHazard() float64 {
	var h float64
	for _, p := range tp {
		h += -math.Log1p(-p)
	}
	return h
}
