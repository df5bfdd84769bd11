// Package risk computes per-cycle event probabilities: a layered
// multiplicative modifier pipeline on top of an injected clinical risk
// equation, a hazard-based competing-risks resolver, and a multinomial
// event sampler.
package risk

import (
	"math"

	"github.com/danribes/hypertension-microsim-sub000/internal/model"
)

// BaseRiskFunc is the injected clinical risk equation. It must return a
// monthly probability in [0,1) from current physiology alone.
type BaseRiskFunc func(p *model.Patient, o model.Outcome) float64

// Pipeline composes a base event probability with ordered multiplicative
// modifiers: phenotype, prior-event history with time decay, treatment
// effect. The order is fixed; each step sees the previous step's output.
type Pipeline struct {
	Base BaseRiskFunc

	// Phenotype modifier table keyed by classification system.
	Phenotype map[model.Phenotype]map[model.Outcome]float64
	// BaselineOnly freezes phenotype modifiers to reporting-only: step (b)
	// becomes the identity and the classification tag is kept for output
	// stratification alone.
	BaselineOnly bool

	// Prior-event excess risk by outcome, decayed exponentially.
	PriorExcess map[model.Outcome]float64
	DecayRate   float64

	// Treatment.
	Efficacy map[model.Outcome]float64
	Response map[model.Phenotype]float64
	Floor    float64 // lower bound on the treatment risk factor
}

// Probability returns the scalar probability for one outcome in the
// current month. The result is not yet jointly consistent across
// outcomes; Resolve handles that.
func (pl *Pipeline) Probability(p *model.Patient, o model.Outcome) float64 {
	prob := pl.Base(p, o)

	if !pl.BaselineOnly {
		if mods, ok := pl.Phenotype[p.Profile.Phenotype]; ok {
			if m, ok := mods[o]; ok {
				prob *= m
			}
		}
	}

	prob *= pl.historyModifier(p, o)

	if p.Treatment == model.TreatmentActive && p.Adherent && !p.Discontinued {
		prob *= pl.treatmentRiskFactor(p, o)
	}

	return prob
}

// historyModifier compounds excess recurrence risk across qualifying
// prior events: 1 + excess·count·e^(−decay·monthsSince) per event type.
// Zero history is the identity.
func (pl *Pipeline) historyModifier(p *model.Patient, o model.Outcome) float64 {
	if len(p.PriorEvents) == 0 || p.MonthsSinceCVEvent < 0 {
		return 1
	}
	decay := math.Exp(-pl.DecayRate * float64(p.MonthsSinceCVEvent))
	mod := 1.0
	for evt, count := range p.PriorEvents {
		if count == 0 {
			continue
		}
		excess, ok := pl.PriorExcess[evt]
		if !ok {
			continue
		}
		mod *= 1 + excess*float64(count)*decay
	}
	return mod
}

// treatmentRiskFactor is 1 − (response − 1)·efficacy, floored so a strong
// responder cannot drive a probability negative.
func (pl *Pipeline) treatmentRiskFactor(p *model.Patient, o model.Outcome) float64 {
	eff, ok := pl.Efficacy[o]
	if !ok {
		return 1
	}
	response := p.ResponseModifier
	if response == 0 {
		response = pl.Response[p.Profile.Phenotype]
	}
	factor := 1 - (response-1)*eff
	if factor < pl.Floor {
		return pl.Floor
	}
	return factor
}

// Candidates evaluates the pipeline for every competing outcome.
func (pl *Pipeline) Candidates(p *model.Patient) model.TransitionProbabilities {
	tp := make(model.TransitionProbabilities, len(model.AllOutcomes))
	for _, o := range model.AllOutcomes {
		tp[o] = pl.Probability(p, o)
	}
	return tp
}
