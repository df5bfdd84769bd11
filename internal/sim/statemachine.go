package sim

import (
	"math/rand"

	"github.com/danribes/hypertension-microsim-sub000/internal/clinical"
	"github.com/danribes/hypertension-microsim-sub000/internal/model"
)

// onTreatment reports whether the treatment effect applies this month.
func onTreatment(p *model.Patient) bool {
	return p.Treatment == model.TreatmentActive && p.Adherent && !p.Discontinued
}

// prescribed reports whether drug cost accrues this month. A non-adherent
// month still fills the prescription; discontinuation stops it.
func prescribed(p *model.Patient) bool {
	return p.Treatment == model.TreatmentActive && !p.Discontinued
}

// AdvanceAcute settles last cycle's acute cardiac state into its chronic
// counterpart. Runs at the top of each cycle, before anything else.
func AdvanceAcute(p *model.Patient) {
	switch p.Cardiac {
	case model.CardiacAcuteMI:
		p.Cardiac = model.CardiacPostMI
	case model.CardiacAcuteIschemicStroke, model.CardiacAcuteHemorrhagicStroke:
		p.Cardiac = model.CardiacPostStroke
	case model.CardiacAcuteHF:
		p.Cardiac = model.CardiacChronicHF
	}
}

// UpdateContinuous advances the continuous state by one month: age, the
// adherence flip, background discontinuation, SBP drift, eGFR decline with
// automatic stage crossing, potassium mean-reversion with the MRA safety
// rule, and cognitive progression.
//
// The stream discipline is strict: exactly five draws are consumed per
// call, in a fixed order, regardless of treatment arm or patient state.
// Any conditional draw here would desynchronize the paired-arm streams
// that Common Random Numbers depend on.
func UpdateContinuous(p *model.Patient, rng *rand.Rand, in *clinical.Inputs) {
	p.Age += 1.0 / 12
	if p.Age > model.MaxAge {
		p.Age = model.MaxAge
	}
	if p.MonthsSinceCVEvent >= 0 {
		p.MonthsSinceCVEvent++
	}

	// Draw 1: adherence.
	p.Adherent = rng.Float64() < in.AdherenceMonthly

	// Draw 2: background discontinuation.
	if u := rng.Float64(); prescribed(p) && u < in.DiscontinuationMonthly {
		p.Discontinued = true
	}

	// Draw 3: SBP noise. TrueSBP evolves as the untreated trajectory;
	// the treatment effect is a level offset on the office reading, so a
	// treated patient's measured SBP sits strictly below the untreated
	// counterfactual under identical noise.
	eps := rng.NormFloat64() * in.SBPNoiseSD
	p.TrueSBP = clamp(p.TrueSBP+in.SBPAgeDriftMonthly+eps, model.MinSBP, model.MaxSBP)
	office := p.TrueSBP
	if onTreatment(p) {
		office -= p.RealizedEffect
	}
	p.OfficeSBP = clamp(office, model.MinSBP, model.MaxSBP)
	if excess := p.OfficeSBP - in.SBPBurdenReference; excess > 0 {
		p.SBPBurden += excess
	}

	// eGFR declines deterministically given state; no draw. Stage
	// boundaries are crossed automatically and progression is one-way.
	decline := in.EGFRDeclineMonthly(p, onTreatment(p))
	p.EGFR = clamp(p.EGFR-decline, model.MinEGFR, model.MaxEGFR)
	if p.Renal != model.RenalDeath {
		if stage := model.StageForEGFR(p.EGFR); stage > p.Renal {
			p.Renal = stage
		}
	}

	// Draw 4: potassium noise. Mean-reverting, pushed up by MRA use and
	// renal impairment. Crossing the stop threshold triggers the stepped
	// safety rule: permanent discontinuation, an expected domain event
	// rather than an error.
	kNoise := rng.NormFloat64() * in.PotassiumNoiseSD
	drift := in.PotassiumReversion * (in.PotassiumTarget - p.Potassium)
	if prescribed(p) {
		drift += in.PotassiumMRAShift
	}
	if p.EGFR < 60 {
		drift += in.PotassiumEGFRShift * (60 - p.EGFR) / 10
	}
	p.Potassium = clamp(p.Potassium+drift+kNoise, model.MinPotassium, model.MaxPotassium)
	if prescribed(p) && p.Potassium >= in.PotassiumStopThreshold {
		p.Discontinued = true
	}

	// Draw 5: cognitive progression, independent of the event sampler.
	if u := rng.Float64(); u < in.CognitiveProgressionMonthly(p) {
		switch p.Cognitive {
		case model.CognitiveNormal:
			p.Cognitive = model.CognitiveMCI
		case model.CognitiveMCI:
			p.Cognitive = model.CognitiveDementia
		}
	}
}

// ApplyEvent routes one sampled event into the discrete state machines.
// Death states are absorbing; the engine stops simulating the patient
// after this cycle's accrual.
func ApplyEvent(p *model.Patient, o model.Outcome) {
	switch o {
	case model.OutcomeNone:
		return
	case model.OutcomeMI:
		p.Cardiac = model.CardiacAcuteMI
	case model.OutcomeIschemicStroke:
		p.Cardiac = model.CardiacAcuteIschemicStroke
	case model.OutcomeHemorrhagicStroke:
		p.Cardiac = model.CardiacAcuteHemorrhagicStroke
	case model.OutcomeTIA:
		// TIA never downgrades a more severe established state.
		if p.Cardiac == model.CardiacNone || p.Cardiac == model.CardiacTIA {
			p.Cardiac = model.CardiacTIA
		}
	case model.OutcomeHeartFailure:
		p.Cardiac = model.CardiacAcuteHF
	case model.OutcomeAFOnset:
		if p.Cardiac == model.CardiacNone || p.Cardiac == model.CardiacTIA {
			p.Cardiac = model.CardiacAF
		}
	case model.OutcomeCVDeath:
		p.Cardiac = model.CardiacCVDeath
	case model.OutcomeRenalDeath:
		p.Renal = model.RenalDeath
	case model.OutcomeOtherDeath:
		p.OtherDeath = true
	}
	p.RecordEvent(o)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
