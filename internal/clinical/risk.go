package clinical

import (
	"math"

	"github.com/danribes/hypertension-microsim-sub000/internal/model"
)

// BaseRisk returns the monthly base probability for an outcome given
// current physiology. This is the injected clinical risk equation of the
// modifier pipeline; it knows nothing about phenotypes, history, or
// treatment. Those layers compose on top.
func (in *Inputs) BaseRisk(p *model.Patient, o model.Outcome) float64 {
	if o == model.OutcomeOtherDeath {
		return in.otherDeathMonthly(p)
	}
	rc, ok := in.Risk[o]
	if !ok {
		return 0
	}
	egfrDeficit := 0.0
	if p.EGFR < 60 {
		egfrDeficit = 60 - p.EGFR
	}
	prob := rc.Base *
		math.Exp(rc.AgePerYear*(p.Age-65)) *
		math.Exp(rc.SBPPerMM*(p.OfficeSBP-120)) *
		math.Exp(rc.EGFRPerUnit*egfrDeficit)
	if p.Sex == model.Male {
		prob *= rc.MaleMult
	}
	if p.Diabetic {
		prob *= rc.DiabetesMult
	}
	return math.Min(prob, 0.95)
}

// otherDeathMonthly converts a Gompertz annual hazard into a monthly
// probability (life-table mortality for causes outside the model).
func (in *Inputs) otherDeathMonthly(p *model.Patient) float64 {
	h := in.GompertzA * math.Exp(in.GompertzB*(p.Age-40))
	if p.Sex == model.Female {
		h *= in.FemaleHRDeath
	}
	return 1 - math.Exp(-h/12)
}

// EGFRDeclineMonthly returns this month's eGFR loss (a non-negative
// value; eGFR never recovers). Age-stratified base rate × diabetes ×
// continuous SBP excess × treatment and trajectory modifiers.
func (in *Inputs) EGFRDeclineMonthly(p *model.Patient, onTreatment bool) float64 {
	base := in.EGFRDeclineBase[0]
	switch {
	case p.Age >= 75:
		base = in.EGFRDeclineBase[2]
	case p.Age >= 65:
		base = in.EGFRDeclineBase[1]
	}
	d := base
	if p.Diabetic {
		d *= in.EGFRDiabetesMult
	}
	if excess := p.TrueSBP - 130; excess > 0 {
		d *= 1 + in.EGFRSBPExcessPerMM*excess
	}
	if onTreatment {
		d *= in.EGFRTreatmentMult
	}
	if p.Profile.Phenotype == model.PhenotypeEstablishedCKD {
		d *= in.EGFRAcceleratedMult
	}
	if d < 0 {
		return 0
	}
	return d
}

// CognitiveProgressionMonthly returns the monthly probability of advancing
// one cognitive stage, driven by age and cumulative SBP burden.
func (in *Inputs) CognitiveProgressionMonthly(p *model.Patient) float64 {
	var base float64
	switch p.Cognitive {
	case model.CognitiveNormal:
		base = in.MCIBaseMonthly
	case model.CognitiveMCI:
		base = in.DementiaBaseMonthly
	default:
		return 0
	}
	ageTerm := 0.0
	if p.Age > 65 {
		ageTerm = in.CognitiveAgeCoef * (p.Age - 65)
	}
	burdenTerm := in.SBPBurdenCoef * p.SBPBurden / 1000
	prob := base * math.Exp(ageTerm+burdenTerm)
	return math.Min(prob, 0.5)
}

// CostLookup returns the monthly cost bundle for the patient's composite
// state: chronic state costs plus drug and add-on therapy. One-time event
// costs are looked up separately via EventCost. Strictly additive.
func (in *Inputs) CostLookup(p *model.Patient, onTreatment bool) float64 {
	cost := in.CardiacStateCost[p.Cardiac] +
		in.RenalStateCost[p.Renal] +
		in.CognitiveStateCost[p.Cognitive]
	if onTreatment {
		cost += in.DrugCostMonthly
		if p.Potassium >= 5.0 {
			cost += in.AddOnCostMonthly
		}
	}
	return cost
}

// UtilityLookup returns the patient's current utility: age baseline minus
// additive disutilities from each active state, floored.
func (in *Inputs) UtilityLookup(p *model.Patient) float64 {
	u := in.UtilityAt40
	if p.Age > 40 {
		u -= in.UtilityAgeSlope * (p.Age - 40)
	}
	u -= in.Disutility[p.Cardiac.String()]
	u -= in.Disutility[p.Renal.String()]
	u -= in.Disutility[p.Cognitive.String()]
	if p.Diabetic {
		u -= in.DiabetesDisutil
	}
	if u < in.UtilityFloor {
		return in.UtilityFloor
	}
	return u
}
