package clinical

import (
	"fmt"

	"github.com/danribes/hypertension-microsim-sub000/internal/model"
)

// Inputs is the immutable clinical configuration for one simulation run:
// risk-equation calibrations, treatment parameters, cost and utility
// tables. It is constructed once (Default, optionally overlaid with a PSA
// draw via WithDraw) and passed by reference; nothing in the hot loop
// mutates it.
type Inputs struct {
	AnnualDiscountRate float64

	// Treatment.
	TreatmentEffectSBP     float64 // mean realized SBP reduction, mmHg
	TreatmentEffectSD      float64 // between-patient SD of the realized effect
	Efficacy               map[model.Outcome]float64
	Response               map[model.Phenotype]float64
	RiskFactorFloor        float64 // lower bound on the treatment risk factor
	AdherenceMonthly       float64 // probability of being adherent in a given month
	DiscontinuationMonthly float64 // background monthly stop probability

	// Prior-event recurrence.
	PriorEventExcess map[model.Outcome]float64
	PriorEventDecay  float64 // per-month exponential decay of excess risk

	// Phenotype modifier tables, keyed by classification system then outcome.
	PhenotypeModifiers map[model.Phenotype]map[model.Outcome]float64

	// SBP dynamics.
	SBPAgeDriftMonthly float64 // mmHg upward drift per month
	SBPNoiseSD         float64 // per-patient-month noise, mmHg
	SBPBurdenReference float64 // mmHg; excess above this accrues cognitive burden

	// Potassium dynamics and the MRA safety rule.
	PotassiumTarget        float64
	PotassiumReversion     float64 // fraction of gap closed per month
	PotassiumNoiseSD       float64
	PotassiumMRAShift      float64 // monthly upward push while on MRA-class drug
	PotassiumEGFRShift     float64 // extra push per 10 units of eGFR below 60
	PotassiumStopThreshold float64 // discontinuation trigger, mmol/L

	// Renal decline.
	EGFRDeclineBase     [3]float64 // monthly decline by age band: <65, 65-74, ≥75
	EGFRDiabetesMult    float64
	EGFRSBPExcessPerMM  float64 // multiplier growth per mmHg above 130
	EGFRTreatmentMult   float64 // renal-protective slowing while on treatment
	EGFRAcceleratedMult float64 // trajectory modifier for established CKD

	// Cognitive progression.
	MCIBaseMonthly      float64
	DementiaBaseMonthly float64
	CognitiveAgeCoef    float64 // log-scale per year above 65
	SBPBurdenCoef       float64 // log-scale per 1000 mmHg-months of burden

	// Base event risks (monthly), see RiskCoef.
	Risk map[model.Outcome]RiskCoef

	// Non-CV, non-renal mortality: Gompertz hazard A·exp(B·(age−40)).
	GompertzA     float64
	GompertzB     float64
	FemaleHRDeath float64

	// Costs. State costs are monthly; event costs one-time.
	CardiacStateCost   map[model.CardiacState]float64
	RenalStateCost     map[model.RenalStage]float64
	CognitiveStateCost map[model.CognitiveState]float64
	EventCost          map[model.Outcome]float64
	DrugCostMonthly    float64
	AddOnCostMonthly   float64 // potassium binders etc. while on MRA with K ≥ 5.0

	// Utilities.
	UtilityAt40     float64
	UtilityAgeSlope float64 // decrement per year above 40
	Disutility      map[string]float64
	DiabetesDisutil float64
	UtilityFloor    float64
}

// RiskCoef calibrates one outcome's monthly base probability:
// p = Base · exp(AgePerYear·(age−65)) · exp(SBPPerMM·(SBP−120)) ·
// exp(EGFRPerUnit·(60−min(eGFR,60))) · sex/diabetes multipliers, capped
// below 1. This stands in for the PREVENT/KFRE-derived equations, which
// plug in through the same BaseRisk signature.
type RiskCoef struct {
	Base         float64
	AgePerYear   float64
	SBPPerMM     float64
	EGFRPerUnit  float64
	MaleMult     float64
	DiabetesMult float64
}

// Validate rejects configurations that would poison a run.
func (in *Inputs) Validate() error {
	if in.AnnualDiscountRate < 0 || in.AnnualDiscountRate > 0.2 {
		return fmt.Errorf("discount rate %.3f outside [0, 0.2]", in.AnnualDiscountRate)
	}
	if in.PriorEventDecay < 0 {
		return fmt.Errorf("prior-event decay %.3f is negative", in.PriorEventDecay)
	}
	if in.RiskFactorFloor < 0 {
		return fmt.Errorf("risk factor floor %.3f is negative", in.RiskFactorFloor)
	}
	if in.UtilityFloor < 0 {
		return fmt.Errorf("utility floor %.3f is negative", in.UtilityFloor)
	}
	if in.PotassiumStopThreshold <= in.PotassiumTarget {
		return fmt.Errorf("potassium stop threshold %.2f not above target %.2f",
			in.PotassiumStopThreshold, in.PotassiumTarget)
	}
	for o, rc := range in.Risk {
		if rc.Base < 0 || rc.Base >= 1 {
			return fmt.Errorf("base risk for %s is %.4f, want [0,1)", o, rc.Base)
		}
	}
	return nil
}
