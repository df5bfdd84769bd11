package model

// PSAIteration is an immutable snapshot of all second-order parameters
// sampled jointly for one outer-loop draw. The inner simulation consumes
// it read-only; it is never mutated after creation.
type PSAIteration struct {
	Index  int
	Seed   int64
	Params map[string]float64
}

// Param returns the named parameter, or def when the draw does not carry it.
func (it *PSAIteration) Param(name string, def float64) float64 {
	if v, ok := it.Params[name]; ok {
		return v
	}
	return def
}

// Canonical parameter names used by the sampler and the clinical binding.
// Correlation groups refer to parameters by these identifiers.
const (
	ParamTreatmentEffectSBP  = "treatment_effect_sbp" // mean SBP reduction, mmHg
	ParamTreatmentEffectSD   = "treatment_effect_sd"  // between-patient SD of the effect
	ParamEfficacyMI          = "efficacy_mi"          // outcome-specific efficacy coefficients
	ParamEfficacyStroke      = "efficacy_stroke"
	ParamEfficacyHF          = "efficacy_hf"
	ParamEfficacyCVDeath     = "efficacy_cv_death"
	ParamResponseStandard    = "response_standard" // etiology-specific response modifiers
	ParamResponseCKD         = "response_ckd"
	ParamResponseElderly     = "response_elderly"
	ParamPhenotypeCKDScale   = "phenotype_ckd_scale" // scales the CKD phenotype modifier table
	ParamDrugCostMonthly     = "drug_cost_monthly"
	ParamEventCostScale      = "event_cost_scale"         // scales one-time event costs
	ParamChronicCostScale    = "chronic_cost_scale"       // scales chronic state costs
	ParamUtilityDecScale     = "utility_decrement_scale"  // scales state disutilities
	ParamDiscontinuationRate = "discontinuation_monthly"  // monthly stop probability
	ParamPriorEventExcess    = "prior_event_excess_scale" // scales recurrence excess risk
)
