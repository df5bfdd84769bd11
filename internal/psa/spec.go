package psa

import "github.com/danribes/hypertension-microsim-sub000/internal/model"

// DefaultGroups returns the base-case second-order parameter space.
// Treatment-effect parameters are correlated (a drug that lowers SBP more
// also prevents more events); cost parameters share payer-level drift.
// Everything else is sampled independently.
func DefaultGroups() []CorrelationGroup {
	return []CorrelationGroup{
		{
			Name: "treatment_effect",
			Params: []ParamSpec{
				{Name: model.ParamTreatmentEffectSBP, Marginal: Marginal{Dist: DistNormal, Mean: 12.0, SD: 1.8}},
				{Name: model.ParamEfficacyMI, Marginal: Marginal{Dist: DistLognormal, Mean: 0.8, SD: 0.12}},
				{Name: model.ParamEfficacyStroke, Marginal: Marginal{Dist: DistLognormal, Mean: 1.0, SD: 0.14}},
				{Name: model.ParamEfficacyHF, Marginal: Marginal{Dist: DistLognormal, Mean: 0.7, SD: 0.12}},
				{Name: model.ParamEfficacyCVDeath, Marginal: Marginal{Dist: DistLognormal, Mean: 0.6, SD: 0.10}},
			},
			Corr: []float64{
				1.0, 0.5, 0.5, 0.4, 0.4,
				0.5, 1.0, 0.6, 0.5, 0.5,
				0.5, 0.6, 1.0, 0.5, 0.5,
				0.4, 0.5, 0.5, 1.0, 0.6,
				0.4, 0.5, 0.5, 0.6, 1.0,
			},
		},
		{
			Name: "costs",
			Params: []ParamSpec{
				{Name: model.ParamDrugCostMonthly, Marginal: Marginal{Dist: DistGamma, Mean: 46.0, SD: 6.0}},
				{Name: model.ParamEventCostScale, Marginal: Marginal{Dist: DistGamma, Mean: 1.0, SD: 0.12}},
				{Name: model.ParamChronicCostScale, Marginal: Marginal{Dist: DistGamma, Mean: 1.0, SD: 0.10}},
			},
			Corr: []float64{
				1.0, 0.3, 0.3,
				0.3, 1.0, 0.5,
				0.3, 0.5, 1.0,
			},
		},
	}
}

// DefaultIndependent returns the non-grouped second-order parameters.
func DefaultIndependent() []ParamSpec {
	return []ParamSpec{
		{Name: model.ParamResponseStandard, Marginal: Marginal{Dist: DistLognormal, Mean: 1.25, SD: 0.08}},
		{Name: model.ParamResponseCKD, Marginal: Marginal{Dist: DistLognormal, Mean: 1.40, SD: 0.12}},
		{Name: model.ParamResponseElderly, Marginal: Marginal{Dist: DistLognormal, Mean: 1.15, SD: 0.08}},
		{Name: model.ParamPhenotypeCKDScale, Marginal: Marginal{Dist: DistGamma, Mean: 1.0, SD: 0.15}},
		{Name: model.ParamPriorEventExcess, Marginal: Marginal{Dist: DistGamma, Mean: 1.0, SD: 0.15}},
		{Name: model.ParamUtilityDecScale, Marginal: Marginal{Dist: DistGamma, Mean: 1.0, SD: 0.10}},
		{Name: model.ParamDiscontinuationRate, Marginal: Marginal{Dist: DistBeta, Mean: 0.004, SD: 0.0015}},
	}
}
