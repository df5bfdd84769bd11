package clinical

import "github.com/danribes/hypertension-microsim-sub000/internal/model"

// Default returns the base-case calibration. Values are plausible for a
// hypertensive cohort in a US payer setting; every number here is a
// replaceable data point, not a structural assumption.
func Default() *Inputs {
	return &Inputs{
		AnnualDiscountRate: 0.03,

		TreatmentEffectSBP: 12.0,
		TreatmentEffectSD:  4.0,
		Efficacy: map[model.Outcome]float64{
			model.OutcomeMI:                0.8,
			model.OutcomeIschemicStroke:    1.0,
			model.OutcomeHemorrhagicStroke: 1.0,
			model.OutcomeTIA:               0.9,
			model.OutcomeHeartFailure:      0.7,
			model.OutcomeAFOnset:           0.3,
			model.OutcomeCVDeath:           0.6,
		},
		Response: map[model.Phenotype]float64{
			model.PhenotypeStandard:         1.25,
			model.PhenotypeEstablishedCKD:   1.40,
			model.PhenotypeElderlyPreserved: 1.15,
		},
		RiskFactorFloor:        0.0,
		AdherenceMonthly:       0.92,
		DiscontinuationMonthly: 0.004,

		PriorEventExcess: map[model.Outcome]float64{
			model.OutcomeMI:                0.9,
			model.OutcomeIschemicStroke:    0.8,
			model.OutcomeHemorrhagicStroke: 0.8,
			model.OutcomeTIA:               0.4,
			model.OutcomeHeartFailure:      0.6,
		},
		PriorEventDecay: 0.05,

		PhenotypeModifiers: map[model.Phenotype]map[model.Outcome]float64{
			model.PhenotypeStandard: {},
			model.PhenotypeEstablishedCKD: {
				model.OutcomeMI:             1.5,
				model.OutcomeIschemicStroke: 1.4,
				model.OutcomeHeartFailure:   1.8,
				model.OutcomeCVDeath:        1.6,
				model.OutcomeRenalDeath:     2.5,
			},
			model.PhenotypeElderlyPreserved: {
				model.OutcomeMI:             1.2,
				model.OutcomeIschemicStroke: 1.3,
				model.OutcomeCVDeath:        1.2,
			},
		},

		SBPAgeDriftMonthly: 0.04,
		SBPNoiseSD:         2.0,
		SBPBurdenReference: 130.0,

		PotassiumTarget:        4.2,
		PotassiumReversion:     0.20,
		PotassiumNoiseSD:       0.08,
		PotassiumMRAShift:      0.035,
		PotassiumEGFRShift:     0.010,
		PotassiumStopThreshold: 5.5,

		EGFRDeclineBase:     [3]float64{0.075, 0.100, 0.130},
		EGFRDiabetesMult:    1.5,
		EGFRSBPExcessPerMM:  0.015,
		EGFRTreatmentMult:   0.80,
		EGFRAcceleratedMult: 1.35,

		MCIBaseMonthly:      0.0006,
		DementiaBaseMonthly: 0.0010,
		CognitiveAgeCoef:    0.075,
		SBPBurdenCoef:       0.20,

		Risk: map[model.Outcome]RiskCoef{
			model.OutcomeMI:                {Base: 0.00045, AgePerYear: 0.055, SBPPerMM: 0.016, EGFRPerUnit: 0.010, MaleMult: 1.4, DiabetesMult: 1.6},
			model.OutcomeIschemicStroke:    {Base: 0.00035, AgePerYear: 0.065, SBPPerMM: 0.022, EGFRPerUnit: 0.008, MaleMult: 1.1, DiabetesMult: 1.5},
			model.OutcomeHemorrhagicStroke: {Base: 0.00008, AgePerYear: 0.060, SBPPerMM: 0.028, EGFRPerUnit: 0.006, MaleMult: 1.1, DiabetesMult: 1.1},
			model.OutcomeTIA:               {Base: 0.00030, AgePerYear: 0.050, SBPPerMM: 0.015, EGFRPerUnit: 0.005, MaleMult: 1.0, DiabetesMult: 1.2},
			model.OutcomeHeartFailure:      {Base: 0.00040, AgePerYear: 0.070, SBPPerMM: 0.018, EGFRPerUnit: 0.014, MaleMult: 1.2, DiabetesMult: 1.8},
			model.OutcomeAFOnset:           {Base: 0.00050, AgePerYear: 0.075, SBPPerMM: 0.008, EGFRPerUnit: 0.004, MaleMult: 1.4, DiabetesMult: 1.2},
			model.OutcomeCVDeath:           {Base: 0.00020, AgePerYear: 0.085, SBPPerMM: 0.014, EGFRPerUnit: 0.012, MaleMult: 1.5, DiabetesMult: 1.6},
			model.OutcomeRenalDeath:        {Base: 0.00002, AgePerYear: 0.050, SBPPerMM: 0.006, EGFRPerUnit: 0.060, MaleMult: 1.1, DiabetesMult: 1.5},
		},

		GompertzA:     0.000020,
		GompertzB:     0.093,
		FemaleHRDeath: 0.75,

		CardiacStateCost: map[model.CardiacState]float64{
			model.CardiacPostMI:     310,
			model.CardiacPostStroke: 680,
			model.CardiacTIA:        120,
			model.CardiacChronicHF:  840,
			model.CardiacAF:         260,
		},
		RenalStateCost: map[model.RenalStage]float64{
			model.RenalStage3a: 95,
			model.RenalStage3b: 185,
			model.RenalStage4:  520,
			model.RenalESRD:    7400,
		},
		CognitiveStateCost: map[model.CognitiveState]float64{
			model.CognitiveMCI:      140,
			model.CognitiveDementia: 2900,
		},
		EventCost: map[model.Outcome]float64{
			model.OutcomeMI:                24800,
			model.OutcomeIschemicStroke:    19400,
			model.OutcomeHemorrhagicStroke: 27600,
			model.OutcomeTIA:               4300,
			model.OutcomeHeartFailure:      14100,
			model.OutcomeAFOnset:           5200,
			model.OutcomeCVDeath:           11000,
			model.OutcomeRenalDeath:        8000,
		},
		DrugCostMonthly:  46.0,
		AddOnCostMonthly: 38.0,

		UtilityAt40:     0.92,
		UtilityAgeSlope: 0.0022,
		Disutility: map[string]float64{
			"acute_mi":                 0.12,
			"post_mi":                  0.04,
			"acute_ischemic_stroke":    0.25,
			"acute_hemorrhagic_stroke": 0.30,
			"post_stroke":              0.12,
			"tia":                      0.02,
			"acute_hf":                 0.18,
			"chronic_hf":               0.10,
			"atrial_fibrillation":      0.03,
			"stage3b":                  0.02,
			"stage4":                   0.05,
			"esrd":                     0.22,
			"mci":                      0.04,
			"dementia":                 0.25,
		},
		DiabetesDisutil: 0.03,
		UtilityFloor:    0.0,
	}
}
