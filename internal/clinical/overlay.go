package clinical

import "github.com/danribes/hypertension-microsim-sub000/internal/model"

// WithDraw returns a copy of the inputs with the second-order parameters
// from a PSA draw bound in. The receiver is never modified, so the base
// calibration can be shared across all iterations and both arms.
func (in *Inputs) WithDraw(it *model.PSAIteration) *Inputs {
	out := *in

	out.TreatmentEffectSBP = it.Param(model.ParamTreatmentEffectSBP, in.TreatmentEffectSBP)
	out.TreatmentEffectSD = it.Param(model.ParamTreatmentEffectSD, in.TreatmentEffectSD)
	out.DiscontinuationMonthly = it.Param(model.ParamDiscontinuationRate, in.DiscontinuationMonthly)
	out.DrugCostMonthly = it.Param(model.ParamDrugCostMonthly, in.DrugCostMonthly)

	out.Efficacy = cloneMap(in.Efficacy)
	out.Efficacy[model.OutcomeMI] = it.Param(model.ParamEfficacyMI, in.Efficacy[model.OutcomeMI])
	strokeEff := it.Param(model.ParamEfficacyStroke, in.Efficacy[model.OutcomeIschemicStroke])
	out.Efficacy[model.OutcomeIschemicStroke] = strokeEff
	out.Efficacy[model.OutcomeHemorrhagicStroke] = strokeEff
	out.Efficacy[model.OutcomeHeartFailure] = it.Param(model.ParamEfficacyHF, in.Efficacy[model.OutcomeHeartFailure])
	out.Efficacy[model.OutcomeCVDeath] = it.Param(model.ParamEfficacyCVDeath, in.Efficacy[model.OutcomeCVDeath])

	out.Response = map[model.Phenotype]float64{
		model.PhenotypeStandard:         it.Param(model.ParamResponseStandard, in.Response[model.PhenotypeStandard]),
		model.PhenotypeEstablishedCKD:   it.Param(model.ParamResponseCKD, in.Response[model.PhenotypeEstablishedCKD]),
		model.PhenotypeElderlyPreserved: it.Param(model.ParamResponseElderly, in.Response[model.PhenotypeElderlyPreserved]),
	}

	if scale := it.Param(model.ParamPhenotypeCKDScale, 1); scale != 1 {
		out.PhenotypeModifiers = clonePhenotypeTable(in.PhenotypeModifiers)
		for o, m := range out.PhenotypeModifiers[model.PhenotypeEstablishedCKD] {
			// Scale the excess over 1, not the modifier itself, so a
			// neutral modifier stays neutral under any draw.
			out.PhenotypeModifiers[model.PhenotypeEstablishedCKD][o] = 1 + (m-1)*scale
		}
	}

	if scale := it.Param(model.ParamPriorEventExcess, 1); scale != 1 {
		out.PriorEventExcess = cloneMap(in.PriorEventExcess)
		for o, e := range out.PriorEventExcess {
			out.PriorEventExcess[o] = e * scale
		}
	}

	if scale := it.Param(model.ParamEventCostScale, 1); scale != 1 {
		out.EventCost = cloneMap(in.EventCost)
		for o, c := range out.EventCost {
			out.EventCost[o] = c * scale
		}
	}

	if scale := it.Param(model.ParamChronicCostScale, 1); scale != 1 {
		out.CardiacStateCost = scaleMap(in.CardiacStateCost, scale)
		out.RenalStateCost = scaleMap(in.RenalStateCost, scale)
		out.CognitiveStateCost = scaleMap(in.CognitiveStateCost, scale)
	}

	if scale := it.Param(model.ParamUtilityDecScale, 1); scale != 1 {
		out.Disutility = make(map[string]float64, len(in.Disutility))
		for k, v := range in.Disutility {
			out.Disutility[k] = v * scale
		}
	}

	return &out
}

func cloneMap[K comparable](m map[K]float64) map[K]float64 {
	out := make(map[K]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func scaleMap[K comparable](m map[K]float64, scale float64) map[K]float64 {
	out := make(map[K]float64, len(m))
	for k, v := range m {
		out[k] = v * scale
	}
	return out
}

func clonePhenotypeTable(t map[model.Phenotype]map[model.Outcome]float64) map[model.Phenotype]map[model.Outcome]float64 {
	out := make(map[model.Phenotype]map[model.Outcome]float64, len(t))
	for ph, mods := range t {
		out[ph] = cloneMap(mods)
	}
	return out
}
