package clinical

import (
	"math"
	"testing"

	"github.com/danribes/hypertension-microsim-sub000/internal/model"
)

func basePatient() *model.Patient {
	return &model.Patient{
		ID:                 1,
		Age:                65,
		Sex:                model.Male,
		OfficeSBP:          150,
		TrueSBP:            150,
		EGFR:               70,
		Potassium:          4.2,
		Renal:              model.StageForEGFR(70),
		MonthsSinceCVEvent: -1,
		Profile:            model.RiskProfile{Phenotype: model.PhenotypeStandard},
	}
}

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("base-case calibration invalid: %v", err)
	}
}

func TestBaseRiskGradients(t *testing.T) {
	in := Default()
	p := basePatient()
	base := in.BaseRisk(p, model.OutcomeIschemicStroke)
	if base <= 0 {
		t.Fatalf("stroke risk %.8f not positive", base)
	}

	highSBP := basePatient()
	highSBP.OfficeSBP = 180
	if in.BaseRisk(highSBP, model.OutcomeIschemicStroke) <= base {
		t.Error("stroke risk not increasing in SBP")
	}

	older := basePatient()
	older.Age = 80
	if in.BaseRisk(older, model.OutcomeIschemicStroke) <= base {
		t.Error("stroke risk not increasing in age")
	}

	lowEGFR := basePatient()
	lowEGFR.EGFR = 30
	if in.BaseRisk(lowEGFR, model.OutcomeRenalDeath) <= in.BaseRisk(p, model.OutcomeRenalDeath) {
		t.Error("renal death risk not increasing as eGFR falls")
	}

	// The equation caps rather than returning probabilities near 1.
	extreme := basePatient()
	extreme.Age = 109
	extreme.OfficeSBP = 259
	extreme.EGFR = 5
	extreme.Diabetic = true
	for _, o := range model.AllOutcomes {
		if pr := in.BaseRisk(extreme, o); pr > 0.95 {
			t.Errorf("%s risk %.4f exceeds cap", o, pr)
		}
	}
}

func TestOtherDeathGompertz(t *testing.T) {
	in := Default()
	young := basePatient()
	young.Age = 45
	old := basePatient()
	old.Age = 85

	if in.BaseRisk(old, model.OutcomeOtherDeath) <= in.BaseRisk(young, model.OutcomeOtherDeath) {
		t.Error("background mortality not increasing in age")
	}

	female := basePatient()
	female.Age = 85
	female.Sex = model.Female
	if in.BaseRisk(female, model.OutcomeOtherDeath) >= in.BaseRisk(old, model.OutcomeOtherDeath) {
		t.Error("female mortality hazard ratio not applied")
	}
}

func TestEGFRDeclineMonthly(t *testing.T) {
	in := Default()
	p := basePatient()

	untreated := in.EGFRDeclineMonthly(p, false)
	if untreated <= 0 {
		t.Fatalf("decline %.5f not positive", untreated)
	}
	treated := in.EGFRDeclineMonthly(p, true)
	if treated >= untreated {
		t.Error("treatment does not slow eGFR decline")
	}

	diabetic := basePatient()
	diabetic.Diabetic = true
	if in.EGFRDeclineMonthly(diabetic, false) <= untreated {
		t.Error("diabetes does not accelerate decline")
	}

	ckd := basePatient()
	ckd.EGFR = 45
	ckd.Profile.Phenotype = model.PhenotypeEstablishedCKD
	if in.EGFRDeclineMonthly(ckd, false) <= untreated {
		t.Error("CKD trajectory does not accelerate decline")
	}
}

func TestCostLookupAdditive(t *testing.T) {
	in := Default()
	p := basePatient()
	p.Cardiac = model.CardiacChronicHF
	p.Renal = model.RenalStage3b

	off := in.CostLookup(p, false)
	want := in.CardiacStateCost[model.CardiacChronicHF] + in.RenalStateCost[model.RenalStage3b]
	if off != want {
		t.Errorf("untreated cost %.2f, want %.2f", off, want)
	}

	on := in.CostLookup(p, true)
	if on != want+in.DrugCostMonthly {
		t.Errorf("treated cost %.2f, want %.2f", on, want+in.DrugCostMonthly)
	}

	// Elevated potassium triggers the add-on therapy bundle.
	p.Potassium = 5.1
	if got := in.CostLookup(p, true); got != want+in.DrugCostMonthly+in.AddOnCostMonthly {
		t.Errorf("high-K treated cost %.2f missing add-on", got)
	}
	if got := in.CostLookup(p, false); got != want {
		t.Errorf("high-K untreated cost %.2f should carry no drug costs", got)
	}
}

func TestUtilityLookup(t *testing.T) {
	in := Default()
	p := basePatient()

	healthy := in.UtilityLookup(p)
	wantHealthy := in.UtilityAt40 - in.UtilityAgeSlope*(p.Age-40)
	if math.Abs(healthy-wantHealthy) > 1e-12 {
		t.Errorf("healthy utility %.4f, want %.4f", healthy, wantHealthy)
	}

	p.Cardiac = model.CardiacPostStroke
	p.Cognitive = model.CognitiveDementia
	sick := in.UtilityLookup(p)
	wantSick := wantHealthy - in.Disutility["post_stroke"] - in.Disutility["dementia"]
	if math.Abs(sick-wantSick) > 1e-12 {
		t.Errorf("comorbid utility %.4f, want %.4f", sick, wantSick)
	}

	// Stacked decrements never push utility below the floor.
	p.Cardiac = model.CardiacAcuteHemorrhagicStroke
	p.Renal = model.RenalESRD
	p.Diabetic = true
	p.Age = 109
	if u := in.UtilityLookup(p); u < in.UtilityFloor {
		t.Errorf("utility %.4f below floor %.4f", u, in.UtilityFloor)
	}
}

func TestWithDrawBindsParameters(t *testing.T) {
	in := Default()
	it := &model.PSAIteration{
		Index: 3,
		Params: map[string]float64{
			model.ParamTreatmentEffectSBP: 15.5,
			model.ParamEfficacyStroke:     0.45,
			model.ParamDrugCostMonthly:    61,
			model.ParamEventCostScale:     1.2,
			model.ParamPhenotypeCKDScale:  2.0,
		},
	}

	out := in.WithDraw(it)

	if out.TreatmentEffectSBP != 15.5 {
		t.Errorf("treatment effect %.2f, want 15.5", out.TreatmentEffectSBP)
	}
	// One stroke parameter drives both stroke subtypes.
	if out.Efficacy[model.OutcomeIschemicStroke] != 0.45 || out.Efficacy[model.OutcomeHemorrhagicStroke] != 0.45 {
		t.Error("stroke efficacy draw not bound to both subtypes")
	}
	if out.DrugCostMonthly != 61 {
		t.Errorf("drug cost %.2f, want 61", out.DrugCostMonthly)
	}
	if got, want := out.EventCost[model.OutcomeMI], in.EventCost[model.OutcomeMI]*1.2; math.Abs(got-want) > 1e-9 {
		t.Errorf("MI event cost %.2f, want %.2f", got, want)
	}

	// CKD scaling applies to the excess over neutral.
	baseMod := in.PhenotypeModifiers[model.PhenotypeEstablishedCKD][model.OutcomeMI]
	wantMod := 1 + (baseMod-1)*2.0
	if got := out.PhenotypeModifiers[model.PhenotypeEstablishedCKD][model.OutcomeMI]; math.Abs(got-wantMod) > 1e-12 {
		t.Errorf("scaled CKD MI modifier %.3f, want %.3f", got, wantMod)
	}

	// Unsampled parameters keep base values.
	if out.Efficacy[model.OutcomeMI] != in.Efficacy[model.OutcomeMI] {
		t.Error("unsampled MI efficacy changed")
	}
	if out.DiscontinuationMonthly != in.DiscontinuationMonthly {
		t.Error("unsampled discontinuation rate changed")
	}
}

func TestWithDrawNeverMutatesBase(t *testing.T) {
	in := Default()
	snapshotEff := in.Efficacy[model.OutcomeMI]
	snapshotCost := in.EventCost[model.OutcomeMI]
	snapshotMod := in.PhenotypeModifiers[model.PhenotypeEstablishedCKD][model.OutcomeMI]

	it := &model.PSAIteration{
		Params: map[string]float64{
			model.ParamEfficacyMI:        0.1,
			model.ParamEventCostScale:    3.0,
			model.ParamPhenotypeCKDScale: 0.5,
			model.ParamUtilityDecScale:   1.4,
			model.ParamChronicCostScale:  0.9,
			model.ParamPriorEventExcess:  2.0,
		},
	}
	_ = in.WithDraw(it)

	if in.Efficacy[model.OutcomeMI] != snapshotEff {
		t.Error("draw mutated shared efficacy table")
	}
	if in.EventCost[model.OutcomeMI] != snapshotCost {
		t.Error("draw mutated shared event cost table")
	}
	if in.PhenotypeModifiers[model.PhenotypeEstablishedCKD][model.OutcomeMI] != snapshotMod {
		t.Error("draw mutated shared phenotype table")
	}
}
