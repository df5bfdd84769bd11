package sim

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"

	"github.com/danribes/hypertension-microsim-sub000/internal/clinical"
	"github.com/danribes/hypertension-microsim-sub000/internal/model"
	"github.com/danribes/hypertension-microsim-sub000/internal/risk"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testCohort(n int) []*model.Patient {
	patients := make([]*model.Patient, n)
	for i := 0; i < n; i++ {
		p := testPatient()
		p.ID = int64(i + 1)
		p.Age = 55 + float64(i%30)
		p.OfficeSBP = 140 + float64(i%40)
		p.TrueSBP = p.OfficeSBP
		p.EGFR = 40 + float64(i%60)
		p.Renal = model.StageForEGFR(p.EGFR)
		p.Profile = model.RiskProfile{Phenotype: model.ClassifyPhenotype(p.Age, p.EGFR)}
		patients[i] = p
	}
	return patients
}

func cloneAll(patients []*model.Patient) []*model.Patient {
	out := make([]*model.Patient, len(patients))
	for i, p := range patients {
		out[i] = p.Clone()
	}
	return out
}

func TestScenarioASingleOutcomeResolution(t *testing.T) {
	// One patient, one cycle's worth of probabilities: stubbed MI risk of
	// 0.01, every modifier neutral. The resolved MI probability must be
	// exactly 1 - exp(-(-ln(0.99))) = 0.01.
	in := clinical.Default()
	engine, err := NewEngine(in, testLogger(), 1, 1)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	engine.BaseRisk = func(_ *model.Patient, o model.Outcome) float64 {
		if o == model.OutcomeMI {
			return 0.01
		}
		return 0
	}

	p := testPatient()
	p.Profile = model.RiskProfile{Phenotype: model.PhenotypeStandard}

	raw := engine.pipeline().Candidates(p)
	resolved, err := risk.Resolve(raw)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got := resolved[model.OutcomeMI]; math.Abs(got-0.01) > 1e-12 {
		t.Errorf("resolved MI probability %.15f, want 0.01", got)
	}
	if sum := resolved.Total(); math.Abs(sum-0.01) > 1e-12 {
		t.Errorf("total resolved probability %.15f, want 0.01", sum)
	}
}

func TestScenarioBTreatedTrajectoryBelow(t *testing.T) {
	in := clinical.Default()
	treated := testPatient()
	treated.Treatment = model.TreatmentActive
	treated.RealizedEffect = 20
	treated.ResponseModifier = 1.0
	untreated := testPatient()

	a := rand.New(rand.NewSource(21))
	b := rand.New(rand.NewSource(21))
	// Force adherence so the treated offset applies every cycle; the
	// adherence draw is still consumed identically in both arms.
	in2 := *in
	in2.AdherenceMonthly = 1.0
	in2.DiscontinuationMonthly = 0

	for cycle := 0; cycle < 120; cycle++ {
		UpdateContinuous(treated, a, &in2)
		UpdateContinuous(untreated, b, &in2)
		if treated.TrueSBP != untreated.TrueSBP {
			t.Fatalf("cycle %d: underlying SBP diverged under CRN: %.4f vs %.4f",
				cycle, treated.TrueSBP, untreated.TrueSBP)
		}
		if treated.OfficeSBP >= untreated.OfficeSBP {
			t.Fatalf("cycle %d: treated SBP %.2f not below untreated %.2f",
				cycle, treated.OfficeSBP, untreated.OfficeSBP)
		}
	}
}

func TestRunCohortCRNDeterminism(t *testing.T) {
	in := clinical.Default()
	base := testCohort(20)

	run := func(workers int) *model.CohortResult {
		engine, err := NewEngine(in, testLogger(), 240, workers)
		if err != nil {
			t.Fatalf("NewEngine: %v", err)
		}
		res, err := engine.RunCohort(context.Background(), cloneAll(base), model.TreatmentActive, 12345)
		if err != nil {
			t.Fatalf("RunCohort: %v", err)
		}
		return res
	}

	first := run(1)
	second := run(4) // worker count must not change results

	for i := range first.Patients {
		a, b := first.Patients[i], second.Patients[i]
		if a.CumCost != b.CumCost || a.CumQALY != b.CumQALY {
			t.Fatalf("patient %d outcomes differ: (%.10f, %.10f) vs (%.10f, %.10f)",
				a.PatientID, a.CumCost, a.CumQALY, b.CumCost, b.CumQALY)
		}
		if len(a.Events) != len(b.Events) {
			t.Fatalf("patient %d event logs differ in length", a.PatientID)
		}
		for j := range a.Events {
			if a.Events[j] != b.Events[j] {
				t.Fatalf("patient %d event %d differs: %+v vs %+v",
					a.PatientID, j, a.Events[j], b.Events[j])
			}
		}
	}
}

func TestRunCohortAbsorbingDeath(t *testing.T) {
	in := clinical.Default()
	engine, err := NewEngine(in, testLogger(), 120, 1)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	engine.BaseRisk = func(_ *model.Patient, o model.Outcome) float64 {
		if o == model.OutcomeCVDeath {
			return 0.99
		}
		return 0
	}

	p := testPatient()
	p.Profile = model.RiskProfile{Phenotype: model.PhenotypeStandard}
	res, err := engine.RunCohort(context.Background(), []*model.Patient{p}, model.TreatmentNone, 1)
	if err != nil {
		t.Fatalf("RunCohort: %v", err)
	}

	r := res.Patients[0]
	if !r.Dead {
		t.Fatal("patient survived near-certain death risk")
	}
	if r.Cycles >= 120 {
		t.Errorf("death did not terminate the loop: %d cycles", r.Cycles)
	}
	// Accumulators freeze at death.
	if p.CumCost != r.CumCost || p.CumQALY != r.CumQALY {
		t.Error("recorded accumulators diverge from patient state")
	}
}

func TestRunCohortPartialFailureIsolation(t *testing.T) {
	in := clinical.Default()
	engine, err := NewEngine(in, testLogger(), 12, 1)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	engine.BaseRisk = func(p *model.Patient, o model.Outcome) float64 {
		if p.ID == 2 && o == model.OutcomeMI {
			return -0.5 // upstream calibration defect
		}
		return 0.001
	}

	res, err := engine.RunCohort(context.Background(), testCohort(3), model.TreatmentNone, 7)
	if err != nil {
		t.Fatalf("cohort run aborted: %v", err)
	}
	if res.Failures != 1 {
		t.Fatalf("expected 1 failure, got %d", res.Failures)
	}
	if !res.Patients[1].Failed {
		t.Error("defective patient not marked failed")
	}
	if res.Patients[0].Failed || res.Patients[2].Failed {
		t.Error("healthy patients caught in the failure")
	}
}

func TestRunCohortCancellation(t *testing.T) {
	in := clinical.Default()
	engine, err := NewEngine(in, testLogger(), 600, 2)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := engine.RunCohort(ctx, testCohort(5), model.TreatmentNone, 9)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	var re *RunError
	if !errors.As(err, &re) || re.Phase != "cancelled" {
		t.Fatalf("expected cancelled RunError, got %v", err)
	}
	// Accumulators are intact, just early.
	for _, pr := range res.Patients {
		if pr.Failed {
			t.Error("cancellation recorded as patient failure")
		}
	}
}

func TestRunCohortRejectsInvalidBaseline(t *testing.T) {
	in := clinical.Default()
	engine, err := NewEngine(in, testLogger(), 12, 1)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	p := testPatient()
	p.Age = 150
	if _, err := engine.RunCohort(context.Background(), []*model.Patient{p}, model.TreatmentNone, 1); err == nil {
		t.Fatal("expected validation error for out-of-range age")
	}
}

func TestSeedDerivationStable(t *testing.T) {
	if PatientSeed(42, 7) != PatientSeed(42, 7) {
		t.Error("patient seed not deterministic")
	}
	if PatientSeed(42, 7) == PatientSeed(42, 8) {
		t.Error("adjacent patients share a stream")
	}
	if IterationSeed(42, 3) == IterationSeed(42, 4) {
		t.Error("adjacent iterations share a stream")
	}
	if PatientSeed(42, 7) == EffectSeed(42, 7) {
		t.Error("effect stream collides with cycle stream")
	}
}
