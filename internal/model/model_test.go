package model

import "testing"

func TestStageForEGFR(t *testing.T) {
	cases := []struct {
		egfr float64
		want RenalStage
	}{
		{90, RenalStage12},
		{60, RenalStage12},
		{59.9, RenalStage3a},
		{45, RenalStage3a},
		{44.9, RenalStage3b},
		{30, RenalStage3b},
		{29.9, RenalStage4},
		{15, RenalStage4},
		{14.9, RenalESRD},
		{5, RenalESRD},
	}
	for _, tc := range cases {
		if got := StageForEGFR(tc.egfr); got != tc.want {
			t.Errorf("eGFR %.1f staged %s, want %s", tc.egfr, got, tc.want)
		}
	}
}

func TestClassifyPhenotype(t *testing.T) {
	if got := ClassifyPhenotype(60, 80); got != PhenotypeStandard {
		t.Errorf("60y/80: %s", got)
	}
	if got := ClassifyPhenotype(60, 50); got != PhenotypeEstablishedCKD {
		t.Errorf("60y/50: %s", got)
	}
	if got := ClassifyPhenotype(75, 80); got != PhenotypeElderlyPreserved {
		t.Errorf("75y/80: %s", got)
	}
	if got := ClassifyPhenotype(80, 50); got != PhenotypeEstablishedCKD {
		t.Errorf("80y/50 should classify by kidney function first, got %s", got)
	}
}

func TestOutcomeClassification(t *testing.T) {
	for _, o := range []Outcome{OutcomeCVDeath, OutcomeRenalDeath, OutcomeOtherDeath} {
		if !o.Fatal() {
			t.Errorf("%s not fatal", o)
		}
		if o.Cardiovascular() {
			t.Errorf("%s counted as CV history event", o)
		}
	}
	for _, o := range []Outcome{OutcomeMI, OutcomeIschemicStroke, OutcomeTIA, OutcomeHeartFailure} {
		if o.Fatal() {
			t.Errorf("%s marked fatal", o)
		}
		if !o.Cardiovascular() {
			t.Errorf("%s not counted toward CV history", o)
		}
	}
	if OutcomeAFOnset.Cardiovascular() {
		t.Error("AF onset should not reset the CV event clock")
	}
}

func TestAllOutcomesCoversEverySampledOutcome(t *testing.T) {
	seen := map[Outcome]bool{}
	for _, o := range AllOutcomes {
		if o == OutcomeNone {
			t.Error("no-event is not a sampleable outcome")
		}
		if seen[o] {
			t.Errorf("%s listed twice", o)
		}
		seen[o] = true
	}
	if len(AllOutcomes) != 9 {
		t.Errorf("%d outcomes in sampling order, want 9", len(AllOutcomes))
	}
}

func TestPatientAlive(t *testing.T) {
	p := &Patient{}
	if !p.Alive() {
		t.Error("fresh patient not alive")
	}
	for _, mutate := range []func(*Patient){
		func(p *Patient) { p.Cardiac = CardiacCVDeath },
		func(p *Patient) { p.Renal = RenalDeath },
		func(p *Patient) { p.OtherDeath = true },
	} {
		q := &Patient{}
		mutate(q)
		if q.Alive() {
			t.Errorf("patient alive after %+v", q)
		}
	}
}

func TestRecordEventHistory(t *testing.T) {
	p := &Patient{MonthsSinceCVEvent: -1}

	p.RecordEvent(OutcomeNone)
	if p.PriorEvents != nil || p.MonthsSinceCVEvent != -1 {
		t.Error("no-event modified history")
	}

	p.RecordEvent(OutcomeMI)
	p.RecordEvent(OutcomeMI)
	if p.PriorEvents[OutcomeMI] != 2 {
		t.Errorf("MI count %d, want 2", p.PriorEvents[OutcomeMI])
	}
	if p.MonthsSinceCVEvent != 0 {
		t.Errorf("CV event clock %d, want 0", p.MonthsSinceCVEvent)
	}

	p.MonthsSinceCVEvent = 36
	p.RecordEvent(OutcomeAFOnset)
	if p.MonthsSinceCVEvent != 36 {
		t.Error("AF onset reset the CV event clock")
	}
}

func TestCloneIsDeep(t *testing.T) {
	p := &Patient{
		ID:          7,
		PriorEvents: map[Outcome]int{OutcomeMI: 1},
		Profile: RiskProfile{
			Phenotype: PhenotypeEstablishedCKD,
			Modifiers: map[Outcome]float64{OutcomeMI: 1.5},
		},
	}
	c := p.Clone()
	c.PriorEvents[OutcomeMI] = 9
	c.Profile.Modifiers[OutcomeMI] = 3.0

	if p.PriorEvents[OutcomeMI] != 1 {
		t.Error("clone shares prior event map")
	}
	if p.Profile.Modifiers[OutcomeMI] != 1.5 {
		t.Error("clone shares modifier table")
	}
}

func TestCohortResultMeansSkipFailed(t *testing.T) {
	res := &CohortResult{
		Patients: []PatientResult{
			{PatientID: 1, CumCost: 100, CumQALY: 10},
			{PatientID: 2, CumCost: 300, CumQALY: 14},
			{PatientID: 3, Failed: true, CumCost: 1e9},
		},
	}
	if got := res.MeanCost(); got != 200 {
		t.Errorf("mean cost %.2f, want 200 with failed patient excluded", got)
	}
	if got := res.MeanQALY(); got != 12 {
		t.Errorf("mean QALY %.2f, want 12", got)
	}
}
