// Package cohort reads and writes baseline patient cohorts as Parquet
// files and generates synthetic cohorts by independent distribution draws.
package cohort

import (
	"fmt"

	"github.com/danribes/hypertension-microsim-sub000/internal/model"
)

// PatientRow mirrors the Parquet schema for one baseline patient record.
type PatientRow struct {
	PatientID int64   `parquet:"patient_id"`
	AgeYears  float64 `parquet:"age_years"`
	Sex       string  `parquet:"sex"`

	OfficeSBP float64 `parquet:"office_sbp"`
	EGFR      float64 `parquet:"egfr"`
	UACR      float64 `parquet:"uacr"`
	Potassium float64 `parquet:"potassium"`
	Diabetic  bool    `parquet:"diabetic"`

	PriorMI     int32 `parquet:"prior_mi"`
	PriorStroke int32 `parquet:"prior_stroke"`
	PriorHF     int32 `parquet:"prior_hf"`
	// Months since the most recent CV event; -1 when no history.
	MonthsSinceCVEvent int32 `parquet:"months_since_cv_event"`
}

// ToPatient converts a row into a fully-initialized Patient with the
// phenotype classification and its modifier table resolved at creation.
func (row *PatientRow) ToPatient(modifiers map[model.Phenotype]map[model.Outcome]float64) (*model.Patient, error) {
	sex, ok := model.SexFromString(row.Sex)
	if !ok {
		return nil, fmt.Errorf("patient %d: unknown sex %q", row.PatientID, row.Sex)
	}

	phenotype := model.ClassifyPhenotype(row.AgeYears, row.EGFR)
	profile := model.RiskProfile{
		Phenotype: phenotype,
		Modifiers: modifiers[phenotype],
	}

	p := &model.Patient{
		ID:                 row.PatientID,
		Age:                row.AgeYears,
		Sex:                sex,
		OfficeSBP:          row.OfficeSBP,
		TrueSBP:            row.OfficeSBP,
		EGFR:               row.EGFR,
		UACR:               row.UACR,
		Potassium:          row.Potassium,
		Diabetic:           row.Diabetic,
		Renal:              model.StageForEGFR(row.EGFR),
		MonthsSinceCVEvent: int(row.MonthsSinceCVEvent),
		Adherent:           true,
		Profile:            profile,
	}

	if row.PriorMI > 0 {
		p.PriorEvents = map[model.Outcome]int{model.OutcomeMI: int(row.PriorMI)}
		p.Cardiac = model.CardiacPostMI
	}
	if row.PriorStroke > 0 {
		if p.PriorEvents == nil {
			p.PriorEvents = map[model.Outcome]int{}
		}
		p.PriorEvents[model.OutcomeIschemicStroke] = int(row.PriorStroke)
		p.Cardiac = model.CardiacPostStroke
	}
	if row.PriorHF > 0 {
		if p.PriorEvents == nil {
			p.PriorEvents = map[model.Outcome]int{}
		}
		p.PriorEvents[model.OutcomeHeartFailure] = int(row.PriorHF)
		p.Cardiac = model.CardiacChronicHF
	}
	if len(p.PriorEvents) > 0 && p.MonthsSinceCVEvent < 0 {
		return nil, fmt.Errorf("patient %d: prior events recorded without months_since_cv_event", row.PatientID)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// FromPatient converts a baseline patient back into its file row.
func FromPatient(p *model.Patient) PatientRow {
	return PatientRow{
		PatientID:          p.ID,
		AgeYears:           p.Age,
		Sex:                p.Sex.String(),
		OfficeSBP:          p.OfficeSBP,
		EGFR:               p.EGFR,
		UACR:               p.UACR,
		Potassium:          p.Potassium,
		Diabetic:           p.Diabetic,
		PriorMI:            int32(p.PriorEvents[model.OutcomeMI]),
		PriorStroke:        int32(p.PriorEvents[model.OutcomeIschemicStroke]),
		PriorHF:            int32(p.PriorEvents[model.OutcomeHeartFailure]),
		MonthsSinceCVEvent: int32(p.MonthsSinceCVEvent),
	}
}
