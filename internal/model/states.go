package model

// Sex is the patient's sex as used by the risk equations.
type Sex int8

const (
	Male Sex = iota
	Female
)

func (s Sex) String() string {
	if s == Female {
		return "female"
	}
	return "male"
}

// SexFromString parses "male"/"female" (cohort file encoding).
func SexFromString(v string) (Sex, bool) {
	switch v {
	case "male":
		return Male, true
	case "female":
		return Female, true
	}
	return Male, false
}

// CardiacState is the cardiac branch of the patient state machine.
// Acute states last exactly one cycle before settling into their
// post-event state; CVDeath is absorbing.
type CardiacState int8

const (
	CardiacNone CardiacState = iota
	CardiacAcuteMI
	CardiacPostMI
	CardiacAcuteIschemicStroke
	CardiacAcuteHemorrhagicStroke
	CardiacPostStroke
	CardiacTIA
	CardiacAcuteHF
	CardiacChronicHF
	CardiacAF
	CardiacCVDeath
)

var cardiacNames = map[CardiacState]string{
	CardiacNone:                   "no_event",
	CardiacAcuteMI:                "acute_mi",
	CardiacPostMI:                 "post_mi",
	CardiacAcuteIschemicStroke:    "acute_ischemic_stroke",
	CardiacAcuteHemorrhagicStroke: "acute_hemorrhagic_stroke",
	CardiacPostStroke:             "post_stroke",
	CardiacTIA:                    "tia",
	CardiacAcuteHF:                "acute_hf",
	CardiacChronicHF:              "chronic_hf",
	CardiacAF:                     "atrial_fibrillation",
	CardiacCVDeath:                "cv_death",
}

func (c CardiacState) String() string { return cardiacNames[c] }

// Acute reports whether the state is a one-cycle acute state.
func (c CardiacState) Acute() bool {
	switch c {
	case CardiacAcuteMI, CardiacAcuteIschemicStroke, CardiacAcuteHemorrhagicStroke, CardiacAcuteHF:
		return true
	}
	return false
}

// RenalStage is the CKD stage, crossed automatically as eGFR declines.
// Progression is strictly one-way; RenalDeath is absorbing.
type RenalStage int8

const (
	RenalStage12 RenalStage = iota
	RenalStage3a
	RenalStage3b
	RenalStage4
	RenalESRD
	RenalDeath
)

var renalNames = map[RenalStage]string{
	RenalStage12: "stage1_2",
	RenalStage3a: "stage3a",
	RenalStage3b: "stage3b",
	RenalStage4:  "stage4",
	RenalESRD:    "esrd",
	RenalDeath:   "renal_death",
}

func (r RenalStage) String() string { return renalNames[r] }

// StageForEGFR maps an eGFR value (mL/min/1.73m²) onto the KDIGO stage bands.
func StageForEGFR(egfr float64) RenalStage {
	switch {
	case egfr >= 60:
		return RenalStage12
	case egfr >= 45:
		return RenalStage3a
	case egfr >= 30:
		return RenalStage3b
	case egfr >= 15:
		return RenalStage4
	default:
		return RenalESRD
	}
}

// CognitiveState progresses monotonically Normal → MCI → Dementia.
type CognitiveState int8

const (
	CognitiveNormal CognitiveState = iota
	CognitiveMCI
	CognitiveDementia
)

var cognitiveNames = map[CognitiveState]string{
	CognitiveNormal:   "normal",
	CognitiveMCI:      "mci",
	CognitiveDementia: "dementia",
}

func (c CognitiveState) String() string { return cognitiveNames[c] }

// Treatment is the arm assignment for a cohort run.
type Treatment int8

const (
	TreatmentNone Treatment = iota
	TreatmentActive
)

func (t Treatment) String() string {
	if t == TreatmentActive {
		return "active"
	}
	return "none"
}
