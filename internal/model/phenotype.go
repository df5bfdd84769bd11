package model

// Phenotype is the patient's mutually-exclusive baseline renal-risk
// classification system. Exactly one applies, chosen by age/eGFR branching
// at cohort creation.
type Phenotype int8

const (
	// PhenotypeStandard applies when neither of the other systems does.
	PhenotypeStandard Phenotype = iota
	// PhenotypeEstablishedCKD applies when baseline eGFR < 60 (KFRE territory).
	PhenotypeEstablishedCKD
	// PhenotypeElderlyPreserved applies at age ≥ 75 with preserved eGFR,
	// where the age-adjusted system governs.
	PhenotypeElderlyPreserved
)

var phenotypeNames = map[Phenotype]string{
	PhenotypeStandard:         "standard",
	PhenotypeEstablishedCKD:   "established_ckd",
	PhenotypeElderlyPreserved: "elderly_preserved",
}

func (p Phenotype) String() string { return phenotypeNames[p] }

// ClassifyPhenotype resolves the classification once at baseline.
func ClassifyPhenotype(ageYears, egfr float64) Phenotype {
	switch {
	case egfr < 60:
		return PhenotypeEstablishedCKD
	case ageYears >= 75:
		return PhenotypeElderlyPreserved
	default:
		return PhenotypeStandard
	}
}

// RiskProfile is fixed at patient creation: the phenotype tag plus the
// per-outcome multiplicative modifiers its classification system assigns.
// Storing the resolved modifiers here keeps type-branching out of the
// per-cycle loop.
type RiskProfile struct {
	Phenotype Phenotype
	Modifiers map[Outcome]float64
}

// Modifier returns the phenotype modifier for an outcome, defaulting to 1.
func (rp RiskProfile) Modifier(o Outcome) float64 {
	if m, ok := rp.Modifiers[o]; ok {
		return m
	}
	return 1
}
