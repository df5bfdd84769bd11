package cohort

import (
	"math/rand"

	"github.com/danribes/hypertension-microsim-sub000/internal/model"
)

// GenerateSpec parameterizes synthetic cohort generation. Draws are
// independent per attribute; baseline correlation structure is out of
// scope for the generator and belongs to real cohort files.
type GenerateSpec struct {
	N    int
	Seed int64

	MeanAge, SDAge   float64
	FemaleFraction   float64
	MeanSBP, SDSBP   float64
	MeanEGFR, SDEGFR float64
	DiabetesPrev     float64
	PriorMIPrev      float64
	PriorStrokePrev  float64
}

// DefaultGenerateSpec is a hypertensive cohort skewed toward the elderly.
func DefaultGenerateSpec(n int, seed int64) GenerateSpec {
	return GenerateSpec{
		N:       n,
		Seed:    seed,
		MeanAge: 64, SDAge: 9,
		FemaleFraction: 0.48,
		MeanSBP:        152, SDSBP: 12,
		MeanEGFR: 72, SDEGFR: 16,
		DiabetesPrev:    0.28,
		PriorMIPrev:     0.08,
		PriorStrokePrev: 0.05,
	}
}

// Generate draws a synthetic baseline cohort. Deterministic for a given
// spec: the same seed always produces the same cohort.
func Generate(spec GenerateSpec, modifiers map[model.Phenotype]map[model.Outcome]float64) []*model.Patient {
	rng := rand.New(rand.NewSource(spec.Seed))
	patients := make([]*model.Patient, 0, spec.N)

	for i := 0; i < spec.N; i++ {
		row := PatientRow{
			PatientID:          int64(i + 1),
			AgeYears:           clampf(spec.MeanAge+rng.NormFloat64()*spec.SDAge, model.MinAge+22, 95),
			Sex:                "male",
			OfficeSBP:          clampf(spec.MeanSBP+rng.NormFloat64()*spec.SDSBP, 120, 220),
			EGFR:               clampf(spec.MeanEGFR+rng.NormFloat64()*spec.SDEGFR, 12, 120),
			UACR:               clampf(30*rng.ExpFloat64(), 1, 3000),
			Potassium:          clampf(4.2+rng.NormFloat64()*0.35, 3.2, 5.4),
			MonthsSinceCVEvent: -1,
		}
		if rng.Float64() < spec.FemaleFraction {
			row.Sex = "female"
		}
		row.Diabetic = rng.Float64() < spec.DiabetesPrev
		if rng.Float64() < spec.PriorMIPrev {
			row.PriorMI = 1
		}
		if rng.Float64() < spec.PriorStrokePrev {
			row.PriorStroke = 1
		}
		if row.PriorMI > 0 || row.PriorStroke > 0 {
			row.MonthsSinceCVEvent = int32(6 + rng.Intn(120))
		}

		p, err := row.ToPatient(modifiers)
		if err != nil {
			// Generated values are clamped into valid ranges above, so a
			// conversion failure is a programming error.
			panic(err)
		}
		patients = append(patients, p)
	}
	return patients
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
