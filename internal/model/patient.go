package model

import "fmt"

// Physiological bounds used for clamping during simulation and for
// fail-fast validation at construction time.
const (
	MinAge = 18.0
	MaxAge = 110.0

	MinSBP = 70.0
	MaxSBP = 260.0

	MinEGFR = 0.0
	MaxEGFR = 150.0

	MinPotassium = 2.5
	MaxPotassium = 8.0
)

// Patient is the mutable simulation unit. One Patient belongs to exactly
// one cohort run; PSA arms operate on independent clones.
type Patient struct {
	ID  int64
	Age float64 // years, advances 1/12 per cycle
	Sex Sex

	// Continuous physiology. OfficeSBP is the measured value the risk
	// equations see; TrueSBP is the underlying physiological value the
	// drift model evolves.
	OfficeSBP float64
	TrueSBP   float64
	EGFR      float64 // mL/min/1.73m²
	UACR      float64 // mg/g
	Potassium float64 // mmol/L

	Diabetic bool

	// Discrete states, advancing independently per branch.
	Cardiac   CardiacState
	Renal     RenalStage
	Cognitive CognitiveState

	// Event history.
	PriorEvents        map[Outcome]int
	MonthsSinceCVEvent int // -1 when no CV event has occurred

	// Treatment.
	Treatment        Treatment
	RealizedEffect   float64 // per-patient realized SBP reduction, mmHg
	ResponseModifier float64 // etiology-specific treatment response
	Adherent         bool    // flips stochastically each month
	Discontinued     bool    // set by the potassium safety rule, permanent

	// OtherDeath marks non-CV, non-renal death (life-table mortality).
	// It is a flag rather than a branch state because neither the cardiac
	// nor the renal enum owns it.
	OtherDeath bool

	// Cumulative SBP burden (mmHg-months above the cognitive-risk
	// reference), drives cognitive progression.
	SBPBurden float64

	// Accumulators, discounted. Monotonically non-decreasing while alive.
	CumCost float64
	CumQALY float64

	Profile RiskProfile
}

// Alive reports whether the patient can still be simulated.
func (p *Patient) Alive() bool {
	return p.Cardiac != CardiacCVDeath && p.Renal != RenalDeath && !p.OtherDeath
}

// Validate rejects out-of-range baseline values before simulation starts.
func (p *Patient) Validate() error {
	if p.Age < MinAge || p.Age > MaxAge {
		return fmt.Errorf("patient %d: age %.1f outside [%.0f, %.0f]", p.ID, p.Age, MinAge, MaxAge)
	}
	if p.OfficeSBP < MinSBP || p.OfficeSBP > MaxSBP {
		return fmt.Errorf("patient %d: SBP %.1f outside [%.0f, %.0f]", p.ID, p.OfficeSBP, MinSBP, MaxSBP)
	}
	if p.EGFR < MinEGFR || p.EGFR > MaxEGFR {
		return fmt.Errorf("patient %d: eGFR %.1f outside [%.0f, %.0f]", p.ID, p.EGFR, MinEGFR, MaxEGFR)
	}
	if p.Potassium < MinPotassium || p.Potassium > MaxPotassium {
		return fmt.Errorf("patient %d: potassium %.2f outside [%.1f, %.1f]", p.ID, p.Potassium, MinPotassium, MaxPotassium)
	}
	return nil
}

// RecordEvent updates history counters after a sampled event.
func (p *Patient) RecordEvent(o Outcome) {
	if o == OutcomeNone {
		return
	}
	if p.PriorEvents == nil {
		p.PriorEvents = make(map[Outcome]int)
	}
	p.PriorEvents[o]++
	if o.Cardiovascular() {
		p.MonthsSinceCVEvent = 0
	}
}

// Clone returns a deep copy. Used to give each PSA arm its own mutable
// patient while sharing the same baseline.
func (p *Patient) Clone() *Patient {
	cp := *p
	if p.PriorEvents != nil {
		cp.PriorEvents = make(map[Outcome]int, len(p.PriorEvents))
		for k, v := range p.PriorEvents {
			cp.PriorEvents[k] = v
		}
	}
	if p.Profile.Modifiers != nil {
		mods := make(map[Outcome]float64, len(p.Profile.Modifiers))
		for k, v := range p.Profile.Modifiers {
			mods[k] = v
		}
		cp.Profile.Modifiers = mods
	}
	return &cp
}
