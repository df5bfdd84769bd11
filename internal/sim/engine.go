// Package sim drives the monthly competing-risks microsimulation: the
// patient state machine, outcome accrual, and the cohort engine with its
// deterministic seeding contract.
package sim

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/danribes/hypertension-microsim-sub000/internal/clinical"
	"github.com/danribes/hypertension-microsim-sub000/internal/model"
	"github.com/danribes/hypertension-microsim-sub000/internal/risk"
)

// RunError wraps an error with the phase where it occurred.
type RunError struct {
	Phase string
	Err   error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// Engine runs the monthly cycle loop for a patient cohort under one
// treatment assignment. Patients are embarrassingly parallel: each owns a
// private deterministically-seeded stream, so results are bit-identical
// for a given seed regardless of worker count or scheduling.
type Engine struct {
	Inputs  *clinical.Inputs
	Log     zerolog.Logger
	Horizon int // cycles (months)
	Workers int

	// PhenotypeBaselineOnly freezes phenotype modifiers to reporting-only.
	PhenotypeBaselineOnly bool

	// BaseRisk overrides the clinical risk equation when non-nil.
	// Calibration work and tests stub the equation through this hook.
	BaseRisk risk.BaseRiskFunc
}

// NewEngine constructs an engine over a validated clinical configuration.
func NewEngine(in *clinical.Inputs, log zerolog.Logger, horizon, workers int) (*Engine, error) {
	if err := in.Validate(); err != nil {
		return nil, &RunError{Phase: "validate", Err: err}
	}
	if horizon <= 0 {
		return nil, &RunError{Phase: "validate", Err: fmt.Errorf("horizon %d must be positive", horizon)}
	}
	if workers <= 0 {
		workers = 1
	}
	return &Engine{Inputs: in, Log: log, Horizon: horizon, Workers: workers}, nil
}

// pipeline assembles the modifier pipeline over the engine's inputs.
func (e *Engine) pipeline() *risk.Pipeline {
	base := e.BaseRisk
	if base == nil {
		base = e.Inputs.BaseRisk
	}
	return &risk.Pipeline{
		Base:         base,
		Phenotype:    e.Inputs.PhenotypeModifiers,
		BaselineOnly: e.PhenotypeBaselineOnly,
		PriorExcess:  e.Inputs.PriorEventExcess,
		DecayRate:    e.Inputs.PriorEventDecay,
		Efficacy:     e.Inputs.Efficacy,
		Response:     e.Inputs.Response,
		Floor:        e.Inputs.RiskFactorFloor,
	}
}

// RunCohort simulates every patient to death or horizon under the given
// treatment assignment. Patients are mutated in place. A per-patient
// numerical failure is recorded against that patient and the cohort
// continues; the returned error is non-nil only for whole-run failures
// (bad baseline data, cancellation).
func (e *Engine) RunCohort(ctx context.Context, patients []*model.Patient, treatment model.Treatment, seed int64) (*model.CohortResult, error) {
	start := time.Now()

	for _, p := range patients {
		if err := p.Validate(); err != nil {
			return nil, &RunError{Phase: "validate", Err: err}
		}
	}

	pl := e.pipeline()
	results := make([]model.PatientResult, len(patients))

	idxCh := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < e.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idxCh {
				results[i] = e.simulatePatient(ctx, pl, patients[i], treatment, seed)
			}
		}()
	}
	for i := range patients {
		idxCh <- i
	}
	close(idxCh)
	wg.Wait()

	res := &model.CohortResult{
		Treatment: treatment,
		Seed:      seed,
		Patients:  results,
		Duration:  time.Since(start),
	}
	for i := range results {
		if results[i].Failed {
			res.Failures++
			e.Log.Warn().
				Int64("patient_id", results[i].PatientID).
				Str("error", results[i].FailErr).
				Msg("patient excluded from aggregates")
		}
	}

	if err := ctx.Err(); err != nil {
		// Cooperative cancellation: accumulators for completed cycles are
		// intact, the run just stopped early.
		return res, &RunError{Phase: "cancelled", Err: err}
	}

	e.Log.Info().
		Str("treatment", treatment.String()).
		Int("patients", len(patients)).
		Int("failures", res.Failures).
		Dur("duration", res.Duration).
		Msg("cohort run complete")
	return res, nil
}

// simulatePatient runs one patient's monthly cycle loop. Any panic is
// converted into a per-patient failure so one bad patient cannot abort
// the cohort.
func (e *Engine) simulatePatient(ctx context.Context, pl *risk.Pipeline, p *model.Patient, treatment model.Treatment, seed int64) (result model.PatientResult) {
	result.PatientID = p.ID

	defer func() {
		if r := recover(); r != nil {
			result.Failed = true
			result.FailErr = fmt.Sprintf("panic: %v", r)
		}
	}()

	rng := rand.New(rand.NewSource(PatientSeed(seed, p.ID)))
	e.assignTreatment(p, treatment, seed)

	cycle := 0
	for ; cycle < e.Horizon && p.Alive(); cycle++ {
		// Cancellation is checked only at cycle boundaries so a cycle's
		// accrual is never half-applied.
		if ctx.Err() != nil {
			break
		}

		AdvanceAcute(p)
		UpdateContinuous(p, rng, e.Inputs)

		raw := pl.Candidates(p)
		resolved, err := risk.Resolve(raw)
		if err != nil {
			result.Failed = true
			result.FailErr = err.Error()
			break
		}

		event := risk.DrawOutcome(resolved, rng)
		ApplyEvent(p, event)
		Accrue(p, event, cycle, e.Inputs)

		if event != model.OutcomeNone {
			result.Events = append(result.Events, model.EventRecord{Cycle: cycle, Outcome: event})
		}
	}

	result.Cycles = cycle
	result.CumCost = p.CumCost
	result.CumQALY = p.CumQALY
	result.Dead = !p.Alive()
	return result
}

// assignTreatment sets the arm and draws the patient's realized effect
// size from a dedicated stream. The effect stream is separate from the
// cycle stream so that arm assignment never shifts event draws. That is
// the core of the common random numbers contract.
func (e *Engine) assignTreatment(p *model.Patient, treatment model.Treatment, seed int64) {
	p.Treatment = treatment
	p.Adherent = true
	if treatment != model.TreatmentActive {
		p.RealizedEffect = 0
		return
	}
	effRng := rand.New(rand.NewSource(EffectSeed(seed, p.ID)))
	eff := e.Inputs.TreatmentEffectSBP + effRng.NormFloat64()*e.Inputs.TreatmentEffectSD
	if eff < 0 {
		eff = 0
	}
	p.RealizedEffect = eff
	if p.ResponseModifier == 0 {
		p.ResponseModifier = e.Inputs.Response[p.Profile.Phenotype]
	}
}
