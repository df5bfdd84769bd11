package psa

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/danribes/hypertension-microsim-sub000/internal/clinical"
	"github.com/danribes/hypertension-microsim-sub000/internal/model"
	"github.com/danribes/hypertension-microsim-sub000/internal/sim"
)

// PopulationFactory returns a fresh baseline cohort. The runner calls it
// once per iteration and clones per arm, so the factory must be
// deterministic for a given construction.
type PopulationFactory func() []*model.Patient

// Runner drives the outer PSA loop: one joint parameter draw per
// iteration, then a paired cohort run for both arms under Common Random
// Numbers, aggregated into incremental cost/QALY distributions.
type Runner struct {
	Sampler    *Sampler
	BaseInputs *clinical.Inputs
	Population PopulationFactory
	Log        zerolog.Logger

	Seed    int64
	Horizon int // cycles
	Workers int

	PhenotypeBaselineOnly bool

	// Tolerance is the relative MCSE target for the ICER. When positive,
	// the runner keeps adding iterations beyond the requested count (up
	// to MaxIterations) until the tolerance is met.
	Tolerance     float64
	MaxIterations int
}

// Run executes at least `iterations` outer draws. A failed draw is
// skipped and recorded; a failed iteration never aborts the loop.
func (r *Runner) Run(ctx context.Context, iterations int) (*Results, error) {
	if iterations <= 0 {
		return nil, fmt.Errorf("iterations %d must be positive", iterations)
	}
	start := time.Now()

	// The draw stream is independent of every simulation stream, and
	// sequential: iteration k's parameters are identical whether the run
	// asks for 100 or 2,000 iterations, which keeps convergence traces
	// prefix-stable under a fixed seed.
	drawRNG := rand.New(rand.NewSource(sim.IterationSeed(r.Seed, -1)))

	res := &Results{Requested: iterations}
	maxIter := iterations
	if r.Tolerance > 0 && r.MaxIterations > iterations {
		maxIter = r.MaxIterations
	}

	for k := 0; k < maxIter; k++ {
		if err := ctx.Err(); err != nil {
			res.Duration = time.Since(start)
			return res, fmt.Errorf("psa cancelled after %d iterations: %w", res.Completed, err)
		}
		if k >= iterations && r.converged(res) {
			break
		}

		params, err := r.Sampler.Draw(drawRNG)
		if err != nil {
			res.Skipped++
			r.Log.Warn().Int("iteration", k).Err(err).Msg("parameter draw failed, iteration skipped")
			continue
		}

		point, failures, err := r.runIteration(ctx, k, params)
		if err != nil {
			if ctx.Err() != nil {
				res.Duration = time.Since(start)
				return res, fmt.Errorf("psa cancelled after %d iterations: %w", res.Completed, ctx.Err())
			}
			res.Skipped++
			r.Log.Warn().Int("iteration", k).Err(err).Msg("iteration failed, skipped")
			continue
		}

		res.Points = append(res.Points, point)
		res.ParamDraws = append(res.ParamDraws, params)
		res.PatientFailures += failures
		res.Completed++
	}

	res.Duration = time.Since(start)
	r.Log.Info().
		Int("requested", res.Requested).
		Int("completed", res.Completed).
		Int("skipped", res.Skipped).
		Int("patient_failures", res.PatientFailures).
		Float64("mean_delta_cost", res.MeanDeltaCost()).
		Float64("mean_delta_qaly", res.MeanDeltaQALY()).
		Dur("duration", res.Duration).
		Msg("psa complete")
	return res, nil
}

// runIteration executes one parameter draw: both arms share the same
// per-iteration base seed, so a given patient sees identical stochastic
// draws in both arms except where treatment changes behavior.
func (r *Runner) runIteration(ctx context.Context, k int, params map[string]float64) (CEPoint, int, error) {
	it := &model.PSAIteration{
		Index:  k,
		Seed:   sim.IterationSeed(r.Seed, k),
		Params: params,
	}
	inputs := r.BaseInputs.WithDraw(it)

	engine, err := sim.NewEngine(inputs, r.Log, r.Horizon, r.Workers)
	if err != nil {
		return CEPoint{}, 0, fmt.Errorf("iteration %d engine: %w", k, err)
	}
	engine.PhenotypeBaselineOnly = r.PhenotypeBaselineOnly

	base := r.Population()
	armA := clonePopulation(base)
	armB := clonePopulation(base)

	resA, err := engine.RunCohort(ctx, armA, model.TreatmentActive, it.Seed)
	if err != nil {
		return CEPoint{}, 0, fmt.Errorf("iteration %d arm A: %w", k, err)
	}
	resB, err := engine.RunCohort(ctx, armB, model.TreatmentNone, it.Seed)
	if err != nil {
		return CEPoint{}, 0, fmt.Errorf("iteration %d arm B: %w", k, err)
	}

	point := CEPoint{
		Iteration: k,
		DeltaCost: resA.MeanCost() - resB.MeanCost(),
		DeltaQALY: resA.MeanQALY() - resB.MeanQALY(),
	}
	return point, resA.Failures + resB.Failures, nil
}

func (r *Runner) converged(res *Results) bool {
	return res.Completed >= 2 && res.RelativeICERError() <= r.Tolerance
}

func clonePopulation(patients []*model.Patient) []*model.Patient {
	out := make([]*model.Patient, len(patients))
	for i, p := range patients {
		out[i] = p.Clone()
	}
	return out
}
