package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/danribes/hypertension-microsim-sub000/internal/model"
	"github.com/danribes/hypertension-microsim-sub000/internal/psa"
	embedsql "github.com/danribes/hypertension-microsim-sub000/internal/sql"
)

// Store writes simulation results to Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// New wraps a connection pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// RunMeta describes a run being registered.
type RunMeta struct {
	Kind                string // "cohort" or "psa"
	Seed                int64
	HorizonCycles       int
	NPatients           int
	IterationsRequested int
}

// RegisterRun creates the run record and returns its ID.
func (s *Store) RegisterRun(ctx context.Context, meta RunMeta) (uuid.UUID, error) {
	runID := uuid.New()
	_, err := s.pool.Exec(ctx, embedsql.RegisterRun,
		runID, meta.Kind, meta.Seed, meta.HorizonCycles, meta.NPatients, meta.IterationsRequested)
	if err != nil {
		return uuid.Nil, fmt.Errorf("register run: %w", err)
	}
	return runID, nil
}

// UpdateStatus updates the run status.
func (s *Store) UpdateStatus(ctx context.Context, runID uuid.UUID, status string) error {
	_, err := s.pool.Exec(ctx, embedsql.UpdateRunStatus, runID, status)
	return err
}

// FinalizeRun marks a run complete with its accounting totals.
func (s *Store) FinalizeRun(ctx context.Context, runID uuid.UUID, completed, skipped, patientFailures int) error {
	_, err := s.pool.Exec(ctx, embedsql.FinalizeRun, runID, completed, skipped, patientFailures)
	if err != nil {
		return fmt.Errorf("finalize run: %w", err)
	}
	return nil
}

// cePointRow adapts a CE-plane point for COPY.
type cePointRow struct {
	runID uuid.UUID
	point psa.CEPoint
}

func (r cePointRow) CopyValues() []any {
	return []any{r.runID, r.point.Iteration, r.point.DeltaCost, r.point.DeltaQALY}
}

// InsertCEPoints COPY-loads the CE-plane sample set for a run.
func (s *Store) InsertCEPoints(ctx context.Context, runID uuid.UUID, points []psa.CEPoint) (int64, error) {
	ch := make(chan cePointRow, 256)
	go func() {
		defer close(ch)
		for _, p := range points {
			ch <- cePointRow{runID: runID, point: p}
		}
	}()

	n, err := s.pool.CopyFrom(ctx,
		pgx.Identifier{"sim", "ce_points"},
		[]string{"run_id", "iteration", "delta_cost", "delta_qaly"},
		NewChannelSource(ch),
	)
	if err != nil {
		return n, fmt.Errorf("copy ce points: %w", err)
	}
	return n, nil
}

// InsertCEAC stores the acceptability curve for a run.
func (s *Store) InsertCEAC(ctx context.Context, runID uuid.UUID, curve []psa.CEACPoint) error {
	for _, pt := range curve {
		_, err := s.pool.Exec(ctx,
			"INSERT INTO sim.ceac_points (run_id, lambda, prob_cost_effective) VALUES ($1, $2, $3)",
			runID, pt.Lambda, pt.ProbCostEffective)
		if err != nil {
			return fmt.Errorf("insert ceac point: %w", err)
		}
	}
	return nil
}

// patientSummaryRow adapts a per-patient result for COPY.
type patientSummaryRow struct {
	runID     uuid.UUID
	treatment string
	result    model.PatientResult
}

func (r patientSummaryRow) CopyValues() []any {
	return []any{r.runID, r.treatment, r.result.PatientID, r.result.Cycles,
		r.result.CumCost, r.result.CumQALY, r.result.Dead, r.result.Failed}
}

// InsertPatientSummaries COPY-loads one arm's per-patient final outcomes.
func (s *Store) InsertPatientSummaries(ctx context.Context, runID uuid.UUID, res *model.CohortResult) (int64, error) {
	ch := make(chan patientSummaryRow, 256)
	go func() {
		defer close(ch)
		for _, pr := range res.Patients {
			ch <- patientSummaryRow{runID: runID, treatment: res.Treatment.String(), result: pr}
		}
	}()

	n, err := s.pool.CopyFrom(ctx,
		pgx.Identifier{"sim", "patient_summaries"},
		[]string{"run_id", "treatment", "patient_id", "cycles", "cum_cost", "cum_qaly", "dead", "failed"},
		NewChannelSource(ch),
	)
	if err != nil {
		return n, fmt.Errorf("copy patient summaries: %w", err)
	}
	return n, nil
}
