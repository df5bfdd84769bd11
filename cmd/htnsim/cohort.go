package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/danribes/hypertension-microsim-sub000/internal/clinical"
	"github.com/danribes/hypertension-microsim-sub000/internal/cohort"
	"github.com/danribes/hypertension-microsim-sub000/internal/config"
	"github.com/danribes/hypertension-microsim-sub000/internal/exitcode"
	"github.com/danribes/hypertension-microsim-sub000/internal/logging"
	"github.com/danribes/hypertension-microsim-sub000/internal/model"
	"github.com/danribes/hypertension-microsim-sub000/internal/sim"
	"github.com/danribes/hypertension-microsim-sub000/internal/store"
)

var cohortTreatment string
var cohortSave bool

var cohortCmd = &cobra.Command{
	Use:   "cohort",
	Short: "Run one cohort under a single treatment assignment",
	RunE:  runCohort,
}

func init() {
	f := cohortCmd.Flags()
	f.StringVar(&cfg.CohortPath, "cohort", "", "Path to baseline cohort Parquet file")
	f.IntVar(&cfg.Patients, "patients", 1000, "Synthetic cohort size when --cohort is not given")
	f.IntVar(&cfg.HorizonYears, "horizon-years", 30, "Simulation horizon in years")
	f.IntVar(&cfg.Workers, "workers", runtime.NumCPU(), "Parallel patient workers")
	f.Float64Var(&cfg.DiscountRate, "discount-rate", 0.03, "Annual discount rate")
	f.StringVar(&cohortTreatment, "treatment", "active", "Treatment arm: active or none")
	f.BoolVar(&cfg.PhenotypeBaselineOnly, "phenotype-baseline-only", false, "Use phenotype classification for reporting only, not as dynamic risk multipliers")
	f.BoolVar(&cohortSave, "save", false, "Persist per-patient summaries to Postgres (requires --dsn)")
	rootCmd.AddCommand(cohortCmd)
}

// loadPopulation reads the cohort file when given, otherwise generates a
// deterministic synthetic cohort.
func loadPopulation(c *config.Config, in *clinical.Inputs) ([]*model.Patient, error) {
	if c.CohortPath != "" {
		return cohort.ReadFile(c.CohortPath, in.PhenotypeModifiers)
	}
	spec := cohort.DefaultGenerateSpec(c.Patients, c.Seed)
	return cohort.Generate(spec, in.PhenotypeModifiers), nil
}

func runCohort(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.Verbose)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}
	if cohortSave && cfg.DSN == "" {
		log.Error().Msg("--save requires --dsn or HTNSIM_DB_URL")
		os.Exit(exitcode.UsageError)
	}

	var treatment model.Treatment
	switch cohortTreatment {
	case "active":
		treatment = model.TreatmentActive
	case "none":
		treatment = model.TreatmentNone
	default:
		log.Error().Str("treatment", cohortTreatment).Msg("unknown treatment arm")
		os.Exit(exitcode.UsageError)
	}

	inputs := clinical.Default()
	inputs.AnnualDiscountRate = cfg.DiscountRate

	patients, err := loadPopulation(&cfg, inputs)
	if err != nil {
		log.Error().Err(err).Msg("cohort load failed")
		os.Exit(exitcode.CohortError)
	}

	engine, err := sim.NewEngine(inputs, log, cfg.HorizonCycles(), cfg.Workers)
	if err != nil {
		log.Error().Err(err).Msg("engine construction failed")
		os.Exit(exitcode.ValidationError)
	}
	engine.PhenotypeBaselineOnly = cfg.PhenotypeBaselineOnly

	res, err := engine.RunCohort(ctx, patients, treatment, cfg.Seed)
	if err != nil {
		log.Error().Err(err).Msg("cohort run failed")
		os.Exit(exitcode.SimError)
	}

	if cohortSave {
		if err := saveCohort(ctx, log, res, len(patients)); err != nil {
			log.Error().Err(err).Msg("result persistence failed")
			os.Exit(exitcode.DBConnError)
		}
	}

	fmt.Printf("Cohort complete: %d patients, %d failures, mean cost $%.0f, mean QALYs %.3f (%.1fs)\n",
		len(res.Patients), res.Failures, res.MeanCost(), res.MeanQALY(), res.Duration.Seconds())
	if res.Failures > 0 {
		os.Exit(exitcode.PartialSuccess)
	}
	return nil
}

func saveCohort(ctx context.Context, log zerolog.Logger, res *model.CohortResult, nPatients int) error {
	pool, err := store.NewPool(ctx, cfg.DSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	st := store.New(pool)
	runID, err := st.RegisterRun(ctx, store.RunMeta{
		Kind:          "cohort",
		Seed:          cfg.Seed,
		HorizonCycles: cfg.HorizonCycles(),
		NPatients:     nPatients,
	})
	if err != nil {
		return err
	}

	n, err := st.InsertPatientSummaries(ctx, runID, res)
	if err != nil {
		_ = st.UpdateStatus(ctx, runID, "failed")
		return err
	}
	if err := st.FinalizeRun(ctx, runID, 0, 0, res.Failures); err != nil {
		return err
	}
	log.Info().Str("run_id", runID.String()).Int64("rows", n).Msg("cohort results persisted")
	return nil
}
