package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/danribes/hypertension-microsim-sub000/internal/clinical"
	"github.com/danribes/hypertension-microsim-sub000/internal/exitcode"
	"github.com/danribes/hypertension-microsim-sub000/internal/logging"
	"github.com/danribes/hypertension-microsim-sub000/internal/model"
	"github.com/danribes/hypertension-microsim-sub000/internal/psa"
	"github.com/danribes/hypertension-microsim-sub000/internal/store"
)

var (
	psaSave    bool
	psaWTP     float64
	configPath string
)

var psaCmd = &cobra.Command{
	Use:   "psa",
	Short: "Run the probabilistic sensitivity analysis (two-arm, CRN)",
	RunE:  runPSA,
}

func init() {
	f := psaCmd.Flags()
	f.StringVar(&cfg.CohortPath, "cohort", "", "Path to baseline cohort Parquet file")
	f.IntVar(&cfg.Patients, "patients", 500, "Synthetic cohort size when --cohort is not given")
	f.IntVar(&cfg.HorizonYears, "horizon-years", 30, "Simulation horizon in years")
	f.IntVar(&cfg.Iterations, "iterations", 1000, "PSA outer iterations")
	f.IntVar(&cfg.Workers, "workers", runtime.NumCPU(), "Parallel patient workers")
	f.Float64Var(&cfg.DiscountRate, "discount-rate", 0.03, "Annual discount rate")
	f.Float64Var(&cfg.Tolerance, "tolerance", 0, "Relative ICER standard-error target (0 disables adaptive stop)")
	f.IntVar(&cfg.MaxIterations, "max-iterations", 0, "Iteration ceiling for adaptive stop")
	f.Float64Var(&psaWTP, "wtp", 100000, "Willingness-to-pay for EVPI and parameter correlations, $/QALY")
	f.BoolVar(&cfg.PhenotypeBaselineOnly, "phenotype-baseline-only", false, "Use phenotype classification for reporting only, not as dynamic risk multipliers")
	f.StringVar(&configPath, "config", "", "Optional YAML config file")
	f.BoolVar(&psaSave, "save", false, "Persist CE-plane and CEAC results to Postgres (requires --dsn)")
	rootCmd.AddCommand(psaCmd)
}

func runPSA(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.Verbose)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if configPath != "" {
		if err := cfg.LoadFromFile(configPath); err != nil {
			log.Error().Err(err).Msg("config file load failed")
			os.Exit(exitcode.UsageError)
		}
	}
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}
	if psaSave && cfg.DSN == "" {
		log.Error().Msg("--save requires --dsn or HTNSIM_DB_URL")
		os.Exit(exitcode.UsageError)
	}

	inputs := clinical.Default()
	inputs.AnnualDiscountRate = cfg.DiscountRate

	sampler, err := psa.NewSampler(psa.DefaultGroups(), psa.DefaultIndependent())
	if err != nil {
		log.Error().Err(err).Msg("sampler construction failed")
		os.Exit(exitcode.ValidationError)
	}

	base, err := loadPopulation(&cfg, inputs)
	if err != nil {
		log.Error().Err(err).Msg("cohort load failed")
		os.Exit(exitcode.CohortError)
	}

	runner := &psa.Runner{
		Sampler:               sampler,
		BaseInputs:            inputs,
		Population:            func() []*model.Patient { return base },
		Log:                   log,
		Seed:                  cfg.Seed,
		Horizon:               cfg.HorizonCycles(),
		Workers:               cfg.Workers,
		PhenotypeBaselineOnly: cfg.PhenotypeBaselineOnly,
		Tolerance:             cfg.Tolerance,
		MaxIterations:         cfg.MaxIterations,
	}

	res, err := runner.Run(ctx, cfg.Iterations)
	if err != nil {
		log.Error().Err(err).Msg("psa run failed")
		os.Exit(exitcode.PSAError)
	}

	printPSAReport(res)

	if psaSave {
		if err := savePSA(ctx, log, res, len(base)); err != nil {
			log.Error().Err(err).Msg("result persistence failed")
			os.Exit(exitcode.DBConnError)
		}
	}

	if res.Skipped > 0 || res.PatientFailures > 0 {
		os.Exit(exitcode.PartialSuccess)
	}
	return nil
}

func printPSAReport(res *psa.Results) {
	fmt.Println("=== htnsim psa ===")
	fmt.Printf("Iterations:       %d requested, %d completed, %d skipped\n",
		res.Requested, res.Completed, res.Skipped)
	fmt.Printf("Patient failures: %d\n", res.PatientFailures)
	fmt.Printf("Mean ΔCost:       $%.0f (MCSE %.0f)\n", res.MeanDeltaCost(), res.MCSEDeltaCost())
	fmt.Printf("Mean ΔQALY:       %.4f (MCSE %.4f)\n", res.MeanDeltaQALY(), res.MCSEDeltaQALY())
	fmt.Printf("ICER:             $%.0f/QALY (relative SE %.3f)\n", res.ICER(), res.RelativeICERError())
	fmt.Printf("EVPI @ $%.0f:     $%.0f per decision\n", psaWTP, res.EVPI(psaWTP))

	fmt.Println("\nCEAC:")
	for _, pt := range res.CEAC(cfg.WTPGrid) {
		fmt.Printf("  λ=$%-8.0f P(CE)=%.3f\n", pt.Lambda, pt.ProbCostEffective)
	}

	corr := res.ParameterCorrelations(psaWTP)
	names := make([]string, 0, len(corr))
	for name := range corr {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ci, cj := corr[names[i]], corr[names[j]]
		return abs(ci) > abs(cj)
	})
	fmt.Println("\nParameter correlation with net monetary benefit:")
	for _, name := range names {
		fmt.Printf("  %-28s %+.3f\n", name, corr[name])
	}
}

func savePSA(ctx context.Context, log zerolog.Logger, res *psa.Results, nPatients int) error {
	pool, err := store.NewPool(ctx, cfg.DSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	st := store.New(pool)
	runID, err := st.RegisterRun(ctx, store.RunMeta{
		Kind:                "psa",
		Seed:                cfg.Seed,
		HorizonCycles:       cfg.HorizonCycles(),
		NPatients:           nPatients,
		IterationsRequested: res.Requested,
	})
	if err != nil {
		return err
	}

	if _, err := st.InsertCEPoints(ctx, runID, res.Points); err != nil {
		_ = st.UpdateStatus(ctx, runID, "failed")
		return err
	}
	if err := st.InsertCEAC(ctx, runID, res.CEAC(cfg.WTPGrid)); err != nil {
		_ = st.UpdateStatus(ctx, runID, "failed")
		return err
	}
	if err := st.FinalizeRun(ctx, runID, res.Completed, res.Skipped, res.PatientFailures); err != nil {
		return err
	}
	log.Info().Str("run_id", runID.String()).Int("points", len(res.Points)).Msg("psa results persisted")
	return nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
