package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/danribes/hypertension-microsim-sub000/internal/config"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "htnsim",
	Short: "Hypertension drug cost-effectiveness microsimulation",
	Long:  "Individual-level competing-risks microsimulation with nested probabilistic sensitivity analysis for hypertension treatment cost-effectiveness.",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", os.Getenv("HTNSIM_DB_URL"), "Postgres connection string (or set HTNSIM_DB_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.BoolVar(&cfg.Verbose, "verbose", false, "Enable debug logging")
	pf.Int64Var(&cfg.Seed, "seed", 42, "Top-level random seed (results are bit-reproducible for a fixed seed)")
}
