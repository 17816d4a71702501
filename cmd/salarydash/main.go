package main

import (
	"os"

	"salarydash/internal/config"
	"salarydash/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries what the persistent pre-run resolved for the subcommands.
type app struct {
	configPath string
	dataPath   string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "salarydash",
		Short: "Salary dataset dashboard",
		Long: `salarydash loads a salary dataset and answers filtered summaries of it:
headline metrics, best paid roles, salary distribution, work arrangement
and per-country means for a chosen role.

Run "salarydash serve" for the HTTP API or "salarydash report" for a
one-off terminal summary.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			if a.dataPath != "" {
				cfg.Dataset.Path = a.dataPath
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			a.cfg = cfg

			a.logger, err = logging.New(cfg.Logging, a.verbose)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "salarydash.yaml", "path to the YAML config file")
	pf.StringVar(&a.dataPath, "data", "", "dataset CSV path (overrides config)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newServeCmd(a), newReportCmd(a))
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
