package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"onsdagar/internal/config"
	"onsdagar/internal/logging"
)

// app carries what every subcommand needs once the root command has run.
type app struct {
	configPath string
	verbose    bool
	jsonLogs   bool

	cfg    config.Config
	logger *zap.Logger

	// newStore is swapped in tests.
	newStore storeFactory
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return (&app{newStore: newS3Store}).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "admin",
		Short:        "Admin tools for the Onsdagstävling event series",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg

			logger, err := logging.New(logging.Options{Verbose: a.verbose, JSON: a.jsonLogs})
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "settings.yaml", "settings file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().BoolVar(&a.jsonLogs, "json-logs", false, "log as JSON")

	root.AddCommand(
		a.fetchCmd(),
		a.dbCmd(),
		a.pricesCmd(),
		a.lookupCmd(),
		a.eventCmd(),
		a.renameCmd(),
		a.decklistCmd(),
		a.uploadCmd(),
		a.downloadCmd(),
	)
	return root
}

func (a *app) printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
}
