// SPDX-License-Identifier: MIT

// Package cli provides the command-line interface for geoinv.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/geoinv/config"
	"github.com/katalvlaran/geoinv/store"
)

// Version is set at build time.
var Version = "0.1.0"

// app is the state shared by one command tree.
type app struct {
	configPath string
	logLevel   string
	logFile    string
	storeLoc   string

	cfg     config.Config
	logger  *slog.Logger
	cleanup func() error
}

// newRootCmd builds a fresh command tree.
func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "geoinv",
		Short: "2D resistivity and chargeability inversion",
		Long: `geoinv inverts apparent resistivity or IP chargeability readings from
four-electrode surveys into a 2D cell model of the subsurface.

Readings are CSV files with the header x,y,value,a,b,m,n where a, b, m, n
are the electrode positions along the profile in metres.`,
		Version:           Version,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.cleanup != nil {
				return a.cleanup()
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "YAML configuration file")
	flags.StringVar(&a.logLevel, "log-level", "", "DEBUG, INFO, WARN or ERROR (overrides config)")
	flags.StringVar(&a.logFile, "log-file", "", "also write JSON logs to this file")
	flags.StringVar(&a.storeLoc, "store", "", "result store: sqlite:<file>, badger:<dir> or memory")

	root.AddCommand(
		newInvertCmd(a),
		newSynthCmd(a),
		newModelsCmd(a),
		newConfigCmd(a),
	)

	return root
}

// setup loads the configuration and the logger before any command runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFile != "" {
		cfg.Log.File = a.logFile
	}
	a.cfg = cfg
	a.logger, a.cleanup = config.SetupLogger(cfg.Log.File, cfg.LogLevel())

	return nil
}

// openStore opens the --store location, else the configured one.
// It returns nil without error when persistence is off.
func (a *app) openStore() (store.Store, error) {
	loc := a.storeLoc
	if loc == "" {
		loc = a.cfg.Store.Location()
	}
	if loc == "" {
		return nil, nil
	}
	s, err := store.Open(loc, a.logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	return s, nil
}

// requireStore is openStore for commands that cannot run without one.
func (a *app) requireStore() (store.Store, error) {
	s, err := a.openStore()
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("no store configured: pass --store or set %s", config.EnvStorePath)
	}

	return s, nil
}

// Execute runs the geoinv command tree. An interrupt cancels running
// inversions, which then report their best model so far.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return newRootCmd().ExecuteContext(ctx)
}
