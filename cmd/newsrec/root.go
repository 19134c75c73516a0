// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/newsrec/internal/app"
	"github.com/tomtom215/newsrec/internal/config"
	"github.com/tomtom215/newsrec/internal/logging"
	"github.com/tomtom215/newsrec/internal/recommend"
)

// cli carries state shared by the subcommands.
type cli struct {
	cfg *config.Config

	// Persistent flag values
	dataDir  string
	logLevel string
	timeout  time.Duration
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "newsrec",
		Short:         "Query news article recommendations from the command line",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.dataDir, "data-dir", "", "dataset directory (overrides DATA_DIR)")
	flags.StringVar(&c.logLevel, "log-level", "warn", "log level written to stderr")
	flags.DurationVar(&c.timeout, "timeout", 10*time.Minute, "maximum time to load data and build models")

	root.AddCommand(
		newRecommendCmd(c),
		newPopularCmd(c),
		newUsersCmd(c),
		newInfoCmd(c),
	)
	return root
}

// setup loads configuration and applies flag overrides.
func (c *cli) setup(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if c.dataDir != "" {
		cfg.Data.Dir = c.dataDir
	}
	// Built engines live for one command.
	cfg.Recommend.CacheEnabled = false
	if err := cfg.Validate(); err != nil {
		return err
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = c.logLevel
	logCfg.Format = "console"
	logCfg.Process = "cli"
	logCfg.Output = cmd.ErrOrStderr()
	logging.Init(logCfg)

	c.cfg = cfg
	return nil
}

// engine loads the dataset and builds the models.
func (c *cli) engine(ctx context.Context) (*recommend.Engine, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return app.NewBuildFunc(c.cfg, logging.Logger())(ctx)
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
