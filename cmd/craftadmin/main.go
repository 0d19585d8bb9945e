// Command craftadmin drives the recipe admin pages from the terminal: it
// validates filled-in forms, pages through entity tables, runs the scraper
// update sequence and serves fixture rows for local development.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-craftadmin/internal/config"
	"github.com/goliatone/go-craftadmin/internal/logging"
)

const appName = "craftadmin"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{prompt: surveyPrompter{}, registry: prometheus.NewRegistry()}
	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries the state shared by every subcommand.
type app struct {
	configPath string
	logLevel   string

	cfg      *config.Config
	logger   *zap.Logger
	prompt   Prompter
	registry *prometheus.Registry
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Recipe admin client tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	cmd.AddCommand(
		newValidateCmd(a),
		newBrowseCmd(a),
		newUpdateCmd(a),
		newCatalogCmd(a),
		newServeRowsCmd(a),
	)
	return cmd
}

func (a *app) init() error {
	if a.cfg == nil {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	if level := strings.TrimSpace(a.logLevel); level != "" {
		a.cfg.Log.Level = level
	}
	if a.logger == nil {
		logger, err := logging.New(a.cfg.Log)
		if err != nil {
			return err
		}
		a.logger = logger
	}
	if a.registry == nil {
		a.registry = prometheus.NewRegistry()
	}
	if a.prompt == nil {
		a.prompt = surveyPrompter{}
	}
	return nil
}
