package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-craftadmin/internal/transport"
	"github.com/goliatone/go-craftadmin/pkg/pipeline"
)

func newUpdateCmd(a *app) *cobra.Command {
	var (
		from      string
		noPrompt  bool
		listSteps bool
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Run the scraper update sequence",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if listSteps {
				for _, step := range pipeline.DefaultSteps() {
					fmt.Fprintf(out, "%-16s %s\n", step.ID, step.RelativeLink)
				}
				return nil
			}

			client, err := pipeline.NewHTTPClient(a.cfg.Scraper.BaseURL,
				transport.WithTimeout(a.cfg.Scraper.Timeout),
				transport.WithLogger(a.logger),
			)
			if err != nil {
				return err
			}
			runner, err := pipeline.New(client,
				pipeline.WithLogger(a.logger),
				pipeline.WithMetrics(pipeline.NewMetrics(a.registry)),
			)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			report := runner.Run(ctx, from, from == "")
			for {
				printReport(out, report)
				if report.Succeeded() {
					return nil
				}
				if report.FailedStep == "" || noPrompt {
					return reportErr(report)
				}
				restart, err := a.prompt.Confirm(ctx, ConfirmConfig{
					Message: fmt.Sprintf("%s from %q?", pipeline.LabelRestartRun, report.FailedStep),
					Default: true,
				})
				if errors.Is(err, errAborted) || (err == nil && !restart) {
					return reportErr(report)
				}
				if err != nil {
					return err
				}
				report = runner.Restart(ctx, report.FailedStep)
			}
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Resume at this step id instead of starting over")
	cmd.Flags().BoolVar(&noPrompt, "no-prompt", false, "Exit on failure instead of offering a restart")
	cmd.Flags().BoolVar(&listSteps, "list", false, "List the step ids and exit")
	return cmd
}

func printReport(w io.Writer, report pipeline.Report) {
	for _, step := range report.Steps {
		if step.Outcome == pipeline.OutcomeSucceeded {
			fmt.Fprintf(w, "  ok   %s\n", step.Message)
			continue
		}
		fmt.Fprintf(w, "  FAIL %s: %v\n", step.Message, step.Err)
	}
}

func reportErr(report pipeline.Report) error {
	if report.Err != nil {
		return report.Err
	}
	for _, step := range report.Steps {
		if step.Err != nil {
			return step.Err
		}
	}
	return errors.New("update halted")
}
