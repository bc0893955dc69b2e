package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"a11ydiff/internal/batch"
	"a11ydiff/internal/config"
	"a11ydiff/internal/preflight"
	"a11ydiff/internal/results"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var (
		workers    int
		saveAll    bool
		noOverlays bool
		jsonOut    bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [dataset]",
		Short: "Classify every test case in a dataset and record the run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg := *base
			if len(args) == 1 {
				dir, err := config.ExpandPath(strings.TrimSpace(args[0]))
				if err != nil {
					return fmt.Errorf("resolve dataset path: %w", err)
				}
				cfg.Paths.DatasetDir = dir
			}
			if cmd.Flags().Changed("workers") {
				if workers < 1 {
					return fmt.Errorf("--workers must be positive")
				}
				cfg.Batch.Workers = workers
			}
			if saveAll {
				cfg.Batch.SaveOnlyOnFindings = false
			}
			if noOverlays {
				cfg.Batch.RenderOverlays = false
			}

			checks := preflight.RunAll(&cfg)
			if failed := preflight.Failed(checks); len(failed) > 0 {
				errOut := cmd.ErrOrStderr()
				for _, line := range preflightLines(checks, shouldColorize(errOut)) {
					fmt.Fprintln(errOut, line)
				}
				return fmt.Errorf("preflight failed: %s", failed[0].Name)
			}

			logger, closer, err := ctx.newLogger(cmd)
			if err != nil {
				return err
			}
			defer closer.Close()

			store, err := results.OpenForConfig(&cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			runner, err := batch.NewRunner(&cfg, store, logger)
			if err != nil {
				return err
			}
			summary, runErr := runner.Run(cmd.Context(), cfg.Paths.DatasetDir)
			if summary == nil {
				return runErr
			}
			if jsonOut {
				if err := writeJSON(cmd, summary); err != nil {
					return err
				}
				return runErr
			}

			out := cmd.OutOrStdout()
			if len(summary.Cases) > 0 {
				fmt.Fprint(out, renderTable(caseHeaders, caseRows(summary.Cases), caseAligns))
				fmt.Fprintln(out)
			}
			t := summary.Totals
			fmt.Fprintf(out, "Run %s %s in %s: %d cases, %d with findings, %d findings, %d skipped, %d failed\n",
				summary.RunID, summary.Status, summary.Duration.Round(time.Millisecond), t.Cases, t.WithFindings, t.Findings, t.Skipped, t.Failed)
			return runErr
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Number of cases analyzed concurrently (default from batch.workers)")
	cmd.Flags().BoolVar(&saveAll, "all", false, "Write a report folder for every analyzed case, even without findings")
	cmd.Flags().BoolVar(&noOverlays, "no-overlays", false, "Skip rendering screenshot overlays")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output the run summary as JSON")
	return cmd
}
