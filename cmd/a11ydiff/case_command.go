package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"a11ydiff/internal/batch"
	"a11ydiff/internal/config"
	"a11ydiff/internal/dataset"
	"a11ydiff/internal/detect"
	"a11ydiff/internal/report"
	"a11ydiff/internal/results"
)

type caseOutput struct {
	App        string            `json:"app"`
	Name       string            `json:"name"`
	Dir        string            `json:"dir"`
	Flags      detect.Flags      `json:"flags"`
	Similarity float64           `json:"similarity"`
	Skipped    string            `json:"skipped,omitempty"`
	Counts     results.Counts    `json:"counts"`
	Findings   []results.Finding `json:"findings"`
	ReportDir  string            `json:"report_dir,omitempty"`
}

func newCaseCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOut    bool
		textOut    bool
		writeOut   bool
		categories []string
	)

	cmd := &cobra.Command{
		Use:   "case <dir>",
		Short: "Classify a single test case without recording it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			only, err := parseCategories(categories)
			if err != nil {
				return err
			}
			dir, err := config.ExpandPath(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("resolve case path: %w", err)
			}

			logger, closer, err := ctx.newLogger(cmd)
			if err != nil {
				return err
			}
			defer closer.Close()

			c, err := dataset.CaseAt(dir)
			if err != nil {
				return err
			}
			loader, err := dataset.NewLoader(cfg, logger)
			if err != nil {
				return err
			}
			loaded, err := loader.Load(cmd.Context(), c)
			if err != nil {
				return fmt.Errorf("load %s: %w", c.ID(), err)
			}
			result := detect.NewAnalyzer(cfg.DetectPolicy(), logger).Analyze(loaded.Input)
			rc := batch.ReportCase(loaded, result)

			output := caseOutput{
				App:        c.App,
				Name:       c.Name,
				Dir:        c.Dir,
				Flags:      loaded.Input.Flags,
				Similarity: loaded.Similarity,
				Skipped:    result.Skipped,
				Counts:     results.CountsOf(result),
				Findings:   filterFindings(results.FindingsOf(result), only),
			}
			if writeOut {
				writer := report.NewWriter(cfg.Paths.ResultsDir, cfg.Batch.RenderOverlays, logger)
				folder, err := writer.Write(cmd.Context(), rc)
				if err != nil {
					return fmt.Errorf("write report: %w", err)
				}
				output.ReportDir = folder
			}

			switch {
			case jsonOut:
				return writeJSON(cmd, output)
			case textOut:
				return report.WriteText(cmd.OutOrStdout(), rc)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Case: %s\n", c.ID())
			fmt.Fprintf(out, "Window changed: %s\n", yesNo(output.Flags.WindowChanged))
			if output.Similarity >= 0 {
				fmt.Fprintf(out, "Screenshot similarity: %.3f\n", output.Similarity)
			}
			if output.Skipped != "" {
				fmt.Fprintf(out, "Skipped: %s\n", output.Skipped)
				return nil
			}
			if len(output.Findings) == 0 {
				fmt.Fprintln(out, "No problematic dynamic content found")
			} else {
				fmt.Fprint(out, renderTable(findingHeaders, findingRows(output.Findings), findingAligns))
				fmt.Fprintln(out)
			}
			if output.ReportDir != "" {
				fmt.Fprintf(out, "Report: %s\n", output.ReportDir)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output flags and findings as JSON")
	cmd.Flags().BoolVar(&textOut, "text", false, "Output the results.txt report body")
	cmd.Flags().BoolVar(&writeOut, "write", false, "Also write a report folder into the results directory")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "Only show these categories (name or sl, d, a, m, ca)")
	cmd.MarkFlagsMutuallyExclusive("json", "text")
	return cmd
}
