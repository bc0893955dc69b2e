package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"a11ydiff/internal/results"
)

type runDetail struct {
	Run   *results.Run   `json:"run"`
	Cases []results.Case `json:"cases"`
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOut      bool
		withFindings bool
		onlyFindings bool
		categories   []string
	)

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the cases and findings of a recorded run",
		Long:  "Show the cases and findings of a recorded run. The run may be named by any unique prefix of its id.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			only, err := parseCategories(categories)
			if err != nil {
				return err
			}
			if len(only) > 0 {
				withFindings = true
			}
			return ctx.withStore(func(store *results.Store) error {
				run, err := store.GetRun(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				cases, err := store.ListCases(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				kept := cases[:0]
				for _, c := range cases {
					if withFindings {
						findings, err := store.Findings(cmd.Context(), c.ID, only...)
						if err != nil {
							return err
						}
						c.Findings = findings
					}
					if onlyFindings && c.Counts.Total() == 0 {
						continue
					}
					if len(only) > 0 && len(c.Findings) == 0 {
						continue
					}
					kept = append(kept, c)
				}
				cases = kept

				if jsonOut {
					if cases == nil {
						cases = []results.Case{}
					}
					return writeJSON(cmd, runDetail{Run: run, Cases: cases})
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, line := range renderSectionHeader("Run "+run.ID, colorize) {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintln(out, renderStatusLine("Dataset", statusInfo, run.DatasetDir, colorize))
				fmt.Fprintln(out, renderStatusLine("Status", runStatusKind(run.Status), string(run.Status), colorize))
				fmt.Fprintln(out, renderStatusLine("Started", statusInfo, run.StartedAt.Local().Format("2006-01-02 15:04:05"), colorize))
				fmt.Fprintln(out, renderStatusLine("Duration", statusInfo, runDuration(*run), colorize))
				t := run.Totals
				fmt.Fprintln(out, renderStatusLine("Cases", statusInfo,
					fmt.Sprintf("%d total, %d with findings, %d skipped, %d failed", t.Cases, t.WithFindings, t.Skipped, t.Failed), colorize))
				if run.Error != "" {
					fmt.Fprintln(out, renderStatusLine("Error", statusError, run.Error, colorize))
				}
				fmt.Fprintln(out)

				if len(cases) == 0 {
					fmt.Fprintln(out, "No matching cases")
					return nil
				}
				fmt.Fprintln(out, renderTable(caseHeaders, caseRows(cases), caseAligns))
				if !withFindings {
					return nil
				}
				for _, c := range cases {
					if len(c.Findings) == 0 {
						continue
					}
					fmt.Fprintln(out)
					for _, line := range renderSectionHeader(c.App+"/"+c.Name, colorize) {
						fmt.Fprintln(out, line)
					}
					fmt.Fprintln(out, renderTable(findingHeaders, findingRows(c.Findings), findingAligns))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output the run and its cases as JSON")
	cmd.Flags().BoolVarP(&withFindings, "findings", "f", false, "Include the findings of every case")
	cmd.Flags().BoolVar(&onlyFindings, "only-findings", false, "Hide cases without findings")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "Only include these categories (name or sl, d, a, m, ca)")
	return cmd
}

func runStatusKind(status results.RunStatus) statusKind {
	switch status {
	case results.RunCompleted:
		return statusOK
	case results.RunCanceled, results.RunRunning:
		return statusWarn
	case results.RunFailed:
		return statusError
	default:
		return statusInfo
	}
}
