package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"a11ydiff/internal/results"
)

const shortIDLength = 8

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var (
		limit   int
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded batch runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *results.Store) error {
				runs, err := store.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if jsonOut {
					if runs == nil {
						runs = []results.Run{}
					}
					return writeJSON(cmd, runs)
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded")
					return nil
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Run", "Status", "Started", "Duration", "Cases", "Findings", "Skipped", "Failed"},
					runRows(runs),
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list (0 for all)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output runs as JSON")
	return cmd
}

func runRows(runs []results.Run) [][]string {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			shortID(r.ID),
			string(r.Status),
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			runDuration(r),
			strconv.Itoa(r.Totals.Cases),
			strconv.Itoa(r.Totals.Findings),
			strconv.Itoa(r.Totals.Skipped),
			strconv.Itoa(r.Totals.Failed),
		})
	}
	return rows
}

func runDuration(r results.Run) string {
	if r.FinishedAt.IsZero() {
		return "-"
	}
	return r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String()
}

func shortID(id string) string {
	if len(id) <= shortIDLength {
		return id
	}
	return id[:shortIDLength]
}
