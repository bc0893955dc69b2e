package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"a11ydiff/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var (
		lines  int
		follow bool
		raw    bool
		filter logs.Filter
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the persistent log, optionally narrowed to a run or test case",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			path := cfg.LogFilePath()

			// Filtering happens after the read, so a filtered view starts from
			// the beginning of the file.
			opts := logs.TailOptions{Offset: -1, Limit: lines}
			if filter.Active() || lines <= 0 {
				opts = logs.TailOptions{Offset: 0}
			}
			chunk, err := logs.Tail(cmd.Context(), path, opts)
			if err != nil {
				return err
			}
			printed := filter.Apply(chunk.Lines)
			if filter.Active() && lines > 0 && len(printed) > lines {
				printed = printed[len(printed)-lines:]
			}
			printLogLines(out, printed, raw)
			if !follow {
				return nil
			}

			offset := chunk.Offset
			for {
				chunk, err := logs.Tail(cmd.Context(), path, logs.TailOptions{Offset: offset, Follow: true, Wait: time.Second})
				if err != nil {
					if errors.Is(err, context.Canceled) {
						return nil
					}
					return err
				}
				printLogLines(out, filter.Apply(chunk.Lines), raw)
				offset = chunk.Offset
			}
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of lines to show (0 for all)")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new log lines until interrupted")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print JSON lines unchanged")
	cmd.Flags().StringVar(&filter.RunID, "run", "", "Only show lines of this run (id or prefix)")
	cmd.Flags().StringVar(&filter.Case, "case", "", "Only show lines of this test case (<app>/<test> or <test>)")
	cmd.Flags().StringVar(&filter.MinLevel, "level", "", "Minimum level to show (debug, info, warn, error)")
	return cmd
}

func printLogLines(out io.Writer, lines []string, raw bool) {
	for _, line := range lines {
		if raw {
			fmt.Fprintln(out, line)
			continue
		}
		fmt.Fprintln(out, formatLogLine(line))
	}
}

// formatLogLine condenses a JSON log line to "ts LEVEL [app/case] msg".
func formatLogLine(line string) string {
	e, ok := logs.Parse(line)
	if !ok {
		return line
	}
	var b strings.Builder
	b.WriteString(e.Time)
	b.WriteByte(' ')
	fmt.Fprintf(&b, "%-5s", strings.ToUpper(e.Level))
	if e.Case != "" {
		fmt.Fprintf(&b, " [%s/%s]", e.App, e.Case)
	} else if e.RunID != "" {
		fmt.Fprintf(&b, " [run %s]", shortID(e.RunID))
	}
	b.WriteByte(' ')
	b.WriteString(e.Message)
	return b.String()
}
