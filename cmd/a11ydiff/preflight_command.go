package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"a11ydiff/internal/preflight"
)

var errPreflightFailed = errors.New("preflight checks failed")

func newPreflightCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "preflight",
		Short: "Check that the configured directories are usable for a batch run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			checks := preflight.RunAll(cfg)
			if jsonOut {
				if err := writeJSON(cmd, checks); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				for _, line := range preflightLines(checks, shouldColorize(out)) {
					fmt.Fprintln(out, line)
				}
			}
			if len(preflight.Failed(checks)) > 0 {
				return errPreflightFailed
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output check results as JSON")
	return cmd
}
