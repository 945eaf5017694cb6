package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediascribe/internal/preflight"
	"mediascribe/internal/services"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check external tools, models and directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			run, err := flags.resolve(cmd, cfg)
			if err != nil {
				return err
			}

			results := preflight.RunAll(cmd.Context(), cfg, run)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Backend: %s  Model: %s\n", run.Backend, run.ModelSize)
			fmt.Fprintln(out, renderChecks(results, shouldColorize(out)))

			if failed := preflight.Failed(results); len(failed) > 0 {
				return services.Wrap(services.ErrExternalTool, "doctor", "",
					fmt.Sprintf("%d required check(s) failed", len(failed)), nil)
			}
			fmt.Fprintln(out, "All required checks passed")
			return nil
		},
	}
	flags.register(cmd, false)
	return cmd
}
