package service

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	v1 "github.com/quka-ai/course-console/app/logic/v1"
)

func NewHealthCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "check that the backend is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, done := opts.setup(cmd)
			defer done()

			logic := v1.NewSystemLogic(ctx, app)
			res, err := logic.Health()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.JSON {
				return printJSON(out, res)
			}
			printKV(out,
				[2]string{"backend", app.Cfg().API.BaseURL},
				[2]string{"status", res.Status},
				[2]string{"version", res.Version},
				[2]string{"uptime", fmt.Sprintf("%.0fs", res.Uptime)},
			)
			if root, err := logic.Root(); err == nil {
				fmt.Fprintln(out, root)
			} else {
				slog.Debug("backend root not available", slog.String("error", err.Error()))
			}
			if !res.Healthy() {
				return fmt.Errorf("backend is %s", res.Status)
			}
			return nil
		},
	}
}
