package service

import (
	"github.com/spf13/cobra"

	"github.com/quka-ai/course-console/app/logic/v1/process"
)

func NewServeCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "run the local status api and the scheduled backend probes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, done := opts.setup(cmd)
			defer done()

			p := process.NewProcess(app)
			p.Start()
			defer p.Stop()

			return serve(ctx, app)
		},
	}
}
