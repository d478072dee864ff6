package service

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	v1 "github.com/quka-ai/course-console/app/logic/v1"
	"github.com/quka-ai/course-console/pkg/types"
)

func NewTasksCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "locally recorded tasks",
	}
	cmd.AddCommand(
		newTasksHistoryCommand(opts),
		newTasksSyncCommand(opts),
	)
	return cmd
}

func newTasksHistoryCommand(opts *Options) *cobra.Command {
	var (
		kind  string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "list submitted tasks, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, done := opts.setup(cmd)
			defer done()

			list, err := v1.NewTaskHistoryLogic(ctx, app).List(types.TaskKind(kind), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.JSON {
				return printJSON(out, list)
			}
			for _, r := range list {
				fmt.Fprintf(out, "%-36s  %-16s  %-18s  %-24s  %s\n",
					r.TaskID, r.Kind, r.Status, r.FileName,
					time.Unix(r.CreatedAt, 0).Format(time.DateTime))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "outline or course_material, all when empty")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "max records, 0 for all")
	return cmd
}

func newTasksSyncCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "refresh the status of unfinished records from the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, done := opts.setup(cmd)
			defer done()

			changed, err := v1.NewTaskHistoryLogic(ctx, app).Sync()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d record(s) updated\n", changed)
			return nil
		},
	}
}
