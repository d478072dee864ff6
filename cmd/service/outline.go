package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quka-ai/course-console/app/core"
	v1 "github.com/quka-ai/course-console/app/logic/v1"
	"github.com/quka-ai/course-console/pkg/i18n"
	"github.com/quka-ai/course-console/pkg/types"
)

func NewOutlineCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outline",
		Short: "outline generation tasks",
	}
	cmd.AddCommand(
		newOutlineGenerateCommand(opts),
		newOutlineStatusCommand(opts),
		newOutlineWatchCommand(opts),
		newOutlineListCommand(opts),
		newOutlineDeleteCommand(opts),
		newOutlineMetricsCommand(opts),
		newOutlineFileCommand(opts),
	)
	return cmd
}

type outlineGenerateOptions struct {
	fileOptions
	req   types.OutlineGenerateRequest
	watch bool
	full  bool
}

func newOutlineGenerateCommand(opts *Options) *cobra.Command {
	o := &outlineGenerateOptions{}
	cmd := &cobra.Command{
		Use:   "generate [file]",
		Short: "upload a markdown or text file and start an outline task",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, done := opts.setup(cmd)
			defer done()

			sel, err := o.selector(cmd, app, args)
			if err != nil {
				return err
			}
			res, err := v1.NewOutlineLogic(ctx, app).Generate(sel, o.req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.JSON {
				printJSON(out, res)
			} else {
				printKV(out,
					[2]string{"task_id", res.TaskID},
					[2]string{"status", res.Status.String()},
					[2]string{"message", res.Message},
				)
			}
			if !o.watch {
				return nil
			}
			return watchOutline(ctx, cmd, app, opts, res.TaskID, o.full)
		},
	}
	o.AddFlags(cmd.Flags())
	flags := cmd.Flags()
	flags.StringVar(&o.req.CourseID, "course-id", "", "course id")
	flags.StringVar(&o.req.CourseMaterialID, "material-id", "", "course material id, unique within the course")
	flags.StringVar(&o.req.MaterialName, "material-name", "", "material name")
	flags.StringVar(&o.req.CustomPrompt, "prompt", "", "custom prompt")
	flags.BoolVar(&o.req.IncludeRefine, "refine", true, "refine the generated outline")
	flags.StringVar(&o.req.ModelName, "model", "", "model name")
	flags.BoolVarP(&o.watch, "watch", "w", false, "poll the task until it finishes")
	flags.BoolVar(&o.full, "full", false, "print the whole outline instead of a preview")
	return cmd
}

func watchOutline(ctx context.Context, cmd *cobra.Command, app *core.Core, opts *Options, taskID string, full bool) error {
	errOut := cmd.ErrOrStderr()
	final, err := v1.NewOutlineLogic(ctx, app).Watch(taskID, func(t types.OutlineTask) {
		fmt.Fprintln(errOut, progressLine(taskID, t))
	})
	if err != nil {
		return err
	}
	return finishTask(cmd, opts, taskID, final, func() {
		printOutlineTask(cmd.OutOrStdout(), final, full)
	})
}

// finishTask prints the final payload and turns a failed task into an error.
func finishTask(cmd *cobra.Command, opts *Options, taskID string, final types.StatusGetter, print func()) error {
	out := cmd.OutOrStdout()
	if opts.JSON {
		printJSON(out, final)
	} else {
		print()
	}
	if final.GetStatus() == types.TASK_STATUS_FAILED {
		return errors.New(v1.TaskFailure(taskID, final))
	}
	fmt.Fprintln(cmd.ErrOrStderr(), i18n.TWithData(i18n.MESSAGE_TASK_COMPLETED, map[string]interface{}{"TaskID": taskID}))
	return nil
}

func newOutlineStatusCommand(opts *Options) *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "status <task_id>",
		Short: "query an outline task once",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, done := opts.setup(cmd)
			defer done()

			res, err := v1.NewOutlineLogic(ctx, app).Status(args[0])
			if err != nil {
				return err
			}
			if opts.JSON {
				return printJSON(cmd.OutOrStdout(), res)
			}
			printOutlineTask(cmd.OutOrStdout(), res, full)
			return nil
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "print the whole outline instead of a preview")
	return cmd
}

func newOutlineWatchCommand(opts *Options) *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "watch <task_id>",
		Short: "poll an outline task until it completes or fails",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, done := opts.setup(cmd)
			defer done()
			return watchOutline(ctx, cmd, app, opts, args[0], full)
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "print the whole outline instead of a preview")
	return cmd
}

func newOutlineListCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list outline tasks known to the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, done := opts.setup(cmd)
			defer done()

			list, err := v1.NewOutlineLogic(ctx, app).List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.JSON {
				return printJSON(out, list)
			}
			for _, t := range list {
				fmt.Fprintf(out, "%-36s  %-12s  %s/%s  %s\n", t.TaskID, t.Status, t.CourseID, t.CourseMaterialID, t.CreatedAt)
			}
			return nil
		},
	}
}

func newOutlineDeleteCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task_id>",
		Short: "delete an outline task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, done := opts.setup(cmd)
			defer done()
			return v1.NewOutlineLogic(ctx, app).Delete(args[0])
		},
	}
}

func newOutlineMetricsCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "show outline service metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, done := opts.setup(cmd)
			defer done()

			res, err := v1.NewOutlineLogic(ctx, app).Metrics()
			if err != nil {
				return err
			}
			if opts.JSON {
				return printJSON(cmd.OutOrStdout(), res)
			}
			printKV(cmd.OutOrStdout(),
				[2]string{"active_tasks", fmt.Sprint(res.ActiveTasks)},
				[2]string{"total_tasks", fmt.Sprint(res.TotalTasks)},
			)
			return nil
		},
	}
}

func newOutlineFileCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "file <course_id> <course_material_id>",
		Short: "print a generated outline file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, done := opts.setup(cmd)
			defer done()

			res, err := v1.NewOutlineLogic(ctx, app).File(args[0], args[1])
			if err != nil {
				return err
			}
			if opts.JSON {
				return printJSON(cmd.OutOrStdout(), res)
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.FileContent)
			return nil
		},
	}
}
