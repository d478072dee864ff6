package service

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/quka-ai/course-console/app/core"
	v1 "github.com/quka-ai/course-console/app/logic/v1"
	"github.com/quka-ai/course-console/pkg/types"
)

func NewMaterialCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "material",
		Short: "course material pipeline: upload, outline, rag indexing",
	}
	cmd.AddCommand(
		newMaterialProcessCommand(opts),
		newMaterialStatusCommand(opts),
		newMaterialWatchCommand(opts),
		newMaterialCleanupCommand(opts),
		newMaterialCleanupCourseCommand(opts),
		newMaterialHealthCommand(opts),
	)
	return cmd
}

func newMaterialProcessCommand(opts *Options) *cobra.Command {
	var (
		fo    fileOptions
		req   types.CourseProcessRequest
		watch bool
		full  bool
	)
	cmd := &cobra.Command{
		Use:   "process [file]",
		Short: "upload a material and run the whole pipeline",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, done := opts.setup(cmd)
			defer done()

			sel, err := fo.selector(cmd, app, args)
			if err != nil {
				return err
			}
			res, err := v1.NewCourseMaterialLogic(ctx, app).Process(sel, req)
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
					[2]string{"step", res.CurrentStep},
					[2]string{"message", res.Message},
				)
			}
			if !watch {
				return nil
			}
			return watchMaterial(ctx, cmd, app, opts, res.TaskID, full)
		},
	}
	fo.AddFlags(cmd.Flags())
	flags := cmd.Flags()
	flags.StringVar(&req.CourseID, "course-id", "", "course id")
	flags.StringVar(&req.CourseMaterialID, "material-id", "", "course material id, unique within the course")
	flags.StringVar(&req.MaterialName, "material-name", "", "material name")
	flags.StringVar(&req.CustomPrompt, "prompt", "", "custom prompt")
	flags.BoolVar(&req.IncludeRefine, "refine", true, "refine the generated outline")
	flags.StringVar(&req.ModelName, "model", "", "model name")
	flags.BoolVar(&req.EnableRAGIndexing, "rag", true, "index the material after the outline is generated")
	flags.StringVar(&req.RAGCollectionName, "collection", "", "rag collection name")
	flags.BoolVarP(&watch, "watch", "w", false, "poll the task until it finishes")
	flags.BoolVar(&full, "full", false, "print the whole outline instead of a preview")
	return cmd
}

func watchMaterial(ctx context.Context, cmd *cobra.Command, app *core.Core, opts *Options, taskID string, full bool) error {
	errOut := cmd.ErrOrStderr()
	final, err := v1.NewCourseMaterialLogic(ctx, app).Watch(taskID, func(t types.MaterialTaskStatus) {
		fmt.Fprintln(errOut, progressLine(taskID, t))
	})
	if err != nil {
		return err
	}
	return finishTask(cmd, opts, taskID, final, func() {
		printMaterialStatus(cmd.OutOrStdout(), final, full)
	})
}

func newMaterialStatusCommand(opts *Options) *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "status <task_id>",
		Short: "query a material task once",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, done := opts.setup(cmd)
			defer done()

			res, err := v1.NewCourseMaterialLogic(ctx, app).Status(args[0])
			if err != nil {
				return err
			}
			if opts.JSON {
				return printJSON(cmd.OutOrStdout(), res)
			}
			printMaterialStatus(cmd.OutOrStdout(), res, full)
			return nil
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "print the whole outline instead of a preview")
	return cmd
}

func newMaterialWatchCommand(opts *Options) *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "watch <task_id>",
		Short: "poll a material task until it completes or fails",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, done := opts.setup(cmd)
			defer done()
			return watchMaterial(ctx, cmd, app, opts, args[0], full)
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "print the whole outline instead of a preview")
	return cmd
}

type cleanupOptions struct {
	types.CleanupOptions
}

func (o *cleanupOptions) AddFlags(flagSet *pflag.FlagSet) {
	def := types.DefaultCleanupOptions()
	flagSet.BoolVar(&o.CleanupFiles, "files", def.CleanupFiles, "delete uploaded and generated files")
	flagSet.BoolVar(&o.CleanupRAGData, "rag-data", def.CleanupRAGData, "delete rag vectors")
	flagSet.BoolVar(&o.CleanupTaskData, "task-data", def.CleanupTaskData, "delete task records")
	flagSet.BoolVar(&o.ForceCleanup, "force", def.ForceCleanup, "continue when a step fails")
}

func printCleanup(cmd *cobra.Command, opts *Options, res *types.CleanupResponse) error {
	out := cmd.OutOrStdout()
	if opts.JSON {
		return printJSON(out, res)
	}
	printKV(out,
		[2]string{"message", res.Message},
		[2]string{"files_deleted", fmt.Sprint(res.FilesDeleted)},
		[2]string{"directories_cleaned", fmt.Sprint(res.DirectoriesCleaned)},
		[2]string{"rag_vectors_deleted", fmt.Sprint(res.RAGVectorsDeleted)},
		[2]string{"tasks_cleaned", fmt.Sprint(res.TasksCleaned)},
	)
	for _, op := range res.Operations {
		mark := "ok"
		if !op.Success {
			mark = "failed"
		}
		fmt.Fprintf(out, "  - %-16s %-6s %s\n", op.OperationType, mark, op.Message)
	}
	return nil
}

func newMaterialCleanupCommand(opts *Options) *cobra.Command {
	var co cleanupOptions
	cmd := &cobra.Command{
		Use:   "cleanup <course_id> <course_material_id>",
		Short: "delete every artifact of one material",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, done := opts.setup(cmd)
			defer done()

			res, err := v1.NewCourseMaterialLogic(ctx, app).CleanupMaterial(args[0], args[1], co.CleanupOptions)
			if err != nil {
				return err
			}
			return printCleanup(cmd, opts, res)
		},
	}
	co.AddFlags(cmd.Flags())
	return cmd
}

func newMaterialCleanupCourseCommand(opts *Options) *cobra.Command {
	var co cleanupOptions
	cmd := &cobra.Command{
		Use:   "cleanup-course <course_id>",
		Short: "delete every material of a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, done := opts.setup(cmd)
			defer done()

			res, err := v1.NewCourseMaterialLogic(ctx, app).CleanupCourse(args[0], co.CleanupOptions)
			if err != nil {
				return err
			}
			return printCleanup(cmd, opts, res)
		},
	}
	co.AddFlags(cmd.Flags())
	return cmd
}

func newMaterialHealthCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "check the course material service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, done := opts.setup(cmd)
			defer done()

			res, err := v1.NewCourseMaterialLogic(ctx, app).Health()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}
