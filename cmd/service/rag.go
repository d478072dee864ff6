package service

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	v1 "github.com/quka-ai/course-console/app/logic/v1"
	"github.com/quka-ai/course-console/pkg/types"
)

func NewRAGCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rag",
		Short: "vector index and retrieval",
	}
	cmd.AddCommand(
		newRAGIndexCommand(opts),
		newRAGQueryCommand(opts),
		newRAGCollectionsCommand(opts),
		newRAGCollectionInfoCommand(opts),
		newRAGDeleteCollectionCommand(opts),
	)
	return cmd
}

func newRAGIndexCommand(opts *Options) *cobra.Command {
	var (
		fo  fileOptions
		req types.IndexRequest
	)
	cmd := &cobra.Command{
		Use:   "index [file]",
		Short: "index a markdown file into a collection",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, done := opts.setup(cmd)
			defer done()

			sel, err := fo.selector(cmd, app, args)
			if err != nil {
				return err
			}
			res, err := v1.NewRAGLogic(ctx, app).Index(sel, req)
			if err != nil {
				return err
			}
			if opts.JSON {
				return printJSON(cmd.OutOrStdout(), res)
			}
			printKV(cmd.OutOrStdout(),
				[2]string{"message", res.Message},
				[2]string{"collection", res.CollectionName},
				[2]string{"documents", fmt.Sprint(res.DocumentCount)},
				[2]string{"chunks", fmt.Sprint(res.ChunkCount)},
				[2]string{"processing_time", fmt.Sprintf("%.2fs", res.ProcessingTime)},
			)
			return nil
		},
	}
	fo.AddFlags(cmd.Flags())
	flags := cmd.Flags()
	flags.StringVar(&req.CourseID, "course-id", "", "course id")
	flags.StringVar(&req.CourseMaterialID, "material-id", "", "course material id")
	flags.StringVar(&req.CourseMaterialName, "material-name", "", "course material name")
	flags.StringVar(&req.CollectionName, "collection", "", "collection name, backend default when empty")
	return cmd
}

func newRAGQueryCommand(opts *Options) *cobra.Command {
	var (
		req  types.QueryRequest
		mode string
	)
	cmd := &cobra.Command{
		Use:   "query <question>",
		Short: "ask the index without a conversation",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, done := opts.setup(cmd)
			defer done()

			req.Question = strings.Join(args, " ")
			req.Mode = types.ChatMode(mode)
			res, err := v1.NewRAGLogic(ctx, app).Query(req)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.JSON {
				return printJSON(out, res)
			}
			fmt.Fprintln(out, res.Answer)
			fmt.Fprintln(out)
			printSources(out, res.Sources)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&req.CourseID, "course-id", "", "only search this course")
	flags.StringVar(&req.CollectionName, "collection", "", "collection name")
	flags.StringVar(&mode, "mode", string(types.CHAT_MODE_QUERY), "query or chat")
	flags.IntVar(&req.TopK, "top-k", 0, "number of chunks to retrieve, backend default when 0")
	return cmd
}

func newRAGCollectionsCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "collections",
		Short: "list vector collections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, done := opts.setup(cmd)
			defer done()

			res, err := v1.NewRAGLogic(ctx, app).Collections()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.JSON {
				return printJSON(out, res)
			}
			for _, c := range res.Collections {
				fmt.Fprintf(out, "%-32s  %d\n", c.Name, c.VectorsCount)
			}
			return nil
		},
	}
}

func newRAGCollectionInfoCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "collection-info <name>",
		Short: "show one collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, done := opts.setup(cmd)
			defer done()

			res, err := v1.NewRAGLogic(ctx, app).CollectionInfo(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}

func newRAGDeleteCollectionCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-collection <name>",
		Short: "delete a vector collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, done := opts.setup(cmd)
			defer done()

			res, err := v1.NewRAGLogic(ctx, app).DeleteCollection(args[0])
			if err != nil {
				return err
			}
			if opts.JSON {
				return printJSON(cmd.OutOrStdout(), res)
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}
}
