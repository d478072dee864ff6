package service

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	v1 "github.com/quka-ai/course-console/app/logic/v1"
	"github.com/quka-ai/course-console/pkg/chat"
	"github.com/quka-ai/course-console/pkg/i18n"
	"github.com/quka-ai/course-console/pkg/types"
	"github.com/quka-ai/course-console/pkg/utils"
)

func NewChatCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "conversation with the course assistant",
	}
	cmd.AddCommand(
		newChatSendCommand(opts),
		newChatREPLCommand(opts),
		newChatNewIDCommand(opts),
	)
	return cmd
}

type chatOptions struct {
	chat.Submission
}

func (o *chatOptions) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&o.ConversationID, "conversation-id", "", "conversation id, a new one is generated when empty")
	flagSet.StringVar(&o.ChatEngineType, "engine", types.CHAT_ENGINE_CONDENSE_PLUS_CONTEXT, "chat engine: condense_plus_context or simple")
	flagSet.StringVar(&o.CourseID, "course-id", "", "only use this course, wins over --material-id")
	flagSet.StringVar(&o.CourseMaterialID, "material-id", "", "only use this course material")
	flagSet.StringVar(&o.CollectionName, "collection", "", "rag collection name")
}

func (o *chatOptions) ensureConversation(w io.Writer, logic *v1.ChatLogic) {
	if strings.TrimSpace(o.ConversationID) != "" {
		return
	}
	o.ConversationID = logic.NewConversationID()
	fmt.Fprintln(w, i18n.TWithData(i18n.MESSAGE_CHAT_NEW_CONVERSATION, map[string]interface{}{
		"ConversationID": o.ConversationID,
	}))
}

func newChatSendCommand(opts *Options) *cobra.Command {
	var co chatOptions
	cmd := &cobra.Command{
		Use:   "send <question>",
		Short: "ask one question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, done := opts.setup(cmd)
			defer done()

			logic := v1.NewChatLogic(ctx, app)
			co.ensureConversation(cmd.ErrOrStderr(), logic)
			co.Question = strings.Join(args, " ")

			res, err := logic.Send(co.Submission)
			if err != nil {
				return err
			}
			if opts.JSON {
				return printJSON(cmd.OutOrStdout(), res)
			}
			printChatResponse(cmd.OutOrStdout(), res)
			return nil
		},
	}
	co.AddFlags(cmd.Flags())
	return cmd
}

type chatResult struct {
	res *types.ChatResponse
	err error
}

func newChatREPLCommand(opts *Options) *cobra.Command {
	var co chatOptions
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "interactive conversation, /new starts a new conversation, /exit quits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, done := opts.setup(cmd)
			defer done()

			logic := v1.NewChatLogic(ctx, app)
			co.ensureConversation(cmd.ErrOrStderr(), logic)
			return runREPL(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), logic, &co)
		},
	}
	co.AddFlags(cmd.Flags())
	return cmd
}

// runREPL reads questions while an answer may still be pending; a question
// typed before the previous answer arrives is rejected, not queued.
func runREPL(ctx context.Context, in io.Reader, out, errOut io.Writer, logic *v1.ChatLogic, co *chatOptions) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	var pending bool
	results := make(chan chatResult, 1)
	fmt.Fprint(out, "> ")
	for {
		select {
		case <-ctx.Done():
			return nil
		case r := <-results:
			pending = false
			if r.err != nil {
				fmt.Fprintln(errOut, r.err)
			} else {
				printChatResponse(out, r.res)
			}
			fmt.Fprint(out, "\n> ")
		case line, ok := <-lines:
			if !ok {
				// stdin closed, let the pending answer arrive
				if pending {
					r := <-results
					if r.err != nil {
						return r.err
					}
					printChatResponse(out, r.res)
				}
				return nil
			}

			switch line = strings.TrimSpace(line); line {
			case "":
				fmt.Fprint(out, "> ")
				continue
			case "/exit", "/quit":
				return nil
			case "/new":
				co.ConversationID = ""
				co.ensureConversation(out, logic)
				fmt.Fprint(out, "> ")
				continue
			}

			sub := co.Submission
			sub.Question = line
			if err := logic.SendAsync(sub, func(res *types.ChatResponse, err error) {
				results <- chatResult{res: res, err: err}
			}); err != nil {
				fmt.Fprintln(errOut, err)
				continue
			}
			pending = true
		}
	}
}

func newChatNewIDCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "new-id",
		Short: "print a new conversation id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), utils.NewConversationID())
			return nil
		},
	}
}
