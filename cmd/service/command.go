package service

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/quka-ai/course-console/app/core"
)

type Options struct {
	ConfigPath string
	BaseURL    string
	Lang       string
	JSON       bool
}

func (o *Options) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVarP(&o.ConfigPath, "config", "c", "", "toml config path, environment variables are used when empty")
	flagSet.StringVar(&o.BaseURL, "base-url", "", "override the backend base url")
	flagSet.StringVar(&o.Lang, "lang", "", "message language: en, zh-CN")
	flagSet.BoolVar(&o.JSON, "json", false, "print raw json responses")
}

// setup loads the config and builds the core. The returned context is
// cancelled on SIGINT/SIGTERM.
func (o *Options) setup(cmd *cobra.Command) (context.Context, *core.Core, func()) {
	cfg := core.MustLoadBaseConfig(o.ConfigPath)
	if o.BaseURL != "" {
		cfg.API.BaseURL = o.BaseURL
	}
	if o.Lang != "" {
		cfg.Lang = o.Lang
	}

	app := core.MustSetupCore(cfg)
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	return ctx, app, func() {
		stop()
		app.Close()
	}
}

// NewRootCommand wires every sub command under one binary.
func NewRootCommand() *cobra.Command {
	opts := &Options{}
	root := &cobra.Command{
		Use:           "course-console",
		Short:         "course outline, rag and chat console",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	opts.AddFlags(root.PersistentFlags())

	root.AddCommand(
		NewHealthCommand(opts),
		NewOutlineCommand(opts),
		NewRAGCommand(opts),
		NewMaterialCommand(opts),
		NewChatCommand(opts),
		NewTasksCommand(opts),
		NewServeCommand(opts),
	)
	return root
}
