package service

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/quka-ai/course-console/app/core"
	"github.com/quka-ai/course-console/pkg/upload"
)

type fileOptions struct {
	Path string
}

func (o *fileOptions) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVarP(&o.Path, "file", "f", "", "file to upload, used when no file is dropped as argument")
}

// selector treats --file as the native input and positional paths as files
// dropped onto the drop zone; only the first dropped file is taken.
func (o *fileOptions) selector(cmd *cobra.Command, app *core.Core, dropped []string) (*upload.Selector, error) {
	var input upload.Source
	if o.Path != "" {
		files, err := upload.FromPaths(o.Path)
		if err != nil {
			return nil, err
		}
		input = upload.StaticSource(files)
	}

	errOut := cmd.ErrOrStderr()
	sel := app.NewSelector(input, func(f upload.File) {
		slog.Debug("file selected", slog.String("name", f.Name), slog.Int64("size", f.Size))
	}, func(msg string) {
		fmt.Fprintln(errOut, msg)
	})

	if len(dropped) > 0 {
		files, err := upload.FromPaths(dropped...)
		if err != nil {
			return nil, err
		}
		zone := upload.NewDropZone(sel)
		zone.DragEnter()
		zone.Drop(files)
	}
	return sel, nil
}
