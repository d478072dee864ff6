package process

import (
	"context"
	"log/slog"
	"time"

	v1 "github.com/quka-ai/course-console/app/logic/v1"
	"github.com/quka-ai/course-console/pkg/register"
)

const recordSyncSpec = "@every 1m"

func init() {
	register.Add(ProcessKey{}, "record-sync", func(provider *Process) {
		provider.Cron().AddFunc(recordSyncSpec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if _, err := v1.NewTaskHistoryLogic(ctx, provider.Core()).Sync(); err != nil {
				slog.Error("Failed to sync task records", slog.String("error", err.Error()))
			}
		})
	})
}
