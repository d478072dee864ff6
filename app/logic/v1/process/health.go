package process

import (
	"context"
	"log/slog"
	"time"

	"github.com/quka-ai/course-console/app/core"
	v1 "github.com/quka-ai/course-console/app/logic/v1"
	"github.com/quka-ai/course-console/pkg/register"
)

func init() {
	register.Add(ProcessKey{}, "backend-probe", func(provider *Process) {
		spec := provider.Core().Cfg().Serve.HealthCheckSpec
		_, err := provider.Cron().AddFunc(spec, func() {
			ProbeBackend(provider.Core())
		})
		if err != nil {
			slog.Error("Failed to register backend probe", slog.String("spec", spec), slog.String("error", err.Error()))
		}
	})
}

// ProbeBackend refreshes the backend health and outline task gauges.
func ProbeBackend(core *core.Core) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	health, err := v1.NewSystemLogic(ctx, core).Health()
	if err != nil {
		slog.Warn("backend health probe failed", slog.String("error", err.Error()))
		return
	}
	slog.Debug("backend health probe", slog.String("status", health.Status), slog.String("version", health.Version))

	if _, err = v1.NewOutlineLogic(ctx, core).Metrics(); err != nil {
		slog.Warn("backend outline metrics probe failed", slog.String("error", err.Error()))
	}
}
