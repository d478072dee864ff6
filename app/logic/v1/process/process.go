package process

import (
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/quka-ai/course-console/app/core"
	"github.com/quka-ai/course-console/pkg/register"
)

// Process 后台定时任务，仅在 serve 模式下运行
type Process struct {
	cron *cron.Cron
	core *core.Core
}

type ProcessKey struct{}

func NewProcess(core *core.Core) *Process {
	p := &Process{
		cron: cron.New(),
		core: core,
	}

	for _, h := range register.Resolve[*Process](ProcessKey{}) {
		h.Setup(p)
		slog.Debug("process job registered", slog.String("job", h.Name))
	}

	return p
}

func (p *Process) Cron() *cron.Cron {
	return p.cron
}

func (p *Process) Core() *core.Core {
	return p.core
}

func (p *Process) Start() {
	p.cron.Start()
}

func (p *Process) Stop() {
	if p.cron != nil {
		ctx := p.cron.Stop()
		<-ctx.Done()
	}
}
