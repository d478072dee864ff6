package v1

import (
	"context"

	"github.com/quka-ai/course-console/app/core"
	"github.com/quka-ai/course-console/pkg/errors"
	"github.com/quka-ai/course-console/pkg/types"
)

type SystemLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewSystemLogic(ctx context.Context, core *core.Core) *SystemLogic {
	return &SystemLogic{ctx: ctx, core: core}
}

// Health checks the backend and records the result in the backend_up gauge.
func (l *SystemLogic) Health() (*types.Health, error) {
	res, err := l.core.Backend().System.GetHealth(l.ctx)
	if err != nil {
		l.core.Metrics().SetBackendUp(false)
		return nil, errors.Trace("SystemLogic.Health", err)
	}
	l.core.Metrics().SetBackendUp(res.Healthy())
	return res, nil
}

func (l *SystemLogic) Root() (string, error) {
	res, err := l.core.Backend().System.GetRoot(l.ctx)
	if err != nil {
		return "", errors.Trace("SystemLogic.Root", err)
	}
	return res, nil
}
