package backend

import (
	"context"

	"github.com/quka-ai/course-console/pkg/apiclient"
	"github.com/quka-ai/course-console/pkg/types"
)

type SystemAPI struct {
	cli *apiclient.Client
}

func (a *SystemAPI) GetHealth(ctx context.Context) (*types.Health, error) {
	var res types.Health
	if err := a.cli.Get(ctx, "/health", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// GetRoot returns the backend banner, JSON or plain text.
func (a *SystemAPI) GetRoot(ctx context.Context) (string, error) {
	res, err := a.cli.Request(ctx, "GET", "/", nil, nil)
	if err != nil {
		return "", err
	}
	return res.Text(), nil
}
