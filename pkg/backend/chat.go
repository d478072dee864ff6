package backend

import (
	"context"

	"github.com/quka-ai/course-console/pkg/apiclient"
	"github.com/quka-ai/course-console/pkg/types"
)

type ChatAPI struct {
	cli *apiclient.Client
}

func (a *ChatAPI) Chat(ctx context.Context, req types.ChatRequest) (*types.ChatResponse, error) {
	var res types.ChatResponse
	if err := a.cli.Post(ctx, apiV1+"/conversation/chat", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
