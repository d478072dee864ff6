package backend

import (
	"context"

	"github.com/quka-ai/course-console/pkg/apiclient"
	"github.com/quka-ai/course-console/pkg/types"
)

type OutlineAPI struct {
	cli *apiclient.Client
}

func (a *OutlineAPI) GenerateOutline(ctx context.Context, form *apiclient.Form) (*types.OutlineGenerateResponse, error) {
	var res types.OutlineGenerateResponse
	if err := a.cli.PostForm(ctx, apiV1+"/outline/generate", form, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (a *OutlineAPI) GetTaskStatus(ctx context.Context, taskID string) (types.OutlineTask, error) {
	var res types.OutlineTask
	err := a.cli.Get(ctx, apiV1+"/outline/task/"+seg(taskID), nil, &res)
	return res, err
}

func (a *OutlineAPI) GetTasks(ctx context.Context) (*types.OutlineTaskList, error) {
	var res types.OutlineTaskList
	if err := a.cli.Get(ctx, apiV1+"/outline/tasks", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (a *OutlineAPI) DeleteTask(ctx context.Context, taskID string) error {
	return a.cli.Delete(ctx, apiV1+"/outline/task/"+seg(taskID), nil, nil)
}

func (a *OutlineAPI) GetMetrics(ctx context.Context) (*types.OutlineMetrics, error) {
	var res types.OutlineMetrics
	if err := a.cli.Get(ctx, apiV1+"/outline/metrics", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (a *OutlineAPI) GetOutlineFile(ctx context.Context, courseID, courseMaterialID string) (*types.OutlineFile, error) {
	var res types.OutlineFile
	if err := a.cli.Get(ctx, apiV1+"/outline/file/"+seg(courseID)+"/"+seg(courseMaterialID), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
