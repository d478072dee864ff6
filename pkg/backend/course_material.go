package backend

import (
	"context"

	"github.com/quka-ai/course-console/pkg/apiclient"
	"github.com/quka-ai/course-console/pkg/types"
)

type CourseMaterialAPI struct {
	cli *apiclient.Client
}

func (a *CourseMaterialAPI) Process(ctx context.Context, form *apiclient.Form) (*types.CourseProcessResponse, error) {
	var res types.CourseProcessResponse
	if err := a.cli.PostForm(ctx, apiV1+"/course-materials/process", form, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (a *CourseMaterialAPI) GetTaskStatus(ctx context.Context, taskID string) (types.MaterialTaskStatus, error) {
	var res types.MaterialTaskStatus
	err := a.cli.Get(ctx, apiV1+"/course-materials/tasks/"+seg(taskID)+"/status", nil, &res)
	return res, err
}

func (a *CourseMaterialAPI) CleanupMaterial(ctx context.Context, courseID, courseMaterialID string, opts types.CleanupOptions) (*types.CleanupResponse, error) {
	var res types.CleanupResponse
	if err := a.cli.Delete(ctx, apiV1+"/course-materials/"+seg(courseID)+"/"+seg(courseMaterialID), opts.Values(), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (a *CourseMaterialAPI) CleanupCourse(ctx context.Context, courseID string, opts types.CleanupOptions) (*types.CleanupResponse, error) {
	var res types.CleanupResponse
	if err := a.cli.Delete(ctx, apiV1+"/course-materials/course/"+seg(courseID), opts.Values(), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (a *CourseMaterialAPI) GetHealth(ctx context.Context) (*types.Health, error) {
	var res types.Health
	if err := a.cli.Get(ctx, apiV1+"/course-materials/health", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
