package v1

import (
	"context"

	"github.com/quka-ai/course-console/app/core"
	"github.com/quka-ai/course-console/pkg/errors"
	"github.com/quka-ai/course-console/pkg/types"
	"github.com/quka-ai/course-console/pkg/upload"
)

type OutlineLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewOutlineLogic(ctx context.Context, core *core.Core) *OutlineLogic {
	return &OutlineLogic{ctx: ctx, core: core}
}

// Generate uploads the selected file and starts an outline task.
func (l *OutlineLogic) Generate(sel *upload.Selector, req types.OutlineGenerateRequest) (*types.OutlineGenerateResponse, error) {
	if err := fieldError(req.Validate()); err != nil {
		return nil, errors.Trace("OutlineLogic.Generate.Validate", err)
	}

	f, form, err := selectedForm("OutlineLogic.Generate.SelectedFile", sel, req.FormFields())
	if err != nil {
		return nil, err
	}

	res, err := l.core.Backend().Outline.GenerateOutline(l.ctx, form)
	if err != nil {
		return nil, errors.Trace("OutlineLogic.Generate.GenerateOutline", err)
	}

	saveRecord(l.ctx, l.core, types.TaskRecord{
		TaskID:           res.TaskID,
		Kind:             types.TASK_KIND_OUTLINE,
		CourseID:         req.CourseID,
		CourseMaterialID: req.CourseMaterialID,
		FileName:         f.Name,
		Status:           res.Status,
		Message:          res.Message,
	})
	return res, nil
}

func (l *OutlineLogic) Status(taskID string) (types.OutlineTask, error) {
	res, err := l.core.Backend().Outline.GetTaskStatus(l.ctx, taskID)
	if err != nil {
		return res, errors.Trace("OutlineLogic.Status", err)
	}
	return res, nil
}

// Watch polls the task until it completes or fails.
func (l *OutlineLogic) Watch(taskID string, onUpdate func(types.OutlineTask)) (types.OutlineTask, error) {
	return watchTask(l.ctx, l.core, types.TASK_KIND_OUTLINE, taskID, l.core.Backend().Outline.GetTaskStatus, onUpdate)
}

func (l *OutlineLogic) List() ([]types.OutlineTask, error) {
	res, err := l.core.Backend().Outline.GetTasks(l.ctx)
	if err != nil {
		return nil, errors.Trace("OutlineLogic.List", err)
	}
	return res.Tasks, nil
}

// Delete removes the backend task and its local record.
func (l *OutlineLogic) Delete(taskID string) error {
	if err := l.core.Backend().Outline.DeleteTask(l.ctx, taskID); err != nil {
		return errors.Trace("OutlineLogic.Delete", err)
	}
	l.core.Tracker().Stop(taskID)
	l.core.Tracker().Forget(taskID)
	if err := l.core.Store().DeleteRecord(l.ctx, taskID); err != nil {
		return errors.New("OutlineLogic.Delete.DeleteRecord", err.Error(), err)
	}
	return nil
}

func (l *OutlineLogic) Metrics() (*types.OutlineMetrics, error) {
	res, err := l.core.Backend().Outline.GetMetrics(l.ctx)
	if err != nil {
		return nil, errors.Trace("OutlineLogic.Metrics", err)
	}
	l.core.Metrics().SetOutlineTasks(res.ActiveTasks, res.TotalTasks)
	return res, nil
}

func (l *OutlineLogic) File(courseID, courseMaterialID string) (*types.OutlineFile, error) {
	if err := fieldError(required("course_id", courseID, "course_material_id", courseMaterialID)); err != nil {
		return nil, errors.Trace("OutlineLogic.File", err)
	}
	res, err := l.core.Backend().Outline.GetOutlineFile(l.ctx, courseID, courseMaterialID)
	if err != nil {
		return nil, errors.Trace("OutlineLogic.File", err)
	}
	return res, nil
}
