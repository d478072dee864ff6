package v1

import (
	"context"

	"github.com/quka-ai/course-console/app/core"
	"github.com/quka-ai/course-console/pkg/errors"
	"github.com/quka-ai/course-console/pkg/types"
	"github.com/quka-ai/course-console/pkg/upload"
)

type CourseMaterialLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewCourseMaterialLogic(ctx context.Context, core *core.Core) *CourseMaterialLogic {
	return &CourseMaterialLogic{ctx: ctx, core: core}
}

// Process starts the upload -> outline -> rag pipeline for the selected file.
func (l *CourseMaterialLogic) Process(sel *upload.Selector, req types.CourseProcessRequest) (*types.CourseProcessResponse, error) {
	if err := fieldError(req.Validate()); err != nil {
		return nil, errors.Trace("CourseMaterialLogic.Process.Validate", err)
	}

	f, form, err := selectedForm("CourseMaterialLogic.Process.SelectedFile", sel, req.FormFields())
	if err != nil {
		return nil, err
	}

	res, err := l.core.Backend().CourseMaterials.Process(l.ctx, form)
	if err != nil {
		return nil, errors.Trace("CourseMaterialLogic.Process", err)
	}

	saveRecord(l.ctx, l.core, types.TaskRecord{
		TaskID:           res.TaskID,
		Kind:             types.TASK_KIND_COURSE_MATERIAL,
		CourseID:         req.CourseID,
		CourseMaterialID: req.CourseMaterialID,
		FileName:         f.Name,
		Status:           res.Status,
		Message:          res.Message,
	})
	return res, nil
}

func (l *CourseMaterialLogic) Status(taskID string) (types.MaterialTaskStatus, error) {
	res, err := l.core.Backend().CourseMaterials.GetTaskStatus(l.ctx, taskID)
	if err != nil {
		return res, errors.Trace("CourseMaterialLogic.Status", err)
	}
	return res, nil
}

func (l *CourseMaterialLogic) Watch(taskID string, onUpdate func(types.MaterialTaskStatus)) (types.MaterialTaskStatus, error) {
	return watchTask(l.ctx, l.core, types.TASK_KIND_COURSE_MATERIAL, taskID, l.core.Backend().CourseMaterials.GetTaskStatus, onUpdate)
}

func (l *CourseMaterialLogic) CleanupMaterial(courseID, courseMaterialID string, opts types.CleanupOptions) (*types.CleanupResponse, error) {
	if err := fieldError(required("course_id", courseID, "course_material_id", courseMaterialID)); err != nil {
		return nil, errors.Trace("CourseMaterialLogic.CleanupMaterial", err)
	}
	res, err := l.core.Backend().CourseMaterials.CleanupMaterial(l.ctx, courseID, courseMaterialID, opts)
	if err != nil {
		return nil, errors.Trace("CourseMaterialLogic.CleanupMaterial", err)
	}
	return res, nil
}

func (l *CourseMaterialLogic) CleanupCourse(courseID string, opts types.CleanupOptions) (*types.CleanupResponse, error) {
	if err := fieldError(required("course_id", courseID)); err != nil {
		return nil, errors.Trace("CourseMaterialLogic.CleanupCourse", err)
	}
	res, err := l.core.Backend().CourseMaterials.CleanupCourse(l.ctx, courseID, opts)
	if err != nil {
		return nil, errors.Trace("CourseMaterialLogic.CleanupCourse", err)
	}
	return res, nil
}

func (l *CourseMaterialLogic) Health() (*types.Health, error) {
	res, err := l.core.Backend().CourseMaterials.GetHealth(l.ctx)
	if err != nil {
		return nil, errors.Trace("CourseMaterialLogic.Health", err)
	}
	return res, nil
}
