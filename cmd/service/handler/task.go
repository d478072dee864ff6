package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/quka-ai/course-console/app/logic/v1"
	"github.com/quka-ai/course-console/app/response"
	"github.com/quka-ai/course-console/pkg/errors"
	"github.com/quka-ai/course-console/pkg/i18n"
	"github.com/quka-ai/course-console/pkg/safe"
	"github.com/quka-ai/course-console/pkg/types"
	"github.com/quka-ai/course-console/pkg/utils"
)

type HealthResponse struct {
	Status         string `json:"status"`
	ActiveSessions int    `json:"active_sessions"`
	Backend        string `json:"backend"`
}

func (s *HttpSrv) Health(c *gin.Context) {
	response.APISuccess(c, HealthResponse{
		Status:         "healthy",
		ActiveSessions: s.Core.Tracker().Active(),
		Backend:        s.Core.Cfg().API.BaseURL,
	})
}

func notFound(trace string) error {
	return errors.New(trace, i18n.ERROR_NOT_FOUND, nil).Code(http.StatusNotFound)
}

func (s *HttpSrv) ListSessions(c *gin.Context) {
	response.APISuccess(c, response.NewList(v1.NewTaskHistoryLogic(c, s.Core).Sessions()))
}

func (s *HttpSrv) GetSession(c *gin.Context) {
	sess, ok := s.Core.Tracker().Session(c.Param("taskid"))
	if !ok {
		response.APIError(c, notFound("HttpSrv.GetSession"))
		return
	}
	response.APISuccess(c, sess)
}

func (s *HttpSrv) StopSession(c *gin.Context) {
	taskID := c.Param("taskid")
	if _, ok := s.Core.Tracker().Session(taskID); !ok {
		response.APIError(c, notFound("HttpSrv.StopSession"))
		return
	}
	s.Core.Tracker().Stop(taskID)
	sess, _ := s.Core.Tracker().Session(taskID)
	response.APISuccess(c, sess)
}

type WatchTaskRequest struct {
	Kind types.TaskKind `json:"kind" binding:"required,oneof=outline course_material"`
}

// WatchTask 在服务端后台轮询任务，结果写入任务记录
func (s *HttpSrv) WatchTask(c *gin.Context) {
	var req WatchTaskRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	taskID := c.Param("taskid")
	if sess, ok := s.Core.Tracker().Session(taskID); ok && sess.State == types.POLL_STATE_POLLING {
		response.APIError(c, errors.New("HttpSrv.WatchTask", i18n.ERROR_TASK_ALREADY_WATCHED, nil).
			WithData(map[string]interface{}{"TaskID": taskID}).
			Code(http.StatusConflict))
		return
	}

	safe.Go("handler.WatchTask."+taskID, func() {
		var err error
		switch req.Kind {
		case types.TASK_KIND_COURSE_MATERIAL:
			_, err = v1.NewCourseMaterialLogic(s.Ctx, s.Core).Watch(taskID, nil)
		default:
			_, err = v1.NewOutlineLogic(s.Ctx, s.Core).Watch(taskID, nil)
		}
		if err != nil {
			slog.Warn("background watch ended with error",
				slog.String("task_id", taskID),
				slog.String("error", err.Error()))
		}
	})

	response.APISuccess(c, nil)
}

type ListRecordsRequest struct {
	Kind  types.TaskKind `form:"kind"`
	Limit int            `form:"limit"`
}

func (s *HttpSrv) ListRecords(c *gin.Context) {
	var req ListRecordsRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	list, err := v1.NewTaskHistoryLogic(c, s.Core).List(req.Kind, req.Limit)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, response.NewList(list))
}

func (s *HttpSrv) GetRecord(c *gin.Context) {
	record, err := v1.NewTaskHistoryLogic(c, s.Core).Get(c.Param("taskid"))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, record)
}

type SyncRecordsResponse struct {
	Changed int `json:"changed"`
}

func (s *HttpSrv) SyncRecords(c *gin.Context) {
	changed, err := v1.NewTaskHistoryLogic(c, s.Core).Sync()
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, SyncRecordsResponse{Changed: changed})
}
