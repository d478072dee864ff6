package v1

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sync"

	"github.com/quka-ai/course-console/app/core"
	"github.com/quka-ai/course-console/pkg/errors"
	"github.com/quka-ai/course-console/pkg/i18n"
	"github.com/quka-ai/course-console/pkg/poller"
	"github.com/quka-ai/course-console/pkg/store"
	"github.com/quka-ai/course-console/pkg/types"
)

// watchTask polls taskID until it is terminal and returns the last payload. A
// failed task is returned as a normal payload; only fetch errors are errors.
func watchTask[T types.StatusGetter](ctx context.Context, core *core.Core, kind types.TaskKind, taskID string, fetch poller.FetchFunc[T], onUpdate func(T)) (T, error) {
	var (
		mu     sync.Mutex
		result T
		failed error
	)

	p, err := poller.Watch(ctx, core.Tracker(), kind, taskID, fetch, poller.Callbacks[T]{
		OnUpdate: onUpdate,
		OnComplete: func(v T) {
			mu.Lock()
			result = v
			mu.Unlock()
		},
		OnError: func(err error) {
			mu.Lock()
			failed = err
			mu.Unlock()
		},
	})
	if err != nil {
		return result, err
	}

	if err = p.Wait(ctx); err != nil {
		p.Stop()
		return result, errors.New("watchTask.Wait", err.Error(), err).Kind(errors.KindTransport)
	}

	mu.Lock()
	defer mu.Unlock()
	if failed != nil {
		return result, errors.Trace("watchTask."+string(kind), failed)
	}
	if result.GetStatus() == "" {
		// stopped from outside before a terminal status arrived
		return result, errors.New("watchTask", context.Canceled.Error(), context.Canceled).Kind(errors.KindTransport)
	}
	return result, nil
}

// TaskFailure builds the user facing message of a failed task.
func TaskFailure(taskID string, v types.StatusGetter) string {
	reason := string(v.GetStatus())
	if fg, ok := v.(types.FailureGetter); ok && fg.GetErrorMessage() != "" {
		reason = fg.GetErrorMessage()
	}
	return i18n.TWithData(i18n.MESSAGE_TASK_FAILED, map[string]interface{}{
		"TaskID": taskID,
		"Reason": reason,
	})
}

func saveRecord(ctx context.Context, core *core.Core, record types.TaskRecord) {
	if err := core.Store().SaveRecord(ctx, record); err != nil {
		slog.Error("failed to save task record",
			slog.String("task_id", record.TaskID),
			slog.String("error", err.Error()),
			slog.String("component", "v1.saveRecord"))
	}
}

type TaskHistoryLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewTaskHistoryLogic(ctx context.Context, core *core.Core) *TaskHistoryLogic {
	return &TaskHistoryLogic{ctx: ctx, core: core}
}

func (l *TaskHistoryLogic) List(kind types.TaskKind, limit int) ([]types.TaskRecord, error) {
	list, err := l.core.Store().ListRecords(l.ctx, kind, limit)
	if err != nil {
		return nil, errors.New("TaskHistoryLogic.List.ListRecords", i18n.T(i18n.ERROR_INTERNAL), err)
	}
	return list, nil
}

func (l *TaskHistoryLogic) Get(taskID string) (*types.TaskRecord, error) {
	record, err := l.core.Store().GetRecord(l.ctx, taskID)
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			return nil, errors.New("TaskHistoryLogic.Get.GetRecord", err.Error(), err).Kind(errors.KindValidation).Code(404)
		}
		return nil, errors.New("TaskHistoryLogic.Get.GetRecord", i18n.T(i18n.ERROR_INTERNAL), err)
	}
	return record, nil
}

func (l *TaskHistoryLogic) Sessions() []types.PollSession {
	return l.core.Tracker().Sessions()
}

// Sync refreshes records whose last known status is not terminal and that no
// active session is tracking. It returns the number of records changed.
func (l *TaskHistoryLogic) Sync() (int, error) {
	list, err := l.List("", 0)
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, record := range list {
		if record.Status.IsTerminal() {
			continue
		}
		if sess, ok := l.core.Tracker().Session(record.TaskID); ok && sess.State == types.POLL_STATE_POLLING {
			continue
		}

		var (
			latest types.StatusGetter
			err    error
		)
		switch record.Kind {
		case types.TASK_KIND_COURSE_MATERIAL:
			latest, err = l.core.Backend().CourseMaterials.GetTaskStatus(l.ctx, record.TaskID)
		default:
			latest, err = l.core.Backend().Outline.GetTaskStatus(l.ctx, record.TaskID)
		}
		if err != nil {
			slog.Warn("failed to refresh task record",
				slog.String("task_id", record.TaskID),
				slog.String("error", err.Error()))
			continue
		}
		if latest.GetStatus() == record.Status {
			continue
		}

		message := ""
		if fg, ok := latest.(types.FailureGetter); ok {
			message = fg.GetErrorMessage()
		}
		if err = l.core.Store().UpdateStatus(l.ctx, record.TaskID, latest.GetStatus(), message); err != nil {
			return changed, errors.New("TaskHistoryLogic.Sync.UpdateStatus", i18n.T(i18n.ERROR_INTERNAL), err)
		}
		changed++
	}
	return changed, nil
}
