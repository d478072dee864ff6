package poller

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/samber/lo"

	"github.com/quka-ai/course-console/pkg/errors"
	"github.com/quka-ai/course-console/pkg/i18n"
	"github.com/quka-ai/course-console/pkg/safe"
	"github.com/quka-ai/course-console/pkg/store"
	"github.com/quka-ai/course-console/pkg/types"
)

// Observer receives tracker level measurements.
type Observer interface {
	ObservePoll(kind types.TaskKind, status string)
	SetActiveSessions(n int)
}

type runner interface {
	Stop()
	IsPolling() bool
	State() types.PollState
	Done() <-chan struct{}
}

type session struct {
	mu     sync.Mutex
	snap   types.PollSession
	runner runner
}

func (s *session) snapshot() types.PollSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snap
	if s.runner != nil {
		snap.State = s.runner.State()
	}
	return snap
}

// Tracker 管理所有正在跟踪的任务，每个 task id 同时只有一个活动会话
type Tracker struct {
	sessions cmap.ConcurrentMap[string, *session]
	store    store.RecordStore
	observer Observer
	interval time.Duration
}

type TrackerOption func(*Tracker)

func WithStore(s store.RecordStore) TrackerOption {
	return func(t *Tracker) {
		t.store = s
	}
}

func WithObserver(o Observer) TrackerOption {
	return func(t *Tracker) {
		t.observer = o
	}
}

func WithInterval(d time.Duration) TrackerOption {
	return func(t *Tracker) {
		if d > 0 {
			t.interval = d
		}
	}
}

func NewTracker(opts ...TrackerOption) *Tracker {
	t := &Tracker{
		sessions: cmap.New[*session](),
		interval: DefaultInterval,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tracker) Interval() time.Duration {
	return t.interval
}

// Watch starts a poller for taskID and registers its session. It fails when
// the task already has an active session.
func Watch[T types.StatusGetter](ctx context.Context, t *Tracker, kind types.TaskKind, taskID string, fetch FetchFunc[T], cb Callbacks[T]) (*Poller[T], error) {
	now := time.Now()
	sess := &session{snap: types.PollSession{
		TaskID:     taskID,
		Kind:       kind,
		IntervalMS: t.interval.Milliseconds(),
		State:      types.POLL_STATE_IDLE,
		CreatedAt:  now.Unix(),
		UpdatedAt:  now.Unix(),
	}}

	p := New(taskID, fetch, Callbacks[T]{
		OnUpdate: func(v T) {
			t.update(ctx, sess, v)
			if cb.OnUpdate != nil {
				cb.OnUpdate(v)
			}
		},
		OnComplete: func(v T) {
			slog.Info("task finished",
				slog.String("task_id", taskID),
				slog.String("kind", string(kind)),
				slog.String("status", v.GetStatus().String()))
			if cb.OnComplete != nil {
				cb.OnComplete(v)
			}
		},
		OnError: func(err error) {
			t.fail(sess, err)
			if cb.OnError != nil {
				cb.OnError(err)
			}
		},
	})
	sess.runner = p

	actual := t.sessions.Upsert(taskID, sess, func(exist bool, old, fresh *session) *session {
		if exist && old.runner.IsPolling() {
			return old
		}
		return fresh
	})
	if actual != sess {
		return nil, errors.New("Tracker.Watch", i18n.TWithData(i18n.ERROR_TASK_ALREADY_WATCHED, map[string]interface{}{
			"TaskID": taskID,
		}), nil).Kind(errors.KindValidation).Code(409)
	}

	p.Start(ctx, t.interval)
	t.reportActive()

	safe.Go("tracker.watch."+taskID, func() {
		<-p.Done()
		t.reportActive()
	})
	return p, nil
}

func (t *Tracker) update(ctx context.Context, sess *session, v types.StatusGetter) {
	status := v.GetStatus()

	sess.mu.Lock()
	changed := sess.snap.LastStatus != status
	sess.snap.LastStatus = status
	if pg, ok := v.(types.ProgressGetter); ok {
		sess.snap.Progress = pg.GetProgress()
	}
	if status == types.TASK_STATUS_FAILED {
		if fg, ok := v.(types.FailureGetter); ok {
			sess.snap.Error = fg.GetErrorMessage()
		}
	}
	sess.snap.UpdatedAt = time.Now().Unix()
	snap := sess.snap
	sess.mu.Unlock()

	if t.observer != nil {
		t.observer.ObservePoll(snap.Kind, status.String())
	}
	if changed {
		t.persist(ctx, snap, status, snap.Error)
	}
}

func (t *Tracker) fail(sess *session, err error) {
	sess.mu.Lock()
	sess.snap.Error = err.Error()
	sess.snap.UpdatedAt = time.Now().Unix()
	snap := sess.snap
	sess.mu.Unlock()

	if t.observer != nil {
		t.observer.ObservePoll(snap.Kind, "error")
	}
}

func (t *Tracker) persist(ctx context.Context, snap types.PollSession, status types.TaskStatus, message string) {
	if t.store == nil {
		return
	}
	// the run context may already be cancelled once the task is terminal
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	err := t.store.UpdateStatus(ctx, snap.TaskID, status, message)
	if stderrors.Is(err, store.ErrNotFound) {
		err = t.store.SaveRecord(ctx, types.TaskRecord{
			TaskID:    snap.TaskID,
			Kind:      snap.Kind,
			Status:    status,
			Message:   message,
			CreatedAt: snap.CreatedAt,
		})
	}
	if err != nil {
		slog.Error("failed to persist task status",
			slog.String("task_id", snap.TaskID),
			slog.String("error", err.Error()),
			slog.String("component", "Tracker.persist"))
	}
}

func (t *Tracker) reportActive() {
	if t.observer != nil {
		t.observer.SetActiveSessions(t.Active())
	}
}

// Active counts sessions that are currently polling.
func (t *Tracker) Active() int {
	return lo.CountBy(lo.Values(t.sessions.Items()), func(s *session) bool {
		return s.runner.IsPolling()
	})
}

func (t *Tracker) Session(taskID string) (types.PollSession, bool) {
	s, ok := t.sessions.Get(taskID)
	if !ok {
		return types.PollSession{}, false
	}
	return s.snapshot(), true
}

// Sessions returns every known session, oldest first.
func (t *Tracker) Sessions() []types.PollSession {
	list := lo.Map(lo.Values(t.sessions.Items()), func(s *session, _ int) types.PollSession {
		return s.snapshot()
	})
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt == list[j].CreatedAt {
			return list[i].TaskID < list[j].TaskID
		}
		return list[i].CreatedAt < list[j].CreatedAt
	})
	return list
}

// Stop stops the session of taskID and reports whether one existed.
func (t *Tracker) Stop(taskID string) bool {
	s, ok := t.sessions.Get(taskID)
	if !ok {
		return false
	}
	s.runner.Stop()
	return true
}

func (t *Tracker) StopAll() {
	for _, s := range t.sessions.Items() {
		s.runner.Stop()
	}
}

// Forget drops a finished session. Active sessions are kept.
func (t *Tracker) Forget(taskID string) bool {
	return t.sessions.RemoveCb(taskID, func(_ string, s *session, exists bool) bool {
		return exists && !s.runner.IsPolling()
	})
}

// Wait blocks until every session has stopped or ctx is done.
func (t *Tracker) Wait(ctx context.Context) error {
	for _, s := range t.sessions.Items() {
		select {
		case <-s.runner.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
