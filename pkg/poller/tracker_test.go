package poller

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quka-ai/course-console/pkg/errors"
	"github.com/quka-ai/course-console/pkg/store"
	"github.com/quka-ai/course-console/pkg/types"
)

type countingObserver struct {
	mu     sync.Mutex
	polls  map[string]int
	active []int
}

func (o *countingObserver) ObservePoll(kind types.TaskKind, status string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.polls == nil {
		o.polls = map[string]int{}
	}
	o.polls[string(kind)+"/"+status]++
}

func (o *countingObserver) SetActiveSessions(n int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.active = append(o.active, n)
}

func (o *countingObserver) lastActive() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.active) == 0 {
		return -1
	}
	return o.active[len(o.active)-1]
}

func TestTracker_WatchPersistsStatus(t *testing.T) {
	ctx := context.Background()
	records := store.NewMemoryStore()
	require.NoError(t, records.SaveRecord(ctx, types.TaskRecord{
		TaskID:   "m1",
		Kind:     types.TASK_KIND_COURSE_MATERIAL,
		FileName: "ch8.md",
		Status:   types.TASK_STATUS_UPLOADING,
	}))
	obs := &countingObserver{}
	tr := NewTracker(WithStore(records), WithObserver(obs), WithInterval(time.Millisecond))

	var calls atomic.Int32
	steps := []types.MaterialTaskStatus{
		{TaskID: "m1", Status: types.TASK_STATUS_OUTLINE_GENERATING, ProgressPercentage: 33},
		{TaskID: "m1", Status: types.TASK_STATUS_RAG_INDEXING, ProgressPercentage: 66},
		{TaskID: "m1", Status: types.TASK_STATUS_COMPLETED, ProgressPercentage: 100},
	}
	p, err := Watch(ctx, tr, types.TASK_KIND_COURSE_MATERIAL, "m1",
		func(ctx context.Context, taskID string) (types.MaterialTaskStatus, error) {
			return steps[calls.Add(1)-1], nil
		}, Callbacks[types.MaterialTaskStatus]{})
	require.NoError(t, err)
	require.NoError(t, p.Wait(ctx))

	sess, ok := tr.Session("m1")
	require.True(t, ok)
	assert.Equal(t, types.POLL_STATE_STOPPED, sess.State)
	assert.Equal(t, types.TASK_STATUS_COMPLETED, sess.LastStatus)
	assert.EqualValues(t, 100, sess.Progress)

	record, err := records.GetRecord(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, types.TASK_STATUS_COMPLETED, record.Status)
	assert.Equal(t, "ch8.md", record.FileName)

	assert.Equal(t, 1, obs.polls["course_material/rag_indexing"])
	require.Eventually(t, func() bool { return obs.lastActive() == 0 }, time.Second, time.Millisecond)
}

func TestTracker_FailedTaskRecordsReason(t *testing.T) {
	ctx := context.Background()
	records := store.NewMemoryStore()
	tr := NewTracker(WithStore(records), WithInterval(time.Millisecond))

	p, err := Watch(ctx, tr, types.TASK_KIND_OUTLINE, "t9",
		func(ctx context.Context, taskID string) (types.OutlineTask, error) {
			return types.OutlineTask{TaskID: taskID, Status: types.TASK_STATUS_FAILED, ErrorMessage: "bad file"}, nil
		}, Callbacks[types.OutlineTask]{})
	require.NoError(t, err)
	require.NoError(t, p.Wait(ctx))

	record, err := records.GetRecord(ctx, "t9")
	require.NoError(t, err)
	assert.Equal(t, types.TASK_STATUS_FAILED, record.Status)
	assert.Equal(t, "bad file", record.Message)
	assert.Equal(t, types.TASK_KIND_OUTLINE, record.Kind)
}

func TestTracker_OneActiveSessionPerTask(t *testing.T) {
	ctx := context.Background()
	tr := NewTracker(WithInterval(time.Hour))
	fetch := func(ctx context.Context, taskID string) (types.OutlineTask, error) {
		return types.OutlineTask{TaskID: taskID, Status: types.TASK_STATUS_PROCESSING}, nil
	}

	p, err := Watch(ctx, tr, types.TASK_KIND_OUTLINE, "t1", fetch, Callbacks[types.OutlineTask]{})
	require.NoError(t, err)

	_, err = Watch(ctx, tr, types.TASK_KIND_OUTLINE, "t1", fetch, Callbacks[types.OutlineTask]{})
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindValidation))
	assert.Contains(t, err.Error(), "t1")
	assert.Equal(t, 1, tr.Active())

	assert.False(t, tr.Forget("t1"))
	assert.True(t, tr.Stop("t1"))
	assert.False(t, tr.Stop("nope"))
	require.NoError(t, p.Wait(ctx))

	// a stopped session may be replaced
	p2, err := Watch(ctx, tr, types.TASK_KIND_OUTLINE, "t1", fetch, Callbacks[types.OutlineTask]{})
	require.NoError(t, err)
	assert.NotSame(t, p, p2)

	_, err = Watch(ctx, tr, types.TASK_KIND_OUTLINE, "t2", fetch, Callbacks[types.OutlineTask]{})
	require.NoError(t, err)
	assert.Len(t, tr.Sessions(), 2)

	tr.StopAll()
	waitCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	require.NoError(t, tr.Wait(waitCtx))
	assert.Equal(t, 0, tr.Active())
	assert.True(t, tr.Forget("t2"))
	assert.Len(t, tr.Sessions(), 1)
}
