package store

import (
	"context"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quka-ai/course-console/pkg/testutils"
	"github.com/quka-ai/course-console/pkg/types"
)

func newTestRedisStore(t *testing.T) RecordStore {
	testutils.LoadEnv()
	addr := os.Getenv("COURSE_CONSOLE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("COURSE_CONSOLE_TEST_REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("COURSE_CONSOLE_TEST_REDIS_PASSWORD"),
		DB:       1,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}

	prefix := "course-console-test-" + strconv.FormatInt(time.Now().UnixNano(), 10)
	t.Cleanup(func() {
		keys, _ := client.Keys(context.Background(), prefix+":*").Result()
		if len(keys) > 0 {
			client.Del(context.Background(), keys...)
		}
		client.Close()
	})
	return NewRedisStore(client, prefix)
}

func testRecordStore(t *testing.T, s RecordStore) {
	ctx := context.Background()

	_, err := s.GetRecord(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.UpdateStatus(ctx, "missing", types.TASK_STATUS_FAILED, ""), ErrNotFound)

	require.NoError(t, s.SaveRecord(ctx, types.TaskRecord{TaskID: "t1", Kind: types.TASK_KIND_OUTLINE, Status: types.TASK_STATUS_PENDING, CreatedAt: 100}))
	require.NoError(t, s.SaveRecord(ctx, types.TaskRecord{TaskID: "m1", Kind: types.TASK_KIND_COURSE_MATERIAL, Status: types.TASK_STATUS_UPLOADING, CreatedAt: 200}))
	require.NoError(t, s.SaveRecord(ctx, types.TaskRecord{TaskID: "t2", Kind: types.TASK_KIND_OUTLINE, Status: types.TASK_STATUS_PENDING, CreatedAt: 300}))

	record, err := s.GetRecord(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, types.TASK_KIND_OUTLINE, record.Kind)
	assert.NotZero(t, record.UpdatedAt)

	require.NoError(t, s.UpdateStatus(ctx, "t1", types.TASK_STATUS_COMPLETED, "done"))
	record, err = s.GetRecord(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, types.TASK_STATUS_COMPLETED, record.Status)
	assert.Equal(t, "done", record.Message)
	assert.EqualValues(t, 100, record.CreatedAt)

	all, err := s.ListRecords(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"t2", "m1", "t1"}, []string{all[0].TaskID, all[1].TaskID, all[2].TaskID})

	outlines, err := s.ListRecords(ctx, types.TASK_KIND_OUTLINE, 1)
	require.NoError(t, err)
	require.Len(t, outlines, 1)
	assert.Equal(t, "t2", outlines[0].TaskID)

	require.NoError(t, s.DeleteRecord(ctx, "t2"))
	_, err = s.GetRecord(ctx, "t2")
	assert.ErrorIs(t, err, ErrNotFound)
}

// testConcurrentStatusUpdates races status writes against a delete: every
// write either lands on the live record or reports ErrNotFound, and a deleted
// record is never brought back.
func testConcurrentStatusUpdates(t *testing.T, s RecordStore) {
	ctx := context.Background()
	require.NoError(t, s.SaveRecord(ctx, types.TaskRecord{TaskID: "c1", Kind: types.TASK_KIND_OUTLINE, Status: types.TASK_STATUS_PENDING, CreatedAt: 100}))

	statuses := []types.TaskStatus{types.TASK_STATUS_PROCESSING, types.TASK_STATUS_COMPLETED, types.TASK_STATUS_FAILED}
	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			status := statuses[i%len(statuses)]
			assert.NoError(t, s.UpdateStatus(ctx, "c1", status, string(status)))
		}(i)
	}
	wg.Wait()

	record, err := s.GetRecord(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, string(record.Status), record.Message)
	assert.Equal(t, types.TASK_KIND_OUTLINE, record.Kind)
	assert.EqualValues(t, 100, record.CreatedAt)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i == 10 {
				assert.NoError(t, s.DeleteRecord(ctx, "c1"))
				return
			}
			err := s.UpdateStatus(ctx, "c1", types.TASK_STATUS_COMPLETED, "late")
			if err != nil {
				assert.ErrorIs(t, err, ErrNotFound)
			}
		}(i)
	}
	wg.Wait()

	_, err = s.GetRecord(ctx, "c1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	testRecordStore(t, NewMemoryStore())
	testConcurrentStatusUpdates(t, NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	testRecordStore(t, newTestRedisStore(t))
	testConcurrentStatusUpdates(t, newTestRedisStore(t))
}
