package store

import (
	"context"
	"sort"
	"sync"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/samber/lo"

	"github.com/quka-ai/course-console/pkg/types"
)

type memoryStore struct {
	// mu 串行化整条记录的写入，避免 UpdateStatus 读改写期间被覆盖或复活已删除的记录
	mu      sync.Mutex
	records cmap.ConcurrentMap[string, types.TaskRecord]
}

func NewMemoryStore() RecordStore {
	return &memoryStore{records: cmap.New[types.TaskRecord]()}
}

func (s *memoryStore) SaveRecord(ctx context.Context, record types.TaskRecord) error {
	now := time.Now().Unix()
	if record.CreatedAt == 0 {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records.Set(record.TaskID, record)
	return nil
}

func (s *memoryStore) GetRecord(ctx context.Context, taskID string) (*types.TaskRecord, error) {
	record, ok := s.records.Get(taskID)
	if !ok {
		return nil, ErrNotFound
	}
	return &record, nil
}

func (s *memoryStore) UpdateStatus(ctx context.Context, taskID string, status types.TaskStatus, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records.Get(taskID)
	if !ok {
		return ErrNotFound
	}
	record.Status = status
	record.Message = message
	record.UpdatedAt = time.Now().Unix()
	s.records.Set(taskID, record)
	return nil
}

func (s *memoryStore) ListRecords(ctx context.Context, kind types.TaskKind, limit int) ([]types.TaskRecord, error) {
	list := lo.Filter(lo.Values(s.records.Items()), func(item types.TaskRecord, _ int) bool {
		return kind == "" || item.Kind == kind
	})
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt == list[j].CreatedAt {
			return list[i].TaskID > list[j].TaskID
		}
		return list[i].CreatedAt > list[j].CreatedAt
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (s *memoryStore) DeleteRecord(ctx context.Context, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records.Remove(taskID)
	return nil
}

func (s *memoryStore) Close() error {
	return nil
}
