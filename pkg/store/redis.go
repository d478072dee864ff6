package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quka-ai/course-console/pkg/types"
)

const (
	DEFAULT_KEY_PREFIX = "course-console"
	// UpdateStatus 乐观锁冲突时的最大重试次数
	MAX_UPDATE_RETRIES = 50
)

// redisStore 记录以 JSON 存于 <prefix>:task:<id>，按创建时间索引在 <prefix>:tasks 有序集合中
type redisStore struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisStore(client redis.UniversalClient, prefix string) RecordStore {
	if prefix == "" {
		prefix = DEFAULT_KEY_PREFIX
	}
	return &redisStore{client: client, prefix: prefix}
}

func (s *redisStore) recordKey(taskID string) string {
	return fmt.Sprintf("%s:task:%s", s.prefix, taskID)
}

func (s *redisStore) indexKey() string {
	return s.prefix + ":tasks"
}

func (s *redisStore) SaveRecord(ctx context.Context, record types.TaskRecord) error {
	now := time.Now().Unix()
	if record.CreatedAt == 0 {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal task record: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.recordKey(record.TaskID), raw, 0)
		pipe.ZAdd(ctx, s.indexKey(), redis.Z{Score: float64(record.CreatedAt), Member: record.TaskID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save task record: %w", err)
	}
	return nil
}

func (s *redisStore) GetRecord(ctx context.Context, taskID string) (*types.TaskRecord, error) {
	raw, err := s.client.Get(ctx, s.recordKey(taskID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task record: %w", err)
	}

	var record types.TaskRecord
	if err = json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task record: %w", err)
	}
	return &record, nil
}

// UpdateStatus rewrites the record under WATCH so a concurrent save or delete
// of the same task restarts the read instead of being overwritten.
func (s *redisStore) UpdateStatus(ctx context.Context, taskID string, status types.TaskStatus, message string) error {
	key := s.recordKey(taskID)
	update := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return ErrNotFound
			}
			return err
		}

		var record types.TaskRecord
		if err = json.Unmarshal(raw, &record); err != nil {
			return fmt.Errorf("failed to unmarshal task record: %w", err)
		}
		record.Status = status
		record.Message = message
		record.UpdatedAt = time.Now().Unix()
		if raw, err = json.Marshal(record); err != nil {
			return fmt.Errorf("failed to marshal task record: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, raw, 0)
			return nil
		})
		return err
	}

	for i := 0; i < MAX_UPDATE_RETRIES; i++ {
		err := s.client.Watch(ctx, update, key)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, redis.TxFailedErr):
			continue
		case errors.Is(err, ErrNotFound):
			return err
		default:
			return fmt.Errorf("failed to update task record: %w", err)
		}
	}
	return fmt.Errorf("failed to update task record %s: too many concurrent writes", taskID)
}

func (s *redisStore) ListRecords(ctx context.Context, kind types.TaskKind, limit int) ([]types.TaskRecord, error) {
	ids, err := s.client.ZRevRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list task records: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, s.recordKey(id))
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load task records: %w", err)
	}

	var list []types.TaskRecord
	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			// index entry outlived its record
			continue
		}
		var record types.TaskRecord
		if err = json.Unmarshal([]byte(str), &record); err != nil {
			continue
		}
		if kind != "" && record.Kind != kind {
			continue
		}
		list = append(list, record)
		if limit > 0 && len(list) >= limit {
			break
		}
	}
	return list, nil
}

func (s *redisStore) DeleteRecord(ctx context.Context, taskID string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.recordKey(taskID))
		pipe.ZRem(ctx, s.indexKey(), taskID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete task record: %w", err)
	}
	return nil
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
