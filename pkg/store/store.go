// Package store keeps the local record of submitted backend tasks so that
// history survives across CLI invocations.
package store

import (
	"context"
	"errors"

	"github.com/quka-ai/course-console/pkg/types"
)

var ErrNotFound = errors.New("task record not found")

// RecordStore 任务记录存储
type RecordStore interface {
	// SaveRecord 新增或覆盖一条记录
	SaveRecord(ctx context.Context, record types.TaskRecord) error
	// GetRecord 不存在时返回 ErrNotFound
	GetRecord(ctx context.Context, taskID string) (*types.TaskRecord, error)
	// UpdateStatus 仅更新状态与消息
	UpdateStatus(ctx context.Context, taskID string, status types.TaskStatus, message string) error
	// ListRecords 按创建时间倒序，limit <= 0 表示不限
	ListRecords(ctx context.Context, kind types.TaskKind, limit int) ([]types.TaskRecord, error)
	DeleteRecord(ctx context.Context, taskID string) error
	Close() error
}
