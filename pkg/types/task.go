package types

// TaskStatus 任务状态，由后端维护，客户端只读
type TaskStatus string

const (
	TASK_STATUS_PENDING    TaskStatus = "pending"
	TASK_STATUS_PROCESSING TaskStatus = "processing"
	TASK_STATUS_COMPLETED  TaskStatus = "completed"
	TASK_STATUS_FAILED     TaskStatus = "failed"

	// course material pipeline stages
	TASK_STATUS_UPLOADING          TaskStatus = "uploading"
	TASK_STATUS_OUTLINE_GENERATING TaskStatus = "outline_generating"
	TASK_STATUS_RAG_INDEXING       TaskStatus = "rag_indexing"
)

func (s TaskStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further progress is expected.
func (s TaskStatus) IsTerminal() bool {
	return s == TASK_STATUS_COMPLETED || s == TASK_STATUS_FAILED
}

// StatusGetter is implemented by every task projection returned by a status endpoint.
type StatusGetter interface {
	GetStatus() TaskStatus
}

// ProgressGetter is implemented by projections that report a percentage.
type ProgressGetter interface {
	GetProgress() float64
}

// FailureGetter exposes the backend failure reason of a failed task.
type FailureGetter interface {
	GetErrorMessage() string
}

// TaskKind names the backend endpoint family a task id belongs to.
type TaskKind string

const (
	TASK_KIND_OUTLINE         TaskKind = "outline"
	TASK_KIND_COURSE_MATERIAL TaskKind = "course_material"
)

// TokenUsage token 统计
type TokenUsage map[string]int
