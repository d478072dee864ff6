package types

// PollState 本地轮询会话状态
type PollState string

const (
	POLL_STATE_IDLE    PollState = "idle"
	POLL_STATE_POLLING PollState = "polling"
	POLL_STATE_STOPPED PollState = "stopped"
)

// PollSession 一个被跟踪任务的本地快照
type PollSession struct {
	TaskID     string     `json:"task_id"`
	Kind       TaskKind   `json:"kind"`
	IntervalMS int64      `json:"interval_ms"`
	State      PollState  `json:"state"`
	LastStatus TaskStatus `json:"last_status,omitempty"`
	Progress   float64    `json:"progress,omitempty"`
	Error      string     `json:"error,omitempty"`
	CreatedAt  int64      `json:"created_at"`
	UpdatedAt  int64      `json:"updated_at"`
}

// TaskRecord 本地提交过的任务记录，跨进程持久化
type TaskRecord struct {
	TaskID           string     `json:"task_id"`
	Kind             TaskKind   `json:"kind"`
	CourseID         string     `json:"course_id"`
	CourseMaterialID string     `json:"course_material_id"`
	FileName         string     `json:"file_name"`
	Status           TaskStatus `json:"status"`
	Message          string     `json:"message,omitempty"`
	CreatedAt        int64      `json:"created_at"`
	UpdatedAt        int64      `json:"updated_at"`
}
