package types

import (
	"strconv"
)

const (
	MAX_ID_LENGTH            = 50
	MAX_MATERIAL_NAME_LENGTH = 100
	MAX_CUSTOM_PROMPT_LENGTH = 2000
)

// OutlineGenerateRequest 大纲生成请求，随文件以 multipart 表单提交
type OutlineGenerateRequest struct {
	CourseID         string `json:"course_id"`          // 课程ID
	CourseMaterialID string `json:"course_material_id"` // 课程材料ID，在同一 course_id 下唯一
	MaterialName     string `json:"material_name"`      // 材料名称
	CustomPrompt     string `json:"custom_prompt"`      // 自定义提示词，可选
	IncludeRefine    bool   `json:"include_refine"`     // 是否进行大纲精简
	ModelName        string `json:"model_name"`         // 指定模型，可选
}

func (r OutlineGenerateRequest) FormFields() map[string]string {
	fields := map[string]string{
		"course_id":          r.CourseID,
		"course_material_id": r.CourseMaterialID,
		"material_name":      r.MaterialName,
		"include_refine":     strconv.FormatBool(r.IncludeRefine),
	}
	if r.CustomPrompt != "" {
		fields["custom_prompt"] = r.CustomPrompt
	}
	if r.ModelName != "" {
		fields["model_name"] = r.ModelName
	}
	return fields
}

// Validate mirrors the backend field constraints. It returns the offending
// field name and its limit, or an empty name when the request is valid.
func (r OutlineGenerateRequest) Validate() (field string, max int) {
	checks := []struct {
		name     string
		value    string
		max      int
		required bool
	}{
		{"course_id", r.CourseID, MAX_ID_LENGTH, true},
		{"course_material_id", r.CourseMaterialID, MAX_ID_LENGTH, true},
		{"material_name", r.MaterialName, MAX_MATERIAL_NAME_LENGTH, true},
		{"custom_prompt", r.CustomPrompt, MAX_CUSTOM_PROMPT_LENGTH, false},
	}
	for _, c := range checks {
		n := len([]rune(c.value))
		if c.required && n == 0 {
			return c.name, 0
		}
		if n > c.max {
			return c.name, c.max
		}
	}
	return "", 0
}

// OutlineGenerateResponse 提交大纲任务后的响应
type OutlineGenerateResponse struct {
	TaskID           string     `json:"task_id"`
	Status           TaskStatus `json:"status"`
	Message          string     `json:"message"`
	CourseID         string     `json:"course_id,omitempty"`
	CourseMaterialID string     `json:"course_material_id,omitempty"`
	MaterialName     string     `json:"material_name,omitempty"`
	CreatedAt        string     `json:"created_at"`
}

// OutlineTask 大纲任务查询结果
type OutlineTask struct {
	TaskID           string     `json:"task_id"`
	Status           TaskStatus `json:"status"`
	Message          string     `json:"message"`
	CourseID         string     `json:"course_id,omitempty"`
	CourseMaterialID string     `json:"course_material_id,omitempty"`
	MaterialName     string     `json:"material_name,omitempty"`
	OriginalFilename string     `json:"original_filename,omitempty"` // 原始文件名
	FileSize         int64      `json:"file_size,omitempty"`         // 文件大小(字节)
	OutlineContent   string     `json:"outline_content,omitempty"`   // 生成的大纲内容，仅 completed
	OutlineFilePath  string     `json:"outline_file_path,omitempty"`
	ProcessingTime   float64    `json:"processing_time,omitempty"` // 处理时间(秒)
	ErrorMessage     string     `json:"error_message,omitempty"`   // 错误信息，仅 failed
	CreatedAt        string     `json:"created_at"`
	CompletedAt      string     `json:"completed_at,omitempty"`
}

func (t OutlineTask) GetStatus() TaskStatus {
	return t.Status
}

func (t OutlineTask) GetErrorMessage() string {
	return t.ErrorMessage
}

type OutlineTaskList struct {
	Tasks []OutlineTask `json:"tasks"`
}

// OutlineMetrics 大纲服务性能指标
type OutlineMetrics struct {
	ActiveTasks        int            `json:"active_tasks"`
	TotalTasks         int            `json:"total_tasks"`
	PerformanceMetrics map[string]any `json:"performance_metrics"`
}

// OutlineFile 已生成的大纲文件
type OutlineFile struct {
	Success          bool   `json:"success"`
	Message          string `json:"message"`
	CourseID         string `json:"course_id"`
	CourseMaterialID string `json:"course_material_id"`
	MaterialName     string `json:"material_name,omitempty"`
	FilePath         string `json:"file_path"`
	FileContent      string `json:"file_content"`
	FileSize         int64  `json:"file_size,omitempty"`
	LastModified     string `json:"last_modified,omitempty"`
}
