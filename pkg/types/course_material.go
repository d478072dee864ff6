package types

import (
	"net/url"
	"strconv"
)

// CourseProcessRequest 课程材料统一处理请求：上传 -> 大纲生成 -> RAG 索引
type CourseProcessRequest struct {
	OutlineGenerateRequest
	EnableRAGIndexing bool   `json:"enable_rag_indexing"`
	RAGCollectionName string `json:"rag_collection_name"`
}

func (r CourseProcessRequest) FormFields() map[string]string {
	fields := r.OutlineGenerateRequest.FormFields()
	fields["enable_rag_indexing"] = strconv.FormatBool(r.EnableRAGIndexing)
	if r.RAGCollectionName != "" {
		fields["rag_collection_name"] = r.RAGCollectionName
	}
	return fields
}

type ProcessingStep struct {
	StepName     string     `json:"step_name"`
	Status       TaskStatus `json:"status"`
	Message      string     `json:"message"`
	StartTime    string     `json:"start_time,omitempty"`
	EndTime      string     `json:"end_time,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
}

// CourseProcessResponse 提交处理后的响应
type CourseProcessResponse struct {
	TaskID             string     `json:"task_id"`
	Status             TaskStatus `json:"status"`
	Message            string     `json:"message"`
	CurrentStep        string     `json:"current_step"`
	CompletedSteps     int        `json:"completed_steps"`
	TotalSteps         int        `json:"total_steps"`
	ProgressPercentage float64    `json:"progress_percentage"`
	CourseID           string     `json:"course_id"`
	CourseMaterialID   string     `json:"course_material_id"`
	MaterialName       string     `json:"material_name"`
	CreatedAt          string     `json:"created_at"`
}

// MaterialTaskStatus 课程材料任务状态查询结果
type MaterialTaskStatus struct {
	TaskID             string           `json:"task_id"`
	Status             TaskStatus       `json:"status"`
	Message            string           `json:"message"`
	CurrentStep        string           `json:"current_step"`
	CompletedSteps     int              `json:"completed_steps"`
	TotalSteps         int              `json:"total_steps"`
	ProgressPercentage float64          `json:"progress_percentage"`
	CourseID           string           `json:"course_id"`
	CourseMaterialID   string           `json:"course_material_id"`
	MaterialName       string           `json:"material_name"`
	UploadFilePath     string           `json:"upload_file_path,omitempty"`
	OutlineFilePath    string           `json:"outline_file_path,omitempty"`
	OutlineContent     string           `json:"outline_content,omitempty"`
	RAGIndexStatus     string           `json:"rag_index_status,omitempty"`
	RAGDocumentCount   int              `json:"rag_document_count,omitempty"`
	ErrorStep          string           `json:"error_step,omitempty"`
	ErrorMessage       string           `json:"error_message,omitempty"`
	ProcessingSteps    []ProcessingStep `json:"processing_steps,omitempty"`
	CreatedAt          string           `json:"created_at"`
	LastUpdated        string           `json:"last_updated,omitempty"`
}

func (t MaterialTaskStatus) GetStatus() TaskStatus {
	return t.Status
}

func (t MaterialTaskStatus) GetProgress() float64 {
	return t.ProgressPercentage
}

func (t MaterialTaskStatus) GetErrorMessage() string {
	return t.ErrorMessage
}

// CleanupOptions 清理选项，以 query string 形式传给后端
type CleanupOptions struct {
	CleanupFiles    bool
	CleanupRAGData  bool
	CleanupTaskData bool
	ForceCleanup    bool
}

func DefaultCleanupOptions() CleanupOptions {
	return CleanupOptions{
		CleanupFiles:    true,
		CleanupRAGData:  true,
		CleanupTaskData: true,
	}
}

func (o CleanupOptions) Values() url.Values {
	v := url.Values{}
	v.Set("cleanup_files", strconv.FormatBool(o.CleanupFiles))
	v.Set("cleanup_rag_data", strconv.FormatBool(o.CleanupRAGData))
	v.Set("cleanup_task_data", strconv.FormatBool(o.CleanupTaskData))
	v.Set("force_cleanup", strconv.FormatBool(o.ForceCleanup))
	return v
}

type CleanupOperation struct {
	OperationType string `json:"operation_type"`
	Target        string `json:"target"`
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	Details       string `json:"details,omitempty"`
}

// CleanupResponse 清理结果统计
type CleanupResponse struct {
	Success            bool               `json:"success"`
	Message            string             `json:"message"`
	CourseID           string             `json:"course_id"`
	CourseMaterialID   string             `json:"course_material_id,omitempty"`
	Operations         []CleanupOperation `json:"operations"`
	FilesDeleted       int                `json:"files_deleted"`
	DirectoriesCleaned int                `json:"directories_cleaned"`
	RAGVectorsDeleted  int                `json:"rag_vectors_deleted"`
	TasksCleaned       int                `json:"tasks_cleaned"`
	CleanupTime        float64            `json:"cleanup_time"`
	Timestamp          string             `json:"timestamp"`
}
