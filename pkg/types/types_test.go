package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskStatusIsTerminal(t *testing.T) {
	for status, want := range map[TaskStatus]bool{
		TASK_STATUS_PENDING:            false,
		TASK_STATUS_PROCESSING:         false,
		TASK_STATUS_UPLOADING:          false,
		TASK_STATUS_OUTLINE_GENERATING: false,
		TASK_STATUS_RAG_INDEXING:       false,
		TASK_STATUS_COMPLETED:          true,
		TASK_STATUS_FAILED:             true,
	} {
		assert.Equal(t, want, status.IsTerminal(), status)
	}
}

func TestOutlineGenerateRequestValidate(t *testing.T) {
	req := OutlineGenerateRequest{CourseID: "0001", CourseMaterialID: "000001", MaterialName: "python第八章"}
	field, _ := req.Validate()
	assert.Empty(t, field)

	req.CourseID = ""
	field, _ = req.Validate()
	assert.Equal(t, "course_id", field)

	req.CourseID = "0001"
	req.MaterialName = strings.Repeat("章", MAX_MATERIAL_NAME_LENGTH+1)
	field, max := req.Validate()
	assert.Equal(t, "material_name", field)
	assert.Equal(t, MAX_MATERIAL_NAME_LENGTH, max)
}

func TestCourseProcessRequestFormFields(t *testing.T) {
	req := CourseProcessRequest{
		OutlineGenerateRequest: OutlineGenerateRequest{
			CourseID:         "0001",
			CourseMaterialID: "000001",
			MaterialName:     "ch8",
			IncludeRefine:    true,
		},
		EnableRAGIndexing: true,
	}

	fields := req.FormFields()
	assert.Equal(t, "true", fields["include_refine"])
	assert.Equal(t, "true", fields["enable_rag_indexing"])
	assert.NotContains(t, fields, "rag_collection_name")
	assert.NotContains(t, fields, "custom_prompt")
}

func TestCleanupOptionsValues(t *testing.T) {
	assert.Equal(t,
		"cleanup_files=true&cleanup_rag_data=true&cleanup_task_data=true&force_cleanup=false",
		DefaultCleanupOptions().Values().Encode())
}
