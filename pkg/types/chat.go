package types

const (
	CHAT_ENGINE_CONDENSE_PLUS_CONTEXT = "condense_plus_context"
	CHAT_ENGINE_SIMPLE                = "simple"
)

// ChatRequest 智能对话请求，course_id 与 course_material_id 至多携带一个
type ChatRequest struct {
	ConversationID   string `json:"conversation_id"`
	ChatEngineType   string `json:"chat_engine_type"`
	Question         string `json:"question"`
	CourseID         string `json:"course_id,omitempty"`
	CourseMaterialID string `json:"course_material_id,omitempty"`
	CollectionName   string `json:"collection_name,omitempty"`
}

type ChatResponse struct {
	Answer         string       `json:"answer"`
	Sources        []SourceInfo `json:"sources"`
	ConversationID string       `json:"conversation_id"`
	ChatEngineType string       `json:"chat_engine_type"`
	FilterInfo     string       `json:"filter_info,omitempty"`
	ProcessingTime float64      `json:"processing_time"`
}
