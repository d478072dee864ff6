package types

// IndexResponse RAG 索引建立结果
type IndexResponse struct {
	Success        bool    `json:"success"`
	Message        string  `json:"message"`
	DocumentCount  int     `json:"document_count"`
	ChunkCount     int     `json:"chunk_count"`
	ProcessingTime float64 `json:"processing_time"`
	CollectionName string  `json:"collection_name"`
}

// IndexRequest 索引表单字段
type IndexRequest struct {
	CourseID           string
	CourseMaterialID   string
	CourseMaterialName string
	CollectionName     string
}

func (r IndexRequest) FormFields() map[string]string {
	fields := map[string]string{
		"course_id":            r.CourseID,
		"course_material_id":   r.CourseMaterialID,
		"course_material_name": r.CourseMaterialName,
	}
	if r.CollectionName != "" {
		fields["collection_name"] = r.CollectionName
	}
	return fields
}

type ChatMode string

const (
	CHAT_MODE_QUERY ChatMode = "query"
	CHAT_MODE_CHAT  ChatMode = "chat"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatMemory struct {
	Messages   []ChatMessage `json:"messages"`
	Summary    string        `json:"summary,omitempty"`
	TokenCount int           `json:"token_count"`
}

// QueryRequest 单轮问答请求
type QueryRequest struct {
	Question       string      `json:"question"`
	Mode           ChatMode    `json:"mode,omitempty"`
	CourseID       string      `json:"course_id,omitempty"`
	ChatMemory     *ChatMemory `json:"chat_memory,omitempty"`
	CollectionName string      `json:"collection_name,omitempty"`
	TopK           int         `json:"top_k,omitempty"`
}

type SourceInfo struct {
	CourseID           string  `json:"course_id"`
	CourseMaterialID   string  `json:"course_material_id"`
	CourseMaterialName string  `json:"course_material_name"`
	ChunkText          string  `json:"chunk_text"`
	Score              float64 `json:"score"`
}

type QueryResponse struct {
	Answer         string       `json:"answer"`
	Sources        []SourceInfo `json:"sources"`
	ChatMemory     *ChatMemory  `json:"chat_memory,omitempty"`
	Mode           ChatMode     `json:"mode"`
	ProcessingTime float64      `json:"processing_time"`
}

type CollectionInfo struct {
	Name          string         `json:"name"`
	VectorsCount  int            `json:"vectors_count"`
	IndexedOnly   bool           `json:"indexed_only"`
	PayloadSchema map[string]any `json:"payload_schema,omitempty"`
}

type CollectionList struct {
	Collections []CollectionInfo `json:"collections"`
	TotalCount  int              `json:"total_count"`
}

type DeleteCollectionResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	CollectionName string `json:"collection_name"`
}
