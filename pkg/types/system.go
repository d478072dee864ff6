package types

// Health 后端健康状态
type Health struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp,omitempty"`
	Version   string  `json:"version"`
	Uptime    float64 `json:"uptime,omitempty"`
	OpenAIAPI string  `json:"openai_api,omitempty"`
}

func (h Health) Healthy() bool {
	return h.Status == "healthy"
}
