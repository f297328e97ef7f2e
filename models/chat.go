package models

// ChatRequest represents an incoming chat message
type ChatRequest struct {
	Message   string `json:"message" binding:"required"`
	Language  string `json:"language"`
	SessionID string `json:"session_id"`
}

// ChatResponse is the final routing result returned to the caller
type ChatResponse struct {
	Response     string  `json:"response"`
	Language     string  `json:"language"`
	Intent       string  `json:"intent,omitempty"`
	Mode         string  `json:"mode"`
	Confidence   float64 `json:"confidence"`
	ResponseTime float64 `json:"response_time"` // seconds
	SessionID    string  `json:"session_id"`
}

// ErrorResponse is the error shape returned by all endpoints
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ProcessorResult is what the general language processor reports per message
type ProcessorResult struct {
	Response     string  `json:"response"`
	Language     string  `json:"language"`
	Intent       string  `json:"intent"`
	Mode         string  `json:"mode"`
	Confidence   float64 `json:"confidence"`
	ResponseTime float64 `json:"response_time"`
}

// WebAnswer is a best-effort answer from the external search service
type WebAnswer struct {
	Answer     string  `json:"answer"`
	Confidence float64 `json:"confidence"`
}

// EndSessionRequest asks to close an active chat session
type EndSessionRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}
