package models

// AnalyzeRequest submits a document by URL
type AnalyzeRequest struct {
	Service string `json:"service" binding:"required"`
	URL     string `json:"url" binding:"required"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string `json:"error"`
	Type      string `json:"type,omitempty"`
	Message   string `json:"message,omitempty"`
	Details   string `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// ServicesResponse lists the service choices a submission may name
type ServicesResponse struct {
	Services []ServiceInfo `json:"services"`
}

// HealthResponse reports availability and submission counters
type HealthResponse struct {
	Status  string                 `json:"status"`
	Version string                 `json:"version"`
	Time    string                 `json:"time"`
	Metrics map[string]interface{} `json:"metrics,omitempty"`
}
