package models

import "github.com/anime-shed/doc-insight-go/internal/extraction"

// ExtractionResponse is the outcome of one submission
type ExtractionResponse struct {
	RequestID         string               `json:"request_id"`
	Service           string               `json:"service"`
	ModelID           string               `json:"model_id"`
	InputMethod       string               `json:"input_method"`
	Upload            string               `json:"upload,omitempty"`
	Timestamp         string               `json:"timestamp"`
	ProcessingTimeSec float64              `json:"processing_time_sec"`
	DocumentCount     int                  `json:"document_count"`
	Records           extraction.ResultSet `json:"records"`
	Rows              [][]DisplayRow       `json:"rows"`
	Issues            []FieldIssue         `json:"issues,omitempty"`
}

// DisplayRow is one record value rendered for a result table
type DisplayRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// FieldIssue reports a field or document skipped during normalization
type FieldIssue struct {
	Document int    `json:"document"`
	Type     string `json:"type"`
	Field    string `json:"field,omitempty"`
	Message  string `json:"message"`
}

// ServiceInfo describes one accepted service choice
type ServiceInfo struct {
	Service string   `json:"service"`
	Schema  string   `json:"schema"`
	ModelID string   `json:"model_id"`
	Labels  []string `json:"labels"`
}
