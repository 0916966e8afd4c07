package extraction

// Document is one logical document recognized within a submission
type Document struct {
	DocType string `json:"docType"`
	Fields  Fields `json:"fields"`
}

// AnalysisResult is the outcome of analyzing one submission
type AnalysisResult struct {
	ModelID   string      `json:"modelId"`
	Documents []*Document `json:"documents"`
}
