package dto

import "time"

type ChatRequest struct {
	Message   string `json:"message" validate:"required"`
	ProjectID string `json:"projectId"`
}

type ChatResponse struct {
	Message  string `json:"message"`
	Response string `json:"response"`
}

type AnalyzeRequest struct {
	DocumentURL string `json:"documentUrl" validate:"required"`
	ProjectID   string `json:"projectId"`
}

type AnalysisResult struct {
	ExtractedData   map[string]interface{} `json:"extractedData"`
	Recommendations []string               `json:"recommendations"`
	Confidence      float64                `json:"confidence"`
	LastAnalyzed    time.Time              `json:"lastAnalyzed"`
}

type EstimateRequest struct {
	ProjectType string  `json:"projectType" validate:"required"`
	Size        float64 `json:"size"`
	Complexity  string  `json:"complexity"`
	Location    string  `json:"location"`
}

type EstimateBreakdown struct {
	BaseCost             float64 `json:"baseCost"`
	ComplexityMultiplier float64 `json:"complexityMultiplier"`
	SizeMultiplier       float64 `json:"sizeMultiplier"`
	ProjectType          string  `json:"projectType"`
	Location             string  `json:"location"`
}

type EstimateResult struct {
	Cost      int               `json:"cost"`
	Timeline  int               `json:"timeline"` // days
	Breakdown EstimateBreakdown `json:"breakdown"`
}

type ValidateRequest struct {
	FormData    map[string]interface{} `json:"formData" validate:"required"`
	ProjectType string                 `json:"projectType"`
}

type ValidationResult struct {
	IsValid     bool     `json:"isValid"`
	Errors      []string `json:"errors"`
	Warnings    []string `json:"warnings"`
	Suggestions []string `json:"suggestions"`
}
