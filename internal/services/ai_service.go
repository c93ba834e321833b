package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"permiso_backend/internal/dto"
	"permiso_backend/internal/logger"
	"permiso_backend/internal/openai"
	"permiso_backend/internal/repositories"
	"permiso_backend/pkg/apperrors"
)

const assistantSystemPrompt = `You are an AI assistant for the Permiso Platform, a permit management system.
You help users with permit applications, document requirements, and regulatory compliance.
%s
Provide helpful, accurate information about:
- Permit requirements and processes
- Document preparation and submission
- Regulatory compliance
- Timeline and cost estimates
- Common issues and solutions

Be concise, professional, and helpful.`

type AIService interface {
	Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
	AnalyzeDocument(ctx context.Context, req *dto.AnalyzeRequest) (*dto.AnalysisResult, error)
	ValidateForm(req *dto.ValidateRequest) *dto.ValidationResult
}

type aiService struct {
	provider    openai.Provider
	projectRepo repositories.ProjectRepository
}

func NewAIService(provider openai.Provider, projectRepo repositories.ProjectRepository) AIService {
	return &aiService{provider: provider, projectRepo: projectRepo}
}

func (s *aiService) Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	projectContext := ""
	if req.ProjectID != "" {
		project, err := s.projectRepo.FindByID(req.ProjectID)
		if err == nil {
			projectContext = fmt.Sprintf("Current project context: Project: %s, Type: %s, Status: %s\n",
				project.Title, project.Type, project.Status)
		}
	}

	systemPrompt := fmt.Sprintf(assistantSystemPrompt, projectContext)

	answer, err := s.provider.ChatCompletion(ctx, systemPrompt, req.Message)
	if err != nil {
		logger.CtxWithError(ctx, "AI chat request failed", err)
		return nil, apperrors.ErrAIChatFailed
	}

	return &dto.ChatResponse{
		Message:  "AI response generated",
		Response: answer,
	}, nil
}

// AnalyzeDocument returns a canned analysis payload. Real document
// processing needs a vision pipeline; until then the shape of the response
// matches what the frontend renders, and the result is persisted onto the
// project when one is referenced.
func (s *aiService) AnalyzeDocument(ctx context.Context, req *dto.AnalyzeRequest) (*dto.AnalysisResult, error) {
	analysis := &dto.AnalysisResult{
		ExtractedData: map[string]interface{}{
			"projectType":       "Building Construction",
			"estimatedCost":     150000,
			"estimatedTimeline": 90,
			"requiredPermits":   []string{"Building Permit", "Electrical Permit", "Plumbing Permit"},
			"complianceIssues":  []string{"Missing setback requirements", "Insufficient parking spaces"},
		},
		Recommendations: []string{
			"Add 2 additional parking spaces to meet city requirements",
			"Adjust building setback by 5 feet from property line",
			"Include fire safety plan in documentation",
		},
		Confidence:   0.85,
		LastAnalyzed: time.Now(),
	}

	if req.ProjectID != "" {
		if err := s.persistAnalysis(req.ProjectID, analysis); err != nil {
			logger.CtxWithError(ctx, "failed to persist AI analysis", err, "project_id", req.ProjectID)
			return nil, apperrors.ErrAIAnalysisFailed
		}
	}

	return analysis, nil
}

func (s *aiService) persistAnalysis(projectID string, analysis *dto.AnalysisResult) error {
	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		// Analysis without a valid project reference is still returned
		// to the caller; nothing to persist.
		return nil
	}

	extracted, err := json.Marshal(analysis.ExtractedData)
	if err != nil {
		return err
	}
	recommendations, err := json.Marshal(analysis.Recommendations)
	if err != nil {
		return err
	}

	return s.projectRepo.Updates(projectID, map[string]interface{}{
		"ai_extracted_data":  extracted,
		"ai_recommendations": recommendations,
		"ai_confidence":      analysis.Confidence,
		"ai_last_analyzed":   analysis.LastAnalyzed,
	})
}

var requiredFormFields = map[string][]string{
	"building":    {"address", "buildingType", "totalArea", "height"},
	"renovation":  {"address", "renovationType", "affectedArea"},
	"commercial":  {"address", "businessType", "occupancy", "totalArea"},
	"residential": {"address", "dwellingType", "bedrooms", "totalArea"},
}

// ValidateForm runs rule-based checks over a semi-structured form payload.
func (s *aiService) ValidateForm(req *dto.ValidateRequest) *dto.ValidationResult {
	result := &dto.ValidationResult{
		IsValid:     true,
		Errors:      []string{},
		Warnings:    []string{},
		Suggestions: []string{},
	}

	for _, field := range requiredFormFields[req.ProjectType] {
		if isEmptyFormValue(req.FormData[field]) {
			result.Errors = append(result.Errors,
				fmt.Sprintf("%s is required for %s projects", field, req.ProjectType))
			result.IsValid = false
		}
	}

	if area, ok := numericFormValue(req.FormData["totalArea"]); ok && area < 100 {
		result.Warnings = append(result.Warnings,
			"Total area seems unusually small for this project type")
	}

	if height, ok := numericFormValue(req.FormData["height"]); ok && height > 50 {
		result.Warnings = append(result.Warnings,
			"Building height exceeds standard limits - additional permits may be required")
	}

	return result
}

func isEmptyFormValue(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case float64:
		return val == 0
	case bool:
		return !val
	default:
		return false
	}
}

func numericFormValue(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	default:
		return 0, false
	}
}
