package dto

import "permiso_backend/internal/models"

type ApproveRequest struct {
	Comment    string   `json:"comment"`
	Conditions []string `json:"conditions"`
}

type RejectRequest struct {
	Comment string   `json:"comment" validate:"required,min=10"`
	Reasons []string `json:"reasons" validate:"required,min=1"`
}

type CommentRequest struct {
	Comment    string `json:"comment" validate:"required,min=5"`
	IsInternal bool   `json:"isInternal"`
}

type PendingReviewsCriteria struct {
	Status string `form:"status" validate:"omitempty,project_status"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

type StatusCount struct {
	Status models.ProjectStatus `json:"status"`
	Count  int64                `json:"count"`
}

type ReviewStatsResponse struct {
	StatusBreakdown    []StatusCount `json:"statusBreakdown"`
	TotalProjects      int64         `json:"totalProjects"`
	CompletedThisMonth int64         `json:"completedThisMonth"`
}
