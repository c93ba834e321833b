package dto

import (
	"time"

	"permiso_backend/internal/models"
)

type LocationInput struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

type CreateProjectRequest struct {
	Title       string         `json:"title" validate:"required,min=3"`
	Description string         `json:"description"`
	Type        string         `json:"type" validate:"required,project_type"`
	Location    *LocationInput `json:"location"`
}

type FormInput struct {
	FormType    string                 `json:"formType"`
	Data        map[string]interface{} `json:"data"`
	IsCompleted bool                   `json:"isCompleted"`
	AIGenerated bool                   `json:"aiGenerated"`
}

type DocumentInput struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

// UpdateProjectRequest uses pointers so absent fields are left untouched.
type UpdateProjectRequest struct {
	Title       *string         `json:"title" validate:"omitempty,min=3"`
	Description *string         `json:"description"`
	Status      *string         `json:"status" validate:"omitempty,project_status"`
	Priority    *string         `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	DueDate     *time.Time      `json:"dueDate"`
	Forms       []FormInput     `json:"forms"`
	Documents   []DocumentInput `json:"documents"`
}

type ProjectListCriteria struct {
	Status string `form:"status" validate:"omitempty,project_status"`
	Type   string `form:"type" validate:"omitempty,project_type"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

type AssignProjectRequest struct {
	ReviewerID string `json:"reviewerId" validate:"required,uuid"`
}

type ProjectListResponse struct {
	Projects    []models.Project `json:"projects"`
	TotalPages  int              `json:"totalPages"`
	CurrentPage int              `json:"currentPage"`
	Total       int64            `json:"total"`
}
