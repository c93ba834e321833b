package dto

import (
	"time"

	"permiso_backend/internal/models"
)

type UserListCriteria struct {
	Role   string `form:"role" validate:"omitempty,user_role"`
	Search string `form:"search"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

type UserListResponse struct {
	Users       []models.User `json:"users"`
	TotalPages  int           `json:"totalPages"`
	CurrentPage int           `json:"currentPage"`
	Total       int64         `json:"total"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,user_role"`
}

type AdminProjectCriteria struct {
	Status    string     `form:"status" validate:"omitempty,project_status"`
	Type      string     `form:"type" validate:"omitempty,project_type"`
	Reviewer  string     `form:"reviewer"`
	StartDate *time.Time `form:"startDate" time_format:"2006-01-02"`
	EndDate   *time.Time `form:"endDate" time_format:"2006-01-02"`
	Page      int        `form:"page"`
	Limit     int        `form:"limit"`
}

type AuditCriteria struct {
	Action    string     `form:"action"`
	UserID    string     `form:"userId"`
	StartDate *time.Time `form:"startDate" time_format:"2006-01-02"`
	EndDate   *time.Time `form:"endDate" time_format:"2006-01-02"`
	Page      int        `form:"page"`
	Limit     int        `form:"limit"`
}

type AuditResponse struct {
	AuditTrail  []models.Notification `json:"auditTrail"`
	TotalPages  int                   `json:"totalPages"`
	CurrentPage int                   `json:"currentPage"`
	Total       int64                 `json:"total"`
}

// DayCount is one bucket of a per-day growth series.
type DayCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int64  `json:"count"`
}

type DayRevenue struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

type TypeCount struct {
	Type  models.ProjectType `json:"type"`
	Count int64              `json:"count"`
}

type ProcessingTime struct {
	Status  models.ProjectStatus `json:"status"`
	AvgDays float64              `json:"avgProcessingTime"`
}

type DashboardOverview struct {
	TotalUsers         int64   `json:"totalUsers"`
	ActiveUsers        int64   `json:"activeUsers"`
	TotalProjects      int64   `json:"totalProjects"`
	ProjectsThisPeriod int64   `json:"projectsThisPeriod"`
	RevenueThisPeriod  float64 `json:"revenueThisPeriod"`
}

type DashboardResponse struct {
	Overview        DashboardOverview `json:"overview"`
	StatusBreakdown []StatusCount     `json:"statusBreakdown"`
	UserGrowth      []DayCount        `json:"userGrowth"`
	ProjectGrowth   []DayCount        `json:"projectGrowth"`
	Period          string            `json:"period"`
}

type AnalyticsResponse struct {
	RevenueData             []DayRevenue     `json:"revenueData"`
	ProjectTypeDistribution []TypeCount      `json:"projectTypeDistribution"`
	ProcessingTimeData      []ProcessingTime `json:"processingTimeData"`
	Period                  string           `json:"period"`
}
