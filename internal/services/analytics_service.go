package services

import (
	"time"

	"permiso_backend/internal/dto"
	"permiso_backend/internal/repositories"
	"permiso_backend/pkg/apperrors"
)

// AnalyticsService aggregates the admin dashboard and analytics views.
type AnalyticsService interface {
	GetDashboard(period string) (*dto.DashboardResponse, error)
	GetAnalytics(period string) (*dto.AnalyticsResponse, error)
}

type analyticsService struct {
	analyticsRepo repositories.AnalyticsRepository
}

func NewAnalyticsService(analyticsRepo repositories.AnalyticsRepository) AnalyticsService {
	return &analyticsService{analyticsRepo: analyticsRepo}
}

// periodStart resolves the period query parameter to a start time.
// Unknown values fall back to 30 days.
func periodStart(period string, now time.Time) (time.Time, string) {
	switch period {
	case "7d":
		return now.AddDate(0, 0, -7), period
	case "30d":
		return now.AddDate(0, 0, -30), period
	case "90d":
		return now.AddDate(0, 0, -90), period
	case "1y":
		return now.AddDate(-1, 0, 0), period
	default:
		return now.AddDate(0, 0, -30), "30d"
	}
}

func (s *analyticsService) GetDashboard(period string) (*dto.DashboardResponse, error) {
	since, period := periodStart(period, time.Now())

	totalUsers, err := s.analyticsRepo.CountUsers()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	activeUsers, err := s.analyticsRepo.CountActiveUsers()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	totalProjects, err := s.analyticsRepo.CountProjects()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	projectsThisPeriod, err := s.analyticsRepo.CountProjectsSince(since)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	revenue, err := s.analyticsRepo.RevenueSince(since)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	statusBreakdown, err := s.analyticsRepo.ProjectStatusBreakdown()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	userGrowth, err := s.analyticsRepo.UserGrowthByDay(since)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	projectGrowth, err := s.analyticsRepo.ProjectGrowthByDay(since)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.DashboardResponse{
		Overview: dto.DashboardOverview{
			TotalUsers:         totalUsers,
			ActiveUsers:        activeUsers,
			TotalProjects:      totalProjects,
			ProjectsThisPeriod: projectsThisPeriod,
			RevenueThisPeriod:  revenue,
		},
		StatusBreakdown: statusBreakdown,
		UserGrowth:      userGrowth,
		ProjectGrowth:   projectGrowth,
		Period:          period,
	}, nil
}

func (s *analyticsService) GetAnalytics(period string) (*dto.AnalyticsResponse, error) {
	since, period := periodStart(period, time.Now())

	revenueData, err := s.analyticsRepo.RevenueByDay(since)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	typeDistribution, err := s.analyticsRepo.ProjectTypeDistribution()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	processingTimes, err := s.analyticsRepo.AvgProcessingTimeByStatus()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AnalyticsResponse{
		RevenueData:             revenueData,
		ProjectTypeDistribution: typeDistribution,
		ProcessingTimeData:      processingTimes,
		Period:                  period,
	}, nil
}
