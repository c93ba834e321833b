package repositories

import (
	"time"

	"permiso_backend/internal/dto"
	"permiso_backend/internal/models"

	"gorm.io/gorm"
)

// AnalyticsRepository holds the read-side aggregation queries behind the
// admin dashboard and analytics endpoints. Everything is recomputed from
// raw rows on each request; there is no materialization.
type AnalyticsRepository interface {
	CountUsers() (int64, error)
	CountActiveUsers() (int64, error)
	CountProjects() (int64, error)
	CountProjectsSince(since time.Time) (int64, error)
	RevenueSince(since time.Time) (float64, error)
	ProjectStatusBreakdown() ([]dto.StatusCount, error)
	UserGrowthByDay(since time.Time) ([]dto.DayCount, error)
	ProjectGrowthByDay(since time.Time) ([]dto.DayCount, error)
	RevenueByDay(since time.Time) ([]dto.DayRevenue, error)
	ProjectTypeDistribution() ([]dto.TypeCount, error)
	AvgProcessingTimeByStatus() ([]dto.ProcessingTime, error)
}

type AnalyticsRepositoryImpl struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &AnalyticsRepositoryImpl{db: db}
}

func (r *AnalyticsRepositoryImpl) CountUsers() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Count(&count).Error
	return count, err
}

func (r *AnalyticsRepositoryImpl) CountActiveUsers() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}

func (r *AnalyticsRepositoryImpl) CountProjects() (int64, error) {
	var count int64
	err := r.db.Model(&models.Project{}).Count(&count).Error
	return count, err
}

func (r *AnalyticsRepositoryImpl) CountProjectsSince(since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Project{}).Where("created_at >= ?", since).Count(&count).Error
	return count, err
}

func (r *AnalyticsRepositoryImpl) RevenueSince(since time.Time) (float64, error) {
	var revenue float64
	err := r.db.Model(&models.Project{}).
		Where("payment_status = ? AND updated_at >= ?", models.PaymentStatusPaid, since).
		Select("COALESCE(SUM(actual_cost), 0)").
		Scan(&revenue).Error
	return revenue, err
}

func (r *AnalyticsRepositoryImpl) ProjectStatusBreakdown() ([]dto.StatusCount, error) {
	var stats []dto.StatusCount
	err := r.db.Model(&models.Project{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&stats).Error
	return stats, err
}

func (r *AnalyticsRepositoryImpl) UserGrowthByDay(since time.Time) ([]dto.DayCount, error) {
	return r.growthByDay(&models.User{}, since)
}

func (r *AnalyticsRepositoryImpl) ProjectGrowthByDay(since time.Time) ([]dto.DayCount, error) {
	return r.growthByDay(&models.Project{}, since)
}

func (r *AnalyticsRepositoryImpl) growthByDay(model interface{}, since time.Time) ([]dto.DayCount, error) {
	var buckets []dto.DayCount
	err := r.db.Model(model).
		Where("created_at >= ?", since).
		Select("to_char(date_trunc('day', created_at), 'YYYY-MM-DD') as date, COUNT(*) as count").
		Group("date_trunc('day', created_at)").
		Order("date_trunc('day', created_at) ASC").
		Scan(&buckets).Error
	return buckets, err
}

func (r *AnalyticsRepositoryImpl) RevenueByDay(since time.Time) ([]dto.DayRevenue, error) {
	var buckets []dto.DayRevenue
	err := r.db.Model(&models.Project{}).
		Where("payment_status = ? AND updated_at >= ?", models.PaymentStatusPaid, since).
		Select("to_char(date_trunc('day', updated_at), 'YYYY-MM-DD') as date, SUM(actual_cost) as revenue").
		Group("date_trunc('day', updated_at)").
		Order("date_trunc('day', updated_at) ASC").
		Scan(&buckets).Error
	return buckets, err
}

func (r *AnalyticsRepositoryImpl) ProjectTypeDistribution() ([]dto.TypeCount, error) {
	var stats []dto.TypeCount
	err := r.db.Model(&models.Project{}).
		Select("type, COUNT(*) as count").
		Group("type").
		Scan(&stats).Error
	return stats, err
}

// AvgProcessingTimeByStatus measures submittedAt -> decision in days for
// projects that reached a terminal status.
func (r *AnalyticsRepositoryImpl) AvgProcessingTimeByStatus() ([]dto.ProcessingTime, error) {
	var stats []dto.ProcessingTime
	err := r.db.Model(&models.Project{}).
		Where("status IN ? AND submitted_at IS NOT NULL",
			[]models.ProjectStatus{models.ProjectStatusApproved, models.ProjectStatusRejected}).
		Select("status, AVG(EXTRACT(EPOCH FROM (updated_at - submitted_at)) / 86400) as avg_days").
		Group("status").
		Scan(&stats).Error
	return stats, err
}
