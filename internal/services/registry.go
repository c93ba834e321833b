package services

import (
	"permiso_backend/internal/email"
	"permiso_backend/internal/storage"
)

// ServiceContainer holds every service of the application.
type ServiceContainer struct {
	AuthService         AuthService
	ProjectService      ProjectService
	ReviewService       ReviewService
	NotificationService NotificationService
	EstimateService     EstimateService
	AIService           AIService
	PaymentService      PaymentService
	UploadService       UploadService
	AnalyticsService    AnalyticsService
	AdminService        AdminService
	EmailService        email.Provider
	Storage             storage.Storage
}
