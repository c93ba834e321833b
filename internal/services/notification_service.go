package services

import (
	"errors"

	"permiso_backend/internal/dto"
	"permiso_backend/internal/email"
	"permiso_backend/internal/logger"
	"permiso_backend/internal/models"
	"permiso_backend/internal/repositories"
	"permiso_backend/pkg/apperrors"
)

type NotificationService interface {
	// Notify persists the notification, pushes it to the user's live
	// connections and emails high-priority ones. Push and email failures
	// never fail the caller's operation.
	Notify(notification *models.Notification) error

	GetUserNotifications(userID string, criteria dto.NotificationCriteria) (*dto.NotificationListResponse, error)
	GetUnreadCount(userID string) (*dto.UnreadCountResponse, error)
	MarkAsRead(userID, notificationID string) error
	MarkAllAsRead(userID string) error

	GetAuditTrail(criteria dto.AuditCriteria) (*dto.AuditResponse, error)
	CleanOldNotifications(cutoffDays int) (int64, error)
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	notifier         Notifier
	emailProvider    email.Provider
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	notifier Notifier,
	emailProvider email.Provider,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		notifier:         notifier,
		emailProvider:    emailProvider,
	}
}

func (s *notificationService) Notify(notification *models.Notification) error {
	if notification.Priority == "" {
		notification.Priority = models.NotificationPriorityMedium
	}

	if err := s.notificationRepo.Create(notification); err != nil {
		return apperrors.InternalError(err)
	}

	s.notifier.PushToUser(notification.UserID, map[string]any{
		"type": "notification",
		"data": notification,
	})

	if notification.Priority == models.NotificationPriorityHigh {
		s.sendEmail(notification)
	}

	return nil
}

func (s *notificationService) sendEmail(notification *models.Notification) {
	user, err := s.userRepo.FindByID(notification.UserID)
	if err != nil {
		logger.Warn("notification email skipped: user lookup failed",
			"user_id", notification.UserID, "error", err)
		return
	}

	if err := s.emailProvider.Send(user.Email, notification.Title, notification.Message); err != nil {
		logger.Warn("notification email failed",
			"user_id", notification.UserID, "error", err)
	}
}

func (s *notificationService) GetUserNotifications(userID string, criteria dto.NotificationCriteria) (*dto.NotificationListResponse, error) {
	normalizePage(&criteria.Page, &criteria.Limit, 20)

	notifications, total, err := s.notificationRepo.FindUserNotifications(userID, criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.NotificationListResponse{
		Notifications: notifications,
		TotalPages:    totalPages(total, criteria.Limit),
		CurrentPage:   criteria.Page,
		Total:         total,
	}, nil
}

func (s *notificationService) GetUnreadCount(userID string) (*dto.UnreadCountResponse, error) {
	count, err := s.notificationRepo.GetUnreadCount(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.UnreadCountResponse{UnreadCount: count}, nil
}

func (s *notificationService) MarkAsRead(userID, notificationID string) error {
	err := s.notificationRepo.MarkAsRead(userID, notificationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *notificationService) MarkAllAsRead(userID string) error {
	if err := s.notificationRepo.MarkAllAsRead(userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *notificationService) GetAuditTrail(criteria dto.AuditCriteria) (*dto.AuditResponse, error) {
	normalizePage(&criteria.Page, &criteria.Limit, 50)

	notifications, total, err := s.notificationRepo.FindAll(criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuditResponse{
		AuditTrail:  notifications,
		TotalPages:  totalPages(total, criteria.Limit),
		CurrentPage: criteria.Page,
		Total:       total,
	}, nil
}

func (s *notificationService) CleanOldNotifications(cutoffDays int) (int64, error) {
	return s.notificationRepo.DeleteReadOlderThan(daysAgo(cutoffDays))
}
