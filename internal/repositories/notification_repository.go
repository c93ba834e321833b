package repositories

import (
	"errors"
	"time"

	"permiso_backend/internal/dto"
	"permiso_backend/internal/models"

	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationRepository interface {
	Create(notification *models.Notification) error
	FindUserNotifications(userID string, criteria dto.NotificationCriteria) ([]models.Notification, int64, error)
	GetUnreadCount(userID string) (int64, error)
	MarkAsRead(userID, notificationID string) error
	MarkAllAsRead(userID string) error

	// Admin audit trail
	FindAll(criteria dto.AuditCriteria) ([]models.Notification, int64, error)

	// Retention
	DeleteReadOlderThan(cutoff time.Time) (int64, error)
}

type NotificationRepositoryImpl struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &NotificationRepositoryImpl{db: db}
}

func (r *NotificationRepositoryImpl) Create(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

func (r *NotificationRepositoryImpl) FindUserNotifications(userID string, criteria dto.NotificationCriteria) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	query := r.db.Model(&models.Notification{}).Where("user_id = ?", userID)

	if criteria.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}
	if criteria.Type != "" {
		query = query.Where("type = ?", criteria.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (criteria.Page - 1) * criteria.Limit
	err := query.Order("created_at DESC").
		Limit(criteria.Limit).Offset(offset).
		Find(&notifications).Error

	return notifications, total, err
}

func (r *NotificationRepositoryImpl) GetUnreadCount(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepositoryImpl) MarkAsRead(userID, notificationID string) error {
	result := r.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) MarkAllAsRead(userID string) error {
	return r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": time.Now(),
		}).Error
}

func (r *NotificationRepositoryImpl) FindAll(criteria dto.AuditCriteria) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	query := r.db.Model(&models.Notification{})

	if criteria.Action != "" {
		query = query.Where("type = ?", criteria.Action)
	}
	if criteria.UserID != "" {
		query = query.Where("user_id = ?", criteria.UserID)
	}
	if criteria.StartDate != nil {
		query = query.Where("created_at >= ?", *criteria.StartDate)
	}
	if criteria.EndDate != nil {
		query = query.Where("created_at <= ?", *criteria.EndDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (criteria.Page - 1) * criteria.Limit
	err := query.
		Preload("User").
		Preload("Project").
		Order("created_at DESC").
		Limit(criteria.Limit).Offset(offset).
		Find(&notifications).Error

	return notifications, total, err
}

func (r *NotificationRepositoryImpl) DeleteReadOlderThan(cutoff time.Time) (int64, error) {
	result := r.db.Where("is_read = ? AND created_at < ?", true, cutoff).
		Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}
