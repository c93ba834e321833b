package dto

import "permiso_backend/internal/models"

type NotificationCriteria struct {
	UnreadOnly bool   `form:"unread_only"`
	Type       string `form:"type"`
	Page       int    `form:"page"`
	Limit      int    `form:"limit"`
}

type NotificationListResponse struct {
	Notifications []models.Notification `json:"notifications"`
	TotalPages    int                   `json:"totalPages"`
	CurrentPage   int                   `json:"currentPage"`
	Total         int64                 `json:"total"`
}

type UnreadCountResponse struct {
	UnreadCount int64 `json:"unreadCount"`
}
