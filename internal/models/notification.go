package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification doubles as the user-facing alert and the audit record the
// admin trail queries. ProjectID is a weak reference: the notification
// survives project deletion.
type Notification struct {
	BaseModel
	UserID    string               `gorm:"type:uuid;not null;index" json:"userId"`
	User      *User                `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Type      NotificationType     `gorm:"type:varchar(30);not null;index" json:"type"`
	Title     string               `gorm:"not null" json:"title"`
	Message   string               `json:"message"`
	ProjectID *string              `gorm:"type:uuid;index" json:"projectId,omitempty"`
	Project   *Project             `gorm:"foreignKey:ProjectID;constraint:OnDelete:SET NULL" json:"project,omitempty"`
	Priority  NotificationPriority `gorm:"type:varchar(10);default:'medium'" json:"priority"`
	Data      datatypes.JSON       `gorm:"type:jsonb" json:"data,omitempty"`
	IsRead    bool                 `gorm:"default:false" json:"isRead"`
	ReadAt    *time.Time           `json:"readAt,omitempty"`
}
