package models

import "time"

type User struct {
	BaseModel
	Name             string   `gorm:"not null" json:"name"`
	Email            string   `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash     string   `gorm:"not null" json:"-"`
	Role             UserRole `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	Phone            string   `json:"phone,omitempty"`
	IsActive         bool     `gorm:"default:true" json:"isActive"`
	StripeCustomerID string   `json:"-"`
	LastLogin        *time.Time `json:"lastLogin,omitempty"`

	// Relations
	Projects []Project `gorm:"foreignKey:ApplicantID" json:"-"`
}
