package models

type UserRole string
type ProjectType string
type ProjectStatus string
type ProjectPriority string
type PaymentStatus string
type NotificationType string
type NotificationPriority string

const (
	UserRoleUser     UserRole = "user"
	UserRoleReviewer UserRole = "reviewer"
	UserRoleAdmin    UserRole = "admin"

	ProjectTypeBuilding    ProjectType = "building"
	ProjectTypeRenovation  ProjectType = "renovation"
	ProjectTypeCommercial  ProjectType = "commercial"
	ProjectTypeResidential ProjectType = "residential"
	ProjectTypeOther       ProjectType = "other"

	ProjectStatusDraft       ProjectStatus = "draft"
	ProjectStatusSubmitted   ProjectStatus = "submitted"
	ProjectStatusUnderReview ProjectStatus = "under_review"
	ProjectStatusApproved    ProjectStatus = "approved"
	ProjectStatusRejected    ProjectStatus = "rejected"
	ProjectStatusWithdrawn   ProjectStatus = "withdrawn"

	PriorityLow    ProjectPriority = "low"
	PriorityMedium ProjectPriority = "medium"
	PriorityHigh   ProjectPriority = "high"
	PriorityUrgent ProjectPriority = "urgent"

	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"

	NotificationStatusChange NotificationType = "status_change"
	NotificationComment      NotificationType = "comment"
	NotificationPayment      NotificationType = "payment"
	NotificationSystem       NotificationType = "system"

	NotificationPriorityLow    NotificationPriority = "low"
	NotificationPriorityMedium NotificationPriority = "medium"
	NotificationPriorityHigh   NotificationPriority = "high"
)

// ValidProjectTypes is used by the validator and the estimate formula.
var ValidProjectTypes = map[ProjectType]bool{
	ProjectTypeBuilding:    true,
	ProjectTypeRenovation:  true,
	ProjectTypeCommercial:  true,
	ProjectTypeResidential: true,
	ProjectTypeOther:       true,
}

// ValidProjectStatuses gates status values coming in from update requests.
// The transition graph itself is open: any authorized caller may move a
// project to any status, matching the platform's caller-driven lifecycle.
var ValidProjectStatuses = map[ProjectStatus]bool{
	ProjectStatusDraft:       true,
	ProjectStatusSubmitted:   true,
	ProjectStatusUnderReview: true,
	ProjectStatusApproved:    true,
	ProjectStatusRejected:    true,
	ProjectStatusWithdrawn:   true,
}

var ValidUserRoles = map[UserRole]bool{
	UserRoleUser:     true,
	UserRoleReviewer: true,
	UserRoleAdmin:    true,
}
