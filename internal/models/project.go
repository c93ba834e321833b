package models

import (
	"time"

	"gorm.io/datatypes"
)

// Project is a single permit application and its lifecycle state.
type Project struct {
	BaseModel
	Title       string          `gorm:"not null" json:"title"`
	Description string          `json:"description"`
	Type        ProjectType     `gorm:"type:varchar(20);not null;index" json:"type"`
	Status      ProjectStatus   `gorm:"type:varchar(20);default:'draft';index" json:"status"`
	Priority    ProjectPriority `gorm:"type:varchar(20);default:'medium'" json:"priority"`

	ApplicantID string  `gorm:"type:uuid;not null;index:idx_projects_applicant_status" json:"applicantId"`
	Applicant   *User   `gorm:"foreignKey:ApplicantID" json:"applicant,omitempty"`
	ReviewerID  *string `gorm:"type:uuid;index:idx_projects_reviewer_status" json:"reviewerId"`
	Reviewer    *User   `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`

	Documents      []Document      `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"documents"`
	Forms          []ProjectForm   `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"forms"`
	ReviewComments []ReviewComment `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"reviewComments"`

	EstimatedCost     float64 `gorm:"default:0" json:"estimatedCost"`
	EstimatedTimeline int     `gorm:"default:0" json:"estimatedTimeline"` // days
	ActualCost        float64 `gorm:"default:0" json:"actualCost"`
	ActualTimeline    int     `gorm:"default:0" json:"actualTimeline"`

	PaymentStatus         PaymentStatus `gorm:"type:varchar(20);default:'pending'" json:"paymentStatus"`
	StripePaymentIntentID string        `gorm:"index" json:"-"`

	// AI analysis payload (semi-structured, versionless by contract)
	AIExtractedData   datatypes.JSON `gorm:"type:jsonb" json:"aiExtractedData,omitempty"`
	AIRecommendations datatypes.JSON `gorm:"type:jsonb" json:"aiRecommendations,omitempty"`
	AIConfidence      float64        `json:"aiConfidence,omitempty"`
	AILastAnalyzed    *time.Time     `json:"aiLastAnalyzed,omitempty"`

	LocationAddress string  `json:"locationAddress,omitempty"`
	LocationLat     float64 `json:"locationLat,omitempty"`
	LocationLng     float64 `json:"locationLng,omitempty"`

	DueDate     *time.Time `json:"dueDate,omitempty"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
	ApprovedAt  *time.Time `json:"approvedAt,omitempty"`
	RejectedAt  *time.Time `json:"rejectedAt,omitempty"`
}

// Document is a file attached to a project, stored in object storage and
// referenced by URL.
type Document struct {
	BaseModel
	ProjectID  string `gorm:"type:uuid;not null;index" json:"projectId"`
	Name       string `gorm:"not null" json:"name"`
	URL        string `gorm:"not null" json:"url"`
	StorageKey string `json:"-"` // key inside the bucket, used for deletes
	MimeType   string `json:"type"`
	Size       int64  `json:"size"`
	IsVerified bool   `gorm:"default:false" json:"isVerified"`
}

// ProjectForm is one semi-structured form submission attached to a project.
type ProjectForm struct {
	BaseModel
	ProjectID   string         `gorm:"type:uuid;not null;index" json:"projectId"`
	FormType    string         `json:"formType"`
	Data        datatypes.JSON `gorm:"type:jsonb" json:"data"`
	IsCompleted bool           `gorm:"default:false" json:"isCompleted"`
	AIGenerated bool           `gorm:"default:false" json:"aiGenerated"`
}

// ReviewComment is an append-only reviewer comment. Internal comments are
// hidden from the applicant and never trigger a notification.
type ReviewComment struct {
	BaseModel
	ProjectID  string `gorm:"type:uuid;not null;index" json:"projectId"`
	ReviewerID string `gorm:"type:uuid;not null" json:"reviewerId"`
	Reviewer   *User  `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	Comment    string `gorm:"not null" json:"comment"`
	IsInternal bool   `gorm:"default:false" json:"isInternal"`
}
