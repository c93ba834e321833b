package repositories

import (
	"errors"
	"time"

	"permiso_backend/internal/dto"
	"permiso_backend/internal/models"

	"gorm.io/gorm"
)

var ErrProjectNotFound = errors.New("project not found")

// ProjectScope narrows list queries to what the caller's role may see.
type ProjectScope struct {
	ApplicantID string // non-empty: only this applicant's projects
	ReviewerID  string // non-empty: only projects assigned to this reviewer
}

type ProjectRepository interface {
	Create(project *models.Project) error
	FindByID(id string) (*models.Project, error)
	FindByPaymentIntentID(intentID string) (*models.Project, error)
	List(scope ProjectScope, criteria dto.ProjectListCriteria) ([]models.Project, int64, error)
	ListForAdmin(criteria dto.AdminProjectCriteria) ([]models.Project, int64, error)
	ListPendingReviews(reviewerID string, criteria dto.PendingReviewsCriteria) ([]models.Project, int64, error)
	ListPaymentHistory(applicantID string, page, limit int) ([]models.Project, int64, error)
	Updates(id string, fields map[string]interface{}) error
	Delete(id string) error
	AddComment(comment *models.ReviewComment) error
	AddDocument(document *models.Document) error
	FindDocument(projectID, documentID string) (*models.Document, error)
	RemoveDocument(projectID, documentID string) error
	ReplaceForms(projectID string, forms []models.ProjectForm) error
	ReplaceDocuments(projectID string, documents []models.Document) error
	StatusBreakdown(reviewerID string) ([]dto.StatusCount, error)
	Count(reviewerID string) (int64, error)
	CountApprovedSince(reviewerID string, since time.Time) (int64, error)
}

type ProjectRepositoryImpl struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &ProjectRepositoryImpl{db: db}
}

func (r *ProjectRepositoryImpl) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

func (r *ProjectRepositoryImpl) FindByID(id string) (*models.Project, error) {
	var project models.Project
	err := r.db.
		Preload("Applicant").
		Preload("Reviewer").
		Preload("Documents").
		Preload("Forms").
		Preload("ReviewComments", func(db *gorm.DB) *gorm.DB {
			return db.Order("review_comments.created_at ASC")
		}).
		Preload("ReviewComments.Reviewer").
		First(&project, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepositoryImpl) FindByPaymentIntentID(intentID string) (*models.Project, error) {
	var project models.Project
	err := r.db.First(&project, "stripe_payment_intent_id = ?", intentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepositoryImpl) List(scope ProjectScope, criteria dto.ProjectListCriteria) ([]models.Project, int64, error) {
	var projects []models.Project
	query := r.db.Model(&models.Project{})

	if scope.ApplicantID != "" {
		query = query.Where("applicant_id = ?", scope.ApplicantID)
	}
	if scope.ReviewerID != "" {
		query = query.Where("reviewer_id = ?", scope.ReviewerID)
	}
	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}
	if criteria.Type != "" {
		query = query.Where("type = ?", criteria.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (criteria.Page - 1) * criteria.Limit
	err := query.
		Preload("Applicant").
		Preload("Reviewer").
		Order("created_at DESC").
		Limit(criteria.Limit).Offset(offset).
		Find(&projects).Error

	return projects, total, err
}

func (r *ProjectRepositoryImpl) ListForAdmin(criteria dto.AdminProjectCriteria) ([]models.Project, int64, error) {
	var projects []models.Project
	query := r.db.Model(&models.Project{})

	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}
	if criteria.Type != "" {
		query = query.Where("type = ?", criteria.Type)
	}
	if criteria.Reviewer != "" {
		query = query.Where("reviewer_id = ?", criteria.Reviewer)
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
		Preload("Applicant").
		Preload("Reviewer").
		Order("created_at DESC").
		Limit(criteria.Limit).Offset(offset).
		Find(&projects).Error

	return projects, total, err
}

func (r *ProjectRepositoryImpl) ListPendingReviews(reviewerID string, criteria dto.PendingReviewsCriteria) ([]models.Project, int64, error) {
	var projects []models.Project

	status := criteria.Status
	if status == "" {
		status = string(models.ProjectStatusSubmitted)
	}

	query := r.db.Model(&models.Project{}).Where("status = ?", status)
	if reviewerID != "" {
		query = query.Where("reviewer_id = ?", reviewerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (criteria.Page - 1) * criteria.Limit
	err := query.
		Preload("Applicant").
		Order("submitted_at DESC NULLS LAST").
		Limit(criteria.Limit).Offset(offset).
		Find(&projects).Error

	return projects, total, err
}

func (r *ProjectRepositoryImpl) ListPaymentHistory(applicantID string, page, limit int) ([]models.Project, int64, error) {
	var projects []models.Project
	statuses := []models.PaymentStatus{
		models.PaymentStatusPaid,
		models.PaymentStatusFailed,
		models.PaymentStatusRefunded,
	}

	query := r.db.Model(&models.Project{}).
		Where("applicant_id = ? AND payment_status IN ?", applicantID, statuses)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Select("id", "title", "type", "payment_status", "actual_cost", "stripe_payment_intent_id", "updated_at").
		Order("updated_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&projects).Error

	return projects, total, err
}

func (r *ProjectRepositoryImpl) Updates(id string, fields map[string]interface{}) error {
	result := r.db.Model(&models.Project{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepositoryImpl) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.Project{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepositoryImpl) AddComment(comment *models.ReviewComment) error {
	return r.db.Create(comment).Error
}

func (r *ProjectRepositoryImpl) AddDocument(document *models.Document) error {
	return r.db.Create(document).Error
}

func (r *ProjectRepositoryImpl) FindDocument(projectID, documentID string) (*models.Document, error) {
	var document models.Document
	err := r.db.First(&document, "id = ? AND project_id = ?", documentID, projectID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &document, nil
}

func (r *ProjectRepositoryImpl) RemoveDocument(projectID, documentID string) error {
	return r.db.Where("id = ? AND project_id = ?", documentID, projectID).
		Delete(&models.Document{}).Error
}

// ReplaceForms swaps the full form set of a project, as sent by the client.
func (r *ProjectRepositoryImpl) ReplaceForms(projectID string, forms []models.ProjectForm) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", projectID).Delete(&models.ProjectForm{}).Error; err != nil {
			return err
		}
		if len(forms) == 0 {
			return nil
		}
		return tx.Create(&forms).Error
	})
}

func (r *ProjectRepositoryImpl) ReplaceDocuments(projectID string, documents []models.Document) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", projectID).Delete(&models.Document{}).Error; err != nil {
			return err
		}
		if len(documents) == 0 {
			return nil
		}
		return tx.Create(&documents).Error
	})
}

func (r *ProjectRepositoryImpl) StatusBreakdown(reviewerID string) ([]dto.StatusCount, error) {
	var stats []dto.StatusCount
	query := r.db.Model(&models.Project{}).
		Select("status, COUNT(*) as count").
		Group("status")
	if reviewerID != "" {
		query = query.Where("reviewer_id = ?", reviewerID)
	}
	err := query.Scan(&stats).Error
	return stats, err
}

func (r *ProjectRepositoryImpl) Count(reviewerID string) (int64, error) {
	var count int64
	query := r.db.Model(&models.Project{})
	if reviewerID != "" {
		query = query.Where("reviewer_id = ?", reviewerID)
	}
	err := query.Count(&count).Error
	return count, err
}

func (r *ProjectRepositoryImpl) CountApprovedSince(reviewerID string, since time.Time) (int64, error) {
	var count int64
	query := r.db.Model(&models.Project{}).Where("approved_at >= ?", since)
	if reviewerID != "" {
		query = query.Where("reviewer_id = ?", reviewerID)
	}
	err := query.Count(&count).Error
	return count, err
}
