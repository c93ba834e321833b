package services

import (
	"fmt"
	"strings"
	"time"

	"permiso_backend/internal/dto"
	"permiso_backend/internal/models"
	"permiso_backend/internal/repositories"
	"permiso_backend/pkg/apperrors"
)

type ReviewService interface {
	GetPendingReviews(reviewerID string, role models.UserRole, criteria dto.PendingReviewsCriteria) (*dto.ProjectListResponse, error)
	ApproveProject(reviewerID string, role models.UserRole, projectID string, req *dto.ApproveRequest) (*models.Project, error)
	RejectProject(reviewerID string, role models.UserRole, projectID string, req *dto.RejectRequest) (*models.Project, error)
	AddComment(reviewerID string, role models.UserRole, projectID string, req *dto.CommentRequest) (*models.ReviewComment, error)
	GetReviewStats(reviewerID string, role models.UserRole) (*dto.ReviewStatsResponse, error)
}

type reviewService struct {
	projectRepo   repositories.ProjectRepository
	notifications NotificationService
}

func NewReviewService(projectRepo repositories.ProjectRepository, notifications NotificationService) ReviewService {
	return &reviewService{projectRepo: projectRepo, notifications: notifications}
}

func (s *reviewService) GetPendingReviews(reviewerID string, role models.UserRole, criteria dto.PendingReviewsCriteria) (*dto.ProjectListResponse, error) {
	normalizePage(&criteria.Page, &criteria.Limit, 10)

	// Admins see the whole queue, reviewers only their assignments.
	scopedReviewer := reviewerID
	if role == models.UserRoleAdmin {
		scopedReviewer = ""
	}

	projects, total, err := s.projectRepo.ListPendingReviews(scopedReviewer, criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.ProjectListResponse{
		Projects:    projects,
		TotalPages:  totalPages(total, criteria.Limit),
		CurrentPage: criteria.Page,
		Total:       total,
	}, nil
}

func (s *reviewService) ApproveProject(reviewerID string, role models.UserRole, projectID string, req *dto.ApproveRequest) (*models.Project, error) {
	project, err := s.loadAssignedProject(reviewerID, role, projectID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"status":      models.ProjectStatusApproved,
		"approved_at": time.Now(),
	}
	if err := s.projectRepo.Updates(projectID, fields); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if req.Comment != "" || len(req.Conditions) > 0 {
		comment := req.Comment
		if len(req.Conditions) > 0 {
			comment = fmt.Sprintf("%s\n\nApproval conditions: %s", comment, strings.Join(req.Conditions, ", "))
		}
		err := s.projectRepo.AddComment(&models.ReviewComment{
			ProjectID:  projectID,
			ReviewerID: reviewerID,
			Comment:    strings.TrimSpace(comment),
		})
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	_ = s.notifications.Notify(&models.Notification{
		UserID:    project.ApplicantID,
		Type:      models.NotificationStatusChange,
		Title:     "Project Approved",
		Message:   fmt.Sprintf("Your project %q has been approved!", project.Title),
		ProjectID: &project.ID,
		Priority:  models.NotificationPriorityHigh,
	})

	return s.reload(projectID)
}

func (s *reviewService) RejectProject(reviewerID string, role models.UserRole, projectID string, req *dto.RejectRequest) (*models.Project, error) {
	project, err := s.loadAssignedProject(reviewerID, role, projectID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"status":      models.ProjectStatusRejected,
		"rejected_at": time.Now(),
	}
	if err := s.projectRepo.Updates(projectID, fields); err != nil {
		return nil, apperrors.InternalError(err)
	}

	comment := fmt.Sprintf("%s\n\nRejection reasons: %s", req.Comment, strings.Join(req.Reasons, ", "))
	err = s.projectRepo.AddComment(&models.ReviewComment{
		ProjectID:  projectID,
		ReviewerID: reviewerID,
		Comment:    comment,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	_ = s.notifications.Notify(&models.Notification{
		UserID:    project.ApplicantID,
		Type:      models.NotificationStatusChange,
		Title:     "Project Rejected",
		Message:   fmt.Sprintf("Your project %q has been rejected. Please review the comments and resubmit.", project.Title),
		ProjectID: &project.ID,
		Priority:  models.NotificationPriorityHigh,
	})

	return s.reload(projectID)
}

func (s *reviewService) AddComment(reviewerID string, role models.UserRole, projectID string, req *dto.CommentRequest) (*models.ReviewComment, error) {
	project, err := s.loadAssignedProject(reviewerID, role, projectID)
	if err != nil {
		return nil, err
	}

	comment := &models.ReviewComment{
		ProjectID:  projectID,
		ReviewerID: reviewerID,
		Comment:    req.Comment,
		IsInternal: req.IsInternal,
	}
	if err := s.projectRepo.AddComment(comment); err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Internal comments stay between reviewers: no applicant notification.
	if !req.IsInternal {
		_ = s.notifications.Notify(&models.Notification{
			UserID:    project.ApplicantID,
			Type:      models.NotificationComment,
			Title:     "New Comment on Project",
			Message:   fmt.Sprintf("A new comment has been added to your project %q", project.Title),
			ProjectID: &project.ID,
			Priority:  models.NotificationPriorityMedium,
		})
	}

	return comment, nil
}

func (s *reviewService) GetReviewStats(reviewerID string, role models.UserRole) (*dto.ReviewStatsResponse, error) {
	scopedReviewer := reviewerID
	if role == models.UserRoleAdmin {
		scopedReviewer = ""
	}

	breakdown, err := s.projectRepo.StatusBreakdown(scopedReviewer)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	total, err := s.projectRepo.Count(scopedReviewer)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	completed, err := s.projectRepo.CountApprovedSince(scopedReviewer, monthStart)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.ReviewStatsResponse{
		StatusBreakdown:    breakdown,
		TotalProjects:      total,
		CompletedThisMonth: completed,
	}, nil
}

// loadAssignedProject fetches the project and enforces the reviewer
// assignment rule: reviewers may only act on projects assigned to them,
// admins on any.
func (s *reviewService) loadAssignedProject(reviewerID string, role models.UserRole, projectID string) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if err == repositories.ErrProjectNotFound {
			return nil, apperrors.NewNotFoundError("Project not found")
		}
		return nil, apperrors.InternalError(err)
	}

	if role != models.UserRoleAdmin {
		if project.ReviewerID == nil || *project.ReviewerID != reviewerID {
			return nil, apperrors.ErrNotAssignedReviewer
		}
	}

	return project, nil
}

func (s *reviewService) reload(projectID string) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return project, nil
}
