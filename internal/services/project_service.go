package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"

	"permiso_backend/internal/dto"
	"permiso_backend/internal/models"
	"permiso_backend/internal/repositories"
	"permiso_backend/pkg/apperrors"
)

type ProjectService interface {
	CreateProject(userID string, req *dto.CreateProjectRequest) (*models.Project, error)
	ListProjects(userID string, role models.UserRole, criteria dto.ProjectListCriteria) (*dto.ProjectListResponse, error)
	GetProject(userID string, role models.UserRole, projectID string) (*models.Project, error)
	UpdateProject(userID string, role models.UserRole, projectID string, req *dto.UpdateProjectRequest) (*models.Project, error)
	DeleteProject(userID string, role models.UserRole, projectID string) error
	AssignReviewer(projectID string, req *dto.AssignProjectRequest) (*models.Project, error)
}

type projectService struct {
	projectRepo   repositories.ProjectRepository
	userRepo      repositories.UserRepository
	notifications NotificationService
}

func NewProjectService(
	projectRepo repositories.ProjectRepository,
	userRepo repositories.UserRepository,
	notifications NotificationService,
) ProjectService {
	return &projectService{
		projectRepo:   projectRepo,
		userRepo:      userRepo,
		notifications: notifications,
	}
}

func (s *projectService) CreateProject(userID string, req *dto.CreateProjectRequest) (*models.Project, error) {
	project := &models.Project{
		Title:       req.Title,
		Description: req.Description,
		Type:        models.ProjectType(req.Type),
		Status:      models.ProjectStatusDraft,
		Priority:    models.PriorityMedium,
		ApplicantID: userID,
	}

	if req.Location != nil {
		project.LocationAddress = req.Location.Address
		project.LocationLat = req.Location.Lat
		project.LocationLng = req.Location.Lng
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.findProject(project.ID)
}

func (s *projectService) ListProjects(userID string, role models.UserRole, criteria dto.ProjectListCriteria) (*dto.ProjectListResponse, error) {
	normalizePage(&criteria.Page, &criteria.Limit, 10)

	scope := repositories.ProjectScope{}
	switch role {
	case models.UserRoleReviewer:
		scope.ReviewerID = userID
	case models.UserRoleAdmin:
		// admins see everything
	default:
		scope.ApplicantID = userID
	}

	projects, total, err := s.projectRepo.List(scope, criteria)
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

func (s *projectService) GetProject(userID string, role models.UserRole, projectID string) (*models.Project, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}

	if !canAccessProject(project, userID, role) {
		return nil, apperrors.ErrProjectAccessDenied
	}

	return project, nil
}

func (s *projectService) UpdateProject(userID string, role models.UserRole, projectID string, req *dto.UpdateProjectRequest) (*models.Project, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}

	if role == models.UserRoleUser && project.ApplicantID != userID {
		return nil, apperrors.ErrProjectAccessDenied
	}

	fields := map[string]interface{}{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Priority != nil {
		fields["priority"] = *req.Priority
	}
	if req.DueDate != nil {
		fields["due_date"] = *req.DueDate
	}

	oldStatus := project.Status
	statusChanged := false
	if req.Status != nil {
		newStatus := models.ProjectStatus(*req.Status)
		if !models.ValidProjectStatuses[newStatus] {
			return nil, apperrors.ErrInvalidStatus("project", "Unknown project status")
		}
		if newStatus != oldStatus {
			statusChanged = true
			fields["status"] = newStatus

			// submittedAt is stamped once, on the first submission only
			if newStatus == models.ProjectStatusSubmitted && project.SubmittedAt == nil {
				fields["submitted_at"] = time.Now()
			}
		}
	}

	if len(fields) > 0 {
		if err := s.projectRepo.Updates(projectID, fields); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	if req.Forms != nil {
		forms, err := buildForms(projectID, req.Forms)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if err := s.projectRepo.ReplaceForms(projectID, forms); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	if req.Documents != nil {
		if err := s.projectRepo.ReplaceDocuments(projectID, buildDocuments(projectID, req.Documents)); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	updated, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}

	if statusChanged {
		s.notifyStatusChange(updated)
	}

	return updated, nil
}

func (s *projectService) notifyStatusChange(project *models.Project) {
	status := strings.ReplaceAll(string(project.Status), "_", " ")
	_ = s.notifications.Notify(&models.Notification{
		UserID:    project.ApplicantID,
		Type:      models.NotificationStatusChange,
		Title:     "Project Status Updated",
		Message:   fmt.Sprintf("Your project %q status has been updated to %s", project.Title, status),
		ProjectID: &project.ID,
		Priority:  models.NotificationPriorityMedium,
	})
}

func (s *projectService) DeleteProject(userID string, role models.UserRole, projectID string) error {
	project, err := s.findProject(projectID)
	if err != nil {
		return err
	}

	if project.ApplicantID != userID && role != models.UserRoleAdmin {
		return apperrors.ErrProjectAccessDenied
	}

	if err := s.projectRepo.Delete(projectID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *projectService) AssignReviewer(projectID string, req *dto.AssignProjectRequest) (*models.Project, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}

	reviewer, err := s.userRepo.FindByID(req.ReviewerID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewNotFoundError("Reviewer not found")
		}
		return nil, apperrors.InternalError(err)
	}
	if reviewer.Role != models.UserRoleReviewer && reviewer.Role != models.UserRoleAdmin {
		return nil, apperrors.NewBadRequestError("Assignee must have the reviewer role")
	}

	fields := map[string]interface{}{
		"reviewer_id": req.ReviewerID,
		"status":      models.ProjectStatusUnderReview,
	}
	if err := s.projectRepo.Updates(projectID, fields); err != nil {
		return nil, apperrors.InternalError(err)
	}

	_ = s.notifications.Notify(&models.Notification{
		UserID:    req.ReviewerID,
		Type:      models.NotificationStatusChange,
		Title:     "New Project Assigned",
		Message:   fmt.Sprintf("You have been assigned to review %q", project.Title),
		ProjectID: &project.ID,
		Priority:  models.NotificationPriorityMedium,
	})

	if project.Status != models.ProjectStatusUnderReview {
		updated, err := s.findProject(projectID)
		if err != nil {
			return nil, err
		}
		s.notifyStatusChange(updated)
		return updated, nil
	}

	return s.findProject(projectID)
}

func (s *projectService) findProject(projectID string) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, repositories.ErrProjectNotFound) {
			return nil, apperrors.NewNotFoundError("Project not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return project, nil
}

func canAccessProject(project *models.Project, userID string, role models.UserRole) bool {
	if role == models.UserRoleAdmin {
		return true
	}
	if project.ApplicantID == userID {
		return true
	}
	if role == models.UserRoleReviewer && project.ReviewerID != nil && *project.ReviewerID == userID {
		return true
	}
	return false
}

func buildForms(projectID string, inputs []dto.FormInput) ([]models.ProjectForm, error) {
	forms := make([]models.ProjectForm, 0, len(inputs))
	for _, in := range inputs {
		var data datatypes.JSON
		if in.Data != nil {
			raw, err := json.Marshal(in.Data)
			if err != nil {
				return nil, err
			}
			data = datatypes.JSON(raw)
		}
		forms = append(forms, models.ProjectForm{
			ProjectID:   projectID,
			FormType:    in.FormType,
			Data:        data,
			IsCompleted: in.IsCompleted,
			AIGenerated: in.AIGenerated,
		})
	}
	return forms, nil
}

func buildDocuments(projectID string, inputs []dto.DocumentInput) []models.Document {
	documents := make([]models.Document, 0, len(inputs))
	for _, in := range inputs {
		documents = append(documents, models.Document{
			ProjectID: projectID,
			Name:      in.Name,
			URL:       in.URL,
			MimeType:  in.Type,
			Size:      in.Size,
		})
	}
	return documents
}
