package services

import (
	"errors"

	"github.com/samber/lo"

	"permiso_backend/internal/dto"
	"permiso_backend/internal/models"
	"permiso_backend/internal/repositories"
	"permiso_backend/pkg/apperrors"
)

// AdminService covers user management and the platform-wide project list.
type AdminService interface {
	ListUsers(criteria dto.UserListCriteria) (*dto.UserListResponse, error)
	UpdateUserRole(userID string, req *dto.UpdateRoleRequest) (*models.User, error)
	ListProjects(criteria dto.AdminProjectCriteria) (*dto.ProjectListResponse, error)
}

type adminService struct {
	userRepo    repositories.UserRepository
	projectRepo repositories.ProjectRepository
}

func NewAdminService(userRepo repositories.UserRepository, projectRepo repositories.ProjectRepository) AdminService {
	return &adminService{userRepo: userRepo, projectRepo: projectRepo}
}

func (s *adminService) ListUsers(criteria dto.UserListCriteria) (*dto.UserListResponse, error) {
	normalizePage(&criteria.Page, &criteria.Limit, 20)

	users, total, err := s.userRepo.List(criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.UserListResponse{
		Users:       users,
		TotalPages:  totalPages(total, criteria.Limit),
		CurrentPage: criteria.Page,
		Total:       total,
	}, nil
}

func (s *adminService) UpdateUserRole(userID string, req *dto.UpdateRoleRequest) (*models.User, error) {
	role := models.UserRole(req.Role)
	if !models.ValidUserRoles[role] {
		return nil, apperrors.NewBadRequestError("Invalid role")
	}

	user, err := s.userRepo.UpdateRole(userID, role)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewNotFoundError("User not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

func (s *adminService) ListProjects(criteria dto.AdminProjectCriteria) (*dto.ProjectListResponse, error) {
	normalizePage(&criteria.Page, &criteria.Limit, 20)

	projects, total, err := s.projectRepo.ListForAdmin(criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	// The admin list only needs applicant/reviewer contact info, not the
	// full relation trees.
	projects = lo.Map(projects, func(p models.Project, _ int) models.Project {
		p.Forms = nil
		p.ReviewComments = nil
		return p
	})

	return &dto.ProjectListResponse{
		Projects:    projects,
		TotalPages:  totalPages(total, criteria.Limit),
		CurrentPage: criteria.Page,
		Total:       total,
	}, nil
}
