package services

import (
	"errors"

	"permiso_backend/internal/auth"
	"permiso_backend/internal/dto"
	"permiso_backend/internal/models"
	"permiso_backend/internal/repositories"
	"permiso_backend/pkg/apperrors"
)

type AuthService interface {
	Register(req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(req *dto.LoginRequest) (*dto.AuthResponse, error)
	GetCurrentUser(userID string) (*models.User, error)
}

type authService struct {
	userRepo repositories.UserRepository
	tokens   *auth.TokenManager
}

func NewAuthService(userRepo repositories.UserRepository, tokens *auth.TokenManager) AuthService {
	return &authService{userRepo: userRepo, tokens: tokens}
}

func (s *authService) Register(req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Phone:        req.Phone,
		Role:         models.UserRoleUser,
		IsActive:     true,
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	token, err := s.tokens.CreateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuthResponse{Token: token, User: user}, nil
}

func (s *authService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, apperrors.ErrInvalidCredentials
	}

	// A failed last-login stamp is not worth failing the login over.
	_ = s.userRepo.UpdateLastLogin(user.ID)

	token, err := s.tokens.CreateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuthResponse{Token: token, User: user}, nil
}

func (s *authService) GetCurrentUser(userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}
