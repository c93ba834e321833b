package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"permiso_backend/internal/dto"
	"permiso_backend/internal/logger"
	"permiso_backend/internal/models"
	"permiso_backend/internal/repositories"
	"permiso_backend/internal/storage"
	"permiso_backend/pkg/apperrors"
)

type UploadConfig struct {
	MaxSize      int64
	MaxFiles     int
	AllowedTypes []string
	AllowedExts  []string
	Folder       string
}

type UploadService interface {
	UploadFile(ctx context.Context, header *multipart.FileHeader) (*dto.UploadedFile, error)
	UploadMultiple(ctx context.Context, headers []*multipart.FileHeader) (*dto.MultiUploadResponse, error)
	UploadToProject(ctx context.Context, userID string, role models.UserRole, projectID string, header *multipart.FileHeader) (*models.Document, error)
	DeleteDocument(ctx context.Context, userID string, role models.UserRole, projectID, documentID string) error
}

type uploadService struct {
	store       storage.Storage
	projectRepo repositories.ProjectRepository
	cfg         UploadConfig
}

func NewUploadService(store storage.Storage, projectRepo repositories.ProjectRepository, cfg UploadConfig) UploadService {
	if cfg.Folder == "" {
		cfg.Folder = "permiso-documents"
	}
	return &uploadService{store: store, projectRepo: projectRepo, cfg: cfg}
}

func (s *uploadService) UploadFile(ctx context.Context, header *multipart.FileHeader) (*dto.UploadedFile, error) {
	if err := s.validateFile(header); err != nil {
		return nil, err
	}
	return s.saveFile(ctx, header)
}

// saveFile streams the upload into object storage under a fresh uuid key,
// keeping the original extension.
func (s *uploadService) saveFile(ctx context.Context, header *multipart.FileHeader) (*dto.UploadedFile, error) {
	src, err := header.Open()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	defer src.Close()

	key := fmt.Sprintf("%s/%s%s", s.cfg.Folder, uuid.NewString(),
		strings.ToLower(filepath.Ext(header.Filename)))
	contentType := header.Header.Get("Content-Type")

	if err := s.store.Save(ctx, key, src, contentType); err != nil {
		logger.CtxWithError(ctx, "storage save failed", err, "key", key)
		return nil, apperrors.InternalError(err)
	}

	url, err := s.store.GetURL(ctx, key)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.UploadedFile{
		Name:     header.Filename,
		URL:      url,
		PublicID: key,
		Type:     contentType,
		Size:     header.Size,
	}, nil
}

func (s *uploadService) UploadMultiple(ctx context.Context, headers []*multipart.FileHeader) (*dto.MultiUploadResponse, error) {
	if len(headers) == 0 {
		return nil, apperrors.NewBadRequestError("No files uploaded")
	}
	if s.cfg.MaxFiles > 0 && len(headers) > s.cfg.MaxFiles {
		return nil, apperrors.NewBadRequestError(
			fmt.Sprintf("Too many files: at most %d per request", s.cfg.MaxFiles))
	}

	resp := &dto.MultiUploadResponse{Results: make([]dto.FileResult, 0, len(headers))}
	for _, header := range headers {
		file, err := s.UploadFile(ctx, header)
		if err != nil {
			resp.Failed++
			resp.Results = append(resp.Results, dto.FileResult{
				Name:    header.Filename,
				Success: false,
				Error:   uploadErrorMessage(err),
			})
			continue
		}
		resp.Uploaded++
		resp.Results = append(resp.Results, dto.FileResult{
			Name:    header.Filename,
			Success: true,
			File:    file,
		})
	}

	resp.Message = fmt.Sprintf("%d file(s) uploaded, %d failed", resp.Uploaded, resp.Failed)
	return resp, nil
}

func (s *uploadService) UploadToProject(ctx context.Context, userID string, role models.UserRole, projectID string, header *multipart.FileHeader) (*models.Document, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, repositories.ErrProjectNotFound) {
			return nil, apperrors.NewNotFoundError("Project not found")
		}
		return nil, apperrors.InternalError(err)
	}

	// Plain users may only attach to their own projects; reviewers and
	// admins may attach to any.
	if role == models.UserRoleUser && project.ApplicantID != userID {
		return nil, apperrors.ErrProjectAccessDenied
	}

	if err := s.validateFile(header); err != nil {
		return nil, err
	}

	file, err := s.saveFile(ctx, header)
	if err != nil {
		return nil, err
	}

	document := &models.Document{
		ProjectID:  projectID,
		Name:       file.Name,
		URL:        file.URL,
		StorageKey: file.PublicID,
		MimeType:   file.Type,
		Size:       file.Size,
	}
	if err := s.projectRepo.AddDocument(document); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return document, nil
}

func (s *uploadService) DeleteDocument(ctx context.Context, userID string, role models.UserRole, projectID, documentID string) error {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, repositories.ErrProjectNotFound) {
			return apperrors.NewNotFoundError("Project not found")
		}
		return apperrors.InternalError(err)
	}

	if role == models.UserRoleUser && project.ApplicantID != userID {
		return apperrors.ErrProjectAccessDenied
	}

	document, err := s.projectRepo.FindDocument(projectID, documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrDocumentNotFound
		}
		return apperrors.InternalError(err)
	}

	// The database row is the source of truth; a failed object delete only
	// leaves an orphan in the bucket.
	if document.StorageKey != "" {
		if err := s.store.Delete(ctx, document.StorageKey); err != nil {
			logger.CtxWithError(ctx, "storage delete failed", err, "key", document.StorageKey)
		}
	}

	if err := s.projectRepo.RemoveDocument(projectID, documentID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *uploadService) validateFile(header *multipart.FileHeader) error {
	if s.cfg.MaxSize > 0 && header.Size > s.cfg.MaxSize {
		return apperrors.ErrFileTooLarge
	}

	contentType := header.Header.Get("Content-Type")
	if len(s.cfg.AllowedTypes) > 0 && !s.isAllowedType(contentType) {
		return apperrors.ErrInvalidFileType
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if len(s.cfg.AllowedExts) > 0 && !s.isAllowedExt(ext) {
		return apperrors.ErrInvalidFileType
	}
	return nil
}

func (s *uploadService) isAllowedType(contentType string) bool {
	for _, allowed := range s.cfg.AllowedTypes {
		if strings.EqualFold(allowed, contentType) {
			return true
		}
	}
	return false
}

func (s *uploadService) isAllowedExt(ext string) bool {
	for _, allowed := range s.cfg.AllowedExts {
		if strings.EqualFold(allowed, ext) {
			return true
		}
	}
	return false
}

func uploadErrorMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "File upload failed"
}
