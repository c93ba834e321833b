package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"permiso_backend/internal/middleware"
	"permiso_backend/internal/services"
	"permiso_backend/pkg/apperrors"
)

type UploadHandler struct {
	*BaseHandler
	uploadService services.UploadService
}

func NewUploadHandler(base *BaseHandler, uploadService services.UploadService) *UploadHandler {
	return &UploadHandler{BaseHandler: base, uploadService: uploadService}
}

func (h *UploadHandler) RegisterRoutes(r *gin.RouterGroup, authMW gin.HandlerFunc) {
	uploads := r.Group("/uploads")
	uploads.Use(authMW)
	{
		uploads.POST("", h.UploadFile)
		uploads.POST("/multiple", h.UploadMultiple)
		uploads.POST("/project/:projectId", h.UploadToProject)
		uploads.DELETE("/project/:projectId/:documentId", h.DeleteDocument)
	}
}

func (h *UploadHandler) UploadFile(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("No file uploaded"))
		return
	}

	file, err := h.uploadService.UploadFile(c.Request.Context(), header)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "File uploaded successfully",
		"file":    file,
	})
}

func (h *UploadHandler) UploadMultiple(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid multipart form"))
		return
	}

	resp, err := h.uploadService.UploadMultiple(c.Request.Context(), form.File["files"])
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *UploadHandler) UploadToProject(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("No file uploaded"))
		return
	}

	document, err := h.uploadService.UploadToProject(
		c.Request.Context(), userID, middleware.GetUserRole(c), c.Param("projectId"), header)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "File uploaded and attached to project successfully",
		"document": document,
	})
}

func (h *UploadHandler) DeleteDocument(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	err := h.uploadService.DeleteDocument(
		c.Request.Context(), userID, middleware.GetUserRole(c),
		c.Param("projectId"), c.Param("documentId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Document deleted successfully"})
}
