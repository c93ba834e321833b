package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"permiso_backend/internal/dto"
	"permiso_backend/internal/middleware"
	"permiso_backend/internal/models"
	"permiso_backend/internal/services"
)

type ProjectHandler struct {
	*BaseHandler
	projectService services.ProjectService
}

func NewProjectHandler(base *BaseHandler, projectService services.ProjectService) *ProjectHandler {
	return &ProjectHandler{BaseHandler: base, projectService: projectService}
}

func (h *ProjectHandler) RegisterRoutes(r *gin.RouterGroup, authMW gin.HandlerFunc) {
	projects := r.Group("/projects")
	projects.Use(authMW)
	{
		projects.POST("", middleware.RequireRoles(models.UserRoleUser), h.CreateProject)
		projects.GET("", h.ListProjects)
		projects.GET("/:id", h.GetProject)
		projects.PUT("/:id", h.UpdateProject)
		projects.DELETE("/:id", h.DeleteProject)
		projects.POST("/:id/assign",
			middleware.RequireRoles(models.UserRoleAdmin, models.UserRoleReviewer), h.AssignReviewer)
	}
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateProjectRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	project, err := h.projectService.CreateProject(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Project created successfully",
		"project": project,
	})
}

func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var criteria dto.ProjectListCriteria
	if !h.BindAndValidate_Query(c, &criteria) {
		return
	}

	resp, err := h.projectService.ListProjects(userID, middleware.GetUserRole(c), criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(userID, middleware.GetUserRole(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project})
}

func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	project, err := h.projectService.UpdateProject(userID, middleware.GetUserRole(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project updated successfully",
		"project": project,
	})
}

func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(userID, middleware.GetUserRole(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

func (h *ProjectHandler) AssignReviewer(c *gin.Context) {
	var req dto.AssignProjectRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	project, err := h.projectService.AssignReviewer(c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reviewer assigned successfully",
		"project": project,
	})
}
