package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"permiso_backend/internal/dto"
	"permiso_backend/internal/middleware"
	"permiso_backend/internal/models"
	"permiso_backend/internal/services"
)

type AdminHandler struct {
	*BaseHandler
	adminService        services.AdminService
	analyticsService    services.AnalyticsService
	notificationService services.NotificationService
}

func NewAdminHandler(
	base *BaseHandler,
	adminService services.AdminService,
	analyticsService services.AnalyticsService,
	notificationService services.NotificationService,
) *AdminHandler {
	return &AdminHandler{
		BaseHandler:         base,
		adminService:        adminService,
		analyticsService:    analyticsService,
		notificationService: notificationService,
	}
}

func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, authMW gin.HandlerFunc) {
	admin := r.Group("/admin")
	admin.Use(authMW, middleware.RequireRoles(models.UserRoleAdmin))
	{
		admin.GET("/dashboard", h.GetDashboard)
		admin.GET("/analytics", h.GetAnalytics)
		admin.GET("/users", h.ListUsers)
		admin.PUT("/users/:id/role", h.UpdateUserRole)
		admin.GET("/projects", h.ListProjects)
		admin.GET("/audit", h.GetAuditTrail)
	}
}

func (h *AdminHandler) GetDashboard(c *gin.Context) {
	resp, err := h.analyticsService.GetDashboard(c.DefaultQuery("period", "30d"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) GetAnalytics(c *gin.Context) {
	resp, err := h.analyticsService.GetAnalytics(c.DefaultQuery("period", "30d"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	var criteria dto.UserListCriteria
	if !h.BindAndValidate_Query(c, &criteria) {
		return
	}

	resp, err := h.adminService.ListUsers(criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	var req dto.UpdateRoleRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.adminService.UpdateUserRole(c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User role updated successfully",
		"user":    user,
	})
}

func (h *AdminHandler) ListProjects(c *gin.Context) {
	var criteria dto.AdminProjectCriteria
	if !h.BindAndValidate_Query(c, &criteria) {
		return
	}

	resp, err := h.adminService.ListProjects(criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) GetAuditTrail(c *gin.Context) {
	var criteria dto.AuditCriteria
	if !h.BindAndValidate_Query(c, &criteria) {
		return
	}

	resp, err := h.notificationService.GetAuditTrail(criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
