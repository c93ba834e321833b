package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"permiso_backend/internal/dto"
	"permiso_backend/internal/middleware"
	"permiso_backend/internal/models"
	"permiso_backend/internal/services"
)

type ReviewHandler struct {
	*BaseHandler
	reviewService services.ReviewService
}

func NewReviewHandler(base *BaseHandler, reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{BaseHandler: base, reviewService: reviewService}
}

func (h *ReviewHandler) RegisterRoutes(r *gin.RouterGroup, authMW gin.HandlerFunc) {
	reviews := r.Group("/reviews")
	reviews.Use(authMW, middleware.RequireRoles(models.UserRoleReviewer, models.UserRoleAdmin))
	{
		reviews.GET("/pending", h.GetPendingReviews)
		reviews.GET("/stats", h.GetReviewStats)
		reviews.POST("/:projectId/approve", h.ApproveProject)
		reviews.POST("/:projectId/reject", h.RejectProject)
		reviews.POST("/:projectId/comment", h.AddComment)
	}
}

func (h *ReviewHandler) GetPendingReviews(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var criteria dto.PendingReviewsCriteria
	if !h.BindAndValidate_Query(c, &criteria) {
		return
	}

	resp, err := h.reviewService.GetPendingReviews(userID, middleware.GetUserRole(c), criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ReviewHandler) GetReviewStats(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	stats, err := h.reviewService.GetReviewStats(userID, middleware.GetUserRole(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *ReviewHandler) ApproveProject(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ApproveRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	project, err := h.reviewService.ApproveProject(userID, middleware.GetUserRole(c), c.Param("projectId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project approved successfully",
		"project": project,
	})
}

func (h *ReviewHandler) RejectProject(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.RejectRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	project, err := h.reviewService.RejectProject(userID, middleware.GetUserRole(c), c.Param("projectId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project rejected successfully",
		"project": project,
	})
}

func (h *ReviewHandler) AddComment(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CommentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	comment, err := h.reviewService.AddComment(userID, middleware.GetUserRole(c), c.Param("projectId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Comment added successfully",
		"comment": comment,
	})
}
