package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"permiso_backend/internal/dto"
	"permiso_backend/internal/services"
)

type AIHandler struct {
	*BaseHandler
	aiService       services.AIService
	estimateService services.EstimateService
}

func NewAIHandler(base *BaseHandler, aiService services.AIService, estimateService services.EstimateService) *AIHandler {
	return &AIHandler{
		BaseHandler:     base,
		aiService:       aiService,
		estimateService: estimateService,
	}
}

func (h *AIHandler) RegisterRoutes(r *gin.RouterGroup, authMW gin.HandlerFunc) {
	ai := r.Group("/ai")
	ai.Use(authMW)
	{
		ai.POST("/chat", h.Chat)
		ai.POST("/analyze", h.AnalyzeDocument)
		ai.POST("/estimate", h.Estimate)
		ai.POST("/validate", h.ValidateForm)
	}
}

func (h *AIHandler) Chat(c *gin.Context) {
	var req dto.ChatRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.aiService.Chat(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AIHandler) AnalyzeDocument(c *gin.Context) {
	var req dto.AnalyzeRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	analysis, err := h.aiService.AnalyzeDocument(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Document analyzed successfully",
		"analysis": analysis,
	})
}

func (h *AIHandler) Estimate(c *gin.Context) {
	var req dto.EstimateRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	estimate := h.estimateService.Estimate(&req)

	c.JSON(http.StatusOK, gin.H{
		"message":  "Estimate generated successfully",
		"estimate": estimate,
	})
}

func (h *AIHandler) ValidateForm(c *gin.Context) {
	var req dto.ValidateRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	validation := h.aiService.ValidateForm(&req)

	c.JSON(http.StatusOK, gin.H{
		"message":    "Validation completed",
		"validation": validation,
	})
}
