package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"permiso_backend/internal/dto"
	"permiso_backend/internal/logger"
	"permiso_backend/internal/services"
	"permiso_backend/pkg/apperrors"
)

type PaymentHandler struct {
	*BaseHandler
	paymentService services.PaymentService
}

func NewPaymentHandler(base *BaseHandler, paymentService services.PaymentService) *PaymentHandler {
	return &PaymentHandler{BaseHandler: base, paymentService: paymentService}
}

func (h *PaymentHandler) RegisterRoutes(r *gin.RouterGroup, authMW gin.HandlerFunc) {
	payments := r.Group("/payments")
	{
		// The webhook authenticates with its signature, not a bearer token.
		payments.POST("/webhook", h.Webhook)

		payments.POST("/create-payment-intent", authMW, h.CreatePaymentIntent)
		payments.POST("/confirm", authMW, h.ConfirmPayment)
		payments.GET("/history", authMW, h.GetPaymentHistory)
	}
}

func (h *PaymentHandler) CreatePaymentIntent(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreatePaymentIntentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.paymentService.CreatePaymentIntent(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PaymentHandler) ConfirmPayment(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ConfirmPaymentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	project, err := h.paymentService.ConfirmPayment(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment confirmed successfully",
		"project": project,
	})
}

func (h *PaymentHandler) GetPaymentHistory(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	page := ParseQueryInt(c, "page", 1)
	limit := ParseQueryInt(c, "limit", 10)

	resp, err := h.paymentService.GetPaymentHistory(userID, page, limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Webhook verifies the Stripe signature over the raw body: the payload must
// not go through JSON binding before verification.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		logger.CtxWithError(c.Request.Context(), "failed to read webhook body", err)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Unable to read request body"))
		return
	}

	if err := h.paymentService.HandleWebhook(payload, c.GetHeader("Stripe-Signature")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
