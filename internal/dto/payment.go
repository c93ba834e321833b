package dto

import (
	"time"

	"permiso_backend/internal/models"
)

type CreatePaymentIntentRequest struct {
	ProjectID string  `json:"projectId" validate:"required,uuid"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	Currency  string  `json:"currency"`
}

type CreatePaymentIntentResponse struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
}

type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"paymentIntentId" validate:"required"`
}

// PaymentRecord is the projection returned by the payment history endpoint.
type PaymentRecord struct {
	ID                    string               `json:"id"`
	Title                 string               `json:"title"`
	Type                  models.ProjectType   `json:"type"`
	PaymentStatus         models.PaymentStatus `json:"paymentStatus"`
	ActualCost            float64              `json:"actualCost"`
	StripePaymentIntentID string               `json:"stripePaymentIntentId"`
	UpdatedAt             time.Time            `json:"updatedAt"`
}

type PaymentHistoryResponse struct {
	Payments    []PaymentRecord `json:"payments"`
	TotalPages  int             `json:"totalPages"`
	CurrentPage int             `json:"currentPage"`
	Total       int64           `json:"total"`
}
