package services

import (
	"context"
	"encoding/json"
	"errors"
	"math"

	"permiso_backend/internal/dto"
	"permiso_backend/internal/logger"
	"permiso_backend/internal/models"
	"permiso_backend/internal/repositories"
	"permiso_backend/internal/stripeclient"
	"permiso_backend/pkg/apperrors"
)

type PaymentService interface {
	CreatePaymentIntent(ctx context.Context, userID string, req *dto.CreatePaymentIntentRequest) (*dto.CreatePaymentIntentResponse, error)
	ConfirmPayment(ctx context.Context, userID string, req *dto.ConfirmPaymentRequest) (*models.Project, error)
	GetPaymentHistory(userID string, page, limit int) (*dto.PaymentHistoryResponse, error)
	HandleWebhook(payload []byte, signature string) error
}

type paymentService struct {
	stripe        *stripeclient.Client
	webhookSecret string
	projectRepo   repositories.ProjectRepository
	userRepo      repositories.UserRepository
	notifications NotificationService
}

func NewPaymentService(
	stripe *stripeclient.Client,
	webhookSecret string,
	projectRepo repositories.ProjectRepository,
	userRepo repositories.UserRepository,
	notifications NotificationService,
) PaymentService {
	return &paymentService{
		stripe:        stripe,
		webhookSecret: webhookSecret,
		projectRepo:   projectRepo,
		userRepo:      userRepo,
		notifications: notifications,
	}
}

func (s *paymentService) CreatePaymentIntent(ctx context.Context, userID string, req *dto.CreatePaymentIntentRequest) (*dto.CreatePaymentIntentResponse, error) {
	project, err := s.projectRepo.FindByID(req.ProjectID)
	if err != nil {
		if errors.Is(err, repositories.ErrProjectNotFound) {
			return nil, apperrors.NewNotFoundError("Project not found")
		}
		return nil, apperrors.InternalError(err)
	}

	if project.ApplicantID != userID {
		return nil, apperrors.ErrProjectAccessDenied
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	customerID := user.StripeCustomerID
	if customerID == "" {
		customer, err := s.stripe.CreateCustomer(ctx, user.Email, user.Name)
		if err != nil {
			logger.CtxWithError(ctx, "stripe customer creation failed", err)
			return nil, apperrors.ErrStripeError
		}
		customerID = customer.ID

		if err := s.userRepo.UpdateStripeCustomerID(userID, customerID); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	currency := req.Currency
	if currency == "" {
		currency = "usd"
	}

	// Stripe amounts are in the smallest currency unit.
	intent, err := s.stripe.CreatePaymentIntent(ctx, customerID,
		int64(math.Round(req.Amount*100)), currency,
		map[string]string{
			"projectId": req.ProjectID,
			"userId":    userID,
		})
	if err != nil {
		logger.CtxWithError(ctx, "stripe payment intent creation failed", err)
		return nil, apperrors.ErrStripeError
	}

	if err := s.projectRepo.Updates(req.ProjectID, map[string]interface{}{
		"stripe_payment_intent_id": intent.ID,
	}); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.CreatePaymentIntentResponse{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
	}, nil
}

func (s *paymentService) ConfirmPayment(ctx context.Context, userID string, req *dto.ConfirmPaymentRequest) (*models.Project, error) {
	intent, err := s.stripe.GetPaymentIntent(ctx, req.PaymentIntentID)
	if err != nil {
		logger.CtxWithError(ctx, "stripe payment intent lookup failed", err)
		return nil, apperrors.ErrStripeError
	}

	if intent.Status != "succeeded" {
		return nil, apperrors.ErrPaymentNotCompleted
	}

	project, err := s.projectRepo.FindByPaymentIntentID(req.PaymentIntentID)
	if err != nil {
		if errors.Is(err, repositories.ErrProjectNotFound) {
			return nil, apperrors.NewNotFoundError("Project not found")
		}
		return nil, apperrors.InternalError(err)
	}

	if project.ApplicantID != userID {
		return nil, apperrors.ErrProjectAccessDenied
	}

	if err := s.projectRepo.Updates(project.ID, map[string]interface{}{
		"payment_status": models.PaymentStatusPaid,
		"actual_cost":    float64(intent.Amount) / 100,
	}); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.projectRepo.FindByID(project.ID)
}

func (s *paymentService) GetPaymentHistory(userID string, page, limit int) (*dto.PaymentHistoryResponse, error) {
	normalizePage(&page, &limit, 10)

	projects, total, err := s.projectRepo.ListPaymentHistory(userID, page, limit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	payments := make([]dto.PaymentRecord, 0, len(projects))
	for _, p := range projects {
		payments = append(payments, dto.PaymentRecord{
			ID:                    p.ID,
			Title:                 p.Title,
			Type:                  p.Type,
			PaymentStatus:         p.PaymentStatus,
			ActualCost:            p.ActualCost,
			StripePaymentIntentID: p.StripePaymentIntentID,
			UpdatedAt:             p.UpdatedAt,
		})
	}

	return &dto.PaymentHistoryResponse{
		Payments:    payments,
		TotalPages:  totalPages(total, limit),
		CurrentPage: page,
		Total:       total,
	}, nil
}

// HandleWebhook verifies and applies a Stripe webhook event. Unknown event
// types are acknowledged and ignored.
func (s *paymentService) HandleWebhook(payload []byte, signature string) error {
	event, err := stripeclient.ConstructEvent(payload, signature, s.webhookSecret)
	if err != nil {
		logger.WithError(err).Warn("stripe webhook signature verification failed")
		return apperrors.ErrWebhookSignature
	}

	var intent stripeclient.PaymentIntent
	if err := json.Unmarshal(event.Data.Object, &intent); err != nil {
		return apperrors.ErrWebhookSignature
	}

	switch event.Type {
	case "payment_intent.succeeded":
		return s.applyPaymentOutcome(intent.ID, map[string]interface{}{
			"payment_status": models.PaymentStatusPaid,
			"actual_cost":    float64(intent.Amount) / 100,
		}, "Payment Received", "Your payment has been received.")

	case "payment_intent.payment_failed":
		return s.applyPaymentOutcome(intent.ID, map[string]interface{}{
			"payment_status": models.PaymentStatusFailed,
		}, "Payment Failed", "Your payment could not be processed. Please try again.")

	default:
		logger.Debug("unhandled stripe webhook event", "type", event.Type)
		return nil
	}
}

func (s *paymentService) applyPaymentOutcome(intentID string, fields map[string]interface{}, title, message string) error {
	project, err := s.projectRepo.FindByPaymentIntentID(intentID)
	if err != nil {
		if errors.Is(err, repositories.ErrProjectNotFound) {
			// Intent created outside this system; nothing to update.
			return nil
		}
		return apperrors.InternalError(err)
	}

	if err := s.projectRepo.Updates(project.ID, fields); err != nil {
		return apperrors.InternalError(err)
	}

	_ = s.notifications.Notify(&models.Notification{
		UserID:    project.ApplicantID,
		Type:      models.NotificationPayment,
		Title:     title,
		Message:   message,
		ProjectID: &project.ID,
		Priority:  models.NotificationPriorityMedium,
	})

	return nil
}
