package apperrors

import (
	"net/http"
)

// Factories and predefined variables for the domain errors of the permit
// platform. Repositories return their own sentinel errors; services convert
// them with these factories before they reach a handler.

// ErrNotFound converts a repository not-found error into a 404.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists converts a uniqueness violation into a 409.
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrInvalidOperation flags an operation the current state does not allow.
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrInvalidStatus flags an unknown or unusable status value.
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// --- Auth ---

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already exists",
	http.StatusConflict,
)

// --- Projects & reviews ---

var ErrProjectAccessDenied = New(
	CodeForbidden,
	"project",
	"Access denied",
	http.StatusForbidden,
)

var ErrNotAssignedReviewer = New(
	CodeForbidden,
	"review",
	"Access denied: you are not the assigned reviewer",
	http.StatusForbidden,
)

// --- Uploads & files ---

var ErrFileTooLarge = New(
	CodeLimitExceeded,
	"validation",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

var ErrInvalidFileType = New(
	CodeValidationFailed,
	"validation",
	"Only images, PDFs, and CAD files are allowed",
	http.StatusUnsupportedMediaType,
)

var ErrDocumentNotFound = New(
	CodeNotFound,
	"upload",
	"Document not found",
	http.StatusNotFound,
)

// --- Payments ---

var ErrPaymentNotCompleted = New(
	CodeInvalidOperation,
	"payment",
	"Payment not completed",
	http.StatusBadRequest,
)

var ErrStripeError = New(
	CodeExternalServiceError,
	"payment",
	"Payment processing failed",
	http.StatusInternalServerError,
)

var ErrWebhookSignature = New(
	CodeValidationFailed,
	"payment",
	"Webhook signature verification failed",
	http.StatusBadRequest,
)

// --- AI proxy ---

var ErrAIChatFailed = New(
	CodeExternalServiceError,
	"ai",
	"AI chat failed",
	http.StatusInternalServerError,
)

var ErrAIAnalysisFailed = New(
	CodeExternalServiceError,
	"ai",
	"AI analysis failed",
	http.StatusInternalServerError,
)
