package handlers

// AppHandlers holds every route handler of the application.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	ProjectHandler      *ProjectHandler
	ReviewHandler       *ReviewHandler
	AdminHandler        *AdminHandler
	AIHandler           *AIHandler
	PaymentHandler      *PaymentHandler
	UploadHandler       *UploadHandler
	NotificationHandler *NotificationHandler
}
