package routes

import (
	"github.com/gin-gonic/gin"

	"permiso_backend/internal/handlers"
	"permiso_backend/internal/logger"
	"permiso_backend/ws"
)

// RegisterRoutes wires every HTTP and WebSocket route. The auth middleware
// is passed in so handlers can mark individual routes public (register,
// login, the Stripe webhook).
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	wsHandler *ws.Handler,
	authMW gin.HandlerFunc,
) {
	api := ginRouter.Group("/api")
	{
		appHandlers.AuthHandler.RegisterRoutes(api, authMW)
		appHandlers.ProjectHandler.RegisterRoutes(api, authMW)
		appHandlers.ReviewHandler.RegisterRoutes(api, authMW)
		appHandlers.AdminHandler.RegisterRoutes(api, authMW)
		appHandlers.AIHandler.RegisterRoutes(api, authMW)
		appHandlers.PaymentHandler.RegisterRoutes(api, authMW)
		appHandlers.UploadHandler.RegisterRoutes(api, authMW)
		appHandlers.NotificationHandler.RegisterRoutes(api, authMW)
	}

	wsGroup := ginRouter.Group("/ws")
	wsGroup.Use(authMW)
	{
		wsGroup.GET("", wsHandler.ServeWS)
	}
	logger.Info("WebSocket route /ws registered")
}
