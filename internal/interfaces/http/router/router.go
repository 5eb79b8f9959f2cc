// Package router assembles the HTTP surface: the inventory webhook callback
// and the liveness probe.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/syncbridge/backend/internal/infrastructure/logger"
	"github.com/syncbridge/backend/internal/interfaces/http/handler"
	"github.com/syncbridge/backend/internal/interfaces/http/middleware"
)

// Handlers groups the handlers mounted by Setup.
type Handlers struct {
	Webhook *handler.WebhookHandler
	Health  *handler.HealthHandler
}

// Setup builds the gin engine with the shared middleware chain and routes.
func Setup(log *zap.Logger, handlers Handlers) *gin.Engine {
	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		gin.Recovery(),
	)

	engine.POST("/webhook", handlers.Webhook.HandleOrderUpdate)
	engine.GET("/health", handlers.Health.GetHealth)

	return engine
}
