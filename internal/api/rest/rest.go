package rest

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures the webhook and health routes
func SetupRoutes(router *gin.Engine, handler Handler) {
	router.GET("/", handler.Health)
	router.POST("/alert/webhook", handler.Webhook)
}
