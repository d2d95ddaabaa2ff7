package routes

import (
	"github.com/gin-gonic/gin"

	"a2t/internal/api/v1/handlers"
	"a2t/internal/api/v1/services"
)

// RegisterRoutes registers all v1 API routes
func RegisterRoutes(router *gin.RouterGroup, container *ServiceContainer) {
	// Transcription routes
	transcriptionHandler := handlers.NewTranscriptionHandler(container.TranscriptionService)
	transcriptions := router.Group("/transcriptions")
	{
		transcriptions.POST("/upload", transcriptionHandler.Upload)
		transcriptions.GET("/current", transcriptionHandler.Current)
	}
}

// ServiceContainer holds all services needed by handlers
type ServiceContainer struct {
	TranscriptionService services.TranscriptionService
}
