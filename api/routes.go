package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"

	"github.com/mailpin/mailpin/api/handlers"
	"github.com/mailpin/mailpin/api/middleware"
	"github.com/mailpin/mailpin/internal/repository"
	"github.com/mailpin/mailpin/internal/tracing"
	"github.com/mailpin/mailpin/services"
)

// RegisterRoutes sets up all API endpoints
func RegisterRoutes(ctx context.Context, r *gin.Engine, s *services.Services, repos *repository.Repositories, apikey string) {
	if s == nil {
		panic("Services cannot be nil")
	}
	if repos == nil {
		panic("Repositories cannot be nil")
	}

	// Add recovery middlewares
	r.Use(gin.Recovery())                                         // Gin's built-in recovery
	r.Use(tracing.RecoveryWithJaeger(opentracing.GlobalTracer())) // Our custom Jaeger recovery
	r.Use(middleware.RequestIDMiddleware())

	// setup handlers
	apiHandlers := handlers.InitHandlers(repos, s)

	// Health check endpoint
	r.GET("/health", handlers.HealthCheck)

	// Inbound webhook stays open: Postmark does not send an API key
	r.POST("/webhook", apiHandlers.Webhook.ReceiveInboundEmail())

	// Read-only API group, versioned and key-protected
	api := r.Group("/v1")
	api.Use(middleware.APIKeyMiddleware(apikey))
	api.Use(middleware.TracingMiddleware())
	{
		emails := api.Group("/emails")
		{
			emails.GET("", apiHandlers.Emails.List())
			emails.GET("/:id", apiHandlers.Emails.GetByID())
			emails.GET("/:id/attachments", apiHandlers.Attachments.ListForEmail())
		}

		attachments := api.Group("/attachments")
		{
			attachments.GET("/:id", apiHandlers.Attachments.Download())
		}
	}
}
