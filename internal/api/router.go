package api

import (
	"net/http"
	"time"

	"github.com/blog-api/internal/config"
	"github.com/blog-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const requestIDHeader = "X-Request-ID"

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	// Handlers
	articleHandler := NewArticleHandler(services, log)
	commentHandler := NewCommentHandler(services, log)

	// Health check
	router.GET("/health", healthCheck(services))
	router.GET("/metrics", metricsHandler(services, log))

	// API v1
	v1 := router.Group("/v1")
	v1.Use(authMiddleware(services.Auth, log))
	{
		articles := v1.Group("/articles")
		{
			articles.GET("", articleHandler.List)
			articles.POST("", articleHandler.Create)
			articles.GET("/:id", articleHandler.Get)
			articles.PUT("/:id", articleHandler.Update)
			articles.DELETE("/:id", articleHandler.Delete)
		}

		comments := v1.Group("/comments")
		{
			comments.GET("", commentHandler.List)
			comments.POST("", commentHandler.Create)
			comments.GET("/:id", commentHandler.Get)
			comments.PUT("/:id", commentHandler.Update)
			comments.DELETE("/:id", commentHandler.Delete)
		}
	}

	log.Debug().
		Str("port", cfg.Server.Port).
		Str("storage", cfg.Storage.Driver).
		Msg("Router configured")

	return router
}

// healthCheck returns the health status, including the backing store
func healthCheck(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, code := "healthy", http.StatusOK
		if err := services.Status.HealthCheck(c.Request.Context()); err != nil {
			status, code = "unhealthy", http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   "blog-api",
		})
	}
}

// metricsHandler returns row counts per resource
func metricsHandler(services *service.Services, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		counts, err := services.Status.Counts(c.Request.Context())
		if err != nil {
			log.Error().Err(err).Msg("Failed to collect counts")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to collect metrics"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"database":  counts,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Str("request_id", c.GetString("request_id")).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// requestIDMiddleware propagates the client's request id or assigns a new one
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Str("request_id", c.GetString("request_id")).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+requestIDHeader)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
