package api

import (
	"errors"
	"net/http"

	"github.com/blog-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// writeError maps a service error onto its HTTP status and JSON body
func writeError(c *gin.Context, log zerolog.Logger, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": verr.Fields})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUnauthenticated), errors.Is(err, service.ErrInvalidCredentials):
		c.Header("WWW-Authenticate", `Basic realm="blog"`)
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// bindJSON decodes the request body, answering 400 itself when it cannot
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}
