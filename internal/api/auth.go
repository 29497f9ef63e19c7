package api

import (
	"errors"
	"net/http"

	"github.com/blog-api/internal/policy"
	"github.com/blog-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const callerKey = "caller"

// authMiddleware resolves the request's Caller from HTTP Basic credentials.
// Requests without an Authorization header proceed as anonymous; a header
// that does not check out is rejected outright.
func authMiddleware(auth service.AuthService, log zerolog.Logger) gin.HandlerFunc {
	log = log.With().Str("middleware", "auth").Logger()

	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Set(callerKey, policy.Anonymous())
			c.Next()
			return
		}

		username, password, ok := c.Request.BasicAuth()
		if !ok {
			abortUnauthorized(c, "unsupported authorization scheme")
			return
		}

		caller, err := auth.Authenticate(c.Request.Context(), username, password)
		if errors.Is(err, service.ErrInvalidCredentials) {
			log.Debug().Str("username", username).Msg("Rejected credentials")
			abortUnauthorized(c, err.Error())
			return
		}
		if err != nil {
			log.Error().Err(err).Msg("Authentication failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		c.Set(callerKey, caller)
		c.Next()
	}
}

// callerFrom returns the identity resolved by authMiddleware
func callerFrom(c *gin.Context) policy.Caller {
	v, _ := c.Get(callerKey)
	if caller, ok := v.(policy.Caller); ok {
		return caller
	}
	return policy.Anonymous()
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", `Basic realm="blog"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}
