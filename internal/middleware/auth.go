package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"obradoc/internal/auth"
	"obradoc/internal/config"
	"obradoc/internal/model"
)

const sessionContextKey = "session"

// Auth validates the Bearer token and attaches the resolved session to both
// the gin context and the request context.
func Auth(cfg *config.Config) gin.HandlerFunc {
	secret := []byte(cfg.Auth.JWTSecret)
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.NewErrorResponse("authentication required", ""))
			return
		}

		claims, err := auth.ParseToken(token, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.NewErrorResponse("invalid or expired token", ""))
			return
		}
		session, err := claims.Session()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.NewErrorResponse("invalid token claims", ""))
			return
		}

		c.Set(sessionContextKey, session)
		c.Request = c.Request.WithContext(auth.WithSession(c.Request.Context(), session))
		c.Next()
	}
}

// RequirePermission rejects callers whose role lacks the capability. Must
// run after Auth.
func RequirePermission(cap auth.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := Session(c)
		if session == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.NewErrorResponse("authentication required", ""))
			return
		}
		if !session.Can(cap) {
			c.AbortWithStatusJSON(http.StatusForbidden, model.NewErrorResponse("permission denied", ""))
			return
		}
		c.Next()
	}
}

// Session returns the authenticated session, or nil outside Auth.
func Session(c *gin.Context) *auth.Session {
	if v, ok := c.Get(sessionContextKey); ok {
		if s, ok := v.(*auth.Session); ok {
			return s
		}
	}
	return nil
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	// Websocket clients cannot set headers from the browser.
	return c.Query("token")
}
