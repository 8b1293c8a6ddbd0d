// Package httpapi exposes the backend over HTTP/JSON using gin. It owns the
// transport concerns only: binding, status codes, and the bearer-token
// middleware. Business rules live in the services package.
package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ruedaverde/backend/internal/server/auth"
	"github.com/ruedaverde/backend/internal/server/models"
)

type ctxKey string

const (
	userIDKey ctxKey = "userID"
	rolKey    ctxKey = "rol"
)

// UserIDFromContext returns the authenticated account id set by Authenticate.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

// RolFromContext returns the authenticated account role set by Authenticate.
func RolFromContext(ctx context.Context) (models.Role, bool) {
	rol, ok := ctx.Value(rolKey).(models.Role)
	return rol, ok
}

// Authenticate guards protected routes. It extracts the bearer token from the
// Authorization header, validates it, and attaches the account identity to
// the request context. Every failure kind (missing header, malformed token,
// bad signature, expiry) collapses to the same 401 on the wire; the concrete
// kind is only logged.
func (s *HTTPServer) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			s.logger.Debug(c.Request.Context(), "missing authorization header")
			unauthorized(c)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			s.logger.Debug(c.Request.Context(), "invalid authorization header format")
			unauthorized(c)
			return
		}

		claims, err := auth.ParseToken(strings.TrimSpace(parts[1]), s.jwtSecret)
		if err != nil {
			s.logger.Debug(c.Request.Context(), "token validation failed", "reason", err.Error())
			unauthorized(c)
			return
		}

		ctx := context.WithValue(c.Request.Context(), userIDKey, claims.UserID)
		ctx = context.WithValue(ctx, rolKey, claims.Rol)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No autorizado"})
}
