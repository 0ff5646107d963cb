package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ganttplan/ganttplan-backend/internal/api/http/apierr"
	"github.com/ganttplan/ganttplan-backend/internal/auth"
	"github.com/ganttplan/ganttplan-backend/internal/logging"
)

// TokenVerifier is implemented by auth.JWTManager and auth.FirebaseVerifier.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (auth.Identity, error)
}

// Authenticate validates the bearer token and stores the caller's identity
// on the context.
func Authenticate(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization token"})
			c.Abort()
			return
		}

		id, err := verifier.Verify(c.Request.Context(), token)
		if errors.Is(err, auth.ErrInvalidToken) {
			logging.FromContext(c.Request.Context()).Debug("token rejected", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		if err != nil {
			apierr.Write(c, err)
			c.Abort()
			return
		}

		auth.SetIdentity(c, id)
		c.Next()
	}
}

// RequireRole lets the request through only when the caller holds one of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		have := auth.UserRole(c)
		for _, r := range roles {
			if strings.EqualFold(have, r) {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
		c.Abort()
	}
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return strings.TrimSpace(bearerToken[7:])
	}
	return ""
}
