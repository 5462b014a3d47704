package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tutor-platform/internal/domain/account"
	"tutor-platform/internal/logger"
	appErrors "tutor-platform/pkg/errors"
	"tutor-platform/pkg/utils"
)

const PrincipalKey = "principal"

// Authenticator resolves a session token to the calling principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (account.Principal, error)
}

// AuthMiddleware accepts "Authorization: Token <key>" and the Bearer form.
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.CodedErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication credentials were not provided.")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || (!strings.EqualFold(parts[0], "Token") && !strings.EqualFold(parts[0], "Bearer")) {
			utils.CodedErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid authorization header format")
			c.Abort()
			return
		}

		principal, err := auth.Authenticate(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			if !errors.Is(err, appErrors.ErrUnauthorized) {
				logger.Error("Session lookup failed",
					zap.String("request_id", GetRequestID(c)),
					zap.Error(err),
				)
				utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
				c.Abort()
				return
			}
			utils.CodedErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token.")
			c.Abort()
			return
		}

		c.Set(PrincipalKey, principal)
		c.Next()
	}
}

// GetPrincipal returns the principal stored by AuthMiddleware.
func GetPrincipal(c *gin.Context) (account.Principal, bool) {
	value, exists := c.Get(PrincipalKey)
	if !exists {
		return account.Principal{}, false
	}
	principal, ok := value.(account.Principal)
	return principal, ok
}
