package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tutor-platform/internal/domain/account"
	appErrors "tutor-platform/pkg/errors"
	"tutor-platform/pkg/utils"
)

// gate runs check against the authenticated principal and aborts with a
// coded 403 when it fails.
func gate(check func(account.Principal) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			utils.CodedErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication credentials were not provided.")
			c.Abort()
			return
		}

		if err := check(principal); err != nil {
			utils.CodedErrorResponse(c, http.StatusForbidden, ForbiddenCode(err), err.Error())
			c.Abort()
			return
		}

		c.Next()
	}
}

// AdminOnly admits staff accounts.
func AdminOnly() gin.HandlerFunc {
	return gate(account.Principal.RequireAdmin)
}

// ApprovedRole admits approved accounts holding role.
func ApprovedRole(role account.Role) gin.HandlerFunc {
	return gate(func(p account.Principal) error {
		return p.RequireApprovedRole(role)
	})
}

func TutorOnly() gin.HandlerFunc {
	return ApprovedRole(account.RoleTutor)
}

func StudentOnly() gin.HandlerFunc {
	return ApprovedRole(account.RoleStudent)
}

// ForbiddenCode names the authorization failure so clients can tell a
// wrong role from a pending approval.
func ForbiddenCode(err error) string {
	switch {
	case errors.Is(err, appErrors.ErrWrongRole):
		return "WRONG_ROLE"
	case errors.Is(err, appErrors.ErrAccountNotApproved):
		return "ACCOUNT_NOT_APPROVED"
	case errors.Is(err, appErrors.ErrAccountRejected):
		return "ACCOUNT_REJECTED"
	case errors.Is(err, appErrors.ErrAdminRequired):
		return "ADMIN_REQUIRED"
	default:
		return "FORBIDDEN"
	}
}
