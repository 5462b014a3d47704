package account

import (
	"github.com/google/uuid"

	appErrors "tutor-platform/pkg/errors"
)

// Principal is the authenticated caller resolved from a session token.
// Handlers and services receive it explicitly.
type Principal struct {
	AccountID uuid.UUID
	Email     string
	Role      Role
	IsStaff   bool
	Lifecycle State
}

func NewPrincipal(a *Account) Principal {
	return Principal{
		AccountID: a.ID,
		Email:     a.Email,
		Role:      a.Role,
		IsStaff:   a.IsStaff,
		Lifecycle: a.Lifecycle,
	}
}

func (p Principal) RequireAdmin() error {
	if !p.IsStaff {
		return appErrors.ErrAdminRequired
	}
	return nil
}

// RequireApprovedRole lets through only approved accounts of the given role.
// The role check runs first so callers can tell the two refusals apart.
func (p Principal) RequireApprovedRole(role Role) error {
	if p.Role != role {
		return appErrors.ErrWrongRole
	}
	if !p.Lifecycle.IsApproved {
		return appErrors.ErrAccountNotApproved
	}
	return nil
}
