package account

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository is the credential store. Create persists the account and its
// profile in one transaction.
type Repository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, accountID uuid.UUID) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	UpdateLifecycle(ctx context.Context, accountID uuid.UUID, state State) error
	SetResetToken(ctx context.Context, accountID uuid.UUID, token string, issuedAt time.Time) error
	// ConsumeResetToken swaps the password hash and clears the token in a
	// single conditional update. Tokens issued before issuedAfter are
	// treated as unknown; a zero issuedAfter disables the check.
	ConsumeResetToken(ctx context.Context, token, passwordHash string, issuedAfter time.Time) (*Account, error)
	// ClearExpiredResetTokens drops tokens issued at or before issuedBefore
	// and reports how many were removed.
	ClearExpiredResetTokens(ctx context.Context, issuedBefore time.Time) (int64, error)
}

type ProfileFilter struct {
	Role       Role
	IsApproved *bool
	IsRejected *bool
}

// ProfileRepository reads profiles joined with their owning account.
type ProfileRepository interface {
	GetProfile(ctx context.Context, accountID uuid.UUID) (Profile, error)
	List(ctx context.Context, filter ProfileFilter) ([]*Account, error)
}

// SessionRepository keeps one long-lived session token per account.
type SessionRepository interface {
	// GetOrCreate returns the existing key for accountID, storing candidate
	// only when none exists yet.
	GetOrCreate(ctx context.Context, accountID uuid.UUID, candidate string) (string, error)
	GetAccountID(ctx context.Context, key string) (uuid.UUID, error)
}
