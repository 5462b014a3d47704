package notify

import (
	"context"
	"errors"

	"tutor-platform/internal/domain/account"
)

// Notifier tells the outside world about account events. Implementations
// must not mutate the account.
type Notifier interface {
	AccountRegistered(ctx context.Context, a *account.Account) error
	AccountReviewed(ctx context.Context, a *account.Account) error
	PasswordResetIssued(ctx context.Context, a *account.Account, token string) error
	PasswordChanged(ctx context.Context, a *account.Account) error
}

type Nop struct{}

func (Nop) AccountRegistered(context.Context, *account.Account) error           { return nil }
func (Nop) AccountReviewed(context.Context, *account.Account) error             { return nil }
func (Nop) PasswordResetIssued(context.Context, *account.Account, string) error { return nil }
func (Nop) PasswordChanged(context.Context, *account.Account) error             { return nil }

// Multi fans every event out to all notifiers and joins their errors.
type Multi []Notifier

func (m Multi) AccountRegistered(ctx context.Context, a *account.Account) error {
	return m.each(func(n Notifier) error { return n.AccountRegistered(ctx, a) })
}

func (m Multi) AccountReviewed(ctx context.Context, a *account.Account) error {
	return m.each(func(n Notifier) error { return n.AccountReviewed(ctx, a) })
}

func (m Multi) PasswordResetIssued(ctx context.Context, a *account.Account, token string) error {
	return m.each(func(n Notifier) error { return n.PasswordResetIssued(ctx, a, token) })
}

func (m Multi) PasswordChanged(ctx context.Context, a *account.Account) error {
	return m.each(func(n Notifier) error { return n.PasswordChanged(ctx, a) })
}

func (m Multi) each(fn func(Notifier) error) error {
	var errs []error
	for _, n := range m {
		if err := fn(n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
