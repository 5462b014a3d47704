package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"tutor-platform/internal/domain/account"
)

// PlainHasher stores passwords with a visible prefix so tests stay fast.
type PlainHasher struct{}

func (PlainHasher) Hash(password string) (string, error) {
	return "plain$" + password, nil
}

func (PlainHasher) Verify(hashed, password string) bool {
	return strings.TrimPrefix(hashed, "plain$") == password && strings.HasPrefix(hashed, "plain$")
}

// SequenceTokens yields prefix-1, prefix-2, ... in order.
type SequenceTokens struct {
	mu     sync.Mutex
	prefix string
	n      int
}

func NewSequenceTokens(prefix string) *SequenceTokens {
	return &SequenceTokens{prefix: prefix}
}

func (g *SequenceTokens) Generate() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n), nil
}

// RecordingNotifier remembers every event it receives.
type RecordingNotifier struct {
	mu     sync.Mutex
	Events []string
	Tokens map[string]string
}

func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{Tokens: make(map[string]string)}
}

func (r *RecordingNotifier) AccountRegistered(_ context.Context, a *account.Account) error {
	r.record("registered:" + a.Email)
	return nil
}

func (r *RecordingNotifier) AccountReviewed(_ context.Context, a *account.Account) error {
	r.record("reviewed:" + a.Email + ":" + string(a.Lifecycle.Status()))
	return nil
}

func (r *RecordingNotifier) PasswordResetIssued(_ context.Context, a *account.Account, token string) error {
	r.mu.Lock()
	r.Tokens[a.Email] = token
	r.mu.Unlock()
	r.record("reset_issued:" + a.Email)
	return nil
}

func (r *RecordingNotifier) PasswordChanged(_ context.Context, a *account.Account) error {
	r.record("password_changed:" + a.Email)
	return nil
}

func (r *RecordingNotifier) Snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.Events...)
}

func (r *RecordingNotifier) record(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, event)
}
