package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"tutor-platform/internal/domain/account"
	appErrors "tutor-platform/pkg/errors"
)

var (
	_ account.Repository        = (*MemoryStore)(nil)
	_ account.ProfileRepository = (*MemoryStore)(nil)
	_ account.SessionRepository = (*MemoryStore)(nil)
)

// MemoryStore is a goroutine-safe in-memory replacement for the postgres
// repositories. It enforces the same uniqueness and single-use rules.
type MemoryStore struct {
	mu        sync.Mutex
	accounts  map[uuid.UUID]*account.Account
	sessions  map[string]uuid.UUID
	byAccount map[uuid.UUID]string
	now       func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts:  make(map[uuid.UUID]*account.Account),
		sessions:  make(map[string]uuid.UUID),
		byAccount: make(map[uuid.UUID]string),
		now:       time.Now,
	}
}

func (m *MemoryStore) Create(_ context.Context, a *account.Account) error {
	if err := a.CheckProfile(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.accounts {
		if existing.Email == a.Email {
			return appErrors.ErrDuplicateEmail
		}
		if a.MobileNumber != nil && existing.MobileNumber != nil && *existing.MobileNumber == *a.MobileNumber {
			return appErrors.ErrDuplicateMobile
		}
	}

	now := m.now()
	a.ID = uuid.New()
	a.CreatedAt = now
	a.UpdatedAt = now
	m.accounts[a.ID] = clone(a)
	return nil
}

func (m *MemoryStore) GetByID(_ context.Context, id uuid.UUID) (*account.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.accounts[id]
	if !ok {
		return nil, appErrors.ErrAccountNotFound
	}
	return clone(a), nil
}

func (m *MemoryStore) GetByEmail(_ context.Context, email string) (*account.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.accounts {
		if a.Email == email {
			return clone(a), nil
		}
	}
	return nil, appErrors.ErrAccountNotFound
}

func (m *MemoryStore) UpdateLifecycle(_ context.Context, id uuid.UUID, state account.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.accounts[id]
	if !ok {
		return appErrors.ErrAccountNotFound
	}
	a.Lifecycle = cloneState(state)
	a.UpdatedAt = m.now()
	return nil
}

func (m *MemoryStore) SetResetToken(_ context.Context, id uuid.UUID, token string, issuedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.accounts[id]
	if !ok {
		return appErrors.ErrAccountNotFound
	}
	a.ResetToken = &token
	a.ResetTokenIssuedAt = &issuedAt
	return nil
}

func (m *MemoryStore) ConsumeResetToken(_ context.Context, token, passwordHash string, issuedAfter time.Time) (*account.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.accounts {
		if a.ResetToken == nil || *a.ResetToken != token {
			continue
		}
		if !issuedAfter.IsZero() && (a.ResetTokenIssuedAt == nil || !a.ResetTokenIssuedAt.After(issuedAfter)) {
			return nil, appErrors.ErrInvalidToken
		}
		a.PasswordHash = passwordHash
		a.ResetToken = nil
		a.ResetTokenIssuedAt = nil
		a.UpdatedAt = m.now()
		return clone(a), nil
	}
	return nil, appErrors.ErrInvalidToken
}

func (m *MemoryStore) ClearExpiredResetTokens(_ context.Context, issuedBefore time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var cleared int64
	for _, a := range m.accounts {
		if a.ResetToken == nil || a.ResetTokenIssuedAt == nil || a.ResetTokenIssuedAt.After(issuedBefore) {
			continue
		}
		a.ResetToken = nil
		a.ResetTokenIssuedAt = nil
		cleared++
	}
	return cleared, nil
}

func (m *MemoryStore) GetProfile(_ context.Context, id uuid.UUID) (account.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.accounts[id]
	if !ok {
		return nil, appErrors.ErrAccountNotFound
	}
	if a.Profile == nil {
		return nil, appErrors.ErrProfileNotFound
	}
	return cloneProfile(a.Profile), nil
}

func (m *MemoryStore) List(_ context.Context, filter account.ProfileFilter) ([]*account.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*account.Account
	for _, a := range m.accounts {
		if a.Role != filter.Role || a.Profile == nil {
			continue
		}
		if filter.IsApproved != nil && a.Lifecycle.IsApproved != *filter.IsApproved {
			continue
		}
		if filter.IsRejected != nil && a.Lifecycle.IsRejected != *filter.IsRejected {
			continue
		}
		out = append(out, clone(a))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Email < out[j].Email
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryStore) GetOrCreate(_ context.Context, accountID uuid.UUID, candidate string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if key, ok := m.byAccount[accountID]; ok {
		return key, nil
	}
	m.byAccount[accountID] = candidate
	m.sessions[candidate] = accountID
	return candidate, nil
}

func (m *MemoryStore) GetAccountID(_ context.Context, key string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.sessions[key]
	if !ok {
		return uuid.Nil, appErrors.ErrUnauthorized
	}
	return id, nil
}

// SetActive flips is_active, which has no API of its own.
func (m *MemoryStore) SetActive(id uuid.UUID, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.accounts[id]; ok {
		a.IsActive = active
	}
}

// SetResetTokenIssuedAt back-dates a token for expiry tests.
func (m *MemoryStore) SetResetTokenIssuedAt(id uuid.UUID, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.accounts[id]; ok && a.ResetToken != nil {
		a.ResetTokenIssuedAt = &at
	}
}

func clone(a *account.Account) *account.Account {
	c := *a
	c.MobileNumber = clonePtr(a.MobileNumber)
	c.ResetToken = clonePtr(a.ResetToken)
	if a.ResetTokenIssuedAt != nil {
		t := *a.ResetTokenIssuedAt
		c.ResetTokenIssuedAt = &t
	}
	c.Lifecycle = cloneState(a.Lifecycle)
	c.Profile = cloneProfile(a.Profile)
	return &c
}

func cloneState(s account.State) account.State {
	s.RejectionReason = clonePtr(s.RejectionReason)
	return s
}

func cloneProfile(p account.Profile) account.Profile {
	switch v := p.(type) {
	case *account.StudentProfile:
		c := *v
		c.ProfilePhoto = clonePtr(v.ProfilePhoto)
		return &c
	case *account.TutorProfile:
		c := *v
		c.ProfileImage = clonePtr(v.ProfileImage)
		return &c
	default:
		return nil
	}
}

func clonePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
