package postgres

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"tutor-platform/internal/domain/account"
	appErrors "tutor-platform/pkg/errors"
)

// openTestDB connects to TEST_DATABASE_DSN, e.g.
// "host=localhost user=postgres password=postgres dbname=tutor_test sslmode=disable".
func openTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	gdb, err := gorm.Open(gormPostgres.Open(dsn), &gorm.Config{Logger: gormLogger.Discard})
	require.NoError(t, err)

	db := Wrap(gdb)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func uniqueEmail(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8] + "@example.com"
}

func newStudent(email string) *account.Account {
	return &account.Account{
		Email:        email,
		Role:         account.RoleStudent,
		PasswordHash: "hash",
		IsActive:     true,
		Profile: &account.StudentProfile{
			FullName:         "Sam Student",
			ClassName:        "Grade 9",
			RequiredSubjects: "Maths",
			Location:         "Leeds",
		},
	}
}

func newTutor(email string) *account.Account {
	return &account.Account{
		Email:        email,
		Role:         account.RoleTutor,
		PasswordHash: "hash",
		IsActive:     true,
		Profile: &account.TutorProfile{
			FullName:        "Tia Tutor",
			Location:        "York",
			Qualification:   "MSc",
			ExperienceYears: 3,
			HourlyRate:      account.Rate(2550),
			Subjects:        "Maths",
			Description:     "Patient.",
			AvailableDays:   "Mon",
		},
	}
}

func TestAccountRepository_CreateAndRead(t *testing.T) {
	db := openTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	email := uniqueEmail("tutor")
	a := newTutor(email)
	require.NoError(t, repo.Create(ctx, a))
	require.NotEqual(t, uuid.Nil, a.ID)

	got, err := repo.GetByEmail(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	tutor, ok := got.Profile.(*account.TutorProfile)
	require.True(t, ok)
	assert.Equal(t, account.Rate(2550), tutor.HourlyRate)

	err = repo.Create(ctx, newStudent(email))
	assert.ErrorIs(t, err, appErrors.ErrDuplicateEmail)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, appErrors.ErrAccountNotFound)
}

func TestAccountRepository_DuplicateMobile(t *testing.T) {
	db := openTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	mobile := fmt.Sprintf("+4477%08d", rand.Intn(100000000))
	first := newStudent(uniqueEmail("m1"))
	first.MobileNumber = &mobile
	require.NoError(t, repo.Create(ctx, first))

	second := newStudent(uniqueEmail("m2"))
	second.MobileNumber = &mobile
	assert.ErrorIs(t, repo.Create(ctx, second), appErrors.ErrDuplicateMobile)

	_, err := repo.GetByEmail(ctx, second.Email)
	assert.ErrorIs(t, err, appErrors.ErrAccountNotFound)
}

func TestAccountRepository_LifecycleAndProfiles(t *testing.T) {
	db := openTestDB(t)
	repo := NewAccountRepository(db)
	profiles := NewProfileRepository(db)
	ctx := context.Background()

	a := newStudent(uniqueEmail("student"))
	require.NoError(t, repo.Create(ctx, a))

	reason := "Incomplete"
	require.NoError(t, repo.UpdateLifecycle(ctx, a.ID, account.State{IsRejected: true, RejectionReason: &reason}))

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, account.StatusRejected, got.Lifecycle.Status())
	require.NotNil(t, got.Lifecycle.RejectionReason)
	assert.Equal(t, reason, *got.Lifecycle.RejectionReason)

	assert.Error(t, repo.UpdateLifecycle(ctx, a.ID, account.State{IsApproved: true, IsRejected: true}))

	approved := true
	require.NoError(t, repo.UpdateLifecycle(ctx, a.ID, account.State{IsApproved: true}))
	list, err := profiles.List(ctx, account.ProfileFilter{Role: account.RoleStudent, IsApproved: &approved})
	require.NoError(t, err)

	var found bool
	for _, item := range list {
		if item.ID == a.ID {
			found = true
			assert.IsType(t, &account.StudentProfile{}, item.Profile)
		}
		assert.True(t, item.Lifecycle.IsApproved)
	}
	assert.True(t, found)

	profile, err := profiles.GetProfile(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, account.RoleStudent, profile.Role())
}

func TestAccountRepository_ResetTokens(t *testing.T) {
	db := openTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	a := newStudent(uniqueEmail("reset"))
	require.NoError(t, repo.Create(ctx, a))

	token := uuid.NewString()
	issued := time.Now().Add(-time.Minute)
	require.NoError(t, repo.SetResetToken(ctx, a.ID, token, issued))

	_, err := repo.ConsumeResetToken(ctx, token, "new-hash", issued.Add(time.Second))
	assert.ErrorIs(t, err, appErrors.ErrInvalidToken)

	var wg sync.WaitGroup
	results := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.ConsumeResetToken(ctx, token, "new-hash", issued.Add(-time.Hour))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes int
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		assert.ErrorIs(t, err, appErrors.ErrInvalidToken)
	}
	assert.Equal(t, 1, successes)

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)
	assert.Nil(t, got.ResetToken)
}

func TestAccountRepository_ClearExpiredResetTokens(t *testing.T) {
	db := openTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	stale := newStudent(uniqueEmail("stale"))
	fresh := newStudent(uniqueEmail("fresh"))
	require.NoError(t, repo.Create(ctx, stale))
	require.NoError(t, repo.Create(ctx, fresh))

	now := time.Now()
	require.NoError(t, repo.SetResetToken(ctx, stale.ID, uuid.NewString(), now.Add(-2*time.Hour)))
	require.NoError(t, repo.SetResetToken(ctx, fresh.ID, uuid.NewString(), now))

	cleared, err := repo.ClearExpiredResetTokens(ctx, now.Add(-time.Hour))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, cleared, int64(1))

	got, err := repo.GetByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ResetToken)

	got, err = repo.GetByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.ResetToken)
}

func TestSessionRepository_GetOrCreate(t *testing.T) {
	db := openTestDB(t)
	accounts := NewAccountRepository(db)
	sessions := NewSessionRepository(db)
	ctx := context.Background()

	a := newStudent(uniqueEmail("session"))
	require.NoError(t, accounts.Create(ctx, a))

	first, err := sessions.GetOrCreate(ctx, a.ID, uuid.NewString())
	require.NoError(t, err)
	second, err := sessions.GetOrCreate(ctx, a.ID, uuid.NewString())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	id, err := sessions.GetAccountID(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, a.ID, id)

	_, err = sessions.GetAccountID(ctx, "missing")
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}
