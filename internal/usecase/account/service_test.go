package account

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"tutor-platform/internal/config"
	domainAccount "tutor-platform/internal/domain/account"
	"tutor-platform/internal/infrastructure/storage"
	"tutor-platform/internal/testutil"
	"tutor-platform/internal/usecase/auth"
	appErrors "tutor-platform/pkg/errors"
	"tutor-platform/pkg/utils"
)

var pngHeader = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
	0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4, 0x89,
}

type fixture struct {
	store    *testutil.MemoryStore
	fs       afero.Fs
	notifier *testutil.RecordingNotifier
	auth     *auth.Service
	service  *Service
	admin    domainAccount.Principal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    testutil.NewMemoryStore(),
		fs:       afero.NewMemMapFs(),
		notifier: testutil.NewRecordingNotifier(),
	}
	f.auth = auth.NewService(
		f.store, f.store,
		testutil.PlainHasher{},
		testutil.NewSequenceTokens("session"),
		testutil.NewSequenceTokens("reset"),
		config.ResetTokenConfig{TTL: time.Hour, ExposeInResponse: true},
	)
	f.service = NewService(
		f.store, f.store, f.auth,
		testutil.PlainHasher{},
		storage.NewFileStoreWithFs(f.fs, 1<<20),
		f.notifier,
		nil,
	)

	admin, err := f.service.CreateAdmin(context.Background(), &CreateAdminRequest{Email: "admin@x.com", Password: "root"})
	require.NoError(t, err)
	f.admin = domainAccount.NewPrincipal(admin)
	return f
}

func studentRequest(email string) *RegisterStudentRequest {
	return &RegisterStudentRequest{
		Email:            email,
		Password:         "P1",
		FullName:         "Sam Student",
		ClassName:        "Grade 9",
		RequiredSubjects: "Maths, Physics",
		Location:         "Leeds",
	}
}

func tutorRequest(email string) *RegisterTutorRequest {
	years := 4
	return &RegisterTutorRequest{
		Email:           email,
		Password:        "P1",
		FullName:        "Tia Tutor",
		Gender:          "female",
		Location:        "York",
		Qualification:   "MSc Mathematics",
		ExperienceYears: &years,
		HourlyRate:      json.Number("25.5"),
		Subjects:        "Maths",
		Description:     "Patient and thorough.",
		AvailableDays:   "Mon, Wed",
	}
}

func (f *fixture) principal(t *testing.T, email string) domainAccount.Principal {
	t.Helper()
	a, err := f.store.GetByEmail(context.Background(), email)
	require.NoError(t, err)
	return domainAccount.NewPrincipal(a)
}

func (f *fixture) review(t *testing.T, email, action string, reason *string) *ReviewResponse {
	t.Helper()
	a, err := f.store.GetByEmail(context.Background(), email)
	require.NoError(t, err)
	resp, err := f.service.Review(context.Background(), f.admin, a.ID, &ReviewRequest{Action: action, Reason: reason})
	require.NoError(t, err)
	return resp
}

func TestRegister_StartsPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	student, err := f.service.RegisterStudent(ctx, studentRequest("s@x.com"), nil)
	require.NoError(t, err)
	assert.Equal(t, "student", student.Role)
	assert.False(t, student.IsApproved)
	assert.NotEmpty(t, student.Token)
	assert.Equal(t, "Student registered successfully. Awaiting admin approval.", student.Message)

	tutor, err := f.service.RegisterTutor(ctx, tutorRequest("t@x.com"), nil)
	require.NoError(t, err)
	assert.Equal(t, "tutor", tutor.Role)
	assert.Equal(t, "Tutor registered successfully. Awaiting admin approval.", tutor.Message)

	stored, err := f.store.GetByEmail(ctx, "t@x.com")
	require.NoError(t, err)
	assert.Equal(t, domainAccount.StatusPending, stored.Lifecycle.Status())
	assert.False(t, stored.IsStaff)
	profile := stored.Profile.(*domainAccount.TutorProfile)
	assert.Equal(t, domainAccount.Rate(2550), profile.HourlyRate)

	assert.Contains(t, f.notifier.Snapshot(), "registered:t@x.com")
}

func TestRegister_SessionTokenMatchesLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	reg, err := f.service.RegisterTutor(ctx, tutorRequest("t@x.com"), nil)
	require.NoError(t, err)
	f.review(t, "t@x.com", "approve", nil)

	login, err := f.auth.Login(ctx, &auth.LoginRequest{Email: "t@x.com", Password: "P1"})
	require.NoError(t, err)
	assert.Equal(t, reg.Token, login.Token)
}

func TestRegister_DuplicateEmailAcrossRoles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.RegisterStudent(ctx, studentRequest("dup@x.com"), nil)
	require.NoError(t, err)

	_, err = f.service.RegisterTutor(ctx, tutorRequest("DUP@x.com"), nil)
	assert.ErrorIs(t, err, appErrors.ErrDuplicateEmail)

	_, err = f.service.RegisterStudent(ctx, studentRequest("dup@x.com"), nil)
	assert.ErrorIs(t, err, appErrors.ErrDuplicateEmail)
}

func TestRegister_DuplicateMobile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mobile := "+447700900123"

	req := studentRequest("a@x.com")
	req.MobileNumber = &mobile
	_, err := f.service.RegisterStudent(ctx, req, nil)
	require.NoError(t, err)

	other := "+44 7700 900123"
	req = studentRequest("b@x.com")
	req.MobileNumber = &other
	_, err = f.service.RegisterStudent(ctx, req, nil)
	assert.ErrorIs(t, err, appErrors.ErrDuplicateMobile)
}

func TestRegister_InvalidInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.RegisterStudent(ctx, studentRequest("not-an-email"), nil)
	assert.ErrorIs(t, err, appErrors.ErrInvalidEmail)

	req := studentRequest("s@x.com")
	req.FullName = "   "
	_, err = f.service.RegisterStudent(ctx, req, nil)
	var appErr *appErrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)

	treq := tutorRequest("t@x.com")
	treq.HourlyRate = json.Number("-3")
	_, err = f.service.RegisterTutor(ctx, treq, nil)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INVALID_RATE", appErr.Code)

	treq = tutorRequest("t@x.com")
	treq.ExperienceYears = nil
	_, err = f.service.RegisterTutor(ctx, treq, nil)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestRegister_PasswordLengthWithBcrypt(t *testing.T) {
	store := testutil.NewMemoryStore()
	hasher := utils.NewBcryptHasher(bcrypt.MinCost)
	authService := auth.NewService(
		store, store, hasher,
		testutil.NewSequenceTokens("session"),
		testutil.NewSequenceTokens("reset"),
		config.ResetTokenConfig{TTL: time.Hour, ExposeInResponse: true},
	)
	service := NewService(store, store, authService, hasher, storage.NewFileStoreWithFs(afero.NewMemMapFs(), 1<<20), nil, nil)
	ctx := context.Background()

	req := studentRequest("long@x.com")
	req.Password = strings.Repeat("p", 100)
	_, err := service.RegisterStudent(ctx, req, nil)

	var appErr *appErrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	assert.Contains(t, utils.ValidationMessages(appErr.Err), "password")

	_, err = store.GetByEmail(ctx, "long@x.com")
	assert.ErrorIs(t, err, appErrors.ErrAccountNotFound)

	treq := tutorRequest("long@x.com")
	treq.Password = strings.Repeat("é", 40)
	_, err = service.RegisterTutor(ctx, treq, nil)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)

	req = studentRequest("edge@x.com")
	req.Password = strings.Repeat("p", utils.MaxPasswordBytes)
	_, err = service.RegisterStudent(ctx, req, nil)
	require.NoError(t, err)

	stored, err := store.GetByEmail(ctx, "edge@x.com")
	require.NoError(t, err)
	assert.True(t, authService.VerifyPassword(stored, req.Password))
}

func TestRegister_StoresImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.RegisterTutor(ctx, tutorRequest("t@x.com"), &Upload{Filename: "me.png", Content: bytes.NewReader(pngHeader)})
	require.NoError(t, err)

	stored, err := f.store.GetByEmail(ctx, "t@x.com")
	require.NoError(t, err)
	profile := stored.Profile.(*domainAccount.TutorProfile)
	require.NotNil(t, profile.ProfileImage)

	exists, err := afero.Exists(f.fs, *profile.ProfileImage)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRegister_FailureRemovesImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.RegisterStudent(ctx, studentRequest("s@x.com"), nil)
	require.NoError(t, err)

	_, err = f.service.RegisterStudent(ctx, studentRequest("s@x.com"), &Upload{Content: bytes.NewReader(pngHeader)})
	require.ErrorIs(t, err, appErrors.ErrDuplicateEmail)

	files, err := afero.ReadDir(f.fs, storage.StudentPhotoDir)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestReview_Transitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.service.RegisterTutor(ctx, tutorRequest("t@x.com"), nil)
	require.NoError(t, err)

	rejected := f.review(t, "t@x.com", "reject", nil)
	assert.Equal(t, "t@x.com rejected successfully", rejected.Message)
	assert.False(t, rejected.IsApproved)
	assert.True(t, rejected.IsRejected)
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, "No reason provided", *rejected.RejectionReason)

	approved := f.review(t, "t@x.com", "APPROVE", nil)
	assert.Equal(t, "t@x.com approved successfully", approved.Message)
	assert.True(t, approved.IsApproved)
	assert.False(t, approved.IsRejected)
	assert.Nil(t, approved.RejectionReason)

	reason := "incomplete profile"
	again := f.review(t, "t@x.com", "reject", &reason)
	assert.Equal(t, "incomplete profile", *again.RejectionReason)

	_, err = f.auth.Login(ctx, &auth.LoginRequest{Email: "t@x.com", Password: "P1"})
	assert.EqualError(t, err, "Account rejected: incomplete profile")

	assert.Contains(t, f.notifier.Snapshot(), "reviewed:t@x.com:rejected")
}

func TestReview_InvalidActionChangesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.service.RegisterStudent(ctx, studentRequest("s@x.com"), nil)
	require.NoError(t, err)
	a, err := f.store.GetByEmail(ctx, "s@x.com")
	require.NoError(t, err)

	_, err = f.service.Review(ctx, f.admin, a.ID, &ReviewRequest{Action: "delete"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidAction)

	after, err := f.store.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domainAccount.StatusPending, after.Lifecycle.Status())
}

func TestReview_RequiresAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.service.RegisterStudent(ctx, studentRequest("s@x.com"), nil)
	require.NoError(t, err)
	student := f.principal(t, "s@x.com")

	_, err = f.service.Review(ctx, student, student.AccountID, &ReviewRequest{Action: "approve"})
	assert.ErrorIs(t, err, appErrors.ErrAdminRequired)

	_, err = f.service.ListStudents(ctx, student, FilterAll)
	assert.ErrorIs(t, err, appErrors.ErrAdminRequired)
}

func TestReview_UnknownAccount(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Review(context.Background(), f.admin, uuid.New(), &ReviewRequest{Action: "approve"})
	assert.ErrorIs(t, err, appErrors.ErrAccountNotFound)
}

func TestAdminListings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		_, err := f.service.RegisterStudent(ctx, studentRequest(email), nil)
		require.NoError(t, err)
	}
	f.review(t, "a@x.com", "approve", nil)
	f.review(t, "b@x.com", "reject", nil)

	all, err := f.service.ListStudents(ctx, f.admin, FilterAll)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	approved, err := f.service.ListStudents(ctx, f.admin, FilterApproved)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, "a@x.com", approved[0].Email)

	rejected, err := f.service.ListStudents(ctx, f.admin, FilterRejected)
	require.NoError(t, err)
	require.Len(t, rejected, 1)
	assert.Equal(t, "b@x.com", rejected[0].Email)

	tutors, err := f.service.ListTutors(ctx, f.admin, FilterAll)
	require.NoError(t, err)
	assert.NotNil(t, tutors)
	assert.Empty(t, tutors)
}

func TestDashboards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.RegisterTutor(ctx, tutorRequest("t@x.com"), nil)
	require.NoError(t, err)
	for _, email := range []string{"approved@x.com", "pending@x.com", "rejected@x.com"} {
		_, err := f.service.RegisterStudent(ctx, studentRequest(email), nil)
		require.NoError(t, err)
	}
	f.review(t, "approved@x.com", "approve", nil)
	f.review(t, "rejected@x.com", "reject", nil)

	_, err = f.service.TutorDashboardStudents(ctx, f.principal(t, "t@x.com"))
	assert.ErrorIs(t, err, appErrors.ErrAccountNotApproved)

	f.review(t, "t@x.com", "approve", nil)
	students, err := f.service.TutorDashboardStudents(ctx, f.principal(t, "t@x.com"))
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "approved@x.com", students[0].Email)

	_, err = f.service.StudentDashboardTutors(ctx, f.principal(t, "t@x.com"))
	assert.ErrorIs(t, err, appErrors.ErrWrongRole)

	tutors, err := f.service.StudentDashboardTutors(ctx, f.principal(t, "approved@x.com"))
	require.NoError(t, err)
	require.Len(t, tutors, 1)
	assert.Equal(t, "25.50", tutors[0].HourlyRate.String())

	_, err = f.service.StudentDashboardTutors(ctx, f.principal(t, "pending@x.com"))
	assert.ErrorIs(t, err, appErrors.ErrAccountNotApproved)
}

func TestGetOwnProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.service.RegisterStudent(ctx, studentRequest("s@x.com"), nil)
	require.NoError(t, err)

	resp, err := f.service.GetOwnProfile(ctx, f.principal(t, "s@x.com"))
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	profile, ok := resp.Profile.(*StudentResponse)
	require.True(t, ok)
	assert.Equal(t, "Grade 9", profile.ClassName)

	adminResp, err := f.service.GetOwnProfile(ctx, f.admin)
	require.NoError(t, err)
	assert.True(t, adminResp.IsStaff)
	assert.Nil(t, adminResp.Profile)
}
