package account

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainAccount "tutor-platform/internal/domain/account"
	"tutor-platform/internal/infrastructure/storage"
	"tutor-platform/internal/logger"
	"tutor-platform/internal/metrics"
	"tutor-platform/internal/notify"
	appErrors "tutor-platform/pkg/errors"
	"tutor-platform/pkg/utils"
)

// SessionIssuer hands out the per-account session token.
type SessionIssuer interface {
	IssueSession(ctx context.Context, acct *domainAccount.Account) (string, error)
}

type RegistrationResponse struct {
	Message    string `json:"-"`
	Token      string `json:"token"`
	Role       string `json:"role"`
	IsApproved bool   `json:"is_approved"`
}

// Service implements registration, admin review, directory listings and
// the role dashboards.
type Service struct {
	accounts domainAccount.Repository
	profiles domainAccount.ProfileRepository
	sessions SessionIssuer
	hasher   utils.PasswordHasher
	images   storage.ImageStore
	notifier notify.Notifier
	metrics  *metrics.Collectors
}

func NewService(
	accounts domainAccount.Repository,
	profiles domainAccount.ProfileRepository,
	sessions SessionIssuer,
	hasher utils.PasswordHasher,
	images storage.ImageStore,
	notifier notify.Notifier,
	m *metrics.Collectors,
) *Service {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Service{
		accounts: accounts,
		profiles: profiles,
		sessions: sessions,
		hasher:   hasher,
		images:   images,
		notifier: notifier,
		metrics:  m,
	}
}

func (s *Service) RegisterStudent(ctx context.Context, req *RegisterStudentRequest, photo *Upload) (*RegistrationResponse, error) {
	req.MobileNumber = utils.SanitizeOptional(req.MobileNumber, utils.SanitizePhone)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	email, mobile, err := normalizeIdentity(req.Email, req.MobileNumber)
	if err != nil {
		return nil, err
	}

	profile := &domainAccount.StudentProfile{
		FullName:         utils.SanitizeString(req.FullName),
		ClassName:        utils.SanitizeString(req.ClassName),
		RequiredSubjects: utils.SanitizeText(req.RequiredSubjects),
		Location:         utils.SanitizeString(req.Location),
	}

	acct := &domainAccount.Account{
		Email:        email,
		MobileNumber: mobile,
		Role:         domainAccount.RoleStudent,
		IsActive:     true,
		Profile:      profile,
	}

	return s.register(ctx, acct, req.Password, photo, storage.StudentPhotoDir, func(path string) {
		profile.ProfilePhoto = &path
	}, "Student registered successfully. Awaiting admin approval.")
}

func (s *Service) RegisterTutor(ctx context.Context, req *RegisterTutorRequest, image *Upload) (*RegistrationResponse, error) {
	req.MobileNumber = utils.SanitizeOptional(req.MobileNumber, utils.SanitizePhone)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	rate, err := domainAccount.ParseRate(req.HourlyRate.String())
	if err != nil {
		return nil, appErrors.NewAppError("INVALID_RATE", err.Error(), nil)
	}

	email, mobile, err := normalizeIdentity(req.Email, req.MobileNumber)
	if err != nil {
		return nil, err
	}

	profile := &domainAccount.TutorProfile{
		FullName:        utils.SanitizeString(req.FullName),
		Gender:          utils.SanitizeString(req.Gender),
		Location:        utils.SanitizeString(req.Location),
		Qualification:   utils.SanitizeString(req.Qualification),
		ExperienceYears: *req.ExperienceYears,
		HourlyRate:      rate,
		Subjects:        utils.SanitizeText(req.Subjects),
		Description:     utils.SanitizeText(req.Description),
		AvailableDays:   utils.SanitizeString(req.AvailableDays),
	}

	acct := &domainAccount.Account{
		Email:        email,
		MobileNumber: mobile,
		Role:         domainAccount.RoleTutor,
		IsActive:     true,
		Profile:      profile,
	}

	return s.register(ctx, acct, req.Password, image, storage.TutorImageDir, func(path string) {
		profile.ProfileImage = &path
	}, "Tutor registered successfully. Awaiting admin approval.")
}

// register stores the optional image, persists account and profile
// together and issues the session token. The image is removed again if
// the account cannot be stored.
func (s *Service) register(
	ctx context.Context,
	acct *domainAccount.Account,
	password string,
	upload *Upload,
	dir string,
	attach func(path string),
	message string,
) (*RegistrationResponse, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	acct.PasswordHash = hash

	var imagePath string
	if upload != nil && upload.Content != nil {
		imagePath, err = s.images.Save(ctx, dir, upload.Content)
		if err != nil {
			return nil, err
		}
		attach(imagePath)
	}

	if err := s.accounts.Create(ctx, acct); err != nil {
		if imagePath != "" {
			if rmErr := s.images.Delete(imagePath); rmErr != nil {
				logger.Warn("Failed to remove orphaned image", zap.String("path", imagePath), zap.Error(rmErr))
			}
		}
		logger.Warn("Registration failed",
			zap.String("email", acct.Email),
			zap.String("role", string(acct.Role)),
			zap.Error(err),
			zap.String("event", "registration_failed"),
		)
		return nil, err
	}

	token, err := s.sessions.IssueSession(ctx, acct)
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveRegistration(string(acct.Role))
	logger.Info("Account registered",
		zap.String("account_id", acct.ID.String()),
		zap.String("role", string(acct.Role)),
		zap.Bool("has_image", imagePath != ""),
		zap.String("event", "account_registered"),
	)

	if err := s.notifier.AccountRegistered(ctx, acct); err != nil {
		logger.Warn("Failed to publish registration", zap.String("account_id", acct.ID.String()), zap.Error(err))
	}

	return &RegistrationResponse{
		Message:    message,
		Token:      token,
		Role:       string(acct.Role),
		IsApproved: acct.Lifecycle.IsApproved,
	}, nil
}

// CreateAdmin provisions an approved staff account without a profile.
func (s *Service) CreateAdmin(ctx context.Context, req *CreateAdminRequest) (*domainAccount.Account, error) {
	req.MobileNumber = utils.SanitizeOptional(req.MobileNumber, utils.SanitizePhone)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	email, mobile, err := normalizeIdentity(req.Email, req.MobileNumber)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	acct := &domainAccount.Account{
		Email:        email,
		MobileNumber: mobile,
		Role:         domainAccount.RoleAdmin,
		PasswordHash: hash,
		IsActive:     true,
		IsStaff:      true,
		Lifecycle:    domainAccount.State{IsApproved: true},
	}
	if err := s.accounts.Create(ctx, acct); err != nil {
		return nil, err
	}

	logger.Info("Admin account created",
		zap.String("account_id", acct.ID.String()),
		zap.String("event", "admin_created"),
	)
	return acct, nil
}

// Review applies an approve or reject decision. Every call persists and
// notifies, even when the state does not change.
func (s *Service) Review(ctx context.Context, admin domainAccount.Principal, accountID uuid.UUID, req *ReviewRequest) (*ReviewResponse, error) {
	if err := admin.RequireAdmin(); err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	acct, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	action, err := domainAccount.ParseAction(req.Action)
	if err != nil {
		return nil, err
	}

	next, err := domainAccount.Transition(acct.Lifecycle, action, req.Reason)
	if err != nil {
		return nil, err
	}

	if err := s.accounts.UpdateLifecycle(ctx, acct.ID, next); err != nil {
		return nil, err
	}
	acct.Lifecycle = next

	s.metrics.ObserveReview(string(action))
	logger.Info("Account reviewed",
		zap.String("account_id", acct.ID.String()),
		zap.String("admin_id", admin.AccountID.String()),
		zap.String("action", string(action)),
		zap.String("status", string(next.Status())),
		zap.String("event", "account_reviewed"),
	)

	if err := s.notifier.AccountReviewed(ctx, acct); err != nil {
		logger.Warn("Failed to publish review", zap.String("account_id", acct.ID.String()), zap.Error(err))
	}

	verb := "approved"
	if action == domainAccount.ActionReject {
		verb = "rejected"
	}

	return &ReviewResponse{
		Message:         fmt.Sprintf("%s %s successfully", acct.Email, verb),
		IsApproved:      next.IsApproved,
		IsRejected:      next.IsRejected,
		RejectionReason: next.RejectionReason,
	}, nil
}

func (s *Service) ListStudents(ctx context.Context, admin domainAccount.Principal, filter ReviewFilter) ([]*StudentResponse, error) {
	if err := admin.RequireAdmin(); err != nil {
		return nil, err
	}
	return s.listStudents(ctx, reviewFilter(domainAccount.RoleStudent, filter))
}

func (s *Service) ListTutors(ctx context.Context, admin domainAccount.Principal, filter ReviewFilter) ([]*TutorResponse, error) {
	if err := admin.RequireAdmin(); err != nil {
		return nil, err
	}
	return s.listTutors(ctx, reviewFilter(domainAccount.RoleTutor, filter))
}

// TutorDashboardStudents lists approved students for an approved tutor.
func (s *Service) TutorDashboardStudents(ctx context.Context, p domainAccount.Principal) ([]*StudentResponse, error) {
	if err := p.RequireApprovedRole(domainAccount.RoleTutor); err != nil {
		return nil, err
	}
	approved := true
	return s.listStudents(ctx, domainAccount.ProfileFilter{Role: domainAccount.RoleStudent, IsApproved: &approved})
}

// StudentDashboardTutors lists approved tutors for an approved student.
func (s *Service) StudentDashboardTutors(ctx context.Context, p domainAccount.Principal) ([]*TutorResponse, error) {
	if err := p.RequireApprovedRole(domainAccount.RoleStudent); err != nil {
		return nil, err
	}
	approved := true
	return s.listTutors(ctx, domainAccount.ProfileFilter{Role: domainAccount.RoleTutor, IsApproved: &approved})
}

func (s *Service) GetOwnProfile(ctx context.Context, p domainAccount.Principal) (*AccountResponse, error) {
	acct, err := s.accounts.GetByID(ctx, p.AccountID)
	if err != nil {
		return nil, err
	}
	return ToAccountResponse(acct), nil
}

func (s *Service) listStudents(ctx context.Context, filter domainAccount.ProfileFilter) ([]*StudentResponse, error) {
	accounts, err := s.profiles.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]*StudentResponse, 0, len(accounts))
	for _, a := range accounts {
		p, ok := a.Profile.(*domainAccount.StudentProfile)
		if !ok {
			logger.Warn("Skipping account without student profile", zap.String("account_id", a.ID.String()))
			continue
		}
		out = append(out, ToStudentResponse(a, p))
	}
	return out, nil
}

func (s *Service) listTutors(ctx context.Context, filter domainAccount.ProfileFilter) ([]*TutorResponse, error) {
	accounts, err := s.profiles.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]*TutorResponse, 0, len(accounts))
	for _, a := range accounts {
		p, ok := a.Profile.(*domainAccount.TutorProfile)
		if !ok {
			logger.Warn("Skipping account without tutor profile", zap.String("account_id", a.ID.String()))
			continue
		}
		out = append(out, ToTutorResponse(a, p))
	}
	return out, nil
}

func reviewFilter(role domainAccount.Role, f ReviewFilter) domainAccount.ProfileFilter {
	filter := domainAccount.ProfileFilter{Role: role}
	yes := true
	switch f {
	case FilterApproved:
		filter.IsApproved = &yes
	case FilterRejected:
		filter.IsRejected = &yes
	}
	return filter
}

func normalizeIdentity(email string, mobile *string) (string, *string, error) {
	normalized, err := utils.ValidateAndSanitizeEmail(email)
	if err != nil {
		return "", nil, appErrors.ErrInvalidEmail
	}
	return normalized, mobile, nil
}
