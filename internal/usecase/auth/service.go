package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"tutor-platform/internal/config"
	domainAccount "tutor-platform/internal/domain/account"
	"tutor-platform/internal/logger"
	"tutor-platform/internal/metrics"
	"tutor-platform/internal/notify"
	appErrors "tutor-platform/pkg/errors"
	"tutor-platform/pkg/utils"
)

// Service implements login, session resolution and the password reset flow.
type Service struct {
	accounts    domainAccount.Repository
	sessions    domainAccount.SessionRepository
	hasher      utils.PasswordHasher
	sessionKeys utils.TokenGenerator
	resetTokens utils.TokenGenerator
	notifier    notify.Notifier
	metrics     *metrics.Collectors
	resetCfg    config.ResetTokenConfig
	now         func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func WithMetrics(m *metrics.Collectors) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(
	accounts domainAccount.Repository,
	sessions domainAccount.SessionRepository,
	hasher utils.PasswordHasher,
	sessionKeys utils.TokenGenerator,
	resetTokens utils.TokenGenerator,
	resetCfg config.ResetTokenConfig,
	opts ...Option,
) *Service {
	s := &Service{
		accounts:    accounts,
		sessions:    sessions,
		hasher:      hasher,
		sessionKeys: sessionKeys,
		resetTokens: resetTokens,
		notifier:    notify.Nop{},
		resetCfg:    resetCfg,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login checks credentials, then rejection, then approval, and only then
// hands out the account's session token.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*SessionResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	email := utils.SanitizeEmail(req.Email)
	acct, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, appErrors.ErrAccountNotFound) {
			s.loginFailed("login_failed_invalid_credentials", zap.String("email", email))
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !acct.IsActive || !s.hasher.Verify(acct.PasswordHash, req.Password) {
		s.loginFailed("login_failed_invalid_credentials",
			zap.String("account_id", acct.ID.String()),
			zap.Bool("is_active", acct.IsActive),
		)
		return nil, appErrors.ErrInvalidCredentials
	}

	if err := acct.Lifecycle.CheckLoginAllowed(); err != nil {
		event := "login_failed_not_approved"
		if errors.Is(err, appErrors.ErrAccountRejected) {
			event = "login_failed_rejected"
		}
		s.loginFailed(event, zap.String("account_id", acct.ID.String()))
		return nil, err
	}

	token, err := s.IssueSession(ctx, acct)
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveLogin("success")
	logger.Info("Account logged in",
		zap.String("account_id", acct.ID.String()),
		zap.String("role", string(acct.Role)),
		zap.String("event", "login_success"),
	)

	return &SessionResponse{
		Token:      token,
		Role:       string(acct.Role),
		IsApproved: acct.Lifecycle.IsApproved,
	}, nil
}

func (s *Service) loginFailed(event string, fields ...zap.Field) {
	s.metrics.ObserveLogin(event)
	logger.Warn("Login rejected", append(fields, zap.String("event", event))...)
}

// IssueSession returns the account's existing session token, creating one
// on first use.
func (s *Service) IssueSession(ctx context.Context, acct *domainAccount.Account) (string, error) {
	candidate, err := s.sessionKeys.Generate()
	if err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}

	token, err := s.sessions.GetOrCreate(ctx, acct.ID, candidate)
	if err != nil {
		return "", fmt.Errorf("failed to issue session token: %w", err)
	}
	return token, nil
}

// Authenticate resolves a bearer token to the principal making the request.
func (s *Service) Authenticate(ctx context.Context, token string) (domainAccount.Principal, error) {
	if token == "" {
		return domainAccount.Principal{}, appErrors.ErrUnauthorized
	}

	accountID, err := s.sessions.GetAccountID(ctx, token)
	if err != nil {
		return domainAccount.Principal{}, err
	}

	acct, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, appErrors.ErrAccountNotFound) {
			return domainAccount.Principal{}, appErrors.ErrUnauthorized
		}
		return domainAccount.Principal{}, err
	}
	if !acct.IsActive {
		return domainAccount.Principal{}, appErrors.ErrUnauthorized
	}

	return domainAccount.NewPrincipal(acct), nil
}

// VerifyPassword reports whether candidate matches the stored hash.
func (s *Service) VerifyPassword(acct *domainAccount.Account, candidate string) bool {
	return s.hasher.Verify(acct.PasswordHash, candidate)
}

// RequestPasswordReset stores a fresh token for the account, replacing any
// earlier one. The token is returned only when exposure is enabled;
// otherwise it goes out through the notifier.
func (s *Service) RequestPasswordReset(ctx context.Context, req *ForgotPasswordRequest) (*ForgotPasswordResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	email := utils.SanitizeEmail(req.Email)
	acct, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, appErrors.ErrAccountNotFound) {
			s.metrics.ObservePasswordReset("request", "unknown_email")
			logger.Info("Password reset requested for unknown email",
				zap.String("email", email),
				zap.String("event", "password_reset_unknown_email"),
			)
			return nil, appErrors.ErrEmailNotFound
		}
		return nil, err
	}

	token, err := s.resetTokens.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate reset token: %w", err)
	}

	issuedAt := s.now()
	if err := s.accounts.SetResetToken(ctx, acct.ID, token, issuedAt); err != nil {
		return nil, err
	}

	logger.Info("Password reset token issued",
		zap.String("account_id", acct.ID.String()),
		zap.Time("issued_at", issuedAt),
		zap.Bool("returned_in_response", s.resetCfg.ExposeInResponse),
		zap.String("event", "password_reset_token_issued"),
	)
	s.metrics.ObservePasswordReset("request", "issued")

	if s.resetCfg.ExposeInResponse {
		return &ForgotPasswordResponse{ResetToken: token}, nil
	}

	if err := s.notifier.PasswordResetIssued(ctx, acct, token); err != nil {
		return nil, fmt.Errorf("failed to deliver reset token: %w", err)
	}
	return &ForgotPasswordResponse{}, nil
}

// CompletePasswordReset consumes the token and sets the new password in one
// atomic step. A token can succeed at most once.
func (s *Service) CompletePasswordReset(ctx context.Context, req *ResetPasswordRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	var issuedAfter time.Time
	if s.resetCfg.TTL > 0 {
		issuedAfter = s.now().Add(-s.resetCfg.TTL)
	}

	acct, err := s.accounts.ConsumeResetToken(ctx, req.Token, hash, issuedAfter)
	if err != nil {
		if errors.Is(err, appErrors.ErrInvalidToken) {
			s.metrics.ObservePasswordReset("complete", "invalid_token")
			logger.Warn("Password reset with invalid token",
				zap.String("event", "password_reset_failed_invalid_token"),
			)
		}
		return err
	}

	s.metrics.ObservePasswordReset("complete", "success")
	logger.Info("Password reset",
		zap.String("account_id", acct.ID.String()),
		zap.String("event", "password_reset_success"),
	)

	if err := s.notifier.PasswordChanged(ctx, acct); err != nil {
		logger.Warn("Failed to send password change notice",
			zap.String("account_id", acct.ID.String()),
			zap.Error(err),
		)
	}
	return nil
}
