package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tutor-platform/internal/domain/account"
	"tutor-platform/internal/infrastructure/database/postgres/models"
	appErrors "tutor-platform/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ account.Repository = (*AccountRepository)(nil)

// AccountRepository implements account.Repository
type AccountRepository struct {
	db *DB
}

func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, a *account.Account) error {
	if err := a.CheckProfile(); err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	now := time.Now()
	a.ID = uuid.New()
	a.CreatedAt = now
	a.UpdatedAt = now

	dbModel := toAccountModel(a)
	err := r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(dbModel).Error; err != nil {
			return translateCreateError(err)
		}
		return createProfile(tx, a.ID, a.Profile)
	})
	if err != nil {
		a.ID = uuid.Nil
		return err
	}

	return nil
}

func translateCreateError(err error) error {
	constraint, ok := uniqueConstraint(err)
	if !ok {
		return fmt.Errorf("failed to create account: %w", err)
	}
	switch {
	case strings.Contains(constraint, "mobile"):
		return appErrors.ErrDuplicateMobile
	case strings.Contains(constraint, "email"):
		return appErrors.ErrDuplicateEmail
	default:
		return fmt.Errorf("failed to create account: %w", err)
	}
}

func (r *AccountRepository) GetByID(ctx context.Context, accountID uuid.UUID) (*account.Account, error) {
	var dbModel models.AccountModel
	err := r.withProfiles(ctx).First(&dbModel, "id = ?", accountID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, appErrors.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return toAccountEntity(&dbModel), nil
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	var dbModel models.AccountModel
	err := r.withProfiles(ctx).Where("email = ?", email).First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, appErrors.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return toAccountEntity(&dbModel), nil
}

func (r *AccountRepository) UpdateLifecycle(ctx context.Context, accountID uuid.UUID, state account.State) error {
	if !state.Valid() {
		return fmt.Errorf("refusing to store an account that is both approved and rejected")
	}

	var reason interface{} = gorm.Expr("NULL")
	if state.RejectionReason != nil {
		reason = *state.RejectionReason
	}

	result := r.db.DB.WithContext(ctx).Model(&models.AccountModel{}).
		Where("id = ?", accountID).
		Updates(map[string]interface{}{
			"is_approved":      state.IsApproved,
			"is_rejected":      state.IsRejected,
			"rejection_reason": reason,
			"updated_at":       time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update review state: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return appErrors.ErrAccountNotFound
	}

	return nil
}

func (r *AccountRepository) SetResetToken(ctx context.Context, accountID uuid.UUID, token string, issuedAt time.Time) error {
	result := r.db.DB.WithContext(ctx).Model(&models.AccountModel{}).
		Where("id = ?", accountID).
		Updates(map[string]interface{}{
			"reset_password_token":            token,
			"reset_password_token_created_at": issuedAt,
			"updated_at":                      time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to store reset token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return appErrors.ErrAccountNotFound
	}

	return nil
}

func (r *AccountRepository) ConsumeResetToken(ctx context.Context, token, passwordHash string, issuedAfter time.Time) (*account.Account, error) {
	var consumed *account.Account

	err := r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var dbModel models.AccountModel
		query := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("reset_password_token = ?", token)
		if !issuedAfter.IsZero() {
			query = query.Where("reset_password_token_created_at > ?", issuedAfter)
		}

		err := query.First(&dbModel).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErrors.ErrInvalidToken
		}
		if err != nil {
			return fmt.Errorf("failed to look up reset token: %w", err)
		}

		now := time.Now()
		result := tx.Model(&models.AccountModel{}).
			Where("id = ? AND reset_password_token = ?", dbModel.ID, token).
			Updates(map[string]interface{}{
				"password_hash":                   passwordHash,
				"reset_password_token":            gorm.Expr("NULL"),
				"reset_password_token_created_at": gorm.Expr("NULL"),
				"updated_at":                      now,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to reset password: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return appErrors.ErrInvalidToken
		}

		dbModel.PasswordHash = passwordHash
		dbModel.ResetPasswordToken = nil
		dbModel.ResetPasswordTokenCreatedAt = nil
		dbModel.UpdatedAt = now
		consumed = toAccountEntity(&dbModel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return consumed, nil
}

func (r *AccountRepository) withProfiles(ctx context.Context) *gorm.DB {
	return r.db.DB.WithContext(ctx).
		Preload("StudentProfile").
		Preload("TutorProfile")
}

// Helper functions to convert between domain entities and database models

func toAccountModel(a *account.Account) *models.AccountModel {
	return &models.AccountModel{
		ID:                          a.ID,
		Email:                       a.Email,
		MobileNumber:                a.MobileNumber,
		Role:                        string(a.Role),
		PasswordHash:                a.PasswordHash,
		IsActive:                    a.IsActive,
		IsStaff:                     a.IsStaff,
		IsApproved:                  a.Lifecycle.IsApproved,
		IsRejected:                  a.Lifecycle.IsRejected,
		RejectionReason:             a.Lifecycle.RejectionReason,
		ResetPasswordToken:          a.ResetToken,
		ResetPasswordTokenCreatedAt: a.ResetTokenIssuedAt,
		CreatedAt:                   a.CreatedAt,
		UpdatedAt:                   a.UpdatedAt,
	}
}

func toAccountEntity(m *models.AccountModel) *account.Account {
	a := &account.Account{
		ID:           m.ID,
		Email:        m.Email,
		MobileNumber: m.MobileNumber,
		Role:         account.Role(m.Role),
		PasswordHash: m.PasswordHash,
		IsActive:     m.IsActive,
		IsStaff:      m.IsStaff,
		Lifecycle: account.State{
			IsApproved:      m.IsApproved,
			IsRejected:      m.IsRejected,
			RejectionReason: m.RejectionReason,
		},
		ResetToken:         m.ResetPasswordToken,
		ResetTokenIssuedAt: m.ResetPasswordTokenCreatedAt,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}

	switch a.Role {
	case account.RoleStudent:
		if m.StudentProfile != nil {
			a.Profile = toStudentProfileEntity(m.StudentProfile)
		}
	case account.RoleTutor:
		if m.TutorProfile != nil {
			a.Profile = toTutorProfileEntity(m.TutorProfile)
		}
	}

	return a
}

func (r *AccountRepository) ClearExpiredResetTokens(ctx context.Context, issuedBefore time.Time) (int64, error) {
	result := r.db.DB.WithContext(ctx).Model(&models.AccountModel{}).
		Where("reset_password_token IS NOT NULL AND reset_password_token_created_at <= ?", issuedBefore).
		Updates(map[string]interface{}{
			"reset_password_token":            gorm.Expr("NULL"),
			"reset_password_token_created_at": gorm.Expr("NULL"),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to clear expired reset tokens: %w", result.Error)
	}
	return result.RowsAffected, nil
}
