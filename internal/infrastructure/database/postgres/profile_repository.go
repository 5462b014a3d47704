package postgres

import (
	"context"
	"errors"
	"fmt"

	"tutor-platform/internal/domain/account"
	"tutor-platform/internal/infrastructure/database/postgres/models"
	appErrors "tutor-platform/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var _ account.ProfileRepository = (*ProfileRepository)(nil)

// ProfileRepository implements account.ProfileRepository
type ProfileRepository struct {
	db *DB
}

func NewProfileRepository(db *DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// createProfile runs inside the account creation transaction; the unique
// index on account_id keeps it to one profile per account.
func createProfile(tx *gorm.DB, accountID uuid.UUID, profile account.Profile) error {
	switch p := profile.(type) {
	case nil:
		return nil
	case *account.StudentProfile:
		m := toStudentProfileModel(accountID, p)
		if err := tx.Create(m).Error; err != nil {
			return fmt.Errorf("failed to create student profile: %w", err)
		}
	case *account.TutorProfile:
		m := toTutorProfileModel(accountID, p)
		if err := tx.Create(m).Error; err != nil {
			return fmt.Errorf("failed to create tutor profile: %w", err)
		}
	default:
		return fmt.Errorf("unsupported profile type %T", profile)
	}
	return nil
}

func (r *ProfileRepository) GetProfile(ctx context.Context, accountID uuid.UUID) (account.Profile, error) {
	var dbModel models.AccountModel
	err := r.db.DB.WithContext(ctx).
		Preload("StudentProfile").
		Preload("TutorProfile").
		First(&dbModel, "id = ?", accountID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, appErrors.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	a := toAccountEntity(&dbModel)
	if a.Profile == nil {
		return nil, appErrors.ErrProfileNotFound
	}
	return a.Profile, nil
}

func (r *ProfileRepository) List(ctx context.Context, filter account.ProfileFilter) ([]*account.Account, error) {
	query := r.db.DB.WithContext(ctx).Model(&models.AccountModel{})

	switch filter.Role {
	case account.RoleStudent:
		query = query.
			Joins("JOIN student_profiles ON student_profiles.account_id = accounts.id").
			Preload("StudentProfile")
	case account.RoleTutor:
		query = query.
			Joins("JOIN tutor_profiles ON tutor_profiles.account_id = accounts.id").
			Preload("TutorProfile")
	default:
		return nil, fmt.Errorf("profiles are only listed for students or tutors, got %q", filter.Role)
	}

	query = query.Where("accounts.role = ?", string(filter.Role))
	if filter.IsApproved != nil {
		query = query.Where("accounts.is_approved = ?", *filter.IsApproved)
	}
	if filter.IsRejected != nil {
		query = query.Where("accounts.is_rejected = ?", *filter.IsRejected)
	}

	var dbModels []models.AccountModel
	if err := query.Order("accounts.created_at ASC").Find(&dbModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	accounts := make([]*account.Account, len(dbModels))
	for i := range dbModels {
		accounts[i] = toAccountEntity(&dbModels[i])
	}

	return accounts, nil
}

func toStudentProfileModel(accountID uuid.UUID, p *account.StudentProfile) *models.StudentProfileModel {
	return &models.StudentProfileModel{
		AccountID:        accountID,
		FullName:         p.FullName,
		ProfilePhoto:     p.ProfilePhoto,
		ClassName:        p.ClassName,
		RequiredSubjects: p.RequiredSubjects,
		Location:         p.Location,
	}
}

func toStudentProfileEntity(m *models.StudentProfileModel) *account.StudentProfile {
	return &account.StudentProfile{
		FullName:         m.FullName,
		ProfilePhoto:     m.ProfilePhoto,
		ClassName:        m.ClassName,
		RequiredSubjects: m.RequiredSubjects,
		Location:         m.Location,
	}
}

func toTutorProfileModel(accountID uuid.UUID, p *account.TutorProfile) *models.TutorProfileModel {
	return &models.TutorProfileModel{
		AccountID:       accountID,
		FullName:        p.FullName,
		ProfileImage:    p.ProfileImage,
		Gender:          p.Gender,
		Location:        p.Location,
		Qualification:   p.Qualification,
		ExperienceYears: p.ExperienceYears,
		HourlyRateCents: int64(p.HourlyRate),
		Subjects:        p.Subjects,
		Description:     p.Description,
		AvailableDays:   p.AvailableDays,
	}
}

func toTutorProfileEntity(m *models.TutorProfileModel) *account.TutorProfile {
	return &account.TutorProfile{
		FullName:        m.FullName,
		ProfileImage:    m.ProfileImage,
		Gender:          m.Gender,
		Location:        m.Location,
		Qualification:   m.Qualification,
		ExperienceYears: m.ExperienceYears,
		HourlyRate:      account.Rate(m.HourlyRateCents),
		Subjects:        m.Subjects,
		Description:     m.Description,
		AvailableDays:   m.AvailableDays,
	}
}
