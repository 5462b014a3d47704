package models

import (
	"time"

	"github.com/google/uuid"
)

// AccountModel represents the database model for Account
type AccountModel struct {
	ID                          uuid.UUID            `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email                       string               `gorm:"type:varchar(254);not null;uniqueIndex:idx_accounts_email"`
	MobileNumber                *string              `gorm:"type:varchar(15);uniqueIndex:idx_accounts_mobile_number"`
	Role                        string               `gorm:"type:varchar(20);not null;index"`
	PasswordHash                string               `gorm:"type:varchar(255);not null"`
	IsActive                    bool                 `gorm:"not null"`
	IsStaff                     bool                 `gorm:"not null"`
	IsApproved                  bool                 `gorm:"not null;index"`
	IsRejected                  bool                 `gorm:"not null;index;check:chk_accounts_review_state,NOT (is_approved AND is_rejected)"`
	RejectionReason             *string              `gorm:"type:text"`
	ResetPasswordToken          *string              `gorm:"type:varchar(255);uniqueIndex:idx_accounts_reset_token"`
	ResetPasswordTokenCreatedAt *time.Time           `gorm:"type:timestamptz"`
	CreatedAt                   time.Time            `gorm:"not null"`
	UpdatedAt                   time.Time            `gorm:"not null"`
	StudentProfile              *StudentProfileModel `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
	TutorProfile                *TutorProfileModel   `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
	SessionToken                *SessionTokenModel   `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
}

func (AccountModel) TableName() string {
	return "accounts"
}

// SessionTokenModel holds the single bearer key issued to an account
type SessionTokenModel struct {
	Key       string    `gorm:"type:varchar(64);primaryKey"`
	AccountID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"not null"`
}

func (SessionTokenModel) TableName() string {
	return "session_tokens"
}
