package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tutor-platform/internal/domain/account"
	"tutor-platform/internal/infrastructure/database/postgres/models"
	appErrors "tutor-platform/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ account.SessionRepository = (*SessionRepository)(nil)

// SessionRepository implements account.SessionRepository
type SessionRepository struct {
	db *DB
}

func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) GetOrCreate(ctx context.Context, accountID uuid.UUID, candidate string) (string, error) {
	record := models.SessionTokenModel{
		Key:       candidate,
		AccountID: accountID,
		CreatedAt: time.Now(),
	}

	db := r.db.DB.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account_id"}},
		DoNothing: true,
	}).Create(&record).Error
	if err != nil {
		return "", fmt.Errorf("failed to store session token: %w", err)
	}

	var existing models.SessionTokenModel
	if err := db.Where("account_id = ?", accountID).First(&existing).Error; err != nil {
		return "", fmt.Errorf("failed to load session token: %w", err)
	}

	return existing.Key, nil
}

func (r *SessionRepository) GetAccountID(ctx context.Context, key string) (uuid.UUID, error) {
	var record models.SessionTokenModel
	err := r.db.DB.WithContext(ctx).Where("key = ?", key).First(&record).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, appErrors.ErrUnauthorized
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to look up session token: %w", err)
	}

	return record.AccountID, nil
}
