package models

import "github.com/google/uuid"

type StudentProfileModel struct {
	ID               uint      `gorm:"primaryKey"`
	AccountID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	FullName         string    `gorm:"type:varchar(100);not null"`
	ProfilePhoto     *string   `gorm:"type:varchar(255)"`
	ClassName        string    `gorm:"type:varchar(50);not null"`
	RequiredSubjects string    `gorm:"type:text;not null"`
	Location         string    `gorm:"type:varchar(200);not null"`
}

func (StudentProfileModel) TableName() string {
	return "student_profiles"
}

type TutorProfileModel struct {
	ID              uint      `gorm:"primaryKey"`
	AccountID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	FullName        string    `gorm:"type:varchar(100);not null"`
	ProfileImage    *string   `gorm:"type:varchar(255)"`
	Gender          string    `gorm:"type:varchar(10);not null"`
	Location        string    `gorm:"type:varchar(200);not null"`
	Qualification   string    `gorm:"type:varchar(200);not null"`
	ExperienceYears int       `gorm:"not null;check:chk_tutor_profiles_experience,experience_years >= 0"`
	HourlyRateCents int64     `gorm:"not null;check:chk_tutor_profiles_rate,hourly_rate_cents >= 0 AND hourly_rate_cents <= 999999"`
	Subjects        string    `gorm:"type:text;not null"`
	Description     string    `gorm:"type:text;not null"`
	AvailableDays   string    `gorm:"type:varchar(200);not null"`
}

func (TutorProfileModel) TableName() string {
	return "tutor_profiles"
}

// All lists every model in migration order.
func All() []interface{} {
	return []interface{}{
		&AccountModel{},
		&StudentProfileModel{},
		&TutorProfileModel{},
		&SessionTokenModel{},
	}
}
