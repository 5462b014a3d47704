package account

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleTutor   Role = "tutor"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTutor, RoleAdmin:
		return true
	}
	return false
}

// Opposite returns the role whose directory r may browse.
func (r Role) Opposite() (Role, bool) {
	switch r {
	case RoleStudent:
		return RoleTutor, true
	case RoleTutor:
		return RoleStudent, true
	}
	return "", false
}

// Account represents the identity, credential and lifecycle record.
// Role is fixed at creation; Profile is nil for admins.
type Account struct {
	ID                 uuid.UUID
	Email              string
	MobileNumber       *string
	Role               Role
	PasswordHash       string
	IsActive           bool
	IsStaff            bool
	Lifecycle          State
	ResetToken         *string
	ResetTokenIssuedAt *time.Time
	Profile            Profile
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Profile is implemented only by *StudentProfile and *TutorProfile.
type Profile interface {
	Role() Role
	sealed()
}

type StudentProfile struct {
	FullName         string
	ProfilePhoto     *string
	ClassName        string
	RequiredSubjects string
	Location         string
}

func (*StudentProfile) Role() Role { return RoleStudent }
func (*StudentProfile) sealed()    {}

type TutorProfile struct {
	FullName        string
	ProfileImage    *string
	Gender          string
	Location        string
	Qualification   string
	ExperienceYears int
	HourlyRate      Rate
	Subjects        string
	Description     string
	AvailableDays   string
}

func (*TutorProfile) Role() Role { return RoleTutor }
func (*TutorProfile) sealed()    {}

// CheckProfile enforces that non-admin accounts carry exactly the profile
// variant matching their role.
func (a *Account) CheckProfile() error {
	switch a.Role {
	case RoleAdmin:
		if a.Profile != nil {
			return fmt.Errorf("admin account must not have a profile")
		}
		return nil
	case RoleStudent, RoleTutor:
		if a.Profile == nil {
			return fmt.Errorf("%s account requires a profile", a.Role)
		}
		if a.Profile.Role() != a.Role {
			return fmt.Errorf("%s account cannot hold a %s profile", a.Role, a.Profile.Role())
		}
		return nil
	default:
		return fmt.Errorf("unknown role %q", a.Role)
	}
}

func (a *Account) IsAdmin() bool {
	return a.IsStaff
}
