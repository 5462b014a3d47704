package account

import (
	"encoding/json"
	"io"

	"github.com/google/uuid"

	domainAccount "tutor-platform/internal/domain/account"
)

type RegisterStudentRequest struct {
	Email            string  `json:"email" form:"email" validate:"required,max=254"`
	MobileNumber     *string `json:"mobile_number" form:"mobile_number" validate:"omitempty,phone"`
	Password         string  `json:"password" form:"password" validate:"required,password"`
	FullName         string  `json:"full_name" form:"full_name" validate:"required,notblank,max=100"`
	ClassName        string  `json:"class_name" form:"class_name" validate:"required,notblank,max=50"`
	RequiredSubjects string  `json:"required_subjects" form:"required_subjects" validate:"required,notblank"`
	Location         string  `json:"location" form:"location" validate:"required,notblank,max=200"`
}

type RegisterTutorRequest struct {
	Email           string      `json:"email" form:"email" validate:"required,max=254"`
	MobileNumber    *string     `json:"mobile_number" form:"mobile_number" validate:"omitempty,phone"`
	Password        string      `json:"password" form:"password" validate:"required,password"`
	FullName        string      `json:"full_name" form:"full_name" validate:"required,notblank,max=100"`
	Gender          string      `json:"gender" form:"gender" validate:"max=10"`
	Location        string      `json:"location" form:"location" validate:"required,notblank,max=200"`
	Qualification   string      `json:"qualification" form:"qualification" validate:"required,notblank,max=200"`
	ExperienceYears *int        `json:"experience_years" form:"experience_years" validate:"required,gte=0,lte=80"`
	HourlyRate      json.Number `json:"hourly_rate" form:"hourly_rate" validate:"required"`
	Subjects        string      `json:"subjects" form:"subjects" validate:"required,notblank"`
	Description     string      `json:"description" form:"description" validate:"required,notblank"`
	AvailableDays   string      `json:"available_days" form:"available_days" validate:"required,notblank,max=200"`
}

type CreateAdminRequest struct {
	Email        string  `json:"email" validate:"required,max=254"`
	MobileNumber *string `json:"mobile_number" validate:"omitempty,phone"`
	Password     string  `json:"password" validate:"required,password"`
}

// Upload is an optional profile image attached to a registration.
type Upload struct {
	Filename string
	Content  io.Reader
}

type ReviewRequest struct {
	Action string  `json:"action" form:"action"`
	Reason *string `json:"reason" form:"reason" validate:"omitempty,max=1000"`
}

type ReviewResponse struct {
	Message         string  `json:"-"`
	IsApproved      bool    `json:"is_approved"`
	IsRejected      bool    `json:"is_rejected"`
	RejectionReason *string `json:"rejection_reason"`
}

// ReviewFilter selects which slice of a role's directory admins see.
type ReviewFilter string

const (
	FilterAll      ReviewFilter = "all"
	FilterApproved ReviewFilter = "approved"
	FilterRejected ReviewFilter = "rejected"
)

type StudentResponse struct {
	ID               uuid.UUID `json:"id"`
	Email            string    `json:"email"`
	MobileNumber     *string   `json:"mobile_number"`
	FullName         string    `json:"full_name"`
	ClassName        string    `json:"class_name"`
	RequiredSubjects string    `json:"required_subjects"`
	Location         string    `json:"location"`
	ProfilePhoto     *string   `json:"profile_photo"`
	IsApproved       bool      `json:"is_approved"`
	IsRejected       bool      `json:"is_rejected"`
	Role             string    `json:"role"`
}

type TutorResponse struct {
	ID              uuid.UUID          `json:"id"`
	Email           string             `json:"email"`
	MobileNumber    *string            `json:"mobile_number"`
	FullName        string             `json:"full_name"`
	Gender          string             `json:"gender"`
	Location        string             `json:"location"`
	Qualification   string             `json:"qualification"`
	ExperienceYears int                `json:"experience_years"`
	HourlyRate      domainAccount.Rate `json:"hourly_rate"`
	Subjects        string             `json:"subjects"`
	Description     string             `json:"description"`
	AvailableDays   string             `json:"available_days"`
	ProfileImage    *string            `json:"profile_image"`
	IsApproved      bool               `json:"is_approved"`
	IsRejected      bool               `json:"is_rejected"`
	Role            string             `json:"role"`
}

// AccountResponse describes the caller's own account on GET /profile.
type AccountResponse struct {
	ID              uuid.UUID   `json:"id"`
	Email           string      `json:"email"`
	MobileNumber    *string     `json:"mobile_number"`
	Role            string      `json:"role"`
	IsStaff         bool        `json:"is_staff"`
	Status          string      `json:"status"`
	IsApproved      bool        `json:"is_approved"`
	IsRejected      bool        `json:"is_rejected"`
	RejectionReason *string     `json:"rejection_reason"`
	Profile         interface{} `json:"profile"`
}

func ToStudentResponse(a *domainAccount.Account, p *domainAccount.StudentProfile) *StudentResponse {
	return &StudentResponse{
		ID:               a.ID,
		Email:            a.Email,
		MobileNumber:     a.MobileNumber,
		FullName:         p.FullName,
		ClassName:        p.ClassName,
		RequiredSubjects: p.RequiredSubjects,
		Location:         p.Location,
		ProfilePhoto:     p.ProfilePhoto,
		IsApproved:       a.Lifecycle.IsApproved,
		IsRejected:       a.Lifecycle.IsRejected,
		Role:             string(a.Role),
	}
}

func ToTutorResponse(a *domainAccount.Account, p *domainAccount.TutorProfile) *TutorResponse {
	return &TutorResponse{
		ID:              a.ID,
		Email:           a.Email,
		MobileNumber:    a.MobileNumber,
		FullName:        p.FullName,
		Gender:          p.Gender,
		Location:        p.Location,
		Qualification:   p.Qualification,
		ExperienceYears: p.ExperienceYears,
		HourlyRate:      p.HourlyRate,
		Subjects:        p.Subjects,
		Description:     p.Description,
		AvailableDays:   p.AvailableDays,
		ProfileImage:    p.ProfileImage,
		IsApproved:      a.Lifecycle.IsApproved,
		IsRejected:      a.Lifecycle.IsRejected,
		Role:            string(a.Role),
	}
}

// ToProfileResponse renders whichever profile variant the account holds.
// Admins have none and render as nil.
func ToProfileResponse(a *domainAccount.Account) interface{} {
	switch p := a.Profile.(type) {
	case *domainAccount.StudentProfile:
		return ToStudentResponse(a, p)
	case *domainAccount.TutorProfile:
		return ToTutorResponse(a, p)
	case nil:
		return nil
	default:
		panic("unhandled profile variant")
	}
}

func ToAccountResponse(a *domainAccount.Account) *AccountResponse {
	return &AccountResponse{
		ID:              a.ID,
		Email:           a.Email,
		MobileNumber:    a.MobileNumber,
		Role:            string(a.Role),
		IsStaff:         a.IsStaff,
		Status:          string(a.Lifecycle.Status()),
		IsApproved:      a.Lifecycle.IsApproved,
		IsRejected:      a.Lifecycle.IsRejected,
		RejectionReason: a.Lifecycle.RejectionReason,
		Profile:         ToProfileResponse(a),
	}
}
