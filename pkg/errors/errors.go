package errors

import (
	"errors"
	"fmt"
)

// Validation
var (
	ErrDuplicateEmail  = errors.New("an account with this email already exists")
	ErrDuplicateMobile = errors.New("an account with this mobile number already exists")
	ErrInvalidEmail    = errors.New("invalid email format")
	ErrInvalidInput    = errors.New("invalid input data")
)

// Authentication
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("authentication credentials were not provided or are invalid")
)

// Authorization
var (
	ErrAccountNotApproved = errors.New("account not approved by admin yet")
	ErrAccountRejected    = errors.New("account rejected")
	ErrWrongRole          = errors.New("this endpoint is not available for your role")
	ErrAdminRequired      = errors.New("admin privileges required")
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrEmailNotFound   = errors.New("no account found with this email")
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidAction   = errors.New("invalid action. Use 'approve' or 'reject'.")
	ErrInvalidToken    = errors.New("invalid or expired token")
)

const DefaultRejectionReason = "No reason provided"

// AccountRejectedError carries the stored rejection reason back to the caller.
type AccountRejectedError struct {
	Reason string
}

func (e *AccountRejectedError) Error() string {
	return fmt.Sprintf("Account rejected: %s", e.Reason)
}

func (e *AccountRejectedError) Unwrap() error {
	return ErrAccountRejected
}

// NewAccountRejectedError substitutes the default reason when none was stored.
func NewAccountRejectedError(reason *string) *AccountRejectedError {
	if reason == nil || *reason == "" {
		return &AccountRejectedError{Reason: DefaultRejectionReason}
	}
	return &AccountRejectedError{Reason: *reason}
}

type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
