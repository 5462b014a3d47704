package account

import (
	"strings"

	appErrors "tutor-platform/pkg/errors"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// State is the approval record embedded in every account.
// IsApproved and IsRejected are never both true.
type State struct {
	IsApproved      bool
	IsRejected      bool
	RejectionReason *string
}

func (s State) Status() Status {
	switch {
	case s.IsApproved:
		return StatusApproved
	case s.IsRejected:
		return StatusRejected
	default:
		return StatusPending
	}
}

func (s State) Valid() bool {
	return !(s.IsApproved && s.IsRejected)
}

// ParseAction normalises the admin payload; anything but approve/reject is
// an InvalidAction.
func ParseAction(raw string) (Action, error) {
	switch Action(strings.ToLower(strings.TrimSpace(raw))) {
	case ActionApprove:
		return ActionApprove, nil
	case ActionReject:
		return ActionReject, nil
	default:
		return "", appErrors.ErrInvalidAction
	}
}

// Transition computes the state produced by applying action to current.
// Review outcomes are never terminal: pending, approved and rejected
// accounts all accept either action. A blank reason on reject is stored as
// the default reason.
func Transition(current State, action Action, reason *string) (State, error) {
	switch action {
	case ActionApprove, ActionReject:
	default:
		return current, appErrors.ErrInvalidAction
	}

	if action == ActionApprove {
		return State{IsApproved: true}, nil
	}

	stored := appErrors.DefaultRejectionReason
	if reason != nil && strings.TrimSpace(*reason) != "" {
		stored = strings.TrimSpace(*reason)
	}
	return State{IsRejected: true, RejectionReason: &stored}, nil
}

// CheckLoginAllowed applies the post-credential gates in order: a rejected
// account fails with its reason before the approval check runs.
func (s State) CheckLoginAllowed() error {
	if s.IsRejected {
		return appErrors.NewAccountRejectedError(s.RejectionReason)
	}
	if !s.IsApproved {
		return appErrors.ErrAccountNotApproved
	}
	return nil
}
