package payroll

import (
	"fmt"

	"github.com/adityacpuu-stack/peoplehub-backend-sub000/internal/domain/user"
)

// Status enum for the payslip lifecycle.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusProcessing Status = "processing"
	StatusValidated  Status = "validated"
	StatusSubmitted  Status = "submitted"
	StatusApproved   Status = "approved"
	StatusRejected   Status = "rejected"
	StatusPaid       Status = "paid"
	StatusCancelled  Status = "cancelled"
)

// Action enum for lifecycle transitions.
type Action string

const (
	ActionProcess  Action = "process"
	ActionValidate Action = "validate"
	ActionSubmit   Action = "submit"
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionMarkPaid Action = "mark_paid"
	ActionCancel   Action = "cancel"
)

// IsTerminal reports whether no further transition is permitted.
func (s Status) IsTerminal() bool {
	return s == StatusPaid || s == StatusCancelled
}

// AtLeastValidated reports whether the payslip has passed validation.
// Generation skips these instead of overwriting them.
func (s Status) AtLeastValidated() bool {
	switch s {
	case StatusValidated, StatusSubmitted, StatusApproved, StatusPaid:
		return true
	}
	return false
}

// InvalidTransitionError names the current and requested state so the
// caller sees exactly which rule was violated.
type InvalidTransitionError struct {
	From   Status
	Action Action
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid payroll transition: cannot %s from status %q", e.Action, e.From)
}

// transitions is the full state machine: state x action -> next state.
// Anything absent from the table is an invalid transition.
var transitions = map[Status]map[Action]Status{
	StatusDraft: {
		ActionProcess:  StatusProcessing,
		ActionValidate: StatusValidated,
		ActionCancel:   StatusCancelled,
	},
	StatusProcessing: {
		ActionValidate: StatusValidated,
		ActionCancel:   StatusCancelled,
	},
	StatusValidated: {
		ActionSubmit: StatusSubmitted,
		ActionCancel: StatusCancelled,
	},
	StatusSubmitted: {
		ActionApprove: StatusApproved,
		ActionReject:  StatusRejected,
		ActionCancel:  StatusCancelled,
	},
	StatusApproved: {
		ActionMarkPaid: StatusPaid,
		ActionReject:   StatusRejected,
		ActionCancel:   StatusCancelled,
	},
	StatusRejected: {
		ActionValidate: StatusValidated,
		ActionCancel:   StatusCancelled,
	},
	// paid and cancelled are terminal: no entries.
}

// actionRoles maps each action to the minimum role allowed to perform it.
var actionRoles = map[Action]user.Role{
	ActionProcess:  user.RoleHRStaff,
	ActionValidate: user.RoleHRStaff,
	ActionSubmit:   user.RoleHRStaff,
	ActionApprove:  user.RoleHRManager,
	ActionReject:   user.RoleHRManager,
	ActionMarkPaid: user.RoleHRManager,
	ActionCancel:   user.RoleHRManager,
}

// NextStatus resolves a transition. Transitions are never silently
// ignored: a state that does not permit the action yields an
// *InvalidTransitionError.
func NextStatus(from Status, action Action) (Status, error) {
	if next, ok := transitions[from][action]; ok {
		return next, nil
	}
	return "", &InvalidTransitionError{From: from, Action: action}
}

// CanPerform reports whether the role meets the gate for the action.
func CanPerform(role user.Role, action Action) bool {
	min, ok := actionRoles[action]
	if !ok {
		return false
	}
	return user.AtLeast(role, min)
}
