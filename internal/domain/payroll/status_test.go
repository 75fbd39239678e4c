package payroll

import (
	"errors"
	"testing"

	"github.com/adityacpuu-stack/peoplehub-backend-sub000/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []Status{
	StatusDraft, StatusProcessing, StatusValidated, StatusSubmitted,
	StatusApproved, StatusRejected, StatusPaid, StatusCancelled,
}

var allActions = []Action{
	ActionProcess, ActionValidate, ActionSubmit, ActionApprove,
	ActionReject, ActionMarkPaid, ActionCancel,
}

func TestNextStatus_AllowedTransitions(t *testing.T) {
	tests := []struct {
		from   Status
		action Action
		want   Status
	}{
		{StatusDraft, ActionProcess, StatusProcessing},
		{StatusDraft, ActionValidate, StatusValidated},
		{StatusDraft, ActionCancel, StatusCancelled},
		{StatusProcessing, ActionValidate, StatusValidated},
		{StatusProcessing, ActionCancel, StatusCancelled},
		{StatusValidated, ActionSubmit, StatusSubmitted},
		{StatusValidated, ActionCancel, StatusCancelled},
		{StatusSubmitted, ActionApprove, StatusApproved},
		{StatusSubmitted, ActionReject, StatusRejected},
		{StatusSubmitted, ActionCancel, StatusCancelled},
		{StatusApproved, ActionMarkPaid, StatusPaid},
		{StatusApproved, ActionReject, StatusRejected},
		{StatusApproved, ActionCancel, StatusCancelled},
		{StatusRejected, ActionValidate, StatusValidated},
		{StatusRejected, ActionCancel, StatusCancelled},
	}

	allowed := make(map[Status]map[Action]bool)
	for _, tt := range tests {
		t.Run(string(tt.from)+"_"+string(tt.action), func(t *testing.T) {
			next, err := NextStatus(tt.from, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.want, next)
		})
		if allowed[tt.from] == nil {
			allowed[tt.from] = make(map[Action]bool)
		}
		allowed[tt.from][tt.action] = true
	}

	// Every pair not listed above must be refused with a typed error
	// naming the state and the action.
	for _, from := range allStatuses {
		for _, action := range allActions {
			if allowed[from][action] {
				continue
			}
			t.Run("denied_"+string(from)+"_"+string(action), func(t *testing.T) {
				_, err := NextStatus(from, action)
				require.Error(t, err)

				var transitionErr *InvalidTransitionError
				require.True(t, errors.As(err, &transitionErr))
				assert.Equal(t, from, transitionErr.From)
				assert.Equal(t, action, transitionErr.Action)
			})
		}
	}
}

func TestNextStatus_TerminalStatesRefuseEverything(t *testing.T) {
	for _, from := range []Status{StatusPaid, StatusCancelled} {
		assert.True(t, from.IsTerminal())
		for _, action := range allActions {
			_, err := NextStatus(from, action)
			assert.Error(t, err, "expected %s to refuse %s", from, action)
		}
	}
}

func TestAtLeastValidated(t *testing.T) {
	assert.False(t, StatusDraft.AtLeastValidated())
	assert.False(t, StatusProcessing.AtLeastValidated())
	assert.False(t, StatusRejected.AtLeastValidated())
	assert.False(t, StatusCancelled.AtLeastValidated())
	assert.True(t, StatusValidated.AtLeastValidated())
	assert.True(t, StatusSubmitted.AtLeastValidated())
	assert.True(t, StatusApproved.AtLeastValidated())
	assert.True(t, StatusPaid.AtLeastValidated())
}

func TestCanPerform(t *testing.T) {
	// Staff run the pipeline up to submission.
	for _, action := range []Action{ActionProcess, ActionValidate, ActionSubmit} {
		assert.True(t, CanPerform(user.RoleHRStaff, action))
		assert.True(t, CanPerform(user.RoleHRManager, action))
		assert.True(t, CanPerform(user.RoleOwner, action))
		assert.False(t, CanPerform(user.RoleEmployee, action))
	}

	// Approval, rejection, payment and cancellation need a manager.
	for _, action := range []Action{ActionApprove, ActionReject, ActionMarkPaid, ActionCancel} {
		assert.False(t, CanPerform(user.RoleHRStaff, action))
		assert.True(t, CanPerform(user.RoleHRManager, action))
		assert.True(t, CanPerform(user.RoleOwner, action))
		assert.False(t, CanPerform(user.RoleEmployee, action))
	}

	assert.False(t, CanPerform("intern", ActionValidate))
}

func TestInvalidTransitionError_Message(t *testing.T) {
	err := &InvalidTransitionError{From: StatusPaid, Action: ActionApprove}
	assert.Equal(t, `invalid payroll transition: cannot approve from status "paid"`, err.Error())
}
