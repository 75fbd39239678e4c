package user

import "errors"

var (
	ErrHRStaffAccessRequired   = errors.New("hr staff access required")
	ErrHRManagerAccessRequired = errors.New("hr manager access required")
	ErrOwnerAccessRequired     = errors.New("owner access required")
	ErrInvalidToken            = errors.New("invalid or missing token")
)
