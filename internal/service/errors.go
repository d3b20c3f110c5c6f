package service

import "errors"

// One sentinel per protocol outcome. Handlers map these onto HTTP statuses;
// nothing in this package panics or hides a policy rejection inside a
// generic error.
var (
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("account already exists")

	ErrNoSuchAccount      = errors.New("no such account")
	ErrAccountDeactivated = errors.New("account has been deactivated")
	ErrPendingApproval    = errors.New("account is pending approval")
	ErrInvalidPassword    = errors.New("invalid password")

	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	ErrSubjectNotFound     = errors.New("refresh token subject no longer exists")

	// ErrDependency marks an unreachable or failing collaborator (account
	// store, refresh store). Never conflated with a not-found outcome.
	ErrDependency = errors.New("dependency unavailable")
)
