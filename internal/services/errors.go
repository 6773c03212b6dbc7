package services

import "errors"

// Service-level error taxonomy. Handlers map these onto HTTP statuses and
// stable error codes at the route boundary.
var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// the two cases are indistinguishable to a caller.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrWrongAccountType is returned when credentials are otherwise fine
	// but the account's role is outside the login lane.
	ErrWrongAccountType = errors.New("account type not allowed for this login")

	// ErrNotApproved gates artisan and admin accounts until an admin
	// flips their approval flag.
	ErrNotApproved = errors.New("account not approved yet")

	ErrInvalidToken      = errors.New("invalid or expired token")
	ErrEmailTaken        = errors.New("email already in use")
	ErrIncorrectPassword = errors.New("current password is incorrect")
	ErrNothingToUpdate   = errors.New("nothing to update")
	ErrMissingFields     = errors.New("missing required fields")
	ErrUnknownStage      = errors.New("unknown order stage")
	ErrInvalidTransition = errors.New("order status can only advance one stage at a time")
	ErrCannotDeleteAdmin = errors.New("admin accounts cannot be deleted")
)
