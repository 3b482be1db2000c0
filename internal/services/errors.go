package services

import (
	"errors"
	"fmt"

	"github.com/talentbridge/apiserver/types"
)

var (
	// ErrInvalidCredentials signals wrong email or password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailNotConfirmed signals a login attempt before the
	// confirmation link was followed.
	ErrEmailNotConfirmed = errors.New("email address not confirmed")
)

// ValidationError reports malformed or missing input. It is returned
// before any store call for base fields, or after compensation for
// role-specific fields.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AuthCreationError reports that the account could not be created.
// The underlying message is surfaced to the caller unchanged, so a
// duplicate email reads as the store's conflict message.
type AuthCreationError struct {
	Err error
}

func (e *AuthCreationError) Error() string {
	return e.Err.Error()
}

func (e *AuthCreationError) Unwrap() error {
	return e.Err
}

// CompensationError reports a failed rollback action. It is logged,
// never returned: the caller always sees the step error that triggered
// the rollback.
type CompensationError struct {
	Step string
	Err  error
}

func (e *CompensationError) Error() string {
	return fmt.Sprintf("compensation for %q failed: %v", e.Step, e.Err)
}

func (e *CompensationError) Unwrap() error {
	return e.Err
}

// ProfileCreationError reports that the role-profile insert failed
// after the account already existed. It always follows a compensating
// account delete.
type ProfileCreationError struct {
	Role types.Role
	Err  error
}

func (e *ProfileCreationError) Error() string {
	return fmt.Sprintf("failed to create %s profile: %v", e.Role, e.Err)
}

func (e *ProfileCreationError) Unwrap() error {
	return e.Err
}
