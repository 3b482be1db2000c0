package types

import "time"

// User represents an account in the system.
// It contains identity, role, and audit metadata. The role-specific
// profile lives in a separate table keyed by the user's ID.
type User struct {
	// ID is the unique identifier of the user, minted at registration.
	ID string `json:"id" db:"id"`

	// Email is the user's email address, unique across all accounts.
	Email string `json:"email" db:"email"`

	// Role indicates which kind of account this is. It is set once at
	// registration and never changes.
	Role Role `json:"role" db:"role"`

	// PasswordHash stores the hashed representation of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// EmailConfirmed is true once the user has followed the confirmation
	// link sent at registration. Login is refused until then.
	EmailConfirmed bool `json:"email_confirmed" db:"email_confirmed"`

	// ConfirmationToken is the one-time token embedded in the
	// confirmation link. Never exposed in API responses.
	ConfirmationToken string `json:"-" db:"confirmation_token"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the account.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
