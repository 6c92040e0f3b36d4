package model

import (
	"errors"
	"regexp"
	"time"
)

// Account represents a community member as stored in the accounts table.
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

// PublicAccount is the wire representation of an account with the
// password hash stripped. Every API response uses this shape.
type PublicAccount struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Public returns the response-safe copy of the account.
func (a *Account) Public() PublicAccount {
	return PublicAccount{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		CreatedAt: a.CreatedAt,
	}
}

// ActiveAccount is the denormalized session record kept by client-side
// variants instead of a server token.
type ActiveAccount struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// CreateAccountRequest carries sign-up form input.
type CreateAccountRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	Confirm  string `json:"confirm"`
}

// SignInRequest carries sign-in form input. Identifier may be a username
// or an email address; matching is case-insensitive either way.
type SignInRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// Username and email validation shared by every storage variant.
var (
	UsernameRE = regexp.MustCompile(`^[A-Za-z0-9_-]{3,20}$`)
	EmailRE    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

var (
	// ErrAccountNotFound is returned when no account matches the identifier
	ErrAccountNotFound = errors.New("no account found for that email or username")

	// ErrUsernameTaken is returned when the username collides case-insensitively
	ErrUsernameTaken = errors.New("that username is already taken")

	// ErrEmailTaken is returned when the email collides case-insensitively
	ErrEmailTaken = errors.New("that email already has an account")

	// ErrIncorrectPassword is returned when the supplied digest does not match
	ErrIncorrectPassword = errors.New("incorrect password")

	// ErrLegacyDigest is returned when the stored hash came from the degraded
	// client-side fallback path. Fallback digests are never compared against
	// primary digests; the account has to be recreated.
	ErrLegacyDigest = errors.New("stored password uses an unsupported legacy digest")

	// ErrInvalidCredentials is returned by the legacy admin login endpoint
	ErrInvalidCredentials = errors.New("incorrect username or password")
)

// ValidationError marks malformed or missing user input. The message is
// safe to surface verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validation builds a ValidationError from a user-facing message.
func Validation(message string) error {
	return &ValidationError{Message: message}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
