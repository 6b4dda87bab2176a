package models

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Username is the unique login name (3-20 letters, digits or underscores).
	Username string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last account change.
	UpdatedAt int64
}

// Session backs a refresh token. Refreshing rotates the session: the old one
// is revoked and a new one is issued.
type Session struct {
	ID        string
	UserID    string
	ExpiresAt int64

	// RevokedAt is zero while the session is active.
	RevokedAt int64

	CreatedAt int64
}

// Active reports whether the session can still be used at the given time.
func (s *Session) Active(now int64) bool {
	return s.RevokedAt == 0 && now < s.ExpiresAt
}
