package models

import "time"

type AuthToken struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	Platform  string    `json:"platform"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Valid reports whether the token is still usable at the given moment.
// Expired tokens are treated as if they were never issued.
func (t *AuthToken) Valid(now time.Time) bool {
	return t.ExpiresAt.After(now)
}
