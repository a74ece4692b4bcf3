package models

import "time"

const (
	PlatformAllinone = "allinone"
	PlatformNewDay   = "newday"
	PlatformDirect   = "direct"
)

type User struct {
	ID           int64     `json:"id" db:"id"`
	ExternalID   string    `json:"external_id" db:"external_id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash *string   `json:"-" db:"password_hash"`
	Platform     string    `json:"platform" db:"platform"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
