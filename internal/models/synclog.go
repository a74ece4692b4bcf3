package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	SyncLogCompleted = "completed"
	SyncLogFailed    = "failed"
)

// SyncLogEntry is an append-only record of one reconciliation pass.
// It is never mutated after the pass finishes.
type SyncLogEntry struct {
	ID           uuid.UUID `json:"id" db:"id"`
	UserID       int64     `json:"user_id" db:"user_id"`
	GameSource   string    `json:"game_source" db:"game_source"`
	ItemsAdded   int       `json:"items_added" db:"items_added"`
	ItemsUpdated int       `json:"items_updated" db:"items_updated"`
	ItemsRemoved int       `json:"items_removed" db:"items_removed"`
	SyncStatus   string    `json:"sync_status" db:"sync_status"`
	ErrorMessage *string   `json:"error_message,omitempty" db:"error_message"`
	StartedAt    time.Time `json:"started_at" db:"started_at"`
	FinishedAt   time.Time `json:"finished_at" db:"finished_at"`
}
