package models

import "time"

const (
	SyncStatusNotSynced = "not_synced"
	SyncStatusSynced    = "synced"
	SyncStatusError     = "error"
)

const (
	RarityLegendary = "legendary"
	RarityEpic      = "epic"
	RarityRare      = "rare"
	RarityCommon    = "common"
)

type ItemStats struct {
	Attack  *int `json:"attack,omitempty"`
	Defense *int `json:"defense,omitempty"`
	Health  *int `json:"health,omitempty"`
	Speed   *int `json:"speed,omitempty"`
}

type InventoryItem struct {
	ID          int64     `json:"id" db:"id"`
	UserID      int64     `json:"user_id" db:"user_id"`
	ItemID      string    `json:"item_id" db:"item_id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	Category    string    `json:"category" db:"category"`
	Rarity      string    `json:"rarity" db:"rarity"`
	Stats       ItemStats `json:"stats" db:"stats"`
	Quantity    int       `json:"quantity" db:"quantity"`
	GameSource  string    `json:"game_source" db:"game_source"`
	SyncStatus  string    `json:"sync_status" db:"sync_status"`
	AcquiredAt  time.Time `json:"acquired_at" db:"acquired_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// InventorySummary is one row of the per (user, game_source) aggregation
// used by the dashboard. It is always recomputed from the item rows.
type InventorySummary struct {
	UserID         int64  `json:"user_id"`
	GameSource     string `json:"game_source"`
	ItemCount      int    `json:"item_count"`
	TotalQuantity  int    `json:"total_quantity"`
	LegendaryCount int    `json:"legendary_count"`
	EpicCount      int    `json:"epic_count"`
	RareCount      int    `json:"rare_count"`
}
