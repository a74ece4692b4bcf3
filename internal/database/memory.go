package database

import (
	"context"
	"sync"
	"time"

	"allinone-backend/internal/models"
)

// MemoryStore is the dev-mode backing store: the same Datastore surface as
// PostgresStore, held in process memory. Unlike the relational store it has
// no unique key on (user, item, game_source) — adding the same item id
// twice yields two independent rows unless the caller merges quantities.
type MemoryStore struct {
	mu         sync.RWMutex
	nextUserID int64
	nextRowID  int64
	users      map[string]*models.User
	items      map[int64][]models.InventoryItem
	syncLogs   map[int64][]models.SyncLogEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextUserID: 1,
		nextRowID:  1,
		users:      make(map[string]*models.User),
		items:      make(map[int64][]models.InventoryItem),
		syncLogs:   make(map[int64][]models.SyncLogEntry),
	}
}

func (m *MemoryStore) UpsertUser(_ context.Context, arg UpsertUserParams) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.users[arg.ExternalID]; ok {
		return existing, nil
	}

	user := &models.User{
		ID:           m.nextUserID,
		ExternalID:   arg.ExternalID,
		Username:     arg.Username,
		PasswordHash: arg.PasswordHash,
		Platform:     arg.Platform,
		CreatedAt:    time.Now(),
	}
	m.nextUserID++
	m.users[arg.ExternalID] = user
	return user, nil
}

func (m *MemoryStore) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) AddItem(_ context.Context, userID int64, item models.InventoryItem) (*models.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	item.ID = m.nextRowID
	m.nextRowID++
	item.UserID = userID
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	if item.SyncStatus == "" {
		item.SyncStatus = models.SyncStatusNotSynced
	}
	item.AcquiredAt = now
	item.UpdatedAt = now

	m.items[userID] = append(m.items[userID], item)
	saved := item
	return &saved, nil
}

func (m *MemoryStore) RemoveItem(_ context.Context, userID int64, itemID, gameSource string, quantity int) (bool, error) {
	if quantity < 1 {
		quantity = 1
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rows := m.items[userID]
	for i := range rows {
		if rows[i].ItemID != itemID {
			continue
		}
		if gameSource != "" && rows[i].GameSource != gameSource {
			continue
		}
		if rows[i].Quantity > quantity {
			rows[i].Quantity -= quantity
			rows[i].UpdatedAt = time.Now()
		} else {
			m.items[userID] = append(rows[:i], rows[i+1:]...)
		}
		return true, nil
	}
	return false, nil
}

func (m *MemoryStore) ListItems(_ context.Context, userID int64, filters ItemFilters, page, limit int) ([]models.InventoryItem, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if page < 1 {
		page = 1
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []models.InventoryItem
	for _, item := range m.items[userID] {
		if filters.GameSource != "" && item.GameSource != filters.GameSource {
			continue
		}
		if filters.Category != "" && item.Category != filters.Category {
			continue
		}
		if filters.Rarity != "" && item.Rarity != filters.Rarity {
			continue
		}
		matched = append(matched, item)
	}

	total := len(matched)
	start := (page - 1) * limit
	if start >= total {
		return []models.InventoryItem{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}

	pageRows := make([]models.InventoryItem, end-start)
	copy(pageRows, matched[start:end])
	return pageRows, total, nil
}

func (m *MemoryStore) UpdateSyncStatus(_ context.Context, itemID string, userID int64, status string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	found := false
	rows := m.items[userID]
	for i := range rows {
		if rows[i].ItemID == itemID {
			rows[i].SyncStatus = status
			rows[i].UpdatedAt = time.Now()
			found = true
		}
	}
	return found, nil
}

func (m *MemoryStore) GetInventorySummary(_ context.Context, userID int64) ([]models.InventorySummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	bySource := make(map[string]*models.InventorySummary)
	var order []string
	for _, item := range m.items[userID] {
		s, ok := bySource[item.GameSource]
		if !ok {
			s = &models.InventorySummary{UserID: userID, GameSource: item.GameSource}
			bySource[item.GameSource] = s
			order = append(order, item.GameSource)
		}
		s.ItemCount++
		s.TotalQuantity += item.Quantity
		switch item.Rarity {
		case models.RarityLegendary:
			s.LegendaryCount++
		case models.RarityEpic:
			s.EpicCount++
		case models.RarityRare:
			s.RareCount++
		}
	}

	summaries := make([]models.InventorySummary, 0, len(order))
	for _, source := range order {
		summaries = append(summaries, *bySource[source])
	}
	return summaries, nil
}

func (m *MemoryStore) InsertSyncLog(_ context.Context, entry models.SyncLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.syncLogs[entry.UserID] = append(m.syncLogs[entry.UserID], entry)
	return nil
}

func (m *MemoryStore) ListSyncLogs(_ context.Context, userID int64, limit, offset int) ([]models.SyncLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	logs := m.syncLogs[userID]
	// Newest first, like the relational query.
	reversed := make([]models.SyncLogEntry, 0, len(logs))
	for i := len(logs) - 1; i >= 0; i-- {
		reversed = append(reversed, logs[i])
	}

	if offset >= len(reversed) {
		return []models.SyncLogEntry{}, nil
	}
	end := offset + limit
	if end > len(reversed) {
		end = len(reversed)
	}
	return reversed[offset:end], nil
}
