// Package sync reconciles wallet balance and inventory state between the
// host platform and the New Day partner game while a user session is
// active.
package sync

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"allinone-backend/internal/database"
	"allinone-backend/internal/models"
	"allinone-backend/internal/newday"
	"allinone-backend/internal/websocket"

	"github.com/google/uuid"
)

const gameSource = "newday"

// listPageSize bounds a single ListItems call during reconciliation; the
// pass pages until the store is exhausted. Var so tests can shrink it.
var listPageSize = 1000

// Per-session states. A runner moves Idle -> Initializing -> Syncing and
// ends in Stopped; there are no other transitions.
const (
	StateIdle         = "idle"
	StateInitializing = "initializing"
	StateSyncing      = "syncing"
	StateStopped      = "stopped"
)

// Manager owns one runner per active user session and schedules their
// periodic reconciliation passes.
type Manager struct {
	store    database.Datastore
	client   newday.Client
	hub      *websocket.Hub
	interval time.Duration

	mu      sync.Mutex
	runners map[int64]*runner
}

type runner struct {
	userID       int64
	partnerToken string
	cancel       context.CancelFunc
	state        atomic.Value // string
	busy         atomic.Bool
	balance      atomic.Value // float64
}

func NewManager(store database.Datastore, client newday.Client, hub *websocket.Hub, interval time.Duration) *Manager {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Manager{
		store:    store,
		client:   client,
		hub:      hub,
		interval: interval,
		runners:  make(map[int64]*runner),
	}
}

// Start begins auto-sync for a user session. Starting an already running
// session is a no-op. The partner token exchange is best-effort: on
// failure the runner still enters the sync loop with mock/local data.
func (m *Manager) Start(userID int64) {
	m.mu.Lock()
	if _, ok := m.runners[userID]; ok {
		m.mu.Unlock()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &runner{userID: userID, cancel: cancel}
	r.state.Store(StateInitializing)
	r.balance.Store(0.0)
	m.runners[userID] = r
	m.mu.Unlock()

	go m.run(ctx, r)
}

func (m *Manager) run(ctx context.Context, r *runner) {
	partnerToken, err := m.client.ExchangeToken(ctx, r.userID)
	if err != nil {
		// Not fatal: wallet/inventory sync can still partially work.
		log.Printf("Nie udało się pobrać tokenu partnera dla użytkownika %d: %v", r.userID, err)
	} else {
		r.partnerToken = partnerToken
	}

	r.state.Store(StateSyncing)
	m.executePass(ctx, r)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.executePass(ctx, r)
		}
	}
}

// executePass runs one pass in its own goroutine, guarded so that at most
// one pass per user is ever in flight. A tick that fires mid-pass is
// skipped, never queued.
func (m *Manager) executePass(ctx context.Context, r *runner) {
	if !r.busy.CompareAndSwap(false, true) {
		ticksSkipped.Inc()
		log.Printf("Pomijam tik synchronizacji użytkownika %d: poprzedni przebieg nadal trwa", r.userID)
		return
	}

	// Cancellation stops the schedule, not the pass: a pass already in
	// flight when Stop is called finishes and writes its log entry.
	passCtx := context.WithoutCancel(ctx)

	go func() {
		defer r.busy.Store(false)
		start := time.Now()
		entry := m.reconcile(passCtx, r)
		passDuration.Observe(time.Since(start).Seconds())
		passesTotal.WithLabelValues(entry.SyncStatus).Inc()

		if err := m.store.InsertSyncLog(passCtx, entry); err != nil {
			log.Printf("Nie udało się zapisać wpisu dziennika synchronizacji użytkownika %d: %v", r.userID, err)
		}
		if m.hub != nil {
			m.hub.PublishSyncResult(r.userID, entry)
		}
	}()
}

// reconcile fetches the partner snapshot and applies the diff to the
// inventory store. A failure partway leaves whatever was already applied;
// the next tick retries from scratch.
func (m *Manager) reconcile(ctx context.Context, r *runner) models.SyncLogEntry {
	entry := models.SyncLogEntry{
		ID:         uuid.New(),
		UserID:     r.userID,
		GameSource: gameSource,
		SyncStatus: models.SyncLogCompleted,
		StartedAt:  time.Now(),
	}

	fail := func(err error) models.SyncLogEntry {
		msg := err.Error()
		entry.SyncStatus = models.SyncLogFailed
		entry.ErrorMessage = &msg
		entry.FinishedAt = time.Now()
		return entry
	}

	snapshot, err := m.client.FetchSnapshot(ctx, r.partnerToken)
	if err != nil {
		return fail(err)
	}
	r.balance.Store(snapshot.Balance)

	localByID := make(map[string]models.InventoryItem)
	for page := 1; ; page++ {
		local, total, err := m.store.ListItems(ctx, r.userID, database.ItemFilters{GameSource: gameSource}, page, listPageSize)
		if err != nil {
			return fail(err)
		}
		for _, item := range local {
			localByID[item.ItemID] = item
		}
		if len(local) < listPageSize || page*listPageSize >= total {
			break
		}
	}

	for _, remote := range snapshot.Items {
		if remote.Quantity < 1 {
			continue
		}
		existing, ok := localByID[remote.ItemID]
		if !ok {
			_, err := m.store.AddItem(ctx, r.userID, models.InventoryItem{
				ItemID:      remote.ItemID,
				Name:        remote.Name,
				Description: remote.Description,
				Category:    remote.Category,
				Rarity:      remote.Rarity,
				Stats:       remote.Stats,
				Quantity:    remote.Quantity,
				GameSource:  gameSource,
				SyncStatus:  models.SyncStatusSynced,
			})
			if err != nil {
				return fail(err)
			}
			entry.ItemsAdded++
			continue
		}

		delete(localByID, remote.ItemID)
		if existing.Quantity == remote.Quantity {
			continue
		}
		if remote.Quantity > existing.Quantity {
			_, err = m.store.AddItem(ctx, r.userID, models.InventoryItem{
				ItemID:     remote.ItemID,
				Name:       remote.Name,
				Category:   remote.Category,
				Rarity:     remote.Rarity,
				Quantity:   remote.Quantity - existing.Quantity,
				GameSource: gameSource,
				SyncStatus: models.SyncStatusSynced,
			})
		} else {
			_, err = m.store.RemoveItem(ctx, r.userID, remote.ItemID, gameSource, existing.Quantity-remote.Quantity)
		}
		if err != nil {
			return fail(err)
		}
		entry.ItemsUpdated++
	}

	// Whatever the partner no longer reports is removed locally.
	for itemID, stale := range localByID {
		found, err := m.store.RemoveItem(ctx, r.userID, itemID, gameSource, stale.Quantity)
		if err != nil {
			return fail(err)
		}
		if found {
			entry.ItemsRemoved++
		}
	}

	entry.FinishedAt = time.Now()
	return entry
}

// Stop ends auto-sync for a user. Idempotent: stopping an unknown or
// already stopped session is a no-op. An in-flight pass is allowed to
// finish but will not be rescheduled.
func (m *Manager) Stop(userID int64) {
	m.mu.Lock()
	r, ok := m.runners[userID]
	if ok {
		delete(m.runners, userID)
	}
	m.mu.Unlock()

	if ok {
		r.cancel()
		r.state.Store(StateStopped)
	}
}

// StopAll ends every active session, used on shutdown.
func (m *Manager) StopAll() {
	m.mu.Lock()
	runners := make([]*runner, 0, len(m.runners))
	for _, r := range m.runners {
		runners = append(runners, r)
	}
	m.runners = make(map[int64]*runner)
	m.mu.Unlock()

	for _, r := range runners {
		r.cancel()
		r.state.Store(StateStopped)
	}
}

// Status reports the session state, whether a pass is in flight, and the
// last wallet balance seen from the partner.
func (m *Manager) Status(userID int64) (state string, busy bool, balance float64) {
	m.mu.Lock()
	r, ok := m.runners[userID]
	m.mu.Unlock()

	if !ok {
		return StateIdle, false, 0
	}
	return r.state.Load().(string), r.busy.Load(), r.balance.Load().(float64)
}
