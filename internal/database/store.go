package database

import (
	"context"
	"fmt"

	"allinone-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Datastore is what the API layer and the sync service require from a
// backing store. PostgresStore implements it for production; MemoryStore
// implements it for dev mode, where no database is configured.
type Datastore interface {
	UpsertUser(ctx context.Context, arg UpsertUserParams) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	AddItem(ctx context.Context, userID int64, item models.InventoryItem) (*models.InventoryItem, error)
	RemoveItem(ctx context.Context, userID int64, itemID, gameSource string, quantity int) (bool, error)
	ListItems(ctx context.Context, userID int64, filters ItemFilters, page, limit int) ([]models.InventoryItem, int, error)
	UpdateSyncStatus(ctx context.Context, itemID string, userID int64, status string) (bool, error)
	GetInventorySummary(ctx context.Context, userID int64) ([]models.InventorySummary, error)

	InsertSyncLog(ctx context.Context, entry models.SyncLogEntry) error
	ListSyncLogs(ctx context.Context, userID int64, limit, offset int) ([]models.SyncLogEntry, error)
}

type PostgresStore struct {
	pool *pgxpool.Pool
	*Queries
}

func NewStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		pool:    pool,
		Queries: New(pool),
	}
}

func (s *PostgresStore) ExecTx(ctx context.Context, fn func(*Queries) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	q := New(tx)
	err = fn(q)
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("tx err: %v, rb err: %v", err, rbErr)
		}
		return err
	}

	return tx.Commit(ctx)
}

// RemoveItem needs the read and the conditional mutation to happen in one
// transaction, so it lives on the store rather than on Queries.
func (s *PostgresStore) RemoveItem(ctx context.Context, userID int64, itemID, gameSource string, quantity int) (bool, error) {
	var found bool
	err := s.ExecTx(ctx, func(q *Queries) error {
		var err error
		found, err = q.removeItemTx(ctx, userID, itemID, gameSource, quantity)
		return err
	})
	return found, err
}

func (s *PostgresStore) GetPool() *pgxpool.Pool {
	return s.pool
}
