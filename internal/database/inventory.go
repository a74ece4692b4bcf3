package database

import (
	"context"
	"errors"
	"fmt"

	"allinone-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const itemColumns = `
	id, user_id, item_id, name, description, category, rarity,
	attack, defense, health, speed,
	quantity, game_source, sync_status, acquired_at, updated_at
`

func scanItem(row pgx.Row) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.ItemID,
		&item.Name,
		&item.Description,
		&item.Category,
		&item.Rarity,
		&item.Stats.Attack,
		&item.Stats.Defense,
		&item.Stats.Health,
		&item.Stats.Speed,
		&item.Quantity,
		&item.GameSource,
		&item.SyncStatus,
		&item.AcquiredAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// AddItem inserts an item row for the user. A row already keyed by
// (user_id, item_id, game_source) is merged by incrementing its quantity.
func (q *Queries) AddItem(ctx context.Context, userID int64, item models.InventoryItem) (*models.InventoryItem, error) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	query := `
		INSERT INTO inventory_items
			(user_id, item_id, name, description, category, rarity,
			 attack, defense, health, speed, quantity, game_source, sync_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (user_id, item_id, game_source)
		DO UPDATE SET quantity = inventory_items.quantity + EXCLUDED.quantity,
		              sync_status = EXCLUDED.sync_status
		RETURNING ` + itemColumns

	row := q.db.QueryRow(ctx, query,
		userID,
		item.ItemID,
		item.Name,
		item.Description,
		item.Category,
		item.Rarity,
		item.Stats.Attack,
		item.Stats.Defense,
		item.Stats.Health,
		item.Stats.Speed,
		item.Quantity,
		item.GameSource,
		item.SyncStatus,
	)

	saved, err := scanItem(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, fmt.Errorf("owner does not exist: %w", err)
		}
		return nil, err
	}
	return saved, nil
}

// removeItemTx decrements or deletes the first row matching the item id.
// An empty gameSource matches any source; the sync service always scopes
// to its own source so reconciliation never touches foreign rows.
// Runs inside a transaction opened by PostgresStore.RemoveItem.
func (q *Queries) removeItemTx(ctx context.Context, userID int64, itemID, gameSource string, quantity int) (bool, error) {
	if quantity < 1 {
		quantity = 1
	}

	where := "WHERE user_id = $1 AND item_id = $2"
	args := []interface{}{userID, itemID}
	if gameSource != "" {
		args = append(args, gameSource)
		where += " AND game_source = $3"
	}

	var rowID int64
	var current int
	query := `
		SELECT id, quantity FROM inventory_items
		` + where + `
		ORDER BY id
		LIMIT 1
		FOR UPDATE
	`
	err := q.db.QueryRow(ctx, query, args...).Scan(&rowID, &current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	if current > quantity {
		_, err = q.db.Exec(ctx, `UPDATE inventory_items SET quantity = quantity - $1 WHERE id = $2`, quantity, rowID)
	} else {
		// Rows are never left at quantity zero.
		_, err = q.db.Exec(ctx, `DELETE FROM inventory_items WHERE id = $1`, rowID)
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

type ItemFilters struct {
	GameSource string
	Category   string
	Rarity     string
}

// ListItems returns one page of the user's items matching the filters,
// plus the total count of matching rows. Filters are a pure conjunction.
func (q *Queries) ListItems(ctx context.Context, userID int64, filters ItemFilters, page, limit int) ([]models.InventoryItem, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if page < 1 {
		page = 1
	}

	where := "WHERE user_id = $1"
	args := []interface{}{userID}
	if filters.GameSource != "" {
		args = append(args, filters.GameSource)
		where += fmt.Sprintf(" AND game_source = $%d", len(args))
	}
	if filters.Category != "" {
		args = append(args, filters.Category)
		where += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filters.Rarity != "" {
		args = append(args, filters.Rarity)
		where += fmt.Sprintf(" AND rarity = $%d", len(args))
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM inventory_items " + where
	if err := q.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, (page-1)*limit)
	listQuery := fmt.Sprintf(
		"SELECT %s FROM inventory_items %s ORDER BY acquired_at DESC, id DESC LIMIT $%d OFFSET $%d",
		itemColumns, where, len(args)-1, len(args),
	)

	rows, err := q.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []models.InventoryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *item)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, err
	}

	if items == nil {
		items = []models.InventoryItem{}
	}

	return items, total, nil
}

// UpdateSyncStatus transitions an item's sync status. Setting the same
// status twice is a no-op observable only via the updated_at trigger.
func (q *Queries) UpdateSyncStatus(ctx context.Context, itemID string, userID int64, status string) (bool, error) {
	query := `
		UPDATE inventory_items
		SET sync_status = $1
		WHERE item_id = $2 AND user_id = $3
	`
	res, err := q.db.Exec(ctx, query, status, itemID, userID)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

// GetInventorySummary reads the per (user, game_source) aggregation view.
// The view recomputes from the item rows on every call.
func (q *Queries) GetInventorySummary(ctx context.Context, userID int64) ([]models.InventorySummary, error) {
	query := `
		SELECT user_id, game_source, item_count, total_quantity,
		       legendary_count, epic_count, rare_count
		FROM inventory_summary
		WHERE user_id = $1
		ORDER BY game_source
	`
	rows, err := q.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []models.InventorySummary
	for rows.Next() {
		var s models.InventorySummary
		if err := rows.Scan(
			&s.UserID,
			&s.GameSource,
			&s.ItemCount,
			&s.TotalQuantity,
			&s.LegendaryCount,
			&s.EpicCount,
			&s.RareCount,
		); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if summaries == nil {
		summaries = []models.InventorySummary{}
	}

	return summaries, nil
}
