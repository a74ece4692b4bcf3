package database

import (
	"context"

	"allinone-backend/internal/models"
)

func (q *Queries) InsertSyncLog(ctx context.Context, entry models.SyncLogEntry) error {
	query := `
		INSERT INTO sync_logs
			(id, user_id, game_source, items_added, items_updated, items_removed,
			 sync_status, error_message, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := q.db.Exec(ctx, query,
		entry.ID,
		entry.UserID,
		entry.GameSource,
		entry.ItemsAdded,
		entry.ItemsUpdated,
		entry.ItemsRemoved,
		entry.SyncStatus,
		entry.ErrorMessage,
		entry.StartedAt,
		entry.FinishedAt,
	)
	return err
}

func (q *Queries) ListSyncLogs(ctx context.Context, userID int64, limit, offset int) ([]models.SyncLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, user_id, game_source, items_added, items_updated, items_removed,
		       sync_status, error_message, started_at, finished_at
		FROM sync_logs
		WHERE user_id = $1
		ORDER BY started_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := q.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.SyncLogEntry
	for rows.Next() {
		var e models.SyncLogEntry
		if err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.GameSource,
			&e.ItemsAdded,
			&e.ItemsUpdated,
			&e.ItemsRemoved,
			&e.SyncStatus,
			&e.ErrorMessage,
			&e.StartedAt,
			&e.FinishedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if entries == nil {
		entries = []models.SyncLogEntry{}
	}

	return entries, nil
}
