package database

import (
	"context"
	"errors"

	"allinone-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

type UpsertUserParams struct {
	ExternalID   string
	Username     string
	Platform     string
	PasswordHash *string
}

// UpsertUser creates the canonical user record for an external identifier,
// or returns the existing one. First-seen wins: a later login with a
// different username does not overwrite the stored record.
func (q *Queries) UpsertUser(ctx context.Context, arg UpsertUserParams) (*models.User, error) {
	query := `
		INSERT INTO users (external_id, username, password_hash, platform)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (external_id) DO NOTHING
		RETURNING id, external_id, username, password_hash, platform, created_at
	`
	var user models.User
	err := q.db.QueryRow(ctx, query, arg.ExternalID, arg.Username, arg.PasswordHash, arg.Platform).Scan(
		&user.ID,
		&user.ExternalID,
		&user.Username,
		&user.PasswordHash,
		&user.Platform,
		&user.CreatedAt,
	)
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	return q.GetUserByExternalID(ctx, arg.ExternalID)
}

func (q *Queries) GetUserByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	query := `
		SELECT id, external_id, username, password_hash, platform, created_at
		FROM users
		WHERE external_id = $1
	`
	var user models.User
	err := q.db.QueryRow(ctx, query, externalID).Scan(
		&user.ID,
		&user.ExternalID,
		&user.Username,
		&user.PasswordHash,
		&user.Platform,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT id, external_id, username, password_hash, platform, created_at
		FROM users
		WHERE username = $1
	`
	var user models.User
	err := q.db.QueryRow(ctx, query, username).Scan(
		&user.ID,
		&user.ExternalID,
		&user.Username,
		&user.PasswordHash,
		&user.Platform,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (q *Queries) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT id, external_id, username, password_hash, platform, created_at
		FROM users
		WHERE id = $1
	`
	var user models.User
	err := q.db.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.ExternalID,
		&user.Username,
		&user.PasswordHash,
		&user.Platform,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
