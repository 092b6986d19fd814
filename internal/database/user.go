package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/smashclub/volley/internal/models"
	"github.com/smashclub/volley/internal/registration"
)

// GetUser resolves a user by id.
func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	q := `
	SELECT id, display_name, username, is_admin, blocked
	FROM users
	WHERE id=$1
	`
	err := s.pool.QueryRow(ctx, q, id).Scan(&u.ID, &u.DisplayName, &u.Username, &u.IsAdmin, &u.Blocked)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, registration.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpsertUser creates or refreshes a directory entry, e.g. after the bot sees a new account.
func (s *Store) UpsertUser(ctx context.Context, u *models.User) error {
	if u.ID == uuid.Nil {
		id, err := uuid.NewRandom()
		if err != nil {
			return fmt.Errorf("failed to generate user id: %w", err)
		}
		u.ID = id
	}
	q := `
	INSERT INTO users (id, display_name, username, is_admin, blocked)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id) DO UPDATE
	SET display_name=$2, username=$3, is_admin=$4, blocked=$5
	`
	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, execErr := tx.Exec(ctx, q, u.ID, u.DisplayName, u.Username, u.IsAdmin, u.Blocked)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

// SetBlocked toggles the blocked flag.
func (s *Store) SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error {
	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx, `UPDATE users SET blocked=$1 WHERE id=$2`, blocked, id)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return registration.ErrUserNotFound
		}
		return nil
	})
}
