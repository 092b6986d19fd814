// internal/database/roster.go
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/smashclub/volley/internal/models"
	"github.com/smashclub/volley/internal/registration"
	"github.com/smashclub/volley/internal/roster"
)

// Unique indexes from db/migrations; a violation means a concurrent duplicate slipped past
// the in-transaction check.
const (
	ownRegistrationIndex   = "registrations_own_uidx"
	guestRegistrationIndex = "registrations_guest_uidx"
	pgUniqueViolation      = "23505"
)

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func loadRegistrations(ctx context.Context, q querier, gameID uuid.UUID) ([]models.Registration, error) {
	rows, err := q.Query(ctx, `
		SELECT id, game_id, user_id, guest_name, is_waitlist, paid, bringing_the_ball, created_at
		FROM registrations
		WHERE game_id = $1
		ORDER BY created_at, id
	`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regs []models.Registration
	for rows.Next() {
		var r models.Registration
		if err := rows.Scan(&r.ID, &r.GameID, &r.UserID, &r.GuestName, &r.IsWaitlist, &r.Paid, &r.BringingTheBall, &r.CreatedAt); err != nil {
			return nil, err
		}
		regs = append(regs, r)
	}
	return regs, rows.Err()
}

func loadSnapshot(ctx context.Context, q querier, gameID uuid.UUID, lock bool) (*registration.Snapshot, error) {
	sql := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`
	if lock {
		sql += ` FOR UPDATE`
	}
	g, err := scanGame(q.QueryRow(ctx, sql, gameID))
	if err != nil {
		return nil, err
	}
	regs, err := loadRegistrations(ctx, q, gameID)
	if err != nil {
		return nil, fmt.Errorf("load registrations: %w", err)
	}
	var assignments []models.PriorityAssignment
	if g.WithPriorityPlayers && g.AdministratorID != nil {
		assignments, err = listAssignments(ctx, q, *g.AdministratorID)
		if err != nil {
			return nil, fmt.Errorf("load priority assignments: %w", err)
		}
	}
	return &registration.Snapshot{Game: *g, Registrations: regs, Assignments: assignments}, nil
}

// Snapshot reads a game's roster without locking it.
func (s *Store) Snapshot(ctx context.Context, gameID uuid.UUID) (*registration.Snapshot, error) {
	return loadSnapshot(ctx, s.pool, gameID, false)
}

// WithRoster locks the game row, hands fn the roster and writes fn's change in the same
// transaction. Concurrent callers on the same game queue behind the row lock.
func (s *Store) WithRoster(ctx context.Context, gameID uuid.UUID, fn func(*registration.Snapshot) (*registration.Change, error)) error {
	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		snap, err := loadSnapshot(ctx, tx, gameID, true)
		if err != nil {
			return err
		}
		change, err := fn(snap)
		if err != nil {
			return err
		}
		if change == nil || (change.Game == nil && change.Roster.Empty()) {
			return nil
		}
		if change.Game != nil {
			if err := updateGame(ctx, tx, change.Game); err != nil {
				return fmt.Errorf("update game: %w", err)
			}
		}
		return applyDelta(ctx, tx, change.Roster)
	})
}

func applyDelta(ctx context.Context, tx pgx.Tx, d roster.Delta) error {
	for _, id := range d.Deleted {
		if _, err := tx.Exec(ctx, `DELETE FROM registrations WHERE id=$1`, id); err != nil {
			return fmt.Errorf("delete registration: %w", err)
		}
	}
	for _, r := range d.Updated {
		q := `
		UPDATE registrations
		SET is_waitlist=$2, paid=$3, bringing_the_ball=$4
		WHERE id=$1
		`
		if _, err := tx.Exec(ctx, q, r.ID, r.IsWaitlist, r.Paid, r.BringingTheBall); err != nil {
			return fmt.Errorf("update registration: %w", err)
		}
	}
	for _, r := range d.Inserted {
		q := `
		INSERT INTO registrations (id, game_id, user_id, guest_name, is_waitlist, paid, bringing_the_ball, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		_, err := tx.Exec(ctx, q, r.ID, r.GameID, r.UserID, r.GuestName, r.IsWaitlist, r.Paid, r.BringingTheBall, r.CreatedAt)
		if err != nil {
			return mapInsertErr(err)
		}
	}
	return nil
}

func mapInsertErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		switch pgErr.ConstraintName {
		case ownRegistrationIndex:
			return registration.ErrAlreadyRegistered
		case guestRegistrationIndex:
			return registration.ErrDuplicateGuestName
		}
	}
	return fmt.Errorf("insert registration: %w", err)
}
