// internal/database/game.go
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/smashclub/volley/internal/models"
	"github.com/smashclub/volley/internal/registration"
)

const gameColumns = `
	id, date_time, location, max_players,
	unregister_deadline_hours, registration_window_hours,
	readonly, with_positions, with_priority_players,
	administrator_id, payment_amount, pricing_mode,
	created_by, created_at
`

func scanGame(row pgx.Row) (*models.Game, error) {
	var g models.Game
	err := row.Scan(
		&g.ID, &g.DateTime, &g.Location, &g.MaxPlayers,
		&g.UnregisterDeadlineHours, &g.RegistrationWindowHours,
		&g.Readonly, &g.WithPositions, &g.WithPriorityPlayers,
		&g.AdministratorID, &g.PaymentAmount, &g.PricingMode,
		&g.CreatedBy, &g.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, registration.ErrGameNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// CreateGame inserts a new game row.
func (s *Store) CreateGame(ctx context.Context, g *models.Game) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	q := `
	INSERT INTO games (` + gameColumns + `)
	VALUES ($1, $2, $3, $4,
	        $5, $6,
	        $7, $8, $9,
	        $10, $11, $12,
	        $13, $14)
	`
	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, q,
			g.ID, g.DateTime, g.Location, g.MaxPlayers,
			g.UnregisterDeadlineHours, g.RegistrationWindowHours,
			g.Readonly, g.WithPositions, g.WithPriorityPlayers,
			g.AdministratorID, g.PaymentAmount, g.PricingMode,
			g.CreatedBy, g.CreatedAt,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to insert game: %w", err)
	}
	return nil
}

// GetGame fetches a game by ID.
func (s *Store) GetGame(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	q := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`
	return scanGame(s.pool.QueryRow(ctx, q, id))
}

// ListGames returns the games starting at or after from, soonest first.
func (s *Store) ListGames(ctx context.Context, from time.Time) ([]models.Game, error) {
	q := `SELECT ` + gameColumns + ` FROM games WHERE date_time >= $1 ORDER BY date_time`
	rows, err := s.pool.Query(ctx, q, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []models.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, *g)
	}
	return games, rows.Err()
}

// DeleteGame removes a game row by ID. Registrations go with it.
func (s *Store) DeleteGame(ctx context.Context, id uuid.UUID) error {
	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM registrations WHERE game_id=$1`, id); err != nil {
			return err
		}
		ct, err := tx.Exec(ctx, `DELETE FROM games WHERE id=$1`, id)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return registration.ErrGameNotFound
		}
		return nil
	})
}

func updateGame(ctx context.Context, tx pgx.Tx, g *models.Game) error {
	q := `
	UPDATE games SET
		date_time=$2, location=$3, max_players=$4,
		unregister_deadline_hours=$5, registration_window_hours=$6,
		readonly=$7, with_positions=$8, with_priority_players=$9,
		administrator_id=$10, payment_amount=$11, pricing_mode=$12
	WHERE id=$1
	`
	_, err := tx.Exec(ctx, q,
		g.ID, g.DateTime, g.Location, g.MaxPlayers,
		g.UnregisterDeadlineHours, g.RegistrationWindowHours,
		g.Readonly, g.WithPositions, g.WithPriorityPlayers,
		g.AdministratorID, g.PaymentAmount, g.PricingMode,
	)
	return err
}
