package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/smashclub/volley/internal/models"
	"github.com/smashclub/volley/internal/registration"
)

func listAssignments(ctx context.Context, q querier, adminID uuid.UUID) ([]models.PriorityAssignment, error) {
	rows, err := q.Query(ctx, `
		SELECT id, user_id, administrator_id, day_of_week, with_positions
		FROM priority_assignments
		WHERE administrator_id = $1
	`, adminID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.PriorityAssignment
	for rows.Next() {
		var (
			a   models.PriorityAssignment
			dow int16
		)
		if err := rows.Scan(&a.ID, &a.UserID, &a.AdministratorID, &dow, &a.WithPositions); err != nil {
			return nil, err
		}
		a.DayOfWeek = time.Weekday(dow)
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListAssignments returns every priority assignment run by adminID.
func (s *Store) ListAssignments(ctx context.Context, adminID uuid.UUID) ([]models.PriorityAssignment, error) {
	return listAssignments(ctx, s.pool, adminID)
}

// AddAssignment stores a priority assignment. Re-adding the same slot keeps the stored
// row and copies its id into a.
func (s *Store) AddAssignment(ctx context.Context, a *models.PriorityAssignment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	q := `
	INSERT INTO priority_assignments (id, user_id, administrator_id, day_of_week, with_positions)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (user_id, administrator_id, day_of_week, with_positions)
	DO UPDATE SET with_positions = EXCLUDED.with_positions
	RETURNING id
	`
	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, q, a.ID, a.UserID, a.AdministratorID, int16(a.DayOfWeek), a.WithPositions).Scan(&a.ID)
	})
}

// RemoveAssignment hard deletes an assignment.
func (s *Store) RemoveAssignment(ctx context.Context, id uuid.UUID) error {
	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx, `DELETE FROM priority_assignments WHERE id=$1`, id)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return registration.ErrAssignmentNotFound
		}
		return nil
	})
}
