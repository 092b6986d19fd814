// internal/registration/maintenance.go
package registration

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/smashclub/volley/internal/models"
)

// AddPriorityAssignment gives a user priority on one weekday in the games run by the
// assignment's administrator, which defaults to the calling admin.
func (s *Service) AddPriorityAssignment(ctx context.Context, adminID uuid.UUID, a models.PriorityAssignment) (*models.PriorityAssignment, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	if s.Assignments == nil {
		return nil, fmt.Errorf("priority assignments: %w", ErrNotConfigured)
	}
	a.ID = uuid.Nil
	if a.AdministratorID == uuid.Nil {
		a.AdministratorID = adminID
	}
	switch {
	case a.UserID == uuid.Nil:
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidAssignment)
	case a.DayOfWeek < time.Sunday || a.DayOfWeek > time.Saturday:
		return nil, fmt.Errorf("%w: day_of_week must be 0..6", ErrInvalidAssignment)
	}
	if _, err := s.user(ctx, a.UserID); err != nil {
		return nil, err
	}
	if a.AdministratorID != adminID {
		owner, err := s.user(ctx, a.AdministratorID)
		if err != nil {
			return nil, err
		}
		if !owner.IsAdmin {
			return nil, fmt.Errorf("%w: administrator %s is not an admin", ErrInvalidAssignment, owner.ID)
		}
	}
	if err := s.Assignments.AddAssignment(ctx, &a); err != nil {
		return nil, fmt.Errorf("add priority assignment: %w", err)
	}
	s.Logger.WithField("assignment", a.ID).Info("priority assignment added")
	return &a, nil
}

// ListPriorityAssignments returns the assignments run by owner, or by the caller when
// owner is nil.
func (s *Service) ListPriorityAssignments(ctx context.Context, adminID, owner uuid.UUID) ([]models.PriorityAssignment, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	if s.Assignments == nil {
		return nil, fmt.Errorf("priority assignments: %w", ErrNotConfigured)
	}
	if owner == uuid.Nil {
		owner = adminID
	}
	return s.Assignments.ListAssignments(ctx, owner)
}

func (s *Service) RemovePriorityAssignment(ctx context.Context, adminID, id uuid.UUID) error {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	if s.Assignments == nil {
		return fmt.Errorf("priority assignments: %w", ErrNotConfigured)
	}
	if err := s.Assignments.RemoveAssignment(ctx, id); err != nil {
		return err
	}
	s.Logger.WithField("assignment", id).Info("priority assignment removed")
	return nil
}

// SetUserBlocked blocks or unblocks a user. Blocked users cannot join or invite guests;
// their existing registrations stay.
func (s *Service) SetUserBlocked(ctx context.Context, adminID, userID uuid.UUID, blocked bool) (*models.User, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	if s.Accounts == nil {
		return nil, fmt.Errorf("accounts: %w", ErrNotConfigured)
	}
	if err := s.Accounts.SetBlocked(ctx, userID, blocked); err != nil {
		return nil, err
	}
	s.Logger.WithField("user", userID).WithField("blocked", blocked).Info("user block changed")
	return s.user(ctx, userID)
}

// LockRoster freezes admin roster edits on the game for ttl, or until UnlockRoster when
// ttl is zero.
func (s *Service) LockRoster(ctx context.Context, gameID, adminID uuid.UUID, ttl time.Duration) error {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	if s.Locks == nil {
		return fmt.Errorf("roster locks: %w", ErrNotConfigured)
	}
	if ttl < 0 {
		return fmt.Errorf("%w: ttl must not be negative", ErrInvalidLock)
	}
	if _, err := s.Store.GetGame(ctx, gameID); err != nil {
		return err
	}
	if err := s.Locks.Lock(ctx, gameID, ttl); err != nil {
		return fmt.Errorf("lock roster: %w", err)
	}
	s.Logger.WithField("game", gameID).WithField("ttl", ttl).Info("roster locked")
	return nil
}

func (s *Service) UnlockRoster(ctx context.Context, gameID, adminID uuid.UUID) error {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	if s.Locks == nil {
		return fmt.Errorf("roster locks: %w", ErrNotConfigured)
	}
	if _, err := s.Store.GetGame(ctx, gameID); err != nil {
		return err
	}
	if err := s.Locks.Unlock(ctx, gameID); err != nil {
		return fmt.Errorf("unlock roster: %w", err)
	}
	s.Logger.WithField("game", gameID).Info("roster unlocked")
	return nil
}
