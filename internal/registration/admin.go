// internal/registration/admin.go
package registration

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/smashclub/volley/internal/models"
	"github.com/smashclub/volley/internal/roster"
)

// Target names a roster entry: a user's own registration, or one of their guests.
type Target struct {
	UserID    uuid.UUID `json:"user_id"`
	GuestName *string   `json:"guest_name,omitempty"`
}

// adminOp checks admin rights and the roster guard before running op. Admin operations
// bypass the time policy and the readonly flag.
func (s *Service) adminOp(ctx context.Context, gameID, adminID uuid.UUID, op opFunc) (*Result, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	return s.mutate(ctx, gameID, func(snap *Snapshot, r *roster.Roster, now time.Time) (*outcome, error) {
		if err := s.checkGuard(ctx, snap.Game); err != nil {
			return nil, err
		}
		return op(snap, r, now)
	})
}

func findTarget(r *roster.Roster, t Target) (models.Registration, error) {
	reg, ok := r.Find(t.UserID, t.GuestName)
	if !ok {
		return models.Registration{}, ErrRegistrationNotFound
	}
	return reg, nil
}

func (s *Service) normalizeTarget(ctx context.Context, t Target) (Target, error) {
	name, err := normalizeOptionalGuest(t.GuestName)
	if err != nil {
		return Target{}, err
	}
	t.GuestName = name
	if _, err := s.user(ctx, t.UserID); err != nil {
		return Target{}, err
	}
	return t, nil
}

func duplicateErr(t Target) error {
	if t.GuestName != nil {
		return ErrDuplicateGuestName
	}
	return ErrAlreadyRegistered
}

// AdminAdd registers the target at any time. A full roster waitlists rather than fails.
func (s *Service) AdminAdd(ctx context.Context, gameID, adminID uuid.UUID, t Target) (*Result, error) {
	t, err := s.normalizeTarget(ctx, t)
	if err != nil {
		return nil, err
	}
	return s.adminOp(ctx, gameID, adminID, func(snap *Snapshot, r *roster.Roster, now time.Time) (*outcome, error) {
		if _, ok := r.Find(t.UserID, t.GuestName); ok {
			return nil, duplicateErr(t)
		}
		reg, delta := r.Admit(s.newRegistration(snap.Game.ID, t.UserID, t.GuestName, now))
		return &outcome{reg: reg, delta: delta}, nil
	})
}

// AdminAddBatch registers several targets in one transaction. Free slots go to priority
// players of the batch first, then in list order. Any duplicate rejects the whole batch.
func (s *Service) AdminAddBatch(ctx context.Context, gameID, adminID uuid.UUID, targets []Target) ([]models.Registration, roster.View, error) {
	norm := make([]Target, 0, len(targets))
	for _, t := range targets {
		nt, err := s.normalizeTarget(ctx, t)
		if err != nil {
			return nil, roster.View{}, err
		}
		norm = append(norm, nt)
	}

	var admitted []models.Registration
	res, err := s.adminOp(ctx, gameID, adminID, func(snap *Snapshot, r *roster.Roster, now time.Time) (*outcome, error) {
		batch := make([]models.Registration, 0, len(norm))
		for i, t := range norm {
			if _, ok := r.Find(t.UserID, t.GuestName); ok {
				return nil, duplicateErr(t)
			}
			for _, prev := range batch {
				if prev.Matches(t.UserID, t.GuestName) {
					return nil, duplicateErr(t)
				}
			}
			// list order is the FIFO order within a tier; timestamptz keeps microseconds
			batch = append(batch, s.newRegistration(snap.Game.ID, t.UserID, t.GuestName, now.Add(time.Duration(i)*time.Microsecond)))
		}
		var delta roster.Delta
		admitted, delta = r.AdmitAll(batch)
		return &outcome{delta: delta}, nil
	})
	if err != nil {
		return nil, roster.View{}, err
	}
	return admitted, res.Roster, nil
}

// AdminRemove deletes the target's registration, promoting from the waitlist if a slot opens.
func (s *Service) AdminRemove(ctx context.Context, gameID, adminID uuid.UUID, t Target) (*Result, error) {
	name, err := normalizeOptionalGuest(t.GuestName)
	if err != nil {
		return nil, err
	}
	t.GuestName = name
	return s.adminOp(ctx, gameID, adminID, func(_ *Snapshot, r *roster.Roster, _ time.Time) (*outcome, error) {
		existing, err := findTarget(r, t)
		if err != nil {
			return nil, err
		}
		return release(r, existing)
	})
}

// MoveToWaitlist demotes the target and promotes the next waitlisted entry into the slot.
func (s *Service) MoveToWaitlist(ctx context.Context, gameID, adminID uuid.UUID, t Target) (*Result, error) {
	name, err := normalizeOptionalGuest(t.GuestName)
	if err != nil {
		return nil, err
	}
	t.GuestName = name
	return s.adminOp(ctx, gameID, adminID, func(_ *Snapshot, r *roster.Roster, _ time.Time) (*outcome, error) {
		existing, err := findTarget(r, t)
		if err != nil {
			return nil, err
		}
		moved, delta, promoted, err := r.MoveToWaitlist(existing.ID)
		if err != nil {
			return nil, err
		}
		out := &outcome{reg: moved, delta: delta}
		if promoted != nil {
			out.promoted = []models.Registration{*promoted}
		}
		return out, nil
	})
}

// MoveToActive seats the target. It fails with a CapacityError when the active list is full.
func (s *Service) MoveToActive(ctx context.Context, gameID, adminID uuid.UUID, t Target) (*Result, error) {
	name, err := normalizeOptionalGuest(t.GuestName)
	if err != nil {
		return nil, err
	}
	t.GuestName = name
	return s.adminOp(ctx, gameID, adminID, func(_ *Snapshot, r *roster.Roster, _ time.Time) (*outcome, error) {
		existing, err := findTarget(r, t)
		if err != nil {
			return nil, err
		}
		moved, delta, err := r.MoveToActive(existing.ID)
		if err != nil {
			return nil, err
		}
		return &outcome{reg: moved, delta: delta}, nil
	})
}

// SetPaid flips the paid flag. It never changes the partition.
func (s *Service) SetPaid(ctx context.Context, gameID, adminID uuid.UUID, t Target, paid bool) (*Result, error) {
	name, err := normalizeOptionalGuest(t.GuestName)
	if err != nil {
		return nil, err
	}
	t.GuestName = name
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	return s.mutate(ctx, gameID, func(_ *Snapshot, r *roster.Roster, _ time.Time) (*outcome, error) {
		existing, err := findTarget(r, t)
		if err != nil {
			return nil, err
		}
		existing.Paid = paid
		reg, delta, err := r.Update(existing)
		if err != nil {
			return nil, err
		}
		return &outcome{reg: reg, delta: delta}, nil
	})
}
