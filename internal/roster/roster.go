// internal/roster/roster.go
package roster

import (
	"sort"

	"github.com/google/uuid"
	"github.com/smashclub/volley/internal/models"
)

// Roster is a working copy of one game's registrations. Operations mutate the copy and
// return the Delta a store needs to persist; callers' slices are never touched.
type Roster struct {
	MaxPlayers int

	entries []models.Registration
	tier    TierFunc
}

// New copies entries into a Roster. A nil tier means plain FIFO.
func New(maxPlayers int, entries []models.Registration, tier TierFunc) *Roster {
	if tier == nil {
		tier = FIFO
	}
	cp := make([]models.Registration, len(entries))
	copy(cp, entries)
	return &Roster{MaxPlayers: maxPlayers, entries: cp, tier: tier}
}

// Entries returns a copy of every entry in insertion order.
func (r *Roster) Entries() []models.Registration {
	cp := make([]models.Registration, len(r.entries))
	copy(cp, r.entries)
	return cp
}

// TierOf classifies reg with the roster's tier function.
func (r *Roster) TierOf(reg models.Registration) Tier {
	return r.tier(reg)
}

func (r *Roster) ActiveCount() int {
	n := 0
	for _, e := range r.entries {
		if !e.IsWaitlist {
			n++
		}
	}
	return n
}

// IsFull reports whether no active slot is free. Over-capacity rosters are full.
func (r *Roster) IsFull() bool {
	return r.ActiveCount() >= r.MaxPlayers
}

// Active lists active entries, oldest first.
func (r *Roster) Active() []models.Registration {
	out := r.filter(false)
	sort.Slice(out, func(i, j int) bool { return fifoLess(out[i], out[j]) })
	return out
}

// Waitlist lists waitlisted entries in promotion order.
func (r *Roster) Waitlist() []models.Registration {
	out := r.filter(true)
	r.sortByTier(out)
	return out
}

func (r *Roster) filter(waitlist bool) []models.Registration {
	var out []models.Registration
	for _, e := range r.entries {
		if e.IsWaitlist == waitlist {
			out = append(out, e)
		}
	}
	return out
}

func (r *Roster) sortByTier(regs []models.Registration) {
	sort.Slice(regs, func(i, j int) bool {
		ti, tj := r.tier(regs[i]), r.tier(regs[j])
		if ti != tj {
			return ti < tj
		}
		return fifoLess(regs[i], regs[j])
	})
}

func fifoLess(a, b models.Registration) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID.String() < b.ID.String()
}

// Find looks up the entry identified by (userID, guestName).
func (r *Roster) Find(userID uuid.UUID, guestName *string) (models.Registration, bool) {
	for _, e := range r.entries {
		if e.Matches(userID, guestName) {
			return e, true
		}
	}
	return models.Registration{}, false
}

// Get looks up an entry by registration id.
func (r *Roster) Get(id uuid.UUID) (models.Registration, bool) {
	i := r.index(id)
	if i < 0 {
		return models.Registration{}, false
	}
	return r.entries[i], true
}

func (r *Roster) index(id uuid.UUID) int {
	for i, e := range r.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Admit inserts entry into the active list when a slot is free, otherwise onto the waitlist.
func (r *Roster) Admit(entry models.Registration) (models.Registration, Delta) {
	entry.IsWaitlist = r.IsFull()
	r.entries = append(r.entries, entry)
	return entry, Delta{Inserted: []models.Registration{entry}}
}

// AdmitAll admits a batch in (tier, createdAt) order, so priority entries take free slots
// before regular entries of the same batch regardless of arrival time.
func (r *Roster) AdmitAll(entries []models.Registration) ([]models.Registration, Delta) {
	batch := make([]models.Registration, len(entries))
	copy(batch, entries)
	r.sortByTier(batch)

	var delta Delta
	admitted := make([]models.Registration, 0, len(batch))
	for _, e := range batch {
		a, d := r.Admit(e)
		admitted = append(admitted, a)
		delta.Merge(d)
	}
	return admitted, delta
}

// Release removes the entry. When an active entry leaves and a slot opens, the first
// waitlisted entry is promoted and returned. Removing a waitlisted entry never promotes.
func (r *Roster) Release(id uuid.UUID) (Delta, *models.Registration, error) {
	i := r.index(id)
	if i < 0 {
		return Delta{}, nil, ErrEntryNotFound
	}
	removed := r.entries[i]
	r.entries = append(r.entries[:i], r.entries[i+1:]...)

	delta := Delta{Deleted: []uuid.UUID{removed.ID}}
	if removed.IsWaitlist {
		return delta, nil, nil
	}
	promoted, d := r.promoteNext(uuid.Nil)
	delta.Merge(d)
	return delta, promoted, nil
}

// MoveToWaitlist demotes an active entry regardless of capacity and promotes the next
// waitlisted entry into the freed slot. The demoted entry is not a promotion candidate.
func (r *Roster) MoveToWaitlist(id uuid.UUID) (models.Registration, Delta, *models.Registration, error) {
	i := r.index(id)
	if i < 0 {
		return models.Registration{}, Delta{}, nil, ErrEntryNotFound
	}
	if r.entries[i].IsWaitlist {
		return r.entries[i], Delta{}, nil, nil
	}
	r.entries[i].IsWaitlist = true
	moved := r.entries[i]

	delta := Delta{Updated: []models.Registration{moved}}
	promoted, d := r.promoteNext(moved.ID)
	delta.Merge(d)
	return moved, delta, promoted, nil
}

// MoveToActive seats a waitlisted entry. It never evicts; a full roster is rejected.
func (r *Roster) MoveToActive(id uuid.UUID) (models.Registration, Delta, error) {
	i := r.index(id)
	if i < 0 {
		return models.Registration{}, Delta{}, ErrEntryNotFound
	}
	if !r.entries[i].IsWaitlist {
		return r.entries[i], Delta{}, nil
	}
	if active := r.ActiveCount(); active >= r.MaxPlayers {
		return models.Registration{}, Delta{}, &CapacityError{MaxPlayers: r.MaxPlayers, Active: active}
	}
	r.entries[i].IsWaitlist = false
	return r.entries[i], Delta{Updated: []models.Registration{r.entries[i]}}, nil
}

// Fill promotes waitlisted entries until the active list is full, e.g. after the
// capacity was raised.
func (r *Roster) Fill() ([]models.Registration, Delta) {
	var (
		promoted []models.Registration
		delta    Delta
	)
	for {
		p, d := r.promoteNext(uuid.Nil)
		if p == nil {
			return promoted, delta
		}
		promoted = append(promoted, *p)
		delta.Merge(d)
	}
}

// Update replaces the non-partition fields of an existing entry (paid, ball).
func (r *Roster) Update(reg models.Registration) (models.Registration, Delta, error) {
	i := r.index(reg.ID)
	if i < 0 {
		return models.Registration{}, Delta{}, ErrEntryNotFound
	}
	reg.IsWaitlist = r.entries[i].IsWaitlist
	reg.GameID = r.entries[i].GameID
	reg.UserID = r.entries[i].UserID
	reg.GuestName = r.entries[i].GuestName
	reg.CreatedAt = r.entries[i].CreatedAt
	r.entries[i] = reg
	return reg, Delta{Updated: []models.Registration{reg}}, nil
}

func (r *Roster) promoteNext(skip uuid.UUID) (*models.Registration, Delta) {
	if r.IsFull() {
		return nil, Delta{}
	}
	for _, w := range r.Waitlist() {
		if w.ID == skip {
			continue
		}
		i := r.index(w.ID)
		r.entries[i].IsWaitlist = false
		p := r.entries[i]
		return &p, Delta{Updated: []models.Registration{p}}
	}
	return nil, Delta{}
}
