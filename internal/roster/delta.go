package roster

import (
	"github.com/google/uuid"
	"github.com/smashclub/volley/internal/models"
)

// Delta is the change set produced by one roster operation. Stores persist it as a unit.
type Delta struct {
	Inserted []models.Registration
	Updated  []models.Registration
	Deleted  []uuid.UUID
}

// Empty reports whether the delta changes nothing.
func (d Delta) Empty() bool {
	return len(d.Inserted) == 0 && len(d.Updated) == 0 && len(d.Deleted) == 0
}

// Merge appends o to d.
func (d *Delta) Merge(o Delta) {
	d.Inserted = append(d.Inserted, o.Inserted...)
	d.Updated = append(d.Updated, o.Updated...)
	d.Deleted = append(d.Deleted, o.Deleted...)
}
