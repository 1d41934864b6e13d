package mechanics

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/workshop-walkin/internal/api"
	"github.com/ukydev/workshop-walkin/internal/models"
)

// ErrUnavailable is returned when the mechanic roster cannot be loaded.
var ErrUnavailable = errors.New("mechanic availability unavailable")

// Tracker is a point-in-time snapshot of mechanic availability. It is
// advisory only: two staff sessions can both see a mechanic as Available and
// both submit. The backend re-checks capacity at commit time, so a rejected
// submission means the snapshot went stale, not that something broke.
type Tracker struct {
	client    *api.Client
	mechanics []models.Mechanic
	loadedAt  time.Time
}

// NewTracker creates a tracker over the shared API client.
func NewTracker(client *api.Client) *Tracker {
	return &Tracker{client: client}
}

// Load fetches the roster with active-appointment counts and annotates every
// entry with its derived status. On failure the snapshot is cleared and the
// error is surfaced.
func (t *Tracker) Load(ctx context.Context) ([]models.Mechanic, error) {
	raw, err := t.client.Get(ctx, "/api/MechanicServices/available")
	if err != nil {
		log.WithError(err).Error("failed to load mechanic availability")
		t.mechanics = nil
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	mechanics, err := api.NormalizeList[models.Mechanic](raw)
	if err != nil {
		log.WithError(err).Error("mechanic availability payload was not a list")
		t.mechanics = nil
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	for i := range mechanics {
		mechanics[i].Status = mechanics[i].DeriveStatus()
	}
	t.mechanics = mechanics
	t.loadedAt = time.Now()
	return t.Snapshot(), nil
}

// Snapshot returns a copy of the last loaded roster.
func (t *Tracker) Snapshot() []models.Mechanic {
	out := make([]models.Mechanic, len(t.mechanics))
	copy(out, t.mechanics)
	return out
}

// LoadedAt reports when the snapshot was taken; zero before the first Load.
func (t *Tracker) LoadedAt() time.Time {
	return t.loadedAt
}

// Selectable returns only the mechanics below the capacity limit.
func (t *Tracker) Selectable() []models.Mechanic {
	out := make([]models.Mechanic, 0, len(t.mechanics))
	for _, m := range t.mechanics {
		if m.IsSelectable() {
			out = append(out, m)
		}
	}
	return out
}

// Find returns the snapshot entry for the given mechanic id.
func (t *Tracker) Find(mechanicID int) (*models.Mechanic, bool) {
	for i := range t.mechanics {
		if t.mechanics[i].MechanicID == mechanicID {
			m := t.mechanics[i]
			return &m, true
		}
	}
	return nil, false
}
