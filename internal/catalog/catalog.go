package catalog

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/workshop-walkin/internal/api"
	"github.com/ukydev/workshop-walkin/internal/models"
)

// ErrUnavailable is returned when the service menu cannot be loaded.
var ErrUnavailable = errors.New("service catalog unavailable")

// Offerings is the service menu partitioned into the two buckets the walk-in
// workflow selects from. Every offering lands in exactly one bucket.
type Offerings struct {
	Regular     []models.ServiceOffering
	Inspections []models.ServiceOffering
}

// Catalog loads the workshop service menu from the backend.
type Catalog struct {
	client *api.Client
}

// New creates a catalog over the shared API client.
func New(client *api.Client) *Catalog {
	return &Catalog{client: client}
}

// LoadOfferings fetches and partitions the menu. On failure it returns empty
// buckets alongside ErrUnavailable: the workflow stays usable but must not
// pretend data exists.
func (c *Catalog) LoadOfferings(ctx context.Context) (Offerings, error) {
	raw, err := c.client.Get(ctx, "/api/Services")
	if err != nil {
		log.WithError(err).Error("failed to load service catalog")
		return Partition(nil), fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	offerings, err := api.NormalizeList[models.ServiceOffering](raw)
	if err != nil {
		log.WithError(err).Error("service catalog payload was not a list")
		return Partition(nil), fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return Partition(offerings), nil
}

// Partition splits offerings by the inspection category sentinel,
// case-insensitively.
func Partition(offerings []models.ServiceOffering) Offerings {
	out := Offerings{
		Regular:     []models.ServiceOffering{},
		Inspections: []models.ServiceOffering{},
	}
	for _, offering := range offerings {
		if offering.IsInspection() {
			out.Inspections = append(out.Inspections, offering)
		} else {
			out.Regular = append(out.Regular, offering)
		}
	}
	return out
}
