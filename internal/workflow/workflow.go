package workflow

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/workshop-walkin/internal/api"
	"github.com/ukydev/workshop-walkin/internal/catalog"
	"github.com/ukydev/workshop-walkin/internal/composer"
	"github.com/ukydev/workshop-walkin/internal/customers"
	"github.com/ukydev/workshop-walkin/internal/mechanics"
	"github.com/ukydev/workshop-walkin/internal/models"
	"github.com/ukydev/workshop-walkin/internal/orders"
)

// Route identifies where the operator goes after a successful submission.
type Route string

const (
	RouteServiceOnly Route = "ServiceOnly"
	RouteInspection  Route = "Inspection"
)

// Session wires one staff walk-in workflow from startup loads to
// submission. All remote calls run sequentially; there is no background
// work.
type Session struct {
	Catalog   *catalog.Catalog
	Resolver  *customers.Resolver
	Mechanics *mechanics.Tracker
	Composer  *composer.Composer
	Orders    *orders.Submission

	Offerings catalog.Offerings
}

// NewSession builds all collaborators over one shared API client.
func NewSession(client *api.Client) *Session {
	return &Session{
		Catalog:   catalog.New(client),
		Resolver:  customers.NewResolver(client),
		Mechanics: mechanics.NewTracker(client),
		Composer:  composer.New(),
		Orders:    orders.NewSubmission(client),
	}
}

// Start performs the two independent startup reads. Each failure is
// collected and surfaced, but the session continues with empty data rather
// than pretending the load worked; the operator sees the errors and can
// re-trigger the loads explicitly.
func (s *Session) Start(ctx context.Context) []error {
	var errs []error

	offerings, err := s.Catalog.LoadOfferings(ctx)
	if err != nil {
		errs = append(errs, err)
	}
	s.Offerings = offerings

	if _, err := s.Mechanics.Load(ctx); err != nil {
		errs = append(errs, err)
	}
	return errs
}

// ReloadCatalog re-triggers the catalog read after a degraded start.
func (s *Session) ReloadCatalog(ctx context.Context) error {
	offerings, err := s.Catalog.LoadOfferings(ctx)
	if err != nil {
		return err
	}
	s.Offerings = offerings
	return nil
}

// Submit commits the composition and derives the routing decision from what
// was submitted, never from the returned bill. A business rejection usually
// means the availability snapshot went stale, so the roster is re-fetched
// and only the mechanic selection is cleared for re-selection; everything
// else stays for retry. Entities created along the way are never rolled
// back; their ids are logged so staff can follow up.
func (s *Session) Submit(ctx context.Context) (*models.Bill, Route, error) {
	comp := s.Composer.Composition()

	bill, err := s.Composer.Submit(ctx, s.Orders)
	if err != nil {
		fields := log.Fields{}
		if comp.Customer != nil {
			fields["userId"] = comp.Customer.UserID
		}
		if comp.Vehicle != nil {
			fields["vehicleId"] = comp.Vehicle.VehicleID
		}
		log.WithError(err).WithFields(fields).Warn("walk-in submission failed; created entities are not rolled back")

		if errors.Is(err, orders.ErrRejected) {
			s.recoverFromRejection(ctx)
		}
		return nil, "", err
	}
	return bill, RouteAfterSubmit(comp), nil
}

// recoverFromRejection refreshes the mechanic snapshot and frees the
// mechanic slot of the composition so the operator can pick again from
// current data.
func (s *Session) recoverFromRejection(ctx context.Context) {
	if _, err := s.Mechanics.Load(ctx); err != nil {
		log.WithError(err).Error("could not refresh mechanic availability after rejection")
	}
	if err := s.Composer.ClearMechanic(); err != nil {
		log.WithError(err).Warn("could not clear mechanic selection after rejection")
	}
}

// RouteAfterSubmit derives the post-submission destination purely from the
// submitted composition.
func RouteAfterSubmit(comp composer.Composition) Route {
	if comp.IncludesInspection && comp.Inspection != nil {
		return RouteInspection
	}
	return RouteServiceOnly
}
