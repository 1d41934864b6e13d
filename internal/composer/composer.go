package composer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/workshop-walkin/internal/models"
)

// State identifies where a composition sits in its lifecycle.
type State string

const (
	StateEmpty             State = "Empty"
	StatePartiallyComposed State = "PartiallyComposed"
	StateValid             State = "Valid"
	StateSubmitting        State = "Submitting"
	StateCommitted         State = "Committed"
	StateFailed            State = "Failed"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotValid         = errors.New("composition is not valid for submission")
	ErrSubmitInProgress = errors.New("submission already in progress")
	ErrAlreadyCommitted = errors.New("composition already committed")
)

// Submitter commits a valid composition and returns the resulting bill. The
// idempotency key lets the backend collapse duplicate attempts.
type Submitter interface {
	Submit(ctx context.Context, comp Composition, idempotencyKey string) (*models.Bill, error)
}

// Composer holds the working walk-in selection and re-derives validity and
// total price after every change. Submission is serialized: while one
// submit is in flight no mutation and no second submit can slip in.
type Composer struct {
	mu             sync.Mutex
	state          State
	comp           Composition
	idempotencyKey string
	lastErr        error
	bill           *models.Bill
}

// New creates an empty composer.
func New() *Composer {
	return &Composer{state: StateEmpty}
}

// State returns the current lifecycle state.
func (c *Composer) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Composition returns a value snapshot of the current selection.
func (c *Composer) Composition() Composition {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.comp
}

// TotalAmount returns the current derived total.
func (c *Composer) TotalAmount() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.comp.TotalAmount
}

// LastError returns the error of the most recent failed submission.
func (c *Composer) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Bill returns the bill of a committed composition, nil otherwise.
func (c *Composer) Bill() *models.Bill {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bill
}

// Validate re-derives validity for the current selection.
func (c *Composer) Validate() ValidationResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Validate(c.comp)
}

// SelectCustomer sets the customer. Changing the customer clears the
// vehicle: a vehicle is only meaningful under its owner.
func (c *Composer) SelectCustomer(customer *models.Customer) error {
	return c.mutate(func() error {
		if customer == nil {
			return fmt.Errorf("%w: customer must not be nil", ErrInvalidInput)
		}
		if c.comp.Customer == nil || c.comp.Customer.UserID != customer.UserID {
			c.comp.Vehicle = nil
		}
		c.comp.Customer = customer
		return nil
	})
}

// SelectVehicle sets the vehicle; it must belong to the selected customer.
func (c *Composer) SelectVehicle(vehicle *models.Vehicle) error {
	return c.mutate(func() error {
		if vehicle == nil {
			return fmt.Errorf("%w: vehicle must not be nil", ErrInvalidInput)
		}
		if c.comp.Customer == nil {
			return fmt.Errorf("%w: select a customer before a vehicle", ErrInvalidInput)
		}
		if !vehicle.BelongsTo(c.comp.Customer) {
			return fmt.Errorf("%w: vehicle %d does not belong to customer %d", ErrInvalidInput, vehicle.VehicleID, c.comp.Customer.UserID)
		}
		c.comp.Vehicle = vehicle
		return nil
	})
}

// SelectService sets the regular service, replacing any previous one.
func (c *Composer) SelectService(service *models.ServiceOffering) error {
	return c.mutate(func() error {
		if service == nil {
			return fmt.Errorf("%w: service must not be nil", ErrInvalidInput)
		}
		if service.IsInspection() {
			return fmt.Errorf("%w: %q is an inspection type, not a regular service", ErrInvalidInput, service.ServiceName)
		}
		c.comp.Service = service
		return nil
	})
}

// ClearService removes the regular service selection.
func (c *Composer) ClearService() error {
	return c.mutate(func() error {
		c.comp.Service = nil
		return nil
	})
}

// SetIncludesInspection flips the inspection toggle. Turning it off clears
// the selected inspection type and its price contribution.
func (c *Composer) SetIncludesInspection(on bool) error {
	return c.mutate(func() error {
		c.comp.IncludesInspection = on
		if !on {
			c.comp.Inspection = nil
		}
		return nil
	})
}

// SelectInspection sets the inspection type, replacing any previous one. The
// toggle must already be on.
func (c *Composer) SelectInspection(inspection *models.ServiceOffering) error {
	return c.mutate(func() error {
		if inspection == nil {
			return fmt.Errorf("%w: inspection must not be nil", ErrInvalidInput)
		}
		if !inspection.IsInspection() {
			return fmt.Errorf("%w: %q is not an inspection type", ErrInvalidInput, inspection.ServiceName)
		}
		if !c.comp.IncludesInspection {
			return fmt.Errorf("%w: the inspection toggle is off", ErrInvalidInput)
		}
		c.comp.Inspection = inspection
		return nil
	})
}

// SelectMechanic sets the mechanic. A mechanic at capacity is rejected here
// rather than left for the backend to bounce.
func (c *Composer) SelectMechanic(mechanic *models.Mechanic) error {
	return c.mutate(func() error {
		if mechanic == nil {
			return fmt.Errorf("%w: mechanic must not be nil", ErrInvalidInput)
		}
		if !mechanic.IsSelectable() {
			return fmt.Errorf("%w: mechanic %q is at capacity", ErrInvalidInput, mechanic.Name)
		}
		c.comp.Mechanic = mechanic
		return nil
	})
}

// ClearMechanic removes the mechanic selection, keeping everything else.
func (c *Composer) ClearMechanic() error {
	return c.mutate(func() error {
		c.comp.Mechanic = nil
		return nil
	})
}

// SetNotes replaces the free-text notes.
func (c *Composer) SetNotes(notes string) error {
	return c.mutate(func() error {
		c.comp.Notes = notes
		return nil
	})
}

// mutate guards a selection change: not while a submit is in flight, never
// after commit. Every successful change recomputes the total and the state
// from scratch and invalidates the idempotency key, since the composition
// content is no longer what a previous attempt carried.
func (c *Composer) mutate(apply func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateSubmitting:
		return ErrSubmitInProgress
	case StateCommitted:
		return ErrAlreadyCommitted
	}

	if err := apply(); err != nil {
		return err
	}
	c.recompute()
	return nil
}

func (c *Composer) recompute() {
	c.comp.TotalAmount = c.comp.price()
	c.idempotencyKey = ""
	c.lastErr = nil

	switch {
	case c.comp.isEmpty():
		c.state = StateEmpty
	case Validate(c.comp).Valid:
		c.state = StateValid
	default:
		c.state = StatePartiallyComposed
	}
}

// Submit commits the composition through the given submitter. It is only
// callable from Valid (or Failed, for a retry); a concurrent second call
// observes Submitting and fails without issuing a request, which is what
// makes a double click structurally harmless. On failure the selections are
// retained untouched so the operator can retry without re-entering data.
func (c *Composer) Submit(ctx context.Context, submitter Submitter) (*models.Bill, error) {
	c.mu.Lock()
	switch c.state {
	case StateSubmitting:
		c.mu.Unlock()
		return nil, ErrSubmitInProgress
	case StateCommitted:
		c.mu.Unlock()
		return nil, ErrAlreadyCommitted
	case StateValid, StateFailed:
	default:
		result := Validate(c.comp)
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrNotValid, result.Summary())
	}

	if result := Validate(c.comp); !result.Valid {
		c.state = StatePartiallyComposed
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrNotValid, result.Summary())
	}

	// One key per composition content, reused across retries so the backend
	// can collapse duplicates even when the client guard is bypassed.
	if c.idempotencyKey == "" {
		c.idempotencyKey = uuid.NewString()
	}
	comp := c.comp
	key := c.idempotencyKey
	c.state = StateSubmitting
	c.mu.Unlock()

	bill, err := submitter.Submit(ctx, comp, key)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = StateFailed
		c.lastErr = err
		log.WithError(err).Warn("walk-in submission failed; composition retained for retry")
		return nil, err
	}
	c.state = StateCommitted
	c.bill = bill
	c.lastErr = nil
	return bill, nil
}
