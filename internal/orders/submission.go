package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/workshop-walkin/internal/api"
	"github.com/ukydev/workshop-walkin/internal/composer"
	"github.com/ukydev/workshop-walkin/internal/models"
)

// ErrRejected is returned when the backend refuses a submission: server-side
// validation, or the mechanic-capacity race the availability snapshot cannot
// prevent. It is an expected, recoverable outcome, not a bug.
var ErrRejected = errors.New("order submission rejected")

// Submission commits valid walk-in compositions as one atomic order.
type Submission struct {
	client *api.Client
}

// NewSubmission creates a submission endpoint over the shared API client.
func NewSubmission(client *api.Client) *Submission {
	return &Submission{client: client}
}

// Submit builds the single walk-in payload and posts it with the given
// idempotency key. The composition is never touched, so the caller can retry
// it as-is after a failure. On success the returned bill is for display
// only.
func (s *Submission) Submit(ctx context.Context, comp composer.Composition, idempotencyKey string) (*models.Bill, error) {
	request, err := BuildRequest(comp)
	if err != nil {
		return nil, err
	}

	raw, err := s.client.PostIdempotent(ctx, "/api/Orders/walkin", request, idempotencyKey)
	if err != nil {
		if errors.Is(err, api.ErrRejected) {
			return nil, fmt.Errorf("%w: %v", ErrRejected, err)
		}
		return nil, err
	}

	var bill models.Bill
	if err := json.Unmarshal(raw, &bill); err != nil {
		return nil, fmt.Errorf("%w: decode bill: %v", api.ErrTransport, err)
	}

	log.WithFields(log.Fields{
		"orderId":     bill.OrderID,
		"customerId":  request.CustomerID,
		"mechanicId":  request.MechanicID,
		"totalAmount": request.TotalAmount,
	}).Info("walk-in order committed")
	return &bill, nil
}

// BuildRequest maps a composition onto the wire payload. Absent service or
// inspection selections become explicit nulls; the inspection type only
// travels while the toggle is on.
func BuildRequest(comp composer.Composition) (*models.WalkInOrderRequest, error) {
	if comp.Customer == nil || comp.Vehicle == nil || comp.Mechanic == nil {
		return nil, fmt.Errorf("incomplete composition: customer, vehicle and mechanic are required")
	}

	request := &models.WalkInOrderRequest{
		CustomerID:         comp.Customer.UserID,
		VehicleID:          comp.Vehicle.VehicleID,
		IncludesInspection: comp.IncludesInspection,
		TotalAmount:        comp.TotalAmount,
		Notes:              comp.Notes,
		MechanicID:         comp.Mechanic.MechanicID,
	}
	if comp.Service != nil {
		id := comp.Service.ServiceID
		request.ServiceID = &id
	}
	if comp.IncludesInspection && comp.Inspection != nil {
		id := comp.Inspection.ServiceID
		request.InspectionTypeID = &id
		request.InspectionSubCategory = comp.Inspection.SubCategory
	}
	return request, nil
}
