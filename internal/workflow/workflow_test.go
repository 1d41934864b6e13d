package workflow

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukydev/workshop-walkin/internal/api"
	"github.com/ukydev/workshop-walkin/internal/auth"
	"github.com/ukydev/workshop-walkin/internal/composer"
	"github.com/ukydev/workshop-walkin/internal/models"
	"github.com/ukydev/workshop-walkin/internal/orders"
)

const (
	servicesPayload = `{"$values":[
		{"serviceId":1,"serviceName":"Oil Change","category":"Engine","price":1500},
		{"serviceId":7,"serviceName":"Annual Inspection","category":"Inspection","subCategory":"Annual","price":800}
	]}`
	mechanicsPayload = `[
		{"mechanicId":2,"name":"Beto","currentAppointments":1},
		{"mechanicId":3,"name":"Caro","currentAppointments":3}
	]`
)

func newSession(t *testing.T, handler http.HandlerFunc) (*Session, func()) {
	t.Helper()
	server := httptest.NewServer(handler)
	client := api.NewClient(server.URL, auth.NewStaticTokenSource("tok"))
	return NewSession(client), server.Close
}

func composeValid(t *testing.T, s *Session) {
	t.Helper()
	customer := &models.Customer{UserID: 5, Name: "Maria"}
	vehicle := &models.Vehicle{VehicleID: 31, Make: "Toyota", UserID: 5}
	require.NoError(t, s.Composer.SelectCustomer(customer))
	require.NoError(t, s.Composer.SelectVehicle(vehicle))

	mechanic, ok := s.Mechanics.Find(2)
	require.True(t, ok)
	require.NoError(t, s.Composer.SelectMechanic(mechanic))
	require.NoError(t, s.Composer.SelectService(&s.Offerings.Regular[0]))
}

func TestSession_Start_LoadsBothSnapshots(t *testing.T) {
	s, done := newSession(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/Services":
			w.Write([]byte(servicesPayload))
		case "/api/MechanicServices/available":
			w.Write([]byte(mechanicsPayload))
		default:
			http.NotFound(w, r)
		}
	})
	defer done()

	errs := s.Start(context.Background())
	assert.Empty(t, errs)
	assert.Len(t, s.Offerings.Regular, 1)
	assert.Len(t, s.Offerings.Inspections, 1)
	assert.Len(t, s.Mechanics.Snapshot(), 2)
	assert.Len(t, s.Mechanics.Selectable(), 1)
}

func TestSession_Start_DegradesToEmptyOnFailure(t *testing.T) {
	s, done := newSession(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	})
	defer done()

	errs := s.Start(context.Background())
	assert.Len(t, errs, 2)
	assert.Empty(t, s.Offerings.Regular)
	assert.Empty(t, s.Offerings.Inspections)
	assert.Empty(t, s.Mechanics.Snapshot())
}

func TestSession_ReloadCatalog(t *testing.T) {
	failing := true
	s, done := newSession(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/Services":
			if failing {
				http.Error(w, "down", http.StatusInternalServerError)
				return
			}
			w.Write([]byte(servicesPayload))
		case "/api/MechanicServices/available":
			w.Write([]byte(mechanicsPayload))
		}
	})
	defer done()

	errs := s.Start(context.Background())
	assert.Len(t, errs, 1)

	failing = false
	require.NoError(t, s.ReloadCatalog(context.Background()))
	assert.Len(t, s.Offerings.Regular, 1)
}

func TestSession_Submit_ServiceOnlyRoute(t *testing.T) {
	s, done := newSession(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/Services":
			w.Write([]byte(servicesPayload))
		case "/api/MechanicServices/available":
			w.Write([]byte(mechanicsPayload))
		case "/api/Orders/walkin":
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"billId":10,"orderId":20,"totalAmount":1500}`))
		}
	})
	defer done()

	require.Empty(t, s.Start(context.Background()))
	composeValid(t, s)

	bill, route, err := s.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, bill.BillID)
	assert.Equal(t, RouteServiceOnly, route)
	assert.Equal(t, composer.StateCommitted, s.Composer.State())
}

func TestSession_Submit_RejectionRefreshesAvailability(t *testing.T) {
	mechanicLoads := 0
	s, done := newSession(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/Services":
			w.Write([]byte(servicesPayload))
		case "/api/MechanicServices/available":
			mechanicLoads++
			w.Write([]byte(mechanicsPayload))
		case "/api/Orders/walkin":
			http.Error(w, "mechanic already at capacity", http.StatusConflict)
		}
	})
	defer done()

	require.Empty(t, s.Start(context.Background()))
	composeValid(t, s)

	_, _, err := s.Submit(context.Background())
	assert.ErrorIs(t, err, orders.ErrRejected)

	// availability re-fetched, only the mechanic cleared
	assert.Equal(t, 2, mechanicLoads)
	comp := s.Composer.Composition()
	assert.Nil(t, comp.Mechanic)
	assert.NotNil(t, comp.Customer)
	assert.NotNil(t, comp.Vehicle)
	assert.NotNil(t, comp.Service)
	assert.Equal(t, composer.StatePartiallyComposed, s.Composer.State())
}

func TestSession_Submit_TransportFailureKeepsMechanic(t *testing.T) {
	s, done := newSession(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/Services":
			w.Write([]byte(servicesPayload))
		case "/api/MechanicServices/available":
			w.Write([]byte(mechanicsPayload))
		case "/api/Orders/walkin":
			http.Error(w, "gateway", http.StatusBadGateway)
		}
	})
	defer done()

	require.Empty(t, s.Start(context.Background()))
	composeValid(t, s)

	_, _, err := s.Submit(context.Background())
	assert.ErrorIs(t, err, api.ErrTransport)
	assert.NotNil(t, s.Composer.Composition().Mechanic, "transport failures keep the whole composition for retry")
	assert.Equal(t, composer.StateFailed, s.Composer.State())
}

func TestRouteAfterSubmit(t *testing.T) {
	inspection := &models.ServiceOffering{ServiceID: 7, Category: "Inspection"}
	service := &models.ServiceOffering{ServiceID: 1, Category: "Engine"}

	tests := []struct {
		name     string
		comp     composer.Composition
		expected Route
	}{
		{"service only", composer.Composition{Service: service}, RouteServiceOnly},
		{"inspection only", composer.Composition{IncludesInspection: true, Inspection: inspection}, RouteInspection},
		{"service and inspection", composer.Composition{Service: service, IncludesInspection: true, Inspection: inspection}, RouteInspection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RouteAfterSubmit(tt.comp))
		})
	}
}
