package customers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/workshop-walkin/internal/api"
	"github.com/ukydev/workshop-walkin/internal/models"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrSearchFailed = errors.New("customer search failed")
)

// Resolver finds or creates customers and their vehicles. Only entities that
// round-tripped through one of its operations may enter an order
// composition; that keeps a vehicle from being referenced under a customer
// who does not own it.
type Resolver struct {
	client   *api.Client
	validate *validator.Validate
}

// NewResolver creates a resolver over the shared API client.
func NewResolver(client *api.Client) *Resolver {
	return &Resolver{
		client:   client,
		validate: validator.New(),
	}
}

// SearchCustomers looks customers up by a name/email/phone fragment. An
// empty term is a caller bug, not a remote failure.
func (r *Resolver) SearchCustomers(ctx context.Context, term string) ([]models.Customer, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, fmt.Errorf("%w: empty search term", ErrInvalidInput)
	}
	raw, err := r.client.Get(ctx, "/api/Users/search?term="+url.QueryEscape(term))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	customers, err := api.NormalizeList[models.Customer](raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	return customers, nil
}

// NewCustomerInput holds the operator-entered fields for a new customer.
type NewCustomerInput struct {
	Name    string `validate:"required,min=2"`
	Email   string `validate:"required,email"`
	Phone   string `validate:"required,min=7"`
	Address string
}

// CreatedCustomer pairs the stored customer with the generated credentials
// the operator must hand to the walk-in.
type CreatedCustomer struct {
	Customer    models.Customer
	Credentials models.Credentials
}

// CreateCustomer registers an account for a walk-in customer. The generated
// username/password pair travels inside the register payload and comes back
// in the result so the operator can surface it.
func (r *Resolver) CreateCustomer(ctx context.Context, input NewCustomerInput) (*CreatedCustomer, error) {
	if err := r.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	creds, err := generateCredentials(input.Name)
	if err != nil {
		return nil, err
	}

	payload := models.RegisterRequest{
		Username: creds.Username,
		Password: creds.Password,
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Address:  input.Address,
		Role:     "Customer",
	}
	raw, err := r.client.PostUnauthenticated(ctx, "/api/auth/register", payload)
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}

	customer, err := decodeCustomer(raw)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"userId":   customer.UserID,
		"username": creds.Username,
	}).Info("created customer account")
	return &CreatedCustomer{Customer: customer, Credentials: creds}, nil
}

// decodeCustomer tolerates the register endpoint answering with either the
// bare customer or a `{"user": {...}}` wrapper.
func decodeCustomer(raw []byte) (models.Customer, error) {
	var created struct {
		models.Customer
		User *models.Customer `json:"user"`
	}
	if err := json.Unmarshal(raw, &created); err != nil {
		return models.Customer{}, fmt.Errorf("%w: decode created customer: %v", api.ErrTransport, err)
	}
	if created.User != nil {
		return *created.User, nil
	}
	return created.Customer, nil
}

// ListVehicles returns the customer's vehicles, tolerating the backend's
// three list shapes and discarding entries missing a vehicle id or make.
func (r *Resolver) ListVehicles(ctx context.Context, customerID int) ([]models.Vehicle, error) {
	if customerID <= 0 {
		return nil, fmt.Errorf("%w: customer id required", ErrInvalidInput)
	}
	raw, err := r.client.Get(ctx, fmt.Sprintf("/api/Vehicles/user/%d", customerID))
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	vehicles, err := api.NormalizeList[models.Vehicle](raw)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}

	valid := make([]models.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if v.VehicleID == 0 || v.Make == "" {
			log.WithField("userId", customerID).Warn("discarding malformed vehicle entry")
			continue
		}
		valid = append(valid, v)
	}
	return valid, nil
}

// NewVehicleInput holds the operator-entered fields for a new vehicle.
type NewVehicleInput struct {
	Make         string `validate:"required"`
	Model        string `validate:"required"`
	Year         int    `validate:"required,gte=1950,lte=2100"`
	LicensePlate string `validate:"required"`
}

// CreateVehicle registers a vehicle under the given customer.
func (r *Resolver) CreateVehicle(ctx context.Context, customerID int, input NewVehicleInput) (*models.Vehicle, error) {
	if customerID <= 0 {
		return nil, fmt.Errorf("%w: customer id required", ErrInvalidInput)
	}
	if err := r.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	payload := models.CreateVehicleRequest{
		UserID:       customerID,
		Make:         input.Make,
		Model:        input.Model,
		Year:         input.Year,
		LicensePlate: input.LicensePlate,
	}
	raw, err := r.client.Post(ctx, "/api/Vehicles", payload)
	if err != nil {
		return nil, fmt.Errorf("create vehicle: %w", err)
	}

	var vehicle models.Vehicle
	if err := json.Unmarshal(raw, &vehicle); err != nil {
		return nil, fmt.Errorf("%w: decode created vehicle: %v", api.ErrTransport, err)
	}
	if vehicle.UserID == 0 {
		vehicle.UserID = customerID
	}
	log.WithFields(log.Fields{
		"userId":    customerID,
		"vehicleId": vehicle.VehicleID,
	}).Info("created vehicle")
	return &vehicle, nil
}
