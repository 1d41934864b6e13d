package composer

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ukydev/workshop-walkin/internal/models"
)

// Composition is a value snapshot of the in-progress walk-in selection. It
// is what validation and submission see; mutating a snapshot never touches
// the composer that produced it.
type Composition struct {
	Customer           *models.Customer        `validate:"required"`
	Vehicle            *models.Vehicle         `validate:"required"`
	Mechanic           *models.Mechanic        `validate:"required"`
	Service            *models.ServiceOffering `validate:"-"`
	IncludesInspection bool                    `validate:"-"`
	Inspection         *models.ServiceOffering `validate:"-"`
	Notes              string                  `validate:"-"`
	TotalAmount        float64                 `validate:"-"`
}

// price recomputes the total from scratch: the selected service plus, while
// the toggle is on, the selected inspection. Stale totals are never trusted.
func (c Composition) price() float64 {
	var total float64
	if c.Service != nil {
		total += c.Service.Price
	}
	if c.IncludesInspection && c.Inspection != nil {
		total += c.Inspection.Price
	}
	return total
}

func (c Composition) isEmpty() bool {
	return c.Customer == nil && c.Vehicle == nil && c.Mechanic == nil &&
		c.Service == nil && c.Inspection == nil && !c.IncludesInspection &&
		c.Notes == ""
}

// FieldError names one unsatisfied field of the composition, so callers can
// attach the message to the right input instead of showing a generic
// failure.
type FieldError struct {
	Field   string
	Message string
}

// ValidationResult is the tagged outcome of validating a composition.
type ValidationResult struct {
	Valid  bool
	Fields []FieldError
}

// Summary joins the field messages into one human-readable line.
func (r ValidationResult) Summary() string {
	msgs := make([]string, 0, len(r.Fields))
	for _, f := range r.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

var compositionValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(compositionStructLevel, Composition{})
	return v
}

// compositionStructLevel enforces the cross-field rules that plain tags
// cannot express: a chosen inspection type whenever the toggle is on, at
// least one of service / chosen inspection, vehicle ownership, and mechanic
// capacity.
func compositionStructLevel(sl validator.StructLevel) {
	comp := sl.Current().Interface().(Composition)

	if comp.IncludesInspection && comp.Inspection == nil {
		sl.ReportError(comp.Inspection, "Inspection", "Inspection", "inspection_type_required", "")
	}
	if comp.Service == nil && !(comp.IncludesInspection && comp.Inspection != nil) {
		sl.ReportError(comp.Service, "Service", "Service", "service_or_inspection", "")
	}
	if comp.Vehicle != nil && comp.Customer != nil && !comp.Vehicle.BelongsTo(comp.Customer) {
		sl.ReportError(comp.Vehicle, "Vehicle", "Vehicle", "vehicle_ownership", "")
	}
	if comp.Mechanic != nil && !comp.Mechanic.IsSelectable() {
		sl.ReportError(comp.Mechanic, "Mechanic", "Mechanic", "mechanic_capacity", "")
	}
}

// Validate re-derives the composition's validity from scratch. It is pure,
// never mutates, and is callable without a Composer.
func Validate(comp Composition) ValidationResult {
	err := compositionValidator.Struct(comp)
	if err == nil {
		return ValidationResult{Valid: true}
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationResult{Fields: []FieldError{{Field: "Composition", Message: err.Error()}}}
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fieldMessage(fe))
	}
	return ValidationResult{Fields: fields}
}

func fieldMessage(fe validator.FieldError) FieldError {
	switch fe.Tag() {
	case "inspection_type_required":
		return FieldError{Field: "Inspection", Message: "an inspection type must be chosen while the inspection toggle is on"}
	case "service_or_inspection":
		return FieldError{Field: "Service", Message: "select a service, an inspection, or both"}
	case "vehicle_ownership":
		return FieldError{Field: "Vehicle", Message: "the vehicle does not belong to the selected customer"}
	case "mechanic_capacity":
		return FieldError{Field: "Mechanic", Message: "the selected mechanic is at capacity"}
	case "required":
		switch fe.Field() {
		case "Customer":
			return FieldError{Field: "Customer", Message: "a customer is required"}
		case "Vehicle":
			return FieldError{Field: "Vehicle", Message: "a vehicle is required"}
		case "Mechanic":
			return FieldError{Field: "Mechanic", Message: "a mechanic is required"}
		}
	}
	return FieldError{Field: fe.Field(), Message: fe.Field() + " is invalid"}
}
