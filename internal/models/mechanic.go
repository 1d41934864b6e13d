package models

// MechanicStatus describes a mechanic's capacity state.
type MechanicStatus string

const (
	MechanicAvailable MechanicStatus = "Available"
	MechanicBusy      MechanicStatus = "Busy"
)

// MaxActiveAppointments is the capacity limit: a mechanic holding this many
// active appointments may not be assigned another one.
const MaxActiveAppointments = 3

// Mechanic represents a workshop mechanic with their current load.
type Mechanic struct {
	MechanicID          int            `json:"mechanicId"`
	Name                string         `json:"name"`
	Email               string         `json:"email,omitempty"`
	Phone               string         `json:"phone,omitempty"`
	CurrentAppointments int            `json:"currentAppointments"`
	Status              MechanicStatus `json:"status"`
}

// DeriveStatus computes the status from the appointment count: Busy once the
// mechanic holds MaxActiveAppointments or more.
func (m *Mechanic) DeriveStatus() MechanicStatus {
	if m.CurrentAppointments >= MaxActiveAppointments {
		return MechanicBusy
	}
	return MechanicAvailable
}

// IsSelectable reports whether the mechanic may take a new assignment.
func (m *Mechanic) IsSelectable() bool {
	return m.Status == MechanicAvailable
}
