package models

// Vehicle represents a customer's vehicle.
type Vehicle struct {
	VehicleID    int    `json:"vehicleId"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	LicensePlate string `json:"licensePlate"`
	UserID       int    `json:"userId"`
}

// BelongsTo reports whether the vehicle is owned by the given customer.
func (v *Vehicle) BelongsTo(c *Customer) bool {
	return c != nil && v.UserID == c.UserID
}

// CreateVehicleRequest is the payload for POST /api/Vehicles.
type CreateVehicleRequest struct {
	UserID       int    `json:"userId"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	LicensePlate string `json:"licensePlate"`
}
