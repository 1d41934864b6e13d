package models

import "time"

// OrderStatus describes the lifecycle state of a committed order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusInProgress OrderStatus = "InProgress"
	OrderStatusCompleted  OrderStatus = "Completed"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// WalkInOrderRequest is the single payload for POST /api/Orders/walkin. An
// absent service or inspection selection is an explicit null, not omitted.
type WalkInOrderRequest struct {
	CustomerID            int     `json:"customerId"`
	VehicleID             int     `json:"vehicleId"`
	ServiceID             *int    `json:"serviceId"`
	IncludesInspection    bool    `json:"includesInspection"`
	InspectionTypeID      *int    `json:"inspectionTypeId"`
	InspectionSubCategory string  `json:"inspectionSubCategory,omitempty"`
	TotalAmount           float64 `json:"totalAmount"`
	Notes                 string  `json:"notes,omitempty"`
	MechanicID            int     `json:"mechanicId"`
}

// Order is a committed order as the backend reports it.
type Order struct {
	OrderID          int         `json:"orderId"`
	CustomerID       int         `json:"customerId"`
	VehicleID        int         `json:"vehicleId"`
	ServiceID        *int        `json:"serviceId"`
	InspectionTypeID *int        `json:"inspectionTypeId"`
	MechanicID       int         `json:"mechanicId"`
	TotalAmount      float64     `json:"totalAmount"`
	Notes            string      `json:"notes,omitempty"`
	Status           OrderStatus `json:"status"`
	CreatedAt        time.Time   `json:"createdAt"`
}

// BillLine is one priced line of a bill.
type BillLine struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// Bill is the read-only projection of a committed order returned by the
// walk-in endpoint. It exists for display and printing only; the client
// never persists it and never derives workflow decisions from it.
type Bill struct {
	BillID       int        `json:"billId"`
	OrderID      int        `json:"orderId"`
	CustomerName string     `json:"customerName"`
	VehicleInfo  string     `json:"vehicleInfo,omitempty"`
	Lines        []BillLine `json:"lines,omitempty"`
	TotalAmount  float64    `json:"totalAmount"`
	IssuedAt     time.Time  `json:"issuedAt"`
}
