package models

import "strings"

// InspectionCategory is the sentinel category that routes an offering into
// the inspection bucket of the service menu. Matching is case-insensitive.
const InspectionCategory = "Inspection"

// ServiceOffering is one entry of the workshop service menu.
type ServiceOffering struct {
	ServiceID   int     `json:"serviceId"`
	ServiceName string  `json:"serviceName"`
	Category    string  `json:"category"`
	SubCategory string  `json:"subCategory,omitempty"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
}

// IsInspection reports whether the offering belongs in the inspection bucket.
func (s *ServiceOffering) IsInspection() bool {
	return strings.EqualFold(s.Category, InspectionCategory)
}
