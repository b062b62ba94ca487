package models

// Business is the tenant that owns customers, staff and check-in history.
type Business struct {
	BaseModel
	Name       string      `json:"name"`
	StaffUsers []StaffUser `json:"staff_users,omitempty"`
	Customers  []Customer  `json:"customers,omitempty"`
}
