package models

import "github.com/google/uuid"

// Customer is a loyalty-program member, identified by phone within a business.
// The phone is stored in canonical (DDD) DDD-DDDD form and is immutable once
// set; rows are created on first check-in and never deleted by the core.
type Customer struct {
	BaseModel
	BusinessID uuid.UUID      `gorm:"type:uuid;uniqueIndex:idx_customers_business_phone" json:"business_id"`
	Phone      string         `gorm:"uniqueIndex:idx_customers_business_phone" json:"phone"`
	Checkins   []CheckinEvent `gorm:"foreignKey:CustomerID" json:"checkins,omitempty"`
}
