package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CheckinEvent is an append-only record of a single customer visit. Events are
// never updated or deleted; they form the audit trail that all visit counts
// and reward state are derived from.
type CheckinEvent struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"customer_id"`
	StaffUserID *uuid.UUID `gorm:"type:uuid" json:"staff_user_id,omitempty"`
	CheckinTime time.Time  `gorm:"index" json:"checkin_time"`

	Customer *Customer `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

// TableName keeps the storage name aligned with the checkins audit table.
func (CheckinEvent) TableName() string {
	return "checkins"
}

// BeforeCreate generates the event ID and defaults the check-in time.
func (e *CheckinEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CheckinTime.IsZero() {
		e.CheckinTime = time.Now()
	}
	return nil
}
