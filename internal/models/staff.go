package models

import "github.com/google/uuid"

// StaffUser is a salon employee who can log customer visits.
type StaffUser struct {
	BaseModel
	BusinessID   uuid.UUID `gorm:"type:uuid;index" json:"business_id"`
	Name         string    `json:"name"`
	Email        string    `gorm:"uniqueIndex" json:"email"`
	PasswordHash string    `json:"-"`
}
