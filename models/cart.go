package models

import "time"

// CartRecord is the persisted cart snapshot: one opaque JSON blob per
// customer, overwritten after every cart mutation. A missing or malformed
// payload is treated as an empty cart, never as an error.
type CartRecord struct {
	UserID    uint      `json:"user_id" gorm:"primaryKey"`
	Payload   string    `json:"-" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at"`
}
