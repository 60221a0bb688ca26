package models

import (
	"time"
)

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleCustomer   UserRole = "customer"
	RoleRestaurant UserRole = "restaurant"
	RoleDriver     UserRole = "driver"
	RoleAdmin      UserRole = "admin"
)

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         UserRole  `json:"role" gorm:"not null;default:'customer'"`
	Phone        string    `json:"phone"`
	Addresses    []Address `json:"addresses,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Address is one entry in a customer's address book. Orders snapshot the
// formatted address at checkout time, so editing an address never rewrites
// order history.
type Address struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	Label      string    `json:"label"`
	Street     string    `json:"street" gorm:"not null"`
	Number     string    `json:"number" gorm:"not null"`
	Complement string    `json:"complement"`
	District   string    `json:"district"`
	City       string    `json:"city" gorm:"not null"`
	State      string    `json:"state"`
	PostalCode string    `json:"postal_code"`
	IsDefault  bool      `json:"is_default" gorm:"default:false"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Formatted renders the address as a single delivery line.
func (a Address) Formatted() string {
	s := a.Street + ", " + a.Number
	if a.Complement != "" {
		s += " - " + a.Complement
	}
	if a.District != "" {
		s += ", " + a.District
	}
	s += ", " + a.City
	if a.State != "" {
		s += "/" + a.State
	}
	if a.PostalCode != "" {
		s += " - " + a.PostalCode
	}
	return s
}
