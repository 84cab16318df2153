package db

import "time"

// Reservation statuses. EXPIRED and CANCELLED are terminal.
const (
	StatusPendingPayment = "PENDING_PAYMENT"
	StatusActive         = "ACTIVE"
	StatusExpired        = "EXPIRED"
	StatusCancelled      = "CANCELLED"
)

// Zone statuses.
const (
	ZoneActive   = "ACTIVE"
	ZoneInactive = "INACTIVE"
)

// Role is a closed enumeration; handlers gate on capabilities instead of
// comparing raw strings.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleResident Role = "RESIDENT"
	RoleVisitor  Role = "VISITOR"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleResident, RoleVisitor:
		return Role(s), true
	}
	return "", false
}

type Capability int

const (
	CapManageZones Capability = iota
	CapViewStats
	CapReserve
)

func (r Role) Can(c Capability) bool {
	switch c {
	case CapManageZones, CapViewStats:
		return r == RoleAdmin
	case CapReserve:
		return r == RoleAdmin || r == RoleResident || r == RoleVisitor
	}
	return false
}

type User struct {
	ID           int
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

type Zone struct {
	ID           int
	Name         string
	Location     string
	TotalSpots   int
	PricePerHour float64
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Vehicle struct {
	ID          int
	UserID      int
	PlateNumber string
	Model       string
	Color       string
	CreatedAt   time.Time
}

type Reservation struct {
	ID         int
	Code       string
	UserID     int
	VehicleID  int
	ZoneID     int
	StartTime  time.Time
	EndTime    time.Time
	TotalPrice float64
	Status     string
	// PaymentRef holds the provider session id when a real payment
	// provider is configured; empty for simulated payments.
	PaymentRef string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Terminal reports whether the reservation can no longer transition.
func (r *Reservation) Terminal() bool {
	return r.Status == StatusExpired || r.Status == StatusCancelled
}
