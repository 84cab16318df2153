package api

import (
	"time"

	"parkzone/internal/db"
	"parkzone/internal/entities"
)

// Auth
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type UserResponse struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role"`
}

func toUserResponse(u *db.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone, Role: string(u.Role)}
}

// Zones
type ZoneRequest struct {
	Name         string  `json:"name"`
	Location     string  `json:"location"`
	TotalSpots   int     `json:"total_spots"`
	PricePerHour float64 `json:"price_per_hour"`
	Status       string  `json:"status"`
}

type ZoneResponse struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Location     string  `json:"location,omitempty"`
	TotalSpots   int     `json:"total_spots"`
	PricePerHour float64 `json:"price_per_hour"`
	Status       string  `json:"status"`
}

func toZoneResponse(z *db.Zone) ZoneResponse {
	return ZoneResponse{
		ID:           z.ID,
		Name:         z.Name,
		Location:     z.Location,
		TotalSpots:   z.TotalSpots,
		PricePerHour: z.PricePerHour,
		Status:       z.Status,
	}
}

// Vehicles
type VehicleRequest struct {
	PlateNumber string `json:"plate_number"`
	Model       string `json:"model"`
	Color       string `json:"color"`
}

type VehicleResponse struct {
	ID          int    `json:"id"`
	PlateNumber string `json:"plate_number"`
	Model       string `json:"model,omitempty"`
	Color       string `json:"color,omitempty"`
}

func toVehicleResponse(v *db.Vehicle) VehicleResponse {
	return VehicleResponse{ID: v.ID, PlateNumber: v.PlateNumber, Model: v.Model, Color: v.Color}
}

// Reservations
type CreateReservationRequest struct {
	VehicleID int       `json:"vehicle_id"`
	ZoneID    int       `json:"zone_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type ReservationResponse struct {
	ID         int       `json:"id"`
	Code       string    `json:"code"`
	VehicleID  int       `json:"vehicle_id"`
	ZoneID     int       `json:"zone_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	TotalPrice float64   `json:"total_price"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

func toReservationResponse(res *db.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:         res.ID,
		Code:       res.Code,
		VehicleID:  res.VehicleID,
		ZoneID:     res.ZoneID,
		StartTime:  res.StartTime,
		EndTime:    res.EndTime,
		TotalPrice: res.TotalPrice,
		Status:     res.Status,
		CreatedAt:  res.CreatedAt,
	}
}

type CreateReservationResponse struct {
	Reservation    ReservationResponse       `json:"reservation"`
	FreeSpotsAfter int                       `json:"free_spots_after"`
	Pricing        entities.PricingBreakdown `json:"pricing"`
	CheckoutURL    string                    `json:"checkout_url,omitempty"`
}
