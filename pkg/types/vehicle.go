package types

import "time"

// Vehicle is the garage wire shape.
type Vehicle struct {
	ID       string `json:"id"`
	VIN      string `json:"vin"`
	Make     string `json:"make"`
	Model    string `json:"model"`
	Year     int    `json:"year"`
	Mileage  int    `json:"mileage"`
	Selected bool   `json:"selected"`
}

// ServiceRecord is one maintenance entry in a vehicle's history.
type ServiceRecord struct {
	ID          string    `json:"id"`
	VehicleVIN  string    `json:"vehicle_vin"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Mileage     int       `json:"mileage"`
	PerformedAt time.Time `json:"performed_at"`
}

// RealtimeEvent is the SSE payload pushed on a vehicle stream.
type RealtimeEvent struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}
