package vehicles

import "time"

// SetSelectedRequest moves the dashboard focus to another vehicle.
type SetSelectedRequest struct {
	ID string `json:"id" validate:"required,uuid"`
}

// AddServiceRecordRequest appends one maintenance entry to a vehicle.
type AddServiceRecordRequest struct {
	Title       string     `json:"title" validate:"required,min=2,max=200"`
	Description string     `json:"description" validate:"omitempty,max=2000"`
	Mileage     int        `json:"mileage" validate:"gte=0"`
	PerformedAt *time.Time `json:"performed_at"`
}
