package models

import (
	"time"

	"github.com/google/uuid"
)

// Vehicle is a dashboard-monitored car. Exactly one vehicle carries the
// selected flag; the admin side channel moves it.
type Vehicle struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VIN       string    `gorm:"column:vin;uniqueIndex;not null"`
	Make      string    `gorm:"column:make;not null"`
	Model     string    `gorm:"column:model;not null"`
	Year      int       `gorm:"column:year;not null"`
	Mileage   int       `gorm:"column:mileage;not null;default:0"`
	Selected  bool      `gorm:"column:selected;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// ServiceRecord is one maintenance entry in a vehicle's history.
type ServiceRecord struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VehicleVIN  string    `gorm:"column:vehicle_vin;not null;index"`
	Title       string    `gorm:"column:title;not null"`
	Description *string   `gorm:"column:description"`
	Mileage     int       `gorm:"column:mileage;not null;default:0"`
	PerformedAt time.Time `gorm:"column:performed_at;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
