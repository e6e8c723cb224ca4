package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/bazarpo/bazarpo-backend/pkg/enums"
)

// Order is created only by a successful submission; afterwards only its
// status moves, and only through the admin surface.
type Order struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	Status          enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	TotalKZT        int64             `gorm:"column:total_kzt;not null"`
	ShippingAddress string            `gorm:"column:shipping_address;not null"`
	ContactInfo     string            `gorm:"column:contact_info;not null"`
	Items           []OrderItem       `gorm:"foreignKey:OrderID"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem snapshots sku, name and unit price at submission time.
type OrderItem struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID  uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	SKU      string    `gorm:"column:sku;not null"`
	Name     string    `gorm:"column:name;not null"`
	PriceKZT int64     `gorm:"column:price_kzt;not null"`
	Qty      int       `gorm:"column:qty;not null"`
	Image    *string   `gorm:"column:image"`
}
