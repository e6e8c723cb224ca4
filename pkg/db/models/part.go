package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/bazarpo/bazarpo-backend/pkg/enums"
)

// Part is a catalog entry. Stock is authoritative here; clients keep an
// advisory snapshot only.
type Part struct {
	ID                uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKU               string                  `gorm:"column:sku;uniqueIndex;not null"`
	Name              string                  `gorm:"column:name;not null"`
	Category          enums.PartCategory      `gorm:"column:category;not null"`
	Type              *string                 `gorm:"column:type"`
	Brand             *string                 `gorm:"column:brand"`
	PriceKZT          int64                   `gorm:"column:price_kzt;not null"`
	StockQty          int                     `gorm:"column:stock_qty;not null;default:0"`
	IsVisible         bool                    `gorm:"column:is_visible;not null;default:true"`
	CompatibilityType enums.CompatibilityType `gorm:"column:compatibility_type;not null;default:'universal'"`
	CompatibleVINs    pq.StringArray          `gorm:"column:compatible_vins;type:text[]"`
	IssueCodes        pq.StringArray          `gorm:"column:issue_codes;type:text[]"`
	Images            pq.StringArray          `gorm:"column:images;type:text[]"`
	Fitments          []PartFitment           `gorm:"foreignKey:PartID"`
	CreatedAt         time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

// PartFitment ties a vehicle-compatible part to a make/model/year range.
type PartFitment struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PartID   uuid.UUID `gorm:"column:part_id;type:uuid;not null;index"`
	Make     string    `gorm:"column:make;not null"`
	Model    string    `gorm:"column:model;not null"`
	YearFrom int       `gorm:"column:year_from;not null"`
	YearTo   int       `gorm:"column:year_to;not null"`
}

func (PartFitment) TableName() string { return "part_fitments" }
