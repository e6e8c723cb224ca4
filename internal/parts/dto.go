package parts

// FitmentInput is one make/model/year span on an admin part payload.
type FitmentInput struct {
	Make     string `json:"make" validate:"required"`
	Model    string `json:"model" validate:"required"`
	YearFrom int    `json:"year_from" validate:"required,gte=1950"`
	YearTo   int    `json:"year_to" validate:"required,gtefield=YearFrom"`
}

// CreatePartRequest is the admin catalog creation body.
type CreatePartRequest struct {
	SKU               string         `json:"sku" validate:"required,max=64"`
	Name              string         `json:"name" validate:"required,max=200"`
	Category          string         `json:"category" validate:"required"`
	Type              string         `json:"type,omitempty"`
	Brand             string         `json:"brand,omitempty"`
	PriceKZT          int64          `json:"price_kzt" validate:"required,gt=0"`
	StockQty          int            `json:"stock_qty" validate:"gte=0"`
	IsVisible         *bool          `json:"is_visible,omitempty"`
	CompatibilityType string         `json:"compatibility_type" validate:"required"`
	CompatibleVINs    []string       `json:"compatible_vins,omitempty"`
	IssueCodes        []string       `json:"issue_codes,omitempty"`
	Images            []string       `json:"images,omitempty"`
	Fitments          []FitmentInput `json:"fitments,omitempty" validate:"dive"`
}

// UpdatePartRequest carries optional admin catalog edits.
type UpdatePartRequest struct {
	Name           *string         `json:"name,omitempty" validate:"omitempty,max=200"`
	Category       *string         `json:"category,omitempty"`
	Type           *string         `json:"type,omitempty"`
	Brand          *string         `json:"brand,omitempty"`
	PriceKZT       *int64          `json:"price_kzt,omitempty" validate:"omitempty,gt=0"`
	StockQty       *int            `json:"stock_qty,omitempty" validate:"omitempty,gte=0"`
	IsVisible      *bool           `json:"is_visible,omitempty"`
	CompatibleVINs *[]string       `json:"compatible_vins,omitempty"`
	IssueCodes     *[]string       `json:"issue_codes,omitempty"`
	Images         *[]string       `json:"images,omitempty"`
	Fitments       *[]FitmentInput `json:"fitments,omitempty" validate:"omitempty,dive"`
}
