package types

// Part is the catalog wire shape served to storefront clients.
type Part struct {
	ID                string   `json:"id"`
	SKU               string   `json:"sku"`
	Name              string   `json:"name"`
	Category          string   `json:"category"`
	Type              string   `json:"type,omitempty"`
	Brand             string   `json:"brand,omitempty"`
	PriceKZT          int64    `json:"price_kzt"`
	StockQty          int      `json:"stock_qty"`
	CompatibilityType string   `json:"compatibility_type"`
	Images            []string `json:"images,omitempty"`
}

// PartFilter captures the catalog query surface.
type PartFilter struct {
	VIN       string
	IssueCode string
	Query     string
	Make      string
	Model     string
	Year      int
	Category  string
}
