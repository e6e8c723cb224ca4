package types

// ItemsEnvelope wraps list responses.
type ItemsEnvelope[T any] struct {
	Items []T `json:"items"`
}

// APIError is the wire shape of every error response. Issues is only
// populated for insufficient-stock rejections.
type APIError struct {
	Error  string       `json:"error"`
	Code   string       `json:"code,omitempty"`
	Issues []StockIssue `json:"issues,omitempty"`
}

// StockIssue reports one line whose requested quantity exceeds availability.
type StockIssue struct {
	SKU       string `json:"sku"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}
