package storefront

import (
	"fmt"
	"sync"

	"github.com/bazarpo/bazarpo-backend/pkg/types"
)

// NoticeKind classifies a user-facing cart notice.
type NoticeKind string

const (
	// NoticeOutOfStock means the part could not be added at all.
	NoticeOutOfStock NoticeKind = "out_of_stock"
	// NoticeLimitedStock means the requested quantity was clamped to
	// the last known availability.
	NoticeLimitedStock NoticeKind = "limited_stock"
)

// Notice is advisory feedback for the shopper. It never indicates a
// cart mutation failure beyond what Kind describes.
type Notice struct {
	Kind    NoticeKind
	SKU     string
	Message string
}

func limitedStockNotice(sku string, available int) *Notice {
	return &Notice{
		Kind:    NoticeLimitedStock,
		SKU:     sku,
		Message: fmt.Sprintf("Доступно только %d шт.", available),
	}
}

// CartItem is one cart line. Stock is the availability known at the
// time the part was added; the server re-validates on checkout.
type CartItem struct {
	PartID   string
	SKU      string
	Name     string
	PriceKZT int64
	Stock    int
	Quantity int
}

// Cart holds an ordered set of lines, one per part. All mutations are
// clamped client-side against last known stock; the authoritative
// check happens server-side at submission.
type Cart struct {
	mu    sync.Mutex
	items []CartItem
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

// AddItem puts one unit of the part in the cart, or bumps the existing
// line. A nil return means the full request was honored.
func (c *Cart) AddItem(part types.Part) *Notice {
	c.mu.Lock()
	defer c.mu.Unlock()

	if part.StockQty <= 0 {
		return &Notice{
			Kind:    NoticeOutOfStock,
			SKU:     part.SKU,
			Message: "Товара нет в наличии",
		}
	}

	for i := range c.items {
		if c.items[i].PartID != part.ID {
			continue
		}
		if c.items[i].Quantity < part.StockQty {
			c.items[i].Quantity++
			c.items[i].Stock = part.StockQty
			return nil
		}
		c.items[i].Quantity = part.StockQty
		c.items[i].Stock = part.StockQty
		return limitedStockNotice(part.SKU, part.StockQty)
	}

	c.items = append(c.items, CartItem{
		PartID:   part.ID,
		SKU:      part.SKU,
		Name:     part.Name,
		PriceKZT: part.PriceKZT,
		Stock:    part.StockQty,
		Quantity: 1,
	})
	return nil
}

// UpdateQuantity applies a signed delta to a line. A result above the
// last known stock is rejected with a notice and the quantity stays
// unchanged; reaching zero removes the line. Unknown part IDs are
// ignored.
func (c *Cart) UpdateQuantity(partID string, delta int) *Notice {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].PartID != partID {
			continue
		}

		next := c.items[i].Quantity + delta
		if next <= 0 {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return nil
		}
		if next > c.items[i].Stock {
			return limitedStockNotice(c.items[i].SKU, c.items[i].Stock)
		}
		c.items[i].Quantity = next
		return nil
	}
	return nil
}

// RemoveItem drops a line regardless of quantity.
func (c *Cart) RemoveItem(partID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].PartID == partID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// Items returns a snapshot of the lines in insertion order.
func (c *Cart) Items() []CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// Len reports the number of distinct lines.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// TotalKZT sums price times quantity over every line. Prices are whole
// tenge so the total is exact.
func (c *Cart) TotalKZT() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total int64
	for _, item := range c.items {
		total += item.PriceKZT * int64(item.Quantity)
	}
	return total
}
