package storefront

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazarpo/bazarpo-backend/pkg/types"
)

func cartPart(id, sku string, price int64, stock int) types.Part {
	return types.Part{ID: id, SKU: sku, Name: "part " + sku, PriceKZT: price, StockQty: stock}
}

func TestAddItemKeepsInsertionOrder(t *testing.T) {
	cart := NewCart()

	require.Nil(t, cart.AddItem(cartPart("p1", "OIL-5W30", 4500, 10)))
	require.Nil(t, cart.AddItem(cartPart("p2", "WIPER-60", 2000, 5)))
	require.Nil(t, cart.AddItem(cartPart("p1", "OIL-5W30", 4500, 10)))

	items := cart.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "OIL-5W30", items[0].SKU)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "WIPER-60", items[1].SKU)
}

func TestAddItemOutOfStockLeavesCartUntouched(t *testing.T) {
	cart := NewCart()

	notice := cart.AddItem(cartPart("p1", "OIL-5W30", 4500, 0))

	require.NotNil(t, notice)
	assert.Equal(t, NoticeOutOfStock, notice.Kind)
	assert.Equal(t, 0, cart.Len())
}

func TestAddItemClampsAtKnownStock(t *testing.T) {
	cart := NewCart()
	part := cartPart("p1", "OIL-5W30", 4500, 2)

	require.Nil(t, cart.AddItem(part))
	require.Nil(t, cart.AddItem(part))

	notice := cart.AddItem(part)
	require.NotNil(t, notice)
	assert.Equal(t, NoticeLimitedStock, notice.Kind)
	assert.Equal(t, "Доступно только 2 шт.", notice.Message)
	assert.Equal(t, 2, cart.Items()[0].Quantity)
}

func TestUpdateQuantityRejectsOvershootAndRemovesAtZero(t *testing.T) {
	cart := NewCart()
	require.Nil(t, cart.AddItem(cartPart("p1", "OIL-5W30", 4500, 3)))
	require.Nil(t, cart.UpdateQuantity("p1", 1))

	notice := cart.UpdateQuantity("p1", 10)
	require.NotNil(t, notice)
	assert.Equal(t, NoticeLimitedStock, notice.Kind)
	assert.Equal(t, 2, cart.Items()[0].Quantity, "overshoot must not change the quantity")

	assert.Nil(t, cart.UpdateQuantity("p1", 1))
	assert.Equal(t, 3, cart.Items()[0].Quantity)

	assert.Nil(t, cart.UpdateQuantity("p1", -3))
	assert.Equal(t, 0, cart.Len())
}

func TestUpdateQuantityUnknownPartIsNoOp(t *testing.T) {
	cart := NewCart()
	require.Nil(t, cart.AddItem(cartPart("p1", "OIL-5W30", 4500, 3)))

	assert.Nil(t, cart.UpdateQuantity("missing", 1))
	assert.Equal(t, 1, cart.Items()[0].Quantity)
}

func TestRemoveItemDropsWholeLine(t *testing.T) {
	cart := NewCart()
	require.Nil(t, cart.AddItem(cartPart("p1", "OIL-5W30", 4500, 3)))
	require.Nil(t, cart.AddItem(cartPart("p1", "OIL-5W30", 4500, 3)))

	cart.RemoveItem("p1")
	assert.Equal(t, 0, cart.Len())
}

func TestTotalIsExactInteger(t *testing.T) {
	cart := NewCart()
	require.Nil(t, cart.AddItem(cartPart("p1", "OIL-5W30", 4500, 10)))
	require.Nil(t, cart.AddItem(cartPart("p1", "OIL-5W30", 4500, 10)))
	require.Nil(t, cart.AddItem(cartPart("p2", "WIPER-60", 1999, 5)))

	assert.Equal(t, int64(2*4500+1999), cart.TotalKZT())

	cart.Clear()
	assert.Equal(t, int64(0), cart.TotalKZT())
}
