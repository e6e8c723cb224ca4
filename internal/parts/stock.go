package parts

import (
	"context"

	"github.com/bazarpo/bazarpo-backend/pkg/db/models"
	"gorm.io/gorm"
)

// StockKeeper adapts the catalog repository for transactional stock work
// driven by order submission.
type StockKeeper struct {
	repo Repository
}

// NewStockKeeper wraps the repository for use inside order transactions.
func NewStockKeeper(repo Repository) *StockKeeper {
	return &StockKeeper{repo: repo}
}

func (k *StockKeeper) FindBySKUs(ctx context.Context, tx *gorm.DB, skus []string) ([]models.Part, error) {
	return k.repo.WithTx(tx).FindBySKUs(ctx, skus)
}

func (k *StockKeeper) Decrement(ctx context.Context, tx *gorm.DB, sku string, qty int) (bool, error) {
	return k.repo.WithTx(tx).DecrementStock(ctx, sku, qty)
}

func (k *StockKeeper) Restore(ctx context.Context, tx *gorm.DB, sku string, qty int) error {
	return k.repo.WithTx(tx).RestoreStock(ctx, sku, qty)
}

func (k *StockKeeper) LowStockCount(ctx context.Context, threshold int) (int64, error) {
	return k.repo.CountLowStock(ctx, threshold)
}
