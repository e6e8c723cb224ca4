package parts

import (
	"context"

	"github.com/bazarpo/bazarpo-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for the parts catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListVisible(ctx context.Context) ([]models.Part, error)
	List(ctx context.Context) ([]models.Part, error)
	FindBySKU(ctx context.Context, sku string) (*models.Part, error)
	FindBySKUs(ctx context.Context, skus []string) ([]models.Part, error)
	Create(ctx context.Context, part *models.Part) (*models.Part, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	ReplaceFitments(ctx context.Context, partID uuid.UUID, fitments []models.PartFitment) error
	Delete(ctx context.Context, id uuid.UUID) error
	DecrementStock(ctx context.Context, sku string, qty int) (bool, error)
	RestoreStock(ctx context.Context, sku string, qty int) error
	CountLowStock(ctx context.Context, threshold int) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a parts repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListVisible(ctx context.Context) ([]models.Part, error) {
	var parts []models.Part
	err := r.db.WithContext(ctx).
		Preload("Fitments").
		Where("is_visible = ?", true).
		Order("name ASC").
		Find(&parts).Error
	if err != nil {
		return nil, err
	}
	return parts, nil
}

func (r *repository) List(ctx context.Context) ([]models.Part, error) {
	var parts []models.Part
	err := r.db.WithContext(ctx).
		Preload("Fitments").
		Order("name ASC").
		Find(&parts).Error
	if err != nil {
		return nil, err
	}
	return parts, nil
}

func (r *repository) FindBySKU(ctx context.Context, sku string) (*models.Part, error) {
	var part models.Part
	err := r.db.WithContext(ctx).
		Preload("Fitments").
		Where("sku = ?", sku).
		First(&part).Error
	if err != nil {
		return nil, err
	}
	return &part, nil
}

func (r *repository) FindBySKUs(ctx context.Context, skus []string) ([]models.Part, error) {
	if len(skus) == 0 {
		return nil, nil
	}
	var parts []models.Part
	err := r.db.WithContext(ctx).
		Where("sku IN ?", skus).
		Find(&parts).Error
	if err != nil {
		return nil, err
	}
	return parts, nil
}

func (r *repository) Create(ctx context.Context, part *models.Part) (*models.Part, error) {
	if err := r.db.WithContext(ctx).Create(part).Error; err != nil {
		return nil, err
	}
	return part, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Part{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) ReplaceFitments(ctx context.Context, partID uuid.UUID, fitments []models.PartFitment) error {
	if err := r.db.WithContext(ctx).
		Where("part_id = ?", partID).
		Delete(&models.PartFitment{}).Error; err != nil {
		return err
	}
	if len(fitments) == 0 {
		return nil
	}
	for i := range fitments {
		fitments[i].PartID = partID
	}
	return r.db.WithContext(ctx).Create(&fitments).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("part_id = ?", id).
		Delete(&models.PartFitment{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Part{}).Error
}

// DecrementStock conditionally takes qty units off the shelf. The guarded
// update keeps concurrent submissions from driving stock negative.
func (r *repository) DecrementStock(ctx context.Context, sku string, qty int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Part{}).
		Where("sku = ? AND stock_qty >= ?", sku, qty).
		UpdateColumn("stock_qty", gorm.Expr("stock_qty - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// RestoreStock puts units back after a cancellation.
func (r *repository) RestoreStock(ctx context.Context, sku string, qty int) error {
	return r.db.WithContext(ctx).
		Model(&models.Part{}).
		Where("sku = ?", sku).
		UpdateColumn("stock_qty", gorm.Expr("stock_qty + ?", qty)).Error
}

func (r *repository) CountLowStock(ctx context.Context, threshold int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Part{}).
		Where("is_visible = ? AND stock_qty <= ?", true, threshold).
		Count(&count).Error
	return count, err
}
