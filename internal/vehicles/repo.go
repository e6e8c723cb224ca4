package vehicles

import (
	"context"

	"github.com/bazarpo/bazarpo-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence for the dashboard vehicle registry.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	List(ctx context.Context) ([]models.Vehicle, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error)
	FindByVIN(ctx context.Context, vin string) (*models.Vehicle, error)
	FindSelected(ctx context.Context) (*models.Vehicle, error)
	ClearSelected(ctx context.Context) error
	MarkSelected(ctx context.Context, id uuid.UUID) error
	ListRecords(ctx context.Context, vin string) ([]models.ServiceRecord, error)
	CreateRecord(ctx context.Context, record *models.ServiceRecord) (*models.ServiceRecord, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a vehicle repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) List(ctx context.Context) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	err := r.db.WithContext(ctx).
		Order("make ASC, model ASC").
		Find(&vehicles).Error
	if err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&vehicle).Error
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *repository) FindByVIN(ctx context.Context, vin string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.db.WithContext(ctx).
		Where("vin = ?", vin).
		First(&vehicle).Error
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *repository) FindSelected(ctx context.Context) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.db.WithContext(ctx).
		Where("selected = ?", true).
		First(&vehicle).Error
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *repository) ClearSelected(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Model(&models.Vehicle{}).
		Where("selected = ?", true).
		UpdateColumn("selected", false).Error
}

func (r *repository) MarkSelected(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.Vehicle{}).
		Where("id = ?", id).
		UpdateColumn("selected", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) ListRecords(ctx context.Context, vin string) ([]models.ServiceRecord, error) {
	var records []models.ServiceRecord
	err := r.db.WithContext(ctx).
		Where("vehicle_vin = ?", vin).
		Order("performed_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) CreateRecord(ctx context.Context, record *models.ServiceRecord) (*models.ServiceRecord, error) {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}
