package cars

import (
	"context"

	"gorm.io/gorm"
)

// Repository reads the make/model/year taxonomy off the fitment table.
type Repository interface {
	DistinctMakes(ctx context.Context) ([]string, error)
	DistinctModels(ctx context.Context, make string) ([]string, error)
	YearRanges(ctx context.Context, make, model string) ([]YearRange, error)
}

// YearRange is one fitment row's inclusive span.
type YearRange struct {
	YearFrom int
	YearTo   int
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a taxonomy repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) DistinctMakes(ctx context.Context) ([]string, error) {
	var makes []string
	err := r.db.WithContext(ctx).
		Table("part_fitments").
		Distinct("make").
		Order("make ASC").
		Pluck("make", &makes).Error
	if err != nil {
		return nil, err
	}
	return makes, nil
}

func (r *repository) DistinctModels(ctx context.Context, make string) ([]string, error) {
	var models []string
	err := r.db.WithContext(ctx).
		Table("part_fitments").
		Distinct("model").
		Where("make = ?", make).
		Order("model ASC").
		Pluck("model", &models).Error
	if err != nil {
		return nil, err
	}
	return models, nil
}

func (r *repository) YearRanges(ctx context.Context, make, model string) ([]YearRange, error) {
	var ranges []YearRange
	err := r.db.WithContext(ctx).
		Table("part_fitments").
		Select("year_from", "year_to").
		Where("make = ? AND model = ?", make, model).
		Find(&ranges).Error
	if err != nil {
		return nil, err
	}
	return ranges, nil
}
