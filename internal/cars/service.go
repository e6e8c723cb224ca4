package cars

import (
	"context"
	"fmt"
	"sort"
	"strings"

	pkgerrors "github.com/bazarpo/bazarpo-backend/pkg/errors"
)

// Service serves the cascading make/model/year lookup.
type Service interface {
	ListMakes(ctx context.Context) ([]string, error)
	ListModels(ctx context.Context, make string) ([]string, error)
	ListYears(ctx context.Context, make, model string) ([]int, error)
}

type service struct {
	repo Repository
}

// NewService builds the lookup service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cars repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListMakes(ctx context.Context) ([]string, error) {
	makes, err := s.repo.DistinctMakes(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list makes")
	}
	return makes, nil
}

func (s *service) ListModels(ctx context.Context, make string) ([]string, error) {
	make = strings.TrimSpace(make)
	if make == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "make is required")
	}
	models, err := s.repo.DistinctModels(ctx, make)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list models")
	}
	return models, nil
}

// ListYears flattens the fitment ranges for the pair into a sorted, deduped
// list of individual years.
func (s *service) ListYears(ctx context.Context, mk, model string) ([]int, error) {
	mk = strings.TrimSpace(mk)
	model = strings.TrimSpace(model)
	if mk == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "make is required")
	}
	if model == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "model is required")
	}

	ranges, err := s.repo.YearRanges(ctx, mk, model)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list years")
	}

	seen := map[int]struct{}{}
	for _, r := range ranges {
		for year := r.YearFrom; year <= r.YearTo; year++ {
			seen[year] = struct{}{}
		}
	}
	years := make([]int, 0, len(seen))
	for year := range seen {
		years = append(years, year)
	}
	sort.Ints(years)
	return years, nil
}
