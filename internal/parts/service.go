package parts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bazarpo/bazarpo-backend/pkg/db"
	"github.com/bazarpo/bazarpo-backend/pkg/db/models"
	"github.com/bazarpo/bazarpo-backend/pkg/enums"
	pkgerrors "github.com/bazarpo/bazarpo-backend/pkg/errors"
	"github.com/bazarpo/bazarpo-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// VehicleDirectory resolves a VIN to its registered vehicle so fitment
// filters can apply to VIN-scoped catalog queries.
type VehicleDirectory interface {
	FindByVIN(ctx context.Context, vin string) (*models.Vehicle, error)
}

// Service serves catalog reads plus the admin CRUD surface.
type Service interface {
	Search(ctx context.Context, filter types.PartFilter) ([]types.Part, error)
	Get(ctx context.Context, sku string) (*types.Part, error)
	AdminList(ctx context.Context) ([]types.Part, error)
	Create(ctx context.Context, req CreatePartRequest) (*types.Part, error)
	Update(ctx context.Context, id uuid.UUID, req UpdatePartRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo     Repository
	vehicles VehicleDirectory
}

// NewService builds the catalog service.
func NewService(repo Repository, vehicles VehicleDirectory) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("parts repository required")
	}
	return &service{repo: repo, vehicles: vehicles}, nil
}

func (s *service) Search(ctx context.Context, filter types.PartFilter) ([]types.Part, error) {
	parts, err := s.repo.ListVisible(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list parts")
	}

	var vehicle *models.Vehicle
	if vin := strings.TrimSpace(filter.VIN); vin != "" && s.vehicles != nil {
		vehicle, err = s.vehicles.FindByVIN(ctx, vin)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve vehicle")
		}
	}

	out := make([]types.Part, 0, len(parts))
	for i := range parts {
		part := &parts[i]
		if !matchesFilter(part, filter, vehicle) {
			continue
		}
		out = append(out, partView(part))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, sku string) (*types.Part, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	part, err := s.repo.FindBySKU(ctx, sku)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "part not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find part")
	}
	view := partView(part)
	return &view, nil
}

func (s *service) AdminList(ctx context.Context) ([]types.Part, error) {
	parts, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list parts")
	}
	out := make([]types.Part, 0, len(parts))
	for i := range parts {
		out = append(out, partView(&parts[i]))
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, req CreatePartRequest) (*types.Part, error) {
	category := enums.PartCategory(strings.TrimSpace(req.Category))
	if !category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown category")
	}
	compat := enums.CompatibilityType(strings.TrimSpace(req.CompatibilityType))
	if !compat.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown compatibility type")
	}

	visible := true
	if req.IsVisible != nil {
		visible = *req.IsVisible
	}

	part := &models.Part{
		SKU:               strings.TrimSpace(req.SKU),
		Name:              strings.TrimSpace(req.Name),
		Category:          category,
		PriceKZT:          req.PriceKZT,
		StockQty:          req.StockQty,
		IsVisible:         visible,
		CompatibilityType: compat,
		CompatibleVINs:    pq.StringArray(req.CompatibleVINs),
		IssueCodes:        pq.StringArray(req.IssueCodes),
		Images:            pq.StringArray(req.Images),
		Fitments:          fitmentModels(req.Fitments),
	}
	if t := strings.TrimSpace(req.Type); t != "" {
		part.Type = &t
	}
	if b := strings.TrimSpace(req.Brand); b != "" {
		part.Brand = &b
	}

	created, err := s.repo.Create(ctx, part)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create part")
	}

	view := partView(created)
	return &view, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdatePartRequest) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "part id required")
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Category != nil {
		category := enums.PartCategory(strings.TrimSpace(*req.Category))
		if !category.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "unknown category")
		}
		updates["category"] = category
	}
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.Brand != nil {
		updates["brand"] = *req.Brand
	}
	if req.PriceKZT != nil {
		updates["price_kzt"] = *req.PriceKZT
	}
	if req.StockQty != nil {
		updates["stock_qty"] = *req.StockQty
	}
	if req.IsVisible != nil {
		updates["is_visible"] = *req.IsVisible
	}
	if req.CompatibleVINs != nil {
		updates["compatible_vins"] = pq.StringArray(*req.CompatibleVINs)
	}
	if req.IssueCodes != nil {
		updates["issue_codes"] = pq.StringArray(*req.IssueCodes)
	}
	if req.Images != nil {
		updates["images"] = pq.StringArray(*req.Images)
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update part")
		}
	}
	if req.Fitments != nil {
		if err := s.repo.ReplaceFitments(ctx, id, fitmentModels(*req.Fitments)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace fitments")
		}
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "part id required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete part")
	}
	return nil
}

func matchesFilter(part *models.Part, filter types.PartFilter, vehicle *models.Vehicle) bool {
	if c := strings.TrimSpace(filter.Category); c != "" && string(part.Category) != c {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(filter.Query)); q != "" {
		name := strings.ToLower(part.Name)
		brand := ""
		if part.Brand != nil {
			brand = strings.ToLower(*part.Brand)
		}
		if !strings.Contains(name, q) && !strings.Contains(brand, q) && !strings.Contains(strings.ToLower(part.SKU), q) {
			return false
		}
	}
	if issue := strings.TrimSpace(filter.IssueCode); issue != "" && !containsFold(part.IssueCodes, issue) {
		return false
	}

	if vin := strings.TrimSpace(filter.VIN); vin != "" {
		return matchesVIN(part, vin, vehicle)
	}
	if filter.Make != "" || filter.Model != "" || filter.Year != 0 {
		return matchesVehicleTriple(part, filter.Make, filter.Model, filter.Year)
	}
	return true
}

func matchesVIN(part *models.Part, vin string, vehicle *models.Vehicle) bool {
	switch part.CompatibilityType {
	case enums.CompatibilityUniversal:
		return true
	case enums.CompatibilityVIN:
		return containsFold(part.CompatibleVINs, vin)
	case enums.CompatibilityVehicle:
		if vehicle == nil {
			return false
		}
		return matchesVehicleTriple(part, vehicle.Make, vehicle.Model, vehicle.Year)
	}
	return false
}

func matchesVehicleTriple(part *models.Part, make, model string, year int) bool {
	if part.CompatibilityType == enums.CompatibilityUniversal {
		return true
	}
	for _, f := range part.Fitments {
		if make != "" && !strings.EqualFold(f.Make, make) {
			continue
		}
		if model != "" && !strings.EqualFold(f.Model, model) {
			continue
		}
		if year != 0 && (year < f.YearFrom || year > f.YearTo) {
			continue
		}
		return true
	}
	return false
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}

func fitmentModels(inputs []FitmentInput) []models.PartFitment {
	if len(inputs) == 0 {
		return nil
	}
	out := make([]models.PartFitment, 0, len(inputs))
	for _, in := range inputs {
		out = append(out, models.PartFitment{
			Make:     strings.TrimSpace(in.Make),
			Model:    strings.TrimSpace(in.Model),
			YearFrom: in.YearFrom,
			YearTo:   in.YearTo,
		})
	}
	return out
}

func partView(part *models.Part) types.Part {
	view := types.Part{
		ID:                part.ID.String(),
		SKU:               part.SKU,
		Name:              part.Name,
		Category:          string(part.Category),
		PriceKZT:          part.PriceKZT,
		StockQty:          part.StockQty,
		CompatibilityType: string(part.CompatibilityType),
		Images:            []string(part.Images),
	}
	if part.Type != nil {
		view.Type = *part.Type
	}
	if part.Brand != nil {
		view.Brand = *part.Brand
	}
	return view
}
