package parts

import (
	"context"
	"errors"
	"testing"

	"github.com/bazarpo/bazarpo-backend/pkg/db/models"
	"github.com/bazarpo/bazarpo-backend/pkg/enums"
	pkgerrors "github.com/bazarpo/bazarpo-backend/pkg/errors"
	"github.com/bazarpo/bazarpo-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type stubPartsRepo struct {
	Repository
	visible   []models.Part
	all       []models.Part
	created   *models.Part
	createErr error
}

func (s *stubPartsRepo) ListVisible(ctx context.Context) ([]models.Part, error) {
	return s.visible, nil
}

func (s *stubPartsRepo) List(ctx context.Context) ([]models.Part, error) {
	return s.all, nil
}

func (s *stubPartsRepo) Create(ctx context.Context, part *models.Part) (*models.Part, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	part.ID = uuid.New()
	s.created = part
	return part, nil
}

type stubVehicleDir struct {
	vehicles map[string]*models.Vehicle
}

func (s *stubVehicleDir) FindByVIN(ctx context.Context, vin string) (*models.Vehicle, error) {
	if v, ok := s.vehicles[vin]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func fixtureParts() []models.Part {
	brand := "Mobil"
	return []models.Part{
		{
			ID:                uuid.New(),
			SKU:               "OIL-5W30",
			Name:              "Engine Oil 5W-30",
			Brand:             &brand,
			Category:          enums.PartCategoryOils,
			PriceKZT:          12000,
			StockQty:          10,
			CompatibilityType: enums.CompatibilityUniversal,
		},
		{
			ID:                uuid.New(),
			SKU:               "BRK-CAMRY",
			Name:              "Brake Pads Camry",
			Category:          enums.PartCategoryAccessories,
			PriceKZT:          25000,
			StockQty:          4,
			CompatibilityType: enums.CompatibilityVehicle,
			Fitments: []models.PartFitment{
				{Make: "Toyota", Model: "Camry", YearFrom: 2018, YearTo: 2022},
			},
		},
		{
			ID:                uuid.New(),
			SKU:               "BAT-VIN1",
			Name:              "AGM Battery",
			Category:          enums.PartCategoryBatteries,
			PriceKZT:          60000,
			StockQty:          2,
			CompatibilityType: enums.CompatibilityVIN,
			CompatibleVINs:    pq.StringArray{"JTDBE32K123456789"},
			IssueCodes:        pq.StringArray{"P0562"},
		},
	}
}

func TestSearchByVINIncludesUniversalAndMatching(t *testing.T) {
	t.Parallel()
	repo := &stubPartsRepo{visible: fixtureParts()}
	vehicles := &stubVehicleDir{vehicles: map[string]*models.Vehicle{
		"JTDBE32K123456789": {VIN: "JTDBE32K123456789", Make: "Toyota", Model: "Camry", Year: 2020},
	}}
	svc, err := NewService(repo, vehicles)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	got, err := svc.Search(context.Background(), types.PartFilter{VIN: "JTDBE32K123456789"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected universal + vehicle + vin matches, got %d: %+v", len(got), got)
	}
}

func TestSearchByVINExcludesForeignFitment(t *testing.T) {
	t.Parallel()
	repo := &stubPartsRepo{visible: fixtureParts()}
	vehicles := &stubVehicleDir{vehicles: map[string]*models.Vehicle{
		"KMHDU46D58U123456": {VIN: "KMHDU46D58U123456", Make: "Hyundai", Model: "Elantra", Year: 2019},
	}}
	svc, err := NewService(repo, vehicles)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	got, err := svc.Search(context.Background(), types.PartFilter{VIN: "KMHDU46D58U123456"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].SKU != "OIL-5W30" {
		t.Fatalf("expected only the universal part, got %+v", got)
	}
}

func TestSearchByIssueCode(t *testing.T) {
	t.Parallel()
	repo := &stubPartsRepo{visible: fixtureParts()}
	svc, err := NewService(repo, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	got, err := svc.Search(context.Background(), types.PartFilter{IssueCode: "P0562"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].SKU != "BAT-VIN1" {
		t.Fatalf("expected battery match, got %+v", got)
	}
}

func TestSearchByMakeModelYear(t *testing.T) {
	t.Parallel()
	repo := &stubPartsRepo{visible: fixtureParts()}
	svc, err := NewService(repo, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	got, err := svc.Search(context.Background(), types.PartFilter{Make: "Toyota", Model: "Camry", Year: 2023})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	// 2023 is outside the 2018-2022 fitment; only the universal part remains.
	if len(got) != 1 || got[0].SKU != "OIL-5W30" {
		t.Fatalf("expected year bound to exclude pads, got %+v", got)
	}
}

func TestSearchByQueryMatchesNameAndBrand(t *testing.T) {
	t.Parallel()
	repo := &stubPartsRepo{visible: fixtureParts()}
	svc, err := NewService(repo, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	got, err := svc.Search(context.Background(), types.PartFilter{Query: "mobil"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].SKU != "OIL-5W30" {
		t.Fatalf("expected brand match, got %+v", got)
	}
}

func TestCreateRejectsUnknownCategory(t *testing.T) {
	t.Parallel()
	svc, err := NewService(&stubPartsRepo{}, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Create(context.Background(), CreatePartRequest{
		SKU:               "X",
		Name:              "X",
		Category:          "flux_capacitors",
		PriceKZT:          1,
		CompatibilityType: "universal",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateDuplicateSKUIsConflict(t *testing.T) {
	t.Parallel()
	repo := &stubPartsRepo{
		createErr: errors.New(`ERROR: duplicate key value violates unique constraint "parts_sku_key" (SQLSTATE 23505)`),
	}
	svc, err := NewService(repo, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Create(context.Background(), CreatePartRequest{
		SKU:               "OIL-5W30",
		Name:              "Engine Oil 5W-30",
		Category:          "oils",
		PriceKZT:          12000,
		CompatibilityType: "universal",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCreateStoresFitments(t *testing.T) {
	t.Parallel()
	repo := &stubPartsRepo{}
	svc, err := NewService(repo, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Create(context.Background(), CreatePartRequest{
		SKU:               "WPR-01",
		Name:              "Wiper Blades",
		Category:          "wipers",
		PriceKZT:          4500,
		StockQty:          20,
		CompatibilityType: "vehicle",
		Fitments:          []FitmentInput{{Make: "Kia", Model: "Rio", YearFrom: 2017, YearTo: 2023}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if repo.created == nil || len(repo.created.Fitments) != 1 {
		t.Fatalf("fitments not persisted: %+v", repo.created)
	}
	if repo.created.Fitments[0].Make != "Kia" {
		t.Fatalf("unexpected fitment %+v", repo.created.Fitments[0])
	}
}
