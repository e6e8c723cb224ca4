package vehicles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bazarpo/bazarpo-backend/pkg/db/models"
	pkgerrors "github.com/bazarpo/bazarpo-backend/pkg/errors"
	"github.com/bazarpo/bazarpo-backend/pkg/logger"
	"github.com/bazarpo/bazarpo-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Broadcaster pushes dashboard events to connected monitors.
type Broadcaster interface {
	Broadcast(ctx context.Context, vin, eventType string, payload any)
}

// Event types carried on the vehicle streams.
const (
	eventServiceRecordAdded  = "SERVICE_RECORD_ADDED"
	eventVehicleStateUpdated = "VEHICLE_STATE_UPDATED"
)

// Service covers the dashboard registry, the selected side channel and
// service history.
type Service interface {
	List(ctx context.Context) ([]types.Vehicle, error)
	FindByVIN(ctx context.Context, vin string) (*models.Vehicle, error)
	Selected(ctx context.Context) (*types.Vehicle, error)
	SetSelected(ctx context.Context, req SetSelectedRequest) (*types.Vehicle, error)
	History(ctx context.Context, vin string) ([]types.ServiceRecord, error)
	AddServiceRecord(ctx context.Context, vin string, req AddServiceRecordRequest) (*types.ServiceRecord, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	events Broadcaster
	logg   *logger.Logger
}

// ServiceParams bundles the vehicle service dependencies.
type ServiceParams struct {
	Repo   Repository
	Tx     txRunner
	Events Broadcaster
	Logger *logger.Logger
}

// NewService builds the vehicle service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("vehicles repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Events == nil {
		params.Events = noopBroadcaster{}
	}
	return &service{
		repo:   params.Repo,
		tx:     params.Tx,
		events: params.Events,
		logg:   params.Logger,
	}, nil
}

func (s *service) List(ctx context.Context) ([]types.Vehicle, error) {
	vehicles, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vehicles")
	}
	out := make([]types.Vehicle, 0, len(vehicles))
	for i := range vehicles {
		out = append(out, vehicleView(&vehicles[i]))
	}
	return out, nil
}

// FindByVIN resolves a registered vehicle. Callers decide what an
// unknown VIN means; the raw not-found error passes through.
func (s *service) FindByVIN(ctx context.Context, vin string) (*models.Vehicle, error) {
	return s.repo.FindByVIN(ctx, normalizeVIN(vin))
}

func (s *service) Selected(ctx context.Context) (*types.Vehicle, error) {
	vehicle, err := s.repo.FindSelected(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no vehicle selected")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load selected vehicle")
	}
	view := vehicleView(vehicle)
	return &view, nil
}

// SetSelected moves the selected flag in one transaction so exactly one
// vehicle carries it at any time.
func (s *service) SetSelected(ctx context.Context, req SetSelectedRequest) (*types.Vehicle, error) {
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid vehicle id")
	}

	var selected *models.Vehicle
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		vehicle, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vehicle")
		}
		if err := repo.ClearSelected(ctx); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear selected flag")
		}
		if err := repo.MarkSelected(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark selected")
		}
		vehicle.Selected = true
		selected = vehicle
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.Broadcast(ctx, selected.VIN, eventVehicleStateUpdated, map[string]any{
		"vin":      selected.VIN,
		"selected": true,
	})

	view := vehicleView(selected)
	return &view, nil
}

func (s *service) History(ctx context.Context, vin string) ([]types.ServiceRecord, error) {
	vin = normalizeVIN(vin)
	if vin == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vin required")
	}
	records, err := s.repo.ListRecords(ctx, vin)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list service records")
	}
	out := make([]types.ServiceRecord, 0, len(records))
	for i := range records {
		out = append(out, recordView(&records[i]))
	}
	return out, nil
}

// AddServiceRecord appends a history entry and notifies every monitor
// watching the VIN.
func (s *service) AddServiceRecord(ctx context.Context, vin string, req AddServiceRecordRequest) (*types.ServiceRecord, error) {
	vin = normalizeVIN(vin)
	if vin == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vin required")
	}
	if _, err := s.repo.FindByVIN(ctx, vin); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vehicle")
	}

	performedAt := time.Now().UTC()
	if req.PerformedAt != nil {
		performedAt = req.PerformedAt.UTC()
	}

	record := &models.ServiceRecord{
		VehicleVIN:  vin,
		Title:       strings.TrimSpace(req.Title),
		Mileage:     req.Mileage,
		PerformedAt: performedAt,
	}
	if desc := strings.TrimSpace(req.Description); desc != "" {
		record.Description = &desc
	}

	created, err := s.repo.CreateRecord(ctx, record)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create service record")
	}

	view := recordView(created)
	s.events.Broadcast(ctx, vin, eventServiceRecordAdded, view)
	return &view, nil
}

func normalizeVIN(vin string) string {
	return strings.ToUpper(strings.TrimSpace(vin))
}

func vehicleView(vehicle *models.Vehicle) types.Vehicle {
	return types.Vehicle{
		ID:       vehicle.ID.String(),
		VIN:      vehicle.VIN,
		Make:     vehicle.Make,
		Model:    vehicle.Model,
		Year:     vehicle.Year,
		Mileage:  vehicle.Mileage,
		Selected: vehicle.Selected,
	}
}

func recordView(record *models.ServiceRecord) types.ServiceRecord {
	view := types.ServiceRecord{
		ID:          record.ID.String(),
		VehicleVIN:  record.VehicleVIN,
		Title:       record.Title,
		Mileage:     record.Mileage,
		PerformedAt: record.PerformedAt,
	}
	if record.Description != nil {
		view.Description = *record.Description
	}
	return view
}

type noopBroadcaster struct{}

func (noopBroadcaster) Broadcast(ctx context.Context, vin, eventType string, payload any) {}
