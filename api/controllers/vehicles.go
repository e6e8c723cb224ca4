package controllers

import (
	"net/http"

	"github.com/bazarpo/bazarpo-backend/api/responses"
	"github.com/bazarpo/bazarpo-backend/api/validators"
	"github.com/bazarpo/bazarpo-backend/internal/vehicles"
	pkgerrors "github.com/bazarpo/bazarpo-backend/pkg/errors"
	"github.com/bazarpo/bazarpo-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// AdminListVehicles returns the dashboard registry.
func AdminListVehicles(svc vehicles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "vehicles service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		found, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteItems(w, found)
	}
}

// AdminGetSelected returns the vehicle the dashboard is focused on.
func AdminGetSelected(svc vehicles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "vehicles service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		selected, err := svc.Selected(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, selected)
	}
}

// AdminSetSelected moves the dashboard focus to another vehicle.
func AdminSetSelected(svc vehicles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "vehicles service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body vehicles.SetSelectedRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		selected, err := svc.SetSelected(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, selected)
	}
}

// VehicleHistory lists the service records of one VIN.
func VehicleHistory(svc vehicles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "vehicles service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		records, err := svc.History(r.Context(), chi.URLParam(r, "vin"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteItems(w, records)
	}
}

// AddServiceRecord appends a maintenance entry and notifies every
// monitor watching the VIN.
func AddServiceRecord(svc vehicles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "vehicles service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body vehicles.AddServiceRecordRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.AddServiceRecord(r.Context(), chi.URLParam(r, "vin"), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}
