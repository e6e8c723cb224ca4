package controllers

import (
	"net/http"

	"github.com/bazarpo/bazarpo-backend/api/responses"
	"github.com/bazarpo/bazarpo-backend/api/validators"
	"github.com/bazarpo/bazarpo-backend/internal/cars"
	pkgerrors "github.com/bazarpo/bazarpo-backend/pkg/errors"
	"github.com/bazarpo/bazarpo-backend/pkg/logger"
)

// CarMakes lists every make known to the fitment catalog.
func CarMakes(svc cars.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "cars service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		makes, err := svc.ListMakes(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteItems(w, makes)
	}
}

// CarModels lists the models of one make.
func CarModels(svc cars.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "cars service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		make := validators.SanitizeString(r.URL.Query().Get("make"), 100)
		models, err := svc.ListModels(r.Context(), make)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteItems(w, models)
	}
}

// CarYears lists the production years covered for one make and model.
func CarYears(svc cars.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "cars service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		make := validators.SanitizeString(r.URL.Query().Get("make"), 100)
		model := validators.SanitizeString(r.URL.Query().Get("model"), 100)
		years, err := svc.ListYears(r.Context(), make, model)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteItems(w, years)
	}
}
