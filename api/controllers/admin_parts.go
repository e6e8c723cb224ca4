package controllers

import (
	"net/http"

	"github.com/bazarpo/bazarpo-backend/api/responses"
	"github.com/bazarpo/bazarpo-backend/api/validators"
	"github.com/bazarpo/bazarpo-backend/internal/parts"
	pkgerrors "github.com/bazarpo/bazarpo-backend/pkg/errors"
	"github.com/bazarpo/bazarpo-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// AdminListParts returns the whole catalog, hidden entries included.
func AdminListParts(svc parts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "parts service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		found, err := svc.AdminList(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteItems(w, found)
	}
}

// AdminCreatePart adds a catalog entry.
func AdminCreatePart(svc parts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "parts service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body parts.CreatePartRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// AdminUpdatePart applies a partial catalog edit.
func AdminUpdatePart(svc parts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "parts service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		partID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid part id"))
			return
		}

		var body parts.UpdatePartRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Update(r.Context(), partID, body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteNoContent(w)
	}
}

// AdminDeletePart removes a catalog entry and its fitments.
func AdminDeletePart(svc parts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "parts service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		partID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid part id"))
			return
		}

		if err := svc.Delete(r.Context(), partID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteNoContent(w)
	}
}
