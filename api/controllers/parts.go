package controllers

import (
	"net/http"

	"github.com/bazarpo/bazarpo-backend/api/responses"
	"github.com/bazarpo/bazarpo-backend/api/validators"
	"github.com/bazarpo/bazarpo-backend/internal/parts"
	pkgerrors "github.com/bazarpo/bazarpo-backend/pkg/errors"
	"github.com/bazarpo/bazarpo-backend/pkg/logger"
	"github.com/bazarpo/bazarpo-backend/pkg/types"
)

// SearchParts serves the storefront catalog query.
func SearchParts(svc parts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "parts service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := r.URL.Query()
		year, err := validators.ParseQueryInt(r, "year", 0, 0, 2100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := types.PartFilter{
			VIN:       validators.SanitizeString(query.Get("vin"), 32),
			IssueCode: validators.SanitizeString(query.Get("issue"), 32),
			Query:     validators.SanitizeString(query.Get("q"), 200),
			Make:      validators.SanitizeString(query.Get("make"), 100),
			Model:     validators.SanitizeString(query.Get("model"), 100),
			Year:      year,
			Category:  validators.SanitizeString(query.Get("category"), 50),
		}

		found, err := svc.Search(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteItems(w, found)
	}
}
