package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/bazarpo/bazarpo-backend/pkg/errors"
	"github.com/bazarpo/bazarpo-backend/pkg/types"
)

func TestWriteItems(t *testing.T) {
	w := httptest.NewRecorder()
	WriteItems(w, []string{"Toyota", "Kia"})

	if got := w.Code; got != http.StatusOK {
		t.Fatalf("expected status 200 but got %d", got)
	}

	var body types.ItemsEnvelope[string]
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode items envelope: %v", err)
	}
	if len(body.Items) != 2 || body.Items[0] != "Toyota" {
		t.Fatalf("unexpected payload %v", body.Items)
	}
}

func TestWriteItemsNilBecomesEmptyArray(t *testing.T) {
	w := httptest.NewRecorder()
	WriteItems[string](w, nil)

	if got := w.Body.String(); got != "{\"items\":[]}\n" {
		t.Fatalf("expected empty items array, got %q", got)
	}
}

func TestWriteErrorMapsTypedError(t *testing.T) {
	w := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "bad input")
	WriteError(context.Background(), nil, w, err)

	if got := w.Code; got != http.StatusBadRequest {
		t.Fatalf("expected status 400 but got %d", got)
	}

	var body types.APIError
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if body.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected code %s", body.Code)
	}
	if body.Error != "bad input" {
		t.Fatalf("unexpected message %q", body.Error)
	}
}

func TestWriteErrorInsufficientStockIncludesIssues(t *testing.T) {
	w := httptest.NewRecorder()
	issues := []types.StockIssue{{SKU: "OIL-5W30", Requested: 4, Available: 2}}
	err := pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
		WithDetails(issues)
	WriteError(context.Background(), nil, w, err)

	if got := w.Code; got != http.StatusBadRequest {
		t.Fatalf("expected status 400 but got %d", got)
	}

	var body types.APIError
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if body.Error != "insufficient stock" {
		t.Fatalf("unexpected message %q", body.Error)
	}
	if len(body.Issues) != 1 || body.Issues[0].SKU != "OIL-5W30" || body.Issues[0].Available != 2 {
		t.Fatalf("issues not preserved: %+v", body.Issues)
	}
}

func TestWriteErrorDefaultsToInternalForUntrustedErrors(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(context.Background(), nil, w, errors.New("boom"))

	if got := w.Code; got != http.StatusInternalServerError {
		t.Fatalf("expected status 500 but got %d", got)
	}

	var body types.APIError
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if body.Code != string(pkgerrors.CodeInternal) {
		t.Fatalf("unexpected code %s", body.Code)
	}
	if body.Error != "internal server error" {
		t.Fatalf("raw error message must not leak, got %q", body.Error)
	}
}
