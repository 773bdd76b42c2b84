package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mrops-br/products-catalog/internal/app/dto"
	"github.com/mrops-br/products-catalog/internal/domain"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.NewProductNotFoundError(1), http.StatusBadRequest},
		{domain.NewSomeProductsNotFoundError(), http.StatusBadRequest},
		{&domain.Error{Code: domain.CodeNotFound, Status: http.StatusNotFound, Message: "gone"}, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", domain.ErrInvalidProductName), http.StatusBadRequest},
		{dto.ErrInvalidPagination, http.StatusBadRequest},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := StatusFor(tt.err); got != tt.want {
			t.Errorf("StatusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestFromErrorBody(t *testing.T) {
	rec := httptest.NewRecorder()
	FromError(rec, domain.NewProductNotFoundError(3))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	var body ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "bad_request" || body.Message != "Product with id 3 not found" {
		t.Fatalf("unexpected body: %+v", body)
	}
}
