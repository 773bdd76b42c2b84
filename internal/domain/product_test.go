package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewProductDefaultsAvailable(t *testing.T) {
	p := NewProduct("Widget", "", decimal.RequireFromString("9.99"), nil)
	if !p.Available {
		t.Fatalf("expected available by default")
	}

	off := false
	p = NewProduct("Widget", "", decimal.RequireFromString("9.99"), &off)
	if p.Available {
		t.Fatalf("expected explicit available=false to be kept")
	}
}

func TestProductValidate(t *testing.T) {
	tests := []struct {
		name string
		prod *Product
		want error
	}{
		{"valid", &Product{Name: "Widget", Price: decimal.RequireFromString("9.99")}, nil},
		{"free", &Product{Name: "Widget", Price: decimal.Zero}, nil},
		{"four decimals", &Product{Name: "Widget", Price: decimal.RequireFromString("1.2345")}, nil},
		{"trailing zeros", &Product{Name: "Widget", Price: decimal.RequireFromString("1.230000")}, nil},
		{"missing name", &Product{Price: decimal.RequireFromString("1")}, ErrInvalidProductName},
		{"negative price", &Product{Name: "Widget", Price: decimal.RequireFromString("-1")}, ErrInvalidProductPrice},
		{"too precise", &Product{Name: "Widget", Price: decimal.RequireFromString("1.23456")}, ErrInvalidProductPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.prod.Validate(); !errors.Is(err, tt.want) {
				t.Fatalf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestProductPatchApply(t *testing.T) {
	p := &Product{ID: 7, Name: "Widget", Description: "blue", Price: decimal.RequireFromString("9.99"), Available: true}

	name := "Gadget"
	ProductPatch{Name: &name}.Apply(p)

	if p.ID != 7 || p.Name != "Gadget" || p.Description != "blue" || !p.Price.Equal(decimal.RequireFromString("9.99")) || !p.Available {
		t.Fatalf("unexpected product after patch: %+v", p)
	}
	if !(ProductPatch{}).IsEmpty() {
		t.Fatalf("zero patch should be empty")
	}
}

func TestProductFilterMatches(t *testing.T) {
	removed := &Product{ID: 1, Available: false}
	if OnlyAvailable().Matches(removed) {
		t.Fatalf("removed product must not match OnlyAvailable")
	}
	if !(ProductFilter{}).Matches(removed) {
		t.Fatalf("empty filter must match everything")
	}
}

func TestErrorIsMatchesByCode(t *testing.T) {
	err := NewProductNotFoundError(42)

	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected errors.Is to match ErrProductNotFound")
	}
	if errors.Is(err, ErrSomeProductsNotFound) {
		t.Fatalf("did not expect a match with ErrSomeProductsNotFound")
	}
	if err.Error() != "Product with id 42 not found" {
		t.Fatalf("unexpected message %q", err.Error())
	}

	de, ok := AsError(err)
	if !ok || de.Status != 400 {
		t.Fatalf("expected bad request classification, got %+v", de)
	}
}
