package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidProductName  = errors.New("product name is required")
	ErrInvalidProductPrice = errors.New("product price must be a non-negative number with at most 4 decimal places")
)

// priceMaxDecimals is the number of fractional digits a price may carry
const priceMaxDecimals = 4

// Product represents the product entity.
// A product is never physically deleted; Available=false marks it as removed.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Available   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewProduct builds a product that has not been persisted yet.
// A nil available flag defaults to true.
func NewProduct(name, description string, price decimal.Decimal, available *bool) *Product {
	p := &Product{
		Name:        name,
		Description: description,
		Price:       price,
		Available:   true,
	}
	if available != nil {
		p.Available = *available
	}
	return p
}

// Validate performs business validation on the product
func (p *Product) Validate() error {
	if err := ValidateName(p.Name); err != nil {
		return err
	}
	return ValidatePrice(p.Price)
}

// Clone returns a copy that shares no state with p
func (p *Product) Clone() *Product {
	c := *p
	return &c
}

// ValidateName checks a product name
func ValidateName(name string) error {
	if name == "" {
		return ErrInvalidProductName
	}
	return nil
}

// ValidatePrice checks a product price
func ValidatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return ErrInvalidProductPrice
	}
	if !price.Equal(price.Truncate(priceMaxDecimals)) {
		return ErrInvalidProductPrice
	}
	return nil
}

// ProductPatch describes a partial update. Nil fields are left untouched.
// There is no ID field: the identifier of a product cannot be changed.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Available   *bool
}

// IsEmpty reports whether the patch changes nothing
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil && p.Available == nil
}

// Apply copies the fields present in the patch onto product
func (p ProductPatch) Apply(product *Product) {
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.Description != nil {
		product.Description = *p.Description
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.Available != nil {
		product.Available = *p.Available
	}
}

// ProductFilter narrows the records a repository query matches
type ProductFilter struct {
	Available *bool
}

// OnlyAvailable matches products that have not been removed
func OnlyAvailable() ProductFilter {
	available := true
	return ProductFilter{Available: &available}
}

// Matches reports whether product satisfies the filter
func (f ProductFilter) Matches(product *Product) bool {
	if f.Available != nil && product.Available != *f.Available {
		return false
	}
	return true
}
