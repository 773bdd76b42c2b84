package dto

import (
	"errors"
	"time"

	"github.com/mrops-br/products-catalog/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPagination = errors.New("limit must be between 1 and 100 and page must be a positive integer within range")
	ErrInvalidProductIDs = errors.New("ids must be a non-empty list of positive integers")
)

// CreateProductRequest represents the request to create a product
type CreateProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Available   *bool           `json:"available,omitempty"`
}

// Validate checks the structural rules a create payload must satisfy
func (r *CreateProductRequest) Validate() error {
	return r.ToDomain().Validate()
}

// ToDomain converts the request into an unsaved domain Product
func (r *CreateProductRequest) ToDomain() *domain.Product {
	return domain.NewProduct(r.Name, r.Description, r.Price, r.Available)
}

// UpdateProductRequest represents a partial update. ID is only read when the
// caller embeds the target in the payload; it is never written.
type UpdateProductRequest struct {
	ID          int64            `json:"id,omitempty"`
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Available   *bool            `json:"available,omitempty"`
}

// Validate checks the fields present in the payload
func (r *UpdateProductRequest) Validate() error {
	if r.Name != nil {
		if err := domain.ValidateName(*r.Name); err != nil {
			return err
		}
	}
	if r.Price != nil {
		if err := domain.ValidatePrice(*r.Price); err != nil {
			return err
		}
	}
	return nil
}

// ToPatch converts the request into a domain patch, dropping the ID
func (r *UpdateProductRequest) ToPatch() domain.ProductPatch {
	return domain.ProductPatch{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Available:   r.Available,
	}
}

// ProductIDRequest addresses a single product
type ProductIDRequest struct {
	ID int64 `json:"id"`
}

// ValidateProductsRequest carries the ids of a batch existence check
type ValidateProductsRequest struct {
	IDs []int64 `json:"ids"`
}

// Validate rejects empty batches and non-positive ids
func (r *ValidateProductsRequest) Validate() error {
	if len(r.IDs) == 0 {
		return ErrInvalidProductIDs
	}
	for _, id := range r.IDs {
		if id <= 0 {
			return ErrInvalidProductIDs
		}
	}
	return nil
}

// ProductResponse represents the product response
type ProductResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Available   bool            `json:"available"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductListResponse wraps a list of products for transports that need a message type
type ProductListResponse struct {
	Products []*ProductResponse `json:"products"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *domain.Product) *ProductResponse {
	return &ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Available:   p.Available,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToProductResponseList converts a list of domain Products to ProductResponse list
func ToProductResponseList(products []*domain.Product) []*ProductResponse {
	responses := make([]*ProductResponse, len(products))
	for i, p := range products {
		responses[i] = ToProductResponse(p)
	}
	return responses
}
