package domain

import (
	"context"
	"errors"
)

var (
	// ErrRecordNotFound is returned by repositories when no record matches a lookup or a write
	ErrRecordNotFound = errors.New("record not found")
)

// ProductRepository defines the contract for product storage
type ProductRepository interface {
	// Insert persists a new product; the store assigns its ID and timestamps.
	Insert(ctx context.Context, product *Product) (*Product, error)
	// FindMany returns up to limit products matching filter after skipping offset, ordered by ID.
	FindMany(ctx context.Context, filter ProductFilter, limit, offset int) ([]*Product, error)
	Count(ctx context.Context, filter ProductFilter) (int64, error)
	FindUnique(ctx context.Context, id int64, filter ProductFilter) (*Product, error)
	// FindManyByID returns the products whose ID is in ids, regardless of availability.
	FindManyByID(ctx context.Context, ids []int64) ([]*Product, error)
	Update(ctx context.Context, id int64, patch ProductPatch) (*Product, error)
	// UpdateWhere applies patch only if the product also matches filter, as a single write.
	// It returns ErrRecordNotFound when no row matched.
	UpdateWhere(ctx context.Context, id int64, filter ProductFilter, patch ProductPatch) (*Product, error)
}
