package memory

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/mrops-br/products-catalog/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ProductRepository is an in-memory implementation of domain.ProductRepository.
// IDs are assigned sequentially starting at 1, so ID order is insertion order.
type ProductRepository struct {
	mu       sync.RWMutex
	products map[int64]*domain.Product
	nextID   int64
	now      func() time.Time
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewProductRepository creates a new in-memory product repository
func NewProductRepository(tracer trace.Tracer, logger *slog.Logger) *ProductRepository {
	return &ProductRepository{
		products: make(map[int64]*domain.Product),
		nextID:   1,
		now:      time.Now,
		tracer:   tracer,
		logger:   logger,
	}
}

// Insert stores a new product and assigns its ID
func (r *ProductRepository) Insert(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Insert")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := product.Clone()
	stored.ID = r.nextID
	stored.CreatedAt = r.now()
	stored.UpdatedAt = stored.CreatedAt
	r.nextID++
	r.products[stored.ID] = stored

	span.SetAttributes(
		attribute.Int64("product.id", stored.ID),
		attribute.String("product.name", stored.Name),
	)

	r.logger.DebugContext(ctx, "Product inserted in repository",
		slog.Int64("product_id", stored.ID),
		slog.String("product_name", stored.Name),
	)

	span.SetStatus(codes.Ok, "Product inserted")
	return stored.Clone(), nil
}

// FindMany returns one window of the products matching filter, ordered by ID
func (r *ProductRepository) FindMany(ctx context.Context, filter domain.ProductFilter, limit, offset int) ([]*domain.Product, error) {
	_, span := r.tracer.Start(ctx, "ProductRepository.FindMany")
	defer span.End()

	span.SetAttributes(
		attribute.Int("query.limit", limit),
		attribute.Int("query.offset", offset),
	)

	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.matching(filter)
	if offset < 0 || limit <= 0 || offset >= len(matched) {
		span.SetAttributes(attribute.Int("product.count", 0))
		return []*domain.Product{}, nil
	}
	end := len(matched)
	if limit < end-offset {
		end = offset + limit
	}

	products := make([]*domain.Product, 0, end-offset)
	for _, p := range matched[offset:end] {
		products = append(products, p.Clone())
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))
	span.SetStatus(codes.Ok, "Products retrieved")
	return products, nil
}

// Count returns the number of products matching filter
func (r *ProductRepository) Count(ctx context.Context, filter domain.ProductFilter) (int64, error) {
	_, span := r.tracer.Start(ctx, "ProductRepository.Count")
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, p := range r.products {
		if filter.Matches(p) {
			n++
		}
	}

	span.SetAttributes(attribute.Int64("product.total", n))
	return n, nil
}

// FindUnique retrieves a product by ID if it also matches filter
func (r *ProductRepository) FindUnique(ctx context.Context, id int64, filter domain.ProductFilter) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindUnique")
	defer span.End()

	span.SetAttributes(attribute.Int64("product.id", id))

	r.mu.RLock()
	defer r.mu.RUnlock()

	product, exists := r.products[id]
	if !exists || !filter.Matches(product) {
		span.SetStatus(codes.Error, "Product not found")
		r.logger.DebugContext(ctx, "Product not found in repository",
			slog.Int64("product_id", id),
		)
		return nil, domain.ErrRecordNotFound
	}

	span.SetStatus(codes.Ok, "Product found")
	return product.Clone(), nil
}

// FindManyByID retrieves every stored product whose ID is in ids
func (r *ProductRepository) FindManyByID(ctx context.Context, ids []int64) ([]*domain.Product, error) {
	_, span := r.tracer.Start(ctx, "ProductRepository.FindManyByID")
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[int64]struct{}, len(ids))
	products := make([]*domain.Product, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if p, ok := r.products[id]; ok {
			products = append(products, p.Clone())
		}
	}
	sortByID(products)

	span.SetAttributes(
		attribute.Int("query.ids", len(ids)),
		attribute.Int("product.count", len(products)),
	)
	return products, nil
}

// Update applies patch to the product with the given ID
func (r *ProductRepository) Update(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	return r.UpdateWhere(ctx, id, domain.ProductFilter{}, patch)
}

// UpdateWhere applies patch only when the product matches filter. The check and
// the write happen under one lock.
func (r *ProductRepository) UpdateWhere(ctx context.Context, id int64, filter domain.ProductFilter, patch domain.ProductPatch) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Update")
	defer span.End()

	span.SetAttributes(attribute.Int64("product.id", id))

	r.mu.Lock()
	defer r.mu.Unlock()

	product, exists := r.products[id]
	if !exists || !filter.Matches(product) {
		span.SetStatus(codes.Error, "Product not found")
		return nil, domain.ErrRecordNotFound
	}

	if !patch.IsEmpty() {
		patch.Apply(product)
		product.UpdatedAt = r.now()
	}

	r.logger.DebugContext(ctx, "Product updated in repository",
		slog.Int64("product_id", id),
		slog.Bool("available", product.Available),
	)

	span.SetStatus(codes.Ok, "Product updated")
	return product.Clone(), nil
}

// matching returns the products matching filter sorted by ID. Callers hold r.mu.
func (r *ProductRepository) matching(filter domain.ProductFilter) []*domain.Product {
	matched := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		if filter.Matches(p) {
			matched = append(matched, p)
		}
	}
	sortByID(matched)
	return matched
}

func sortByID(products []*domain.Product) {
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
}
