package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mrops-br/products-catalog/internal/app/dto"
	"github.com/mrops-br/products-catalog/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	resultSuccess  = "success"
	resultFailure  = "failure"
	resultNotFound = "not_found"
)

// ProductService handles product use cases. It holds no state between calls
// besides its collaborators; every operation goes through the repository.
type ProductService struct {
	repo                  domain.ProductRepository
	tracer                trace.Tracer
	logger                *slog.Logger
	productCreatedCounter metric.Int64Counter
	productOperations     metric.Int64Counter
}

// NewProductService creates a new product service
func NewProductService(
	repo domain.ProductRepository,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *ProductService {
	// Initialize metrics
	productCreatedCounter, _ := meter.Int64Counter(
		"products.created.total",
		metric.WithDescription("Total number of products created"),
	)

	productOperations, _ := meter.Int64Counter(
		"products.operations",
		metric.WithDescription("Total number of product operations"),
	)

	return &ProductService{
		repo:                  repo,
		tracer:                tracer,
		logger:                logger,
		productCreatedCounter: productCreatedCounter,
		productOperations:     productOperations,
	}
}

// CreateProduct persists a new product. The request is expected to be validated by the caller.
func (s *ProductService) CreateProduct(ctx context.Context, req *dto.CreateProductRequest) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.CreateProduct")
	defer span.End()

	span.SetAttributes(
		attribute.String("product.name", req.Name),
		attribute.String("product.price", req.Price.String()),
	)

	s.logger.InfoContext(ctx, "Creating product",
		slog.String("name", req.Name),
		slog.String("price", req.Price.String()),
	)

	product, err := s.repo.Insert(ctx, req.ToDomain())
	if err != nil {
		s.fail(ctx, span, "create", err, "Failed to store product")
		return nil, fmt.Errorf("insert product: %w", err)
	}

	span.SetAttributes(attribute.Int64("product.id", product.ID))

	s.productCreatedCounter.Add(ctx, 1)
	s.record(ctx, "create", resultSuccess)

	s.logger.InfoContext(ctx, "Product created successfully",
		slog.Int64("product_id", product.ID),
	)

	span.SetStatus(codes.Ok, "Product created successfully")
	return dto.ToProductResponse(product), nil
}

// ListProducts returns one page of available products
func (s *ProductService) ListProducts(ctx context.Context, p dto.PaginationRequest) (*dto.PaginatedProducts, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.ListProducts")
	defer span.End()

	span.SetAttributes(
		attribute.Int("pagination.limit", p.Limit),
		attribute.Int("pagination.page", p.Page),
	)

	s.logger.InfoContext(ctx, "Listing products",
		slog.Int("limit", p.Limit),
		slog.Int("page", p.Page),
	)

	if err := p.Validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid pagination")
		s.logger.WarnContext(ctx, "Invalid pagination",
			slog.Int("limit", p.Limit),
			slog.Int("page", p.Page),
		)
		s.record(ctx, "list", resultFailure)
		return nil, err
	}

	products, err := s.repo.FindMany(ctx, domain.OnlyAvailable(), p.Limit, p.Offset())
	if err != nil {
		s.fail(ctx, span, "list", err, "Failed to retrieve products")
		return nil, fmt.Errorf("find products: %w", err)
	}

	total, err := s.repo.Count(ctx, domain.OnlyAvailable())
	if err != nil {
		s.fail(ctx, span, "list", err, "Failed to count products")
		return nil, fmt.Errorf("count products: %w", err)
	}

	result := &dto.PaginatedProducts{
		Data: dto.ToProductResponseList(products),
		Meta: dto.NewPaginationMeta(p, total),
	}

	span.SetAttributes(
		attribute.Int("product.count", len(products)),
		attribute.Int64("product.total", total),
	)
	s.record(ctx, "list", resultSuccess)

	s.logger.InfoContext(ctx, "Products listed successfully",
		slog.Int("count", len(products)),
		slog.Int64("total", total),
	)

	span.SetStatus(codes.Ok, "Products listed successfully")
	return result, nil
}

// GetProductByID retrieves an available product by ID
func (s *ProductService) GetProductByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.GetProductByID")
	defer span.End()

	span.SetAttributes(attribute.Int64("product.id", id))

	product, err := s.findAvailable(ctx, span, "read", id)
	if err != nil {
		return nil, err
	}

	s.record(ctx, "read", resultSuccess)
	span.SetStatus(codes.Ok, "Product retrieved successfully")
	return dto.ToProductResponse(product), nil
}

// UpdateProduct applies the fields present in req to an available product.
// The ID is taken from the id argument; req.ID is never written.
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, req *dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.UpdateProduct")
	defer span.End()

	span.SetAttributes(attribute.Int64("product.id", id))

	s.logger.InfoContext(ctx, "Updating product",
		slog.Int64("product_id", id),
	)

	if _, err := s.findAvailable(ctx, span, "update", id); err != nil {
		return nil, err
	}

	product, err := s.repo.Update(ctx, id, req.ToPatch())
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			s.notFound(ctx, span, "update", id)
			return nil, domain.NewProductNotFoundError(id)
		}
		s.fail(ctx, span, "update", err, "Failed to update product")
		return nil, fmt.Errorf("update product %d: %w", id, err)
	}

	s.record(ctx, "update", resultSuccess)

	s.logger.InfoContext(ctx, "Product updated successfully",
		slog.Int64("product_id", id),
	)

	span.SetStatus(codes.Ok, "Product updated successfully")
	return dto.ToProductResponse(product), nil
}

// RemoveProduct soft-deletes an available product by marking it unavailable.
// The availability check and the write are a single conditional store update.
func (s *ProductService) RemoveProduct(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.RemoveProduct")
	defer span.End()

	span.SetAttributes(attribute.Int64("product.id", id))

	s.logger.InfoContext(ctx, "Removing product",
		slog.Int64("product_id", id),
	)

	unavailable := false
	product, err := s.repo.UpdateWhere(ctx, id, domain.OnlyAvailable(), domain.ProductPatch{Available: &unavailable})
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			s.notFound(ctx, span, "remove", id)
			return nil, domain.NewProductNotFoundError(id)
		}
		s.fail(ctx, span, "remove", err, "Failed to remove product")
		return nil, fmt.Errorf("remove product %d: %w", id, err)
	}

	s.record(ctx, "remove", resultSuccess)

	s.logger.InfoContext(ctx, "Product removed successfully",
		slog.Int64("product_id", id),
	)

	span.SetStatus(codes.Ok, "Product removed successfully")
	return dto.ToProductResponse(product), nil
}

// ValidateProducts checks that every distinct id names an existing product,
// available or not. It is all-or-nothing: one missing id fails the batch.
func (s *ProductService) ValidateProducts(ctx context.Context, ids []int64) ([]*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.ValidateProducts")
	defer span.End()

	unique := dedupe(ids)

	span.SetAttributes(
		attribute.Int("product.requested", len(ids)),
		attribute.Int("product.distinct", len(unique)),
	)

	s.logger.InfoContext(ctx, "Validating products",
		slog.Int("requested", len(ids)),
		slog.Int("distinct", len(unique)),
	)

	products, err := s.repo.FindManyByID(ctx, unique)
	if err != nil {
		s.fail(ctx, span, "validate", err, "Failed to retrieve products")
		return nil, fmt.Errorf("find products by id: %w", err)
	}

	if len(products) != len(unique) {
		err := domain.NewSomeProductsNotFoundError()
		span.RecordError(err)
		span.SetStatus(codes.Error, "Some products not found")
		s.logger.WarnContext(ctx, "Some products were not found",
			slog.Int("distinct", len(unique)),
			slog.Int("found", len(products)),
		)
		s.record(ctx, "validate", resultNotFound)
		return nil, err
	}

	s.record(ctx, "validate", resultSuccess)
	span.SetStatus(codes.Ok, "Products validated successfully")
	return dto.ToProductResponseList(products), nil
}

// findAvailable is the existence check shared by read and update
func (s *ProductService) findAvailable(ctx context.Context, span trace.Span, operation string, id int64) (*domain.Product, error) {
	product, err := s.repo.FindUnique(ctx, id, domain.OnlyAvailable())
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			s.notFound(ctx, span, operation, id)
			return nil, domain.NewProductNotFoundError(id)
		}
		s.fail(ctx, span, operation, err, "Failed to retrieve product")
		return nil, fmt.Errorf("find product %d: %w", id, err)
	}
	return product, nil
}

func (s *ProductService) notFound(ctx context.Context, span trace.Span, operation string, id int64) {
	span.RecordError(domain.ErrProductNotFound)
	span.SetStatus(codes.Error, "Product not found")
	s.logger.WarnContext(ctx, "Product not found",
		slog.Int64("product_id", id),
	)
	s.record(ctx, operation, resultNotFound)
}

func (s *ProductService) fail(ctx context.Context, span trace.Span, operation string, err error, msg string) {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	s.logger.ErrorContext(ctx, msg,
		slog.String("error", err.Error()),
	)
	s.record(ctx, operation, resultFailure)
}

func (s *ProductService) record(ctx context.Context, operation, result string) {
	s.productOperations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", result),
		),
	)
}

// dedupe keeps the first occurrence of every id
func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}
