// Package gormrepo implements domain.ProductRepository on a relational store through gorm.
package gormrepo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mrops-br/products-catalog/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type productRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewProductRepository creates a repository backed by db
func NewProductRepository(db *gorm.DB, logger *slog.Logger) domain.ProductRepository {
	return &productRepository{db: db, logger: logger}
}

// AutoMigrate creates or updates the products table
func AutoMigrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(&productModel{}); err != nil {
		return fmt.Errorf("migrate products: %w", err)
	}
	return nil
}

func (r *productRepository) Insert(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	m := fromDomain(product)
	m.ID = 0
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, err
	}
	return m.toDomain(), nil
}

func (r *productRepository) FindMany(ctx context.Context, filter domain.ProductFilter, limit, offset int) ([]*domain.Product, error) {
	if offset < 0 || limit <= 0 {
		return []*domain.Product{}, nil
	}
	var models []productModel
	err := pageQuery(r.db.WithContext(ctx), filter, limit, offset).Find(&models).Error
	if err != nil {
		return nil, err
	}
	return toDomainList(models), nil
}

func (r *productRepository) Count(ctx context.Context, filter domain.ProductFilter) (int64, error) {
	var n int64
	err := filtered(r.db.WithContext(ctx).Model(&productModel{}), filter).Count(&n).Error
	return n, err
}

func (r *productRepository) FindUnique(ctx context.Context, id int64, filter domain.ProductFilter) (*domain.Product, error) {
	var m productModel
	err := lookupQuery(r.db.WithContext(ctx), id, filter).Take(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return m.toDomain(), nil
}

func (r *productRepository) FindManyByID(ctx context.Context, ids []int64) ([]*domain.Product, error) {
	if len(ids) == 0 {
		return []*domain.Product{}, nil
	}
	var models []productModel
	if err := byIDsQuery(r.db.WithContext(ctx), ids).Find(&models).Error; err != nil {
		return nil, err
	}
	return toDomainList(models), nil
}

func (r *productRepository) Update(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	return r.UpdateWhere(ctx, id, domain.ProductFilter{}, patch)
}

// UpdateWhere locks the row matching id and filter, writes the patch and
// reads the row back, all in one transaction.
func (r *productRepository) UpdateWhere(ctx context.Context, id int64, filter domain.ProductFilter, patch domain.ProductPatch) (*domain.Product, error) {
	var m productModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockQuery(tx, id, filter).Take(&m).Error; err != nil {
			return err
		}
		if patch.IsEmpty() {
			return nil
		}
		if err := updateQuery(tx, id, patch).Error; err != nil {
			return err
		}
		m = productModel{}
		return tx.Take(&m, id).Error
	})
	if err != nil {
		return nil, translate(err)
	}

	r.logger.DebugContext(ctx, "Product row updated",
		slog.Int64("product_id", id),
		slog.Bool("available", m.Available),
	)
	return m.toDomain(), nil
}

func filtered(db *gorm.DB, filter domain.ProductFilter) *gorm.DB {
	if filter.Available != nil {
		db = db.Where("available = ?", *filter.Available)
	}
	return db
}

func pageQuery(db *gorm.DB, filter domain.ProductFilter, limit, offset int) *gorm.DB {
	return filtered(db, filter).Order("id ASC").Limit(limit).Offset(offset)
}

func lookupQuery(db *gorm.DB, id int64, filter domain.ProductFilter) *gorm.DB {
	return filtered(db.Where("id = ?", id), filter)
}

func lockQuery(db *gorm.DB, id int64, filter domain.ProductFilter) *gorm.DB {
	return lookupQuery(db, id, filter).Clauses(clause.Locking{Strength: "UPDATE"})
}

func byIDsQuery(db *gorm.DB, ids []int64) *gorm.DB {
	return db.Where("id IN ?", ids).Order("id ASC")
}

func updateQuery(db *gorm.DB, id int64, patch domain.ProductPatch) *gorm.DB {
	return db.Model(&productModel{}).Where("id = ?", id).Updates(patchColumns(patch))
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrRecordNotFound
	}
	return err
}
