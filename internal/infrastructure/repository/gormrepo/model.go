package gormrepo

import (
	"time"

	"github.com/mrops-br/products-catalog/internal/domain"
	"github.com/shopspring/decimal"
)

// productModel is the row layout of the products table. Available carries no
// gorm default so that an explicit false is written on insert.
type productModel struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string          `gorm:"column:name;type:varchar(255);not null"`
	Description string          `gorm:"column:description;type:text"`
	Price       decimal.Decimal `gorm:"column:price;type:decimal(20,4);not null"`
	Available   bool            `gorm:"column:available;not null;index"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (productModel) TableName() string { return "products" }

func fromDomain(p *domain.Product) productModel {
	return productModel{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Available:   p.Available,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (m *productModel) toDomain() *domain.Product {
	return &domain.Product{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Available:   m.Available,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toDomainList(models []productModel) []*domain.Product {
	products := make([]*domain.Product, len(models))
	for i := range models {
		products[i] = models[i].toDomain()
	}
	return products
}

// patchColumns lists the columns a patch writes
func patchColumns(patch domain.ProductPatch) map[string]interface{} {
	cols := make(map[string]interface{}, 4)
	if patch.Name != nil {
		cols["name"] = *patch.Name
	}
	if patch.Description != nil {
		cols["description"] = *patch.Description
	}
	if patch.Price != nil {
		cols["price"] = *patch.Price
	}
	if patch.Available != nil {
		cols["available"] = *patch.Available
	}
	return cols
}
