package persistence

import (
	"context"
	"errors"

	"github.com/shopcraft/storefront/internal/domain/catalog"
	"github.com/shopcraft/storefront/internal/domain/shared"
	"github.com/shopcraft/storefront/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// ListProducts returns the catalog ordered by id.
func (r *GormProductRepository) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	var rows []models.ProductModel
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toProducts(rows), nil
}

// GetProduct finds a product by its ID
func (r *GormProductRepository) GetProduct(ctx context.Context, id int64) (*catalog.Product, error) {
	var row models.ProductModel
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return row.ToDomain(), nil
}

// FindByIDs returns the existing products among ids.
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []int64) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var rows []models.ProductModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toProducts(rows), nil
}

// Count returns the number of stored products.
func (r *GormProductRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.ProductModel{}).Count(&n).Error
	return n, err
}

// SaveBatch upserts products by id.
func (r *GormProductRepository) SaveBatch(ctx context.Context, products []catalog.Product) error {
	if len(products) == 0 {
		return nil
	}
	rows := make([]*models.ProductModel, 0, len(products))
	for i := range products {
		rows = append(rows, models.ProductModelFromDomain(&products[i]))
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		CreateInBatches(rows, 100).Error
}

func toProducts(rows []models.ProductModel) []catalog.Product {
	out := make([]catalog.Product, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
