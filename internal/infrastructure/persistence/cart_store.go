package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/shopcraft/storefront/internal/domain/cart"
	"github.com/shopcraft/storefront/internal/domain/catalog"
	"github.com/shopcraft/storefront/internal/domain/shared"
	"github.com/shopcraft/storefront/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errLineNotFound = shared.ErrNotFound.WithMessage("Cart item not found")

// GormCartStore is the persisted cart of one owner. Every query is scoped by
// owner_id, so a line id of another owner behaves as absent.
type GormCartStore struct {
	db      *gorm.DB
	ownerID int64
	now     func() time.Time
}

// NewGormCartStore binds a store to ownerID.
func NewGormCartStore(db *gorm.DB, ownerID int64) *GormCartStore {
	return &GormCartStore{db: db, ownerID: ownerID, now: time.Now}
}

func (s *GormCartStore) owned(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Where("owner_id = ?", s.ownerID)
}

// AddLine upserts on (owner_id, product_id). The increment is done by the
// database so concurrent adds of one product never lose an update.
func (s *GormCartStore) AddLine(ctx context.Context, product *catalog.Product, quantity int) (*cart.Line, error) {
	if product == nil {
		return nil, shared.ErrInvalidInput.WithMessage("product is required")
	}
	if quantity < 1 {
		return nil, shared.ErrInvalidInput.WithMessage("Quantity must be positive")
	}

	var model models.CartLineModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := s.now()
		row := models.CartLineModel{
			OwnerID:    s.ownerID,
			ProductID:  product.ID,
			Quantity:   quantity,
			Timestamps: models.Timestamps{CreatedAt: now, UpdatedAt: now},
		}
		if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "owner_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   gorm.Expr("cart_lines.quantity + excluded.quantity"),
				"updated_at": now,
			}),
		}).Create(&row).Error; err != nil {
			return err
		}
		return tx.Preload("Product").
			Where("owner_id = ? AND product_id = ?", s.ownerID, product.ID).
			First(&model).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, shared.ErrNotFound.WithMessage("Product not found")
		}
		return nil, unavailable(err)
	}
	line := model.ToDomain()
	if line.Product == nil {
		line.Product = product.Clone()
	}
	return &line, nil
}

// SetQuantity overwrites the quantity of an owned line. A quantity <= 0
// deletes it.
func (s *GormCartStore) SetQuantity(ctx context.Context, lineID int64, quantity int) (*cart.Line, error) {
	if quantity <= 0 {
		removed, err := s.RemoveLine(ctx, lineID)
		if err != nil {
			return nil, err
		}
		if !removed {
			return nil, errLineNotFound
		}
		return nil, nil
	}

	result := s.owned(ctx).Model(&models.CartLineModel{}).
		Where("id = ?", lineID).
		Updates(map[string]any{"quantity": quantity, "updated_at": s.now()})
	if result.Error != nil {
		return nil, unavailable(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, errLineNotFound
	}

	var model models.CartLineModel
	if err := s.owned(ctx).Preload("Product").First(&model, "id = ?", lineID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errLineNotFound
		}
		return nil, unavailable(err)
	}
	line := model.ToDomain()
	return &line, nil
}

// RemoveLine deletes an owned line.
func (s *GormCartStore) RemoveLine(ctx context.Context, lineID int64) (bool, error) {
	result := s.owned(ctx).Where("id = ?", lineID).Delete(&models.CartLineModel{})
	if result.Error != nil {
		return false, unavailable(result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Clear deletes every line of the owner.
func (s *GormCartStore) Clear(ctx context.Context) error {
	if err := s.owned(ctx).Delete(&models.CartLineModel{}).Error; err != nil {
		return unavailable(err)
	}
	return nil
}

// ListLines returns the owner's lines with their products, oldest first.
func (s *GormCartStore) ListLines(ctx context.Context) ([]cart.Line, error) {
	var rows []models.CartLineModel
	if err := s.owned(ctx).Preload("Product").Order("id").Find(&rows).Error; err != nil {
		return nil, unavailable(err)
	}
	lines := make([]cart.Line, 0, len(rows))
	for i := range rows {
		lines = append(lines, rows[i].ToDomain())
	}
	return lines, nil
}

func unavailable(err error) error {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	return shared.ErrBackingStoreUnavailable.Wrap(err)
}

var _ cart.Store = (*GormCartStore)(nil)
