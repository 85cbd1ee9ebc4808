package models

import "github.com/shopcraft/storefront/internal/domain/cart"

// CartLineModel is one line of a signed-in user's cart. (owner_id, product_id)
// is unique so concurrent adds of the same product converge on one row.
type CartLineModel struct {
	ID        int64        `gorm:"primaryKey;autoIncrement"`
	OwnerID   int64        `gorm:"not null;uniqueIndex:idx_cart_owner_product,priority:1"`
	ProductID int64        `gorm:"not null;uniqueIndex:idx_cart_owner_product,priority:2"`
	Quantity  int          `gorm:"not null"`
	Product   ProductModel `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Owner     UserModel    `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Timestamps
}

// TableName returns the table name for GORM
func (CartLineModel) TableName() string {
	return "cart_lines"
}

// ToDomain converts the model to a cart.Line. The product snapshot is set
// only when the Product association was loaded.
func (m *CartLineModel) ToDomain() cart.Line {
	owner := m.OwnerID
	line := cart.Line{
		ID:        m.ID,
		ProductID: m.ProductID,
		Quantity:  m.Quantity,
		OwnerID:   &owner,
	}
	if m.Product.ID != 0 {
		line.Product = m.Product.ToDomain()
	}
	return line
}
