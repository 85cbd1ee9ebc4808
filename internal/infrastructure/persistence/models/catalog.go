package models

import "github.com/shopcraft/storefront/internal/domain/catalog"

// ProductModel is the persistence model for catalog.Product. Ids are assigned
// by the catalog, not by the database.
type ProductModel struct {
	ID            int64   `gorm:"primaryKey;autoIncrement:false"`
	Name          string  `gorm:"type:varchar(200);not null"`
	Description   string  `gorm:"type:text"`
	Price         string  `gorm:"type:varchar(50);not null"`
	OriginalPrice *string `gorm:"type:varchar(50)"`
	Category      string  `gorm:"type:varchar(100);not null;index"`
	Rating        *string `gorm:"type:varchar(10)"`
	Image         string  `gorm:"type:varchar(500)"`
	InStock       bool    `gorm:"not null"`
	Featured      bool    `gorm:"not null"`
	Timestamps
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		ID:            m.ID,
		Name:          m.Name,
		Description:   m.Description,
		Price:         m.Price,
		OriginalPrice: m.OriginalPrice,
		Category:      m.Category,
		Rating:        m.Rating,
		Image:         m.Image,
		InStock:       m.InStock,
		Featured:      m.Featured,
	}
}

// ProductModelFromDomain creates a persistence model from a domain Product.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	return &ProductModel{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Category:      p.Category,
		Rating:        p.Rating,
		Image:         p.Image,
		InStock:       p.InStock,
		Featured:      p.Featured,
	}
}
