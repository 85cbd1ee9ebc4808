package models

import "time"

// Timestamps are the bookkeeping columns shared by every table.
type Timestamps struct {
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// All lists every model, in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&ProductModel{},
		&UserModel{},
		&CartLineModel{},
	}
}
