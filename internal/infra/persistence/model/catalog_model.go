package model

import "time"

// ProductModel mirrors the 'products' table.
type ProductModel struct {
	ID         int64   `gorm:"primaryKey;autoIncrement"`
	Name       string  `gorm:"type:varchar(100);not null;index"`
	Price      float64 `gorm:"type:numeric(18,2);not null"`
	Stock      int     `gorm:"not null"`
	BrandID    int64   `gorm:"not null"`
	CategoryID int64   `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Brand    *BrandModel    `gorm:"foreignKey:BrandID"`
	Category *CategoryModel `gorm:"foreignKey:CategoryID"`
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}

// BrandModel mirrors the 'brands' table.
type BrandModel struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"type:varchar(100);unique;not null"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (BrandModel) TableName() string {
	return "brands"
}

// CategoryModel mirrors the 'categories' table.
type CategoryModel struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"type:varchar(100);unique;not null"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (CategoryModel) TableName() string {
	return "categories"
}
