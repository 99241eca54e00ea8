// Package entity contains the core business objects of the project.
package entity

import "time"

// Product is a catalog item belonging to one Brand and one Category.
type Product struct {
	ID         int64
	Name       string
	Price      float64
	Stock      int
	BrandID    int64
	Brand      *Brand
	CategoryID int64
	Category   *Category
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Brand is reference data for products (e.g. a manufacturer).
type Brand struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// Category groups products.
type Category struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}
