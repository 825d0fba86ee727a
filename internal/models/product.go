package models

import "github.com/shopspring/decimal"

// Product represents a product entity in the catalog.
type Product struct {
	ID         int             `db:"id"`
	Name       string          `db:"nombre"`
	Price      decimal.Decimal `db:"precio"`
	CategoryID *int            `db:"categoria_id"`
	BrandID    *int            `db:"marca_id"`
}

// ProductListing is a product joined with the display names of its category and brand.
// A missing lookup row leaves the name nil.
type ProductListing struct {
	Product
	CategoryName *string `db:"categoria"`
	BrandName    *string `db:"marca"`
}
