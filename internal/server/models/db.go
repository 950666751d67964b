// Package models defines server-side data models persisted in the database.
package models

import (
	"github.com/dmitrijs2005/storefront/internal/timex"
	"github.com/shopspring/decimal"
)

// User is a customer record. Email is globally unique.
type User struct {
	ID      int64
	Name    string
	Address string
	Email   string
}

// Product is a sellable item. Price is a non-negative currency amount.
type Product struct {
	ID    int64
	Name  string
	Price decimal.Decimal
}

// Order belongs to exactly one user and holds a set of products through
// the order_product association. Products is only populated by calls that
// load it explicitly.
type Order struct {
	ID        int64
	OrderDate timex.Timestamp
	UserID    int64
	Products  []Product
}
