package models

import (
	"github.com/shopspring/decimal"
)

// Product mirrors the central catalog schema: product -> brand detail ->
// financial variant. The station caches the whole tree verbatim so barcode
// search and billing keep working offline.
type Product struct {
	ID       string          `json:"_id"`
	Name     string          `json:"name" binding:"required"`
	Category string          `json:"category"`
	Details  []ProductDetail `json:"details"`
}

type ProductDetail struct {
	ID         string             `json:"_id"`
	Brand      string             `json:"brand"`
	Images     []ProductImage     `json:"images"`
	Financials []ProductFinancial `json:"financials"`
}

type ProductImage struct {
	Image string `json:"image"`
}

// ProductFinancial is one priced/stocked packaging option of a
// product+brand: pack size, MRP, discounted price, live stock count.
type ProductFinancial struct {
	ID           string          `json:"_id"`
	Price        decimal.Decimal `json:"price"`
	DPrice       decimal.Decimal `json:"dprice"`
	Quantity     decimal.Decimal `json:"quantity"`
	Units        string          `json:"units"`
	CountInStock int             `json:"countInStock"`
	Barcode      []string        `json:"barcode"`
}

// FindFinancial locates a financial-variant leaf by its three-part key.
// Returns nil when any level of the key is unknown (the cache may be stale
// relative to the server).
func FindFinancial(products []Product, productID, brandID, financialID string) *ProductFinancial {
	for pi := range products {
		if products[pi].ID != productID {
			continue
		}
		for di := range products[pi].Details {
			if products[pi].Details[di].ID != brandID {
				continue
			}
			financials := products[pi].Details[di].Financials
			for fi := range financials {
				if financials[fi].ID == financialID {
					return &financials[fi]
				}
			}
		}
	}
	return nil
}
