package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductRef is the product data frozen onto a cart line when the item
// is added.
type ProductRef struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Slug     string    `json:"slug"`
	ImageURL *string   `json:"imageUrl,omitempty"`
}

// VariantRef is the variant data frozen onto a cart line. Price is the
// price at add time; submission re-reads the catalog before charging.
type VariantRef struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	Unit  string          `json:"unit"`
	Price decimal.Decimal `json:"price"`
}

// Line is one cart entry, uniquely identified by (product.id, variant.id).
type Line struct {
	Product  ProductRef `json:"product"`
	Variant  VariantRef `json:"variant"`
	Quantity int        `json:"quantity"`
	Note     string     `json:"note,omitempty"`
}

// Cart is the customer's full cart view. Total and ItemCount are always
// recomputed from Items, never stored independently.
type Cart struct {
	Items     []Line          `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}

func buildCart(items []Line) *Cart {
	total := decimal.Zero
	count := 0
	for _, line := range items {
		total = total.Add(line.Variant.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		count += line.Quantity
	}
	if items == nil {
		items = []Line{}
	}
	return &Cart{Items: items, Total: total, ItemCount: count}
}

func lineIndex(items []Line, productID, variantID uuid.UUID) int {
	for i, line := range items {
		if line.Product.ID == productID && line.Variant.ID == variantID {
			return i
		}
	}
	return -1
}
