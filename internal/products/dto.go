package product

import (
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// Product is the catalog snapshot embedded in cart items and catalog responses.
type Product struct {
	ID          int64           `json:"productId"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  int64           `json:"categoryId"`
	Description string          `json:"description"`
	Color       string          `json:"color"`
	Stock       int             `json:"stock"`
	Featured    bool            `json:"featured"`
	ImageURL    string          `json:"imageUrl"`
}

// ProductPage is one page of catalog search results.
type ProductPage struct {
	Items      []Product `json:"items"`
	NextCursor string    `json:"nextCursor,omitempty"`
}

// FromModel converts the persisted row into the catalog snapshot.
func FromModel(m *models.Product) *Product {
	if m == nil {
		return nil
	}
	return &Product{
		ID:          m.ID,
		Name:        m.Name,
		Price:       m.Price,
		CategoryID:  m.CategoryID,
		Description: m.Description,
		Color:       m.Color,
		Stock:       m.Stock,
		Featured:    m.Featured,
		ImageURL:    m.ImageURL,
	}
}
