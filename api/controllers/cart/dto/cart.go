package cartdto

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-backend/internal/cart"
	product "github.com/angelmondragon/storefront-backend/internal/products"
)

// UpdateQuantityRequest is the body of PUT /api/v1/cart/products/{productId}.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,min=1,max=2147483647"`
}

// CartItem is one serialized cart line.
type CartItem struct {
	Product         product.Product `json:"product"`
	Quantity        int             `json:"quantity"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	LineTotal       decimal.Decimal `json:"lineTotal"`
}

// Cart keys items by the decimal product id.
type Cart struct {
	Items map[string]CartItem `json:"items"`
	Total decimal.Decimal     `json:"total"`
}

// FromCart renders the aggregate. A nil cart serializes as empty.
func FromCart(c *cart.Cart) Cart {
	out := Cart{Items: map[string]CartItem{}, Total: decimal.Zero}
	if c == nil {
		return out
	}
	for _, id := range c.ProductIDs() {
		item, _ := c.Item(id)
		out.Items[strconv.FormatInt(id, 10)] = CartItem{
			Product:         item.Product,
			Quantity:        item.Quantity,
			DiscountPercent: item.DiscountPercent,
			LineTotal:       item.LineTotal(),
		}
	}
	out.Total = c.Total()
	return out
}
