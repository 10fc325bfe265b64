package cart

import (
	"fmt"
	"sort"

	product "github.com/angelmondragon/storefront-backend/internal/products"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// CartItem is one hydrated cart line.
type CartItem struct {
	Product         product.Product
	Quantity        int
	DiscountPercent decimal.Decimal

	// lineTotal, when set, replaces the computed total.
	lineTotal *decimal.Decimal
}

// NewCartItem hydrates a line from a catalog snapshot. A nil product is an
// ErrInvalidState, a non-positive quantity an ErrInvalidQuantity.
func NewCartItem(p *product.Product, quantity int) (CartItem, error) {
	if p == nil {
		return CartItem{}, invalidState("cart item requires a product snapshot")
	}
	if p.Price.IsNegative() {
		return CartItem{}, invalidState(fmt.Sprintf("product %d has a negative price", p.ID))
	}
	if quantity <= 0 {
		return CartItem{}, invalidQuantity(quantity)
	}
	return CartItem{
		Product:         *p,
		Quantity:        quantity,
		DiscountPercent: decimal.Zero,
	}, nil
}

// SetDiscountPercent applies a discount in [0,1]. It drops any line total
// override since the override was computed without the discount.
func (i *CartItem) SetDiscountPercent(d decimal.Decimal) error {
	if d.IsNegative() || d.GreaterThan(one) {
		return invalidState(fmt.Sprintf("discount %s outside [0,1]", d.String()))
	}
	i.DiscountPercent = d
	i.lineTotal = nil
	return nil
}

// WithLineTotal returns a copy of the item carrying a precomputed line total.
func (i CartItem) WithLineTotal(total decimal.Decimal) (CartItem, error) {
	if total.IsNegative() {
		return CartItem{}, invalidState(fmt.Sprintf("negative line total %s", total.String()))
	}
	i.lineTotal = &total
	return i, nil
}

// LineTotal is price * quantity * (1 - discount) unless overridden.
func (i CartItem) LineTotal() decimal.Decimal {
	if i.lineTotal != nil {
		return *i.lineTotal
	}
	return i.Product.Price.
		Mul(decimal.NewFromInt(int64(i.Quantity))).
		Mul(one.Sub(i.DiscountPercent))
}

func (i CartItem) hydrated() bool {
	return i.Product.ID > 0 && i.Quantity > 0
}

// Cart maps product ids to lines for exactly one user.
type Cart struct {
	UserID uuid.UUID
	Items  map[int64]CartItem
}

// NewCart builds a cart from items; a repeated product id keeps the last item.
func NewCart(userID uuid.UUID, items ...CartItem) (*Cart, error) {
	c := &Cart{UserID: userID, Items: make(map[int64]CartItem, len(items))}
	for _, item := range items {
		if err := c.AddItem(item); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// EmptyCart returns a cart with no lines.
func EmptyCart(userID uuid.UUID) *Cart {
	return &Cart{UserID: userID, Items: map[int64]CartItem{}}
}

// AddItem stores item under its product id, replacing any existing line.
func (c *Cart) AddItem(item CartItem) error {
	if !item.hydrated() {
		return invalidState("cart item is not hydrated")
	}
	if c.Items == nil {
		c.Items = map[int64]CartItem{}
	}
	c.Items[item.Product.ID] = item
	return nil
}

func (c *Cart) Len() int {
	return len(c.Items)
}

func (c *Cart) Item(productID int64) (CartItem, bool) {
	item, ok := c.Items[productID]
	return item, ok
}

// Total sums every line total.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// ProductIDs returns the ids in ascending order.
func (c *Cart) ProductIDs() []int64 {
	ids := make([]int64, 0, len(c.Items))
	for id := range c.Items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	return ids
}
