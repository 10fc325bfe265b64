package cart

import (
	"errors"
	"fmt"
	"math"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

// MaxQuantity is the largest quantity the cart_items.quantity INTEGER column holds.
const MaxQuantity = math.MaxInt32

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrInvalidQuantity  = errors.New("invalid quantity")
	ErrInvalidState     = errors.New("invalid cart state")
	ErrStoreUnavailable = errors.New("cart store unavailable")
)

func productNotFound(productID int64) error {
	return pkgerrors.Wrap(pkgerrors.CodeNotFound, ErrProductNotFound, fmt.Sprintf("product %d not found", productID))
}

func cartItemNotFound(productID int64) error {
	return pkgerrors.Wrap(pkgerrors.CodeNotFound, ErrCartItemNotFound, fmt.Sprintf("product %d is not in the cart", productID))
}

func invalidQuantity(quantity int) error {
	return pkgerrors.Wrap(pkgerrors.CodeValidation, ErrInvalidQuantity, fmt.Sprintf("quantity must be between 1 and %d, got %d", MaxQuantity, quantity)).
		WithDetails(map[string]any{"quantity": quantity})
}

func invalidState(msg string) error {
	return pkgerrors.Wrap(pkgerrors.CodeInternal, ErrInvalidState, msg)
}

// storeUnavailable keeps the driver error in the chain for logging while
// matching ErrStoreUnavailable.
func storeUnavailable(op string, err error) error {
	return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("%w: %w", ErrStoreUnavailable, err), "db: "+op)
}
