package cart

import (
	"context"
	"time"

	product "github.com/angelmondragon/storefront-backend/internal/products"
	"github.com/google/uuid"
)

// CartRepository defines the persistence surface required by the cart service.
type CartRepository interface {
	ListItems(ctx context.Context, userID uuid.UUID) ([]CartRow, error)
	Increment(ctx context.Context, userID uuid.UUID, productID int64, now time.Time) error
	SetQuantity(ctx context.Context, userID uuid.UUID, productID int64, quantity int, now time.Time) (int64, error)
	DeleteItem(ctx context.Context, userID uuid.UUID, productID int64) (int64, error)
	DeleteAll(ctx context.Context, userID uuid.UUID) error
}

type productLookup interface {
	GetProduct(ctx context.Context, id int64) (*product.Product, error)
	GetProducts(ctx context.Context, ids []int64) (map[int64]*product.Product, error)
}

// SnapshotCache holds read-through cart lines keyed by user. Set carries the
// generation observed before the store read; Get only returns lines written
// at the current generation.
type SnapshotCache interface {
	Version(ctx context.Context, userID uuid.UUID) (int64, error)
	Get(ctx context.Context, userID uuid.UUID) ([]CachedLine, bool, error)
	Set(ctx context.Context, userID uuid.UUID, version int64, lines []CachedLine) error
	Invalidate(ctx context.Context, userID uuid.UUID) error
}
