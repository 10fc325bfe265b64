package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	product "github.com/angelmondragon/storefront-backend/internal/products"
	"github.com/angelmondragon/storefront-backend/pkg/auth"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/google/uuid"
)

const (
	opGetCart        = "get_cart"
	opAddOrIncrement = "add_or_increment"
	opUpdateQuantity = "update_quantity"
	opRemoveItem     = "remove_item"
	opClear          = "clear"
)

// Service exposes cart operations. Every call returns the cart as it stands
// after the operation.
type Service interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*Cart, error)
	AddOrIncrement(ctx context.Context, userID uuid.UUID, productID int64) (*Cart, error)
	UpdateQuantity(ctx context.Context, userID uuid.UUID, productID int64, quantity int) (*Cart, error)
	RemoveItem(ctx context.Context, userID uuid.UUID, productID int64) (*Cart, error)
	Clear(ctx context.Context, userID uuid.UUID) (*Cart, error)
}

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	Repo    CartRepository
	Catalog productLookup
	Logger  *logger.Logger
	// Optional.
	Cache   SnapshotCache
	Metrics *metrics.CartMetrics
	Now     func() time.Time
}

type service struct {
	repo    CartRepository
	catalog productLookup
	logg    *logger.Logger
	cache   SnapshotCache
	metrics *metrics.CartMetrics
	now     func() time.Time
}

// NewService builds a cart service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("product catalog required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:    params.Repo,
		catalog: params.Catalog,
		logg:    params.Logger,
		cache:   params.Cache,
		metrics: params.Metrics,
		now:     now,
	}, nil
}

// GetCart returns the user's cart, empty when no rows exist.
func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (cart *Cart, err error) {
	defer s.observe(opGetCart, time.Now(), &err)
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	if s.cache != nil {
		cached, hit := s.cached(ctx, userID)
		s.metrics.IncCacheLookup(hit)
		if hit {
			return cached, nil
		}
	}
	return s.load(ctx, userID)
}

// AddOrIncrement adds one unit of productID, inserting the line when absent.
func (s *service) AddOrIncrement(ctx context.Context, userID uuid.UUID, productID int64) (cart *Cart, err error) {
	defer s.observe(opAddOrIncrement, time.Now(), &err)
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	if _, err := s.catalog.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return nil, productNotFound(productID)
		}
		return nil, storeUnavailable("lookup product", err)
	}

	if err := s.repo.Increment(ctx, userID, productID, s.now().UTC()); err != nil {
		// product deleted between lookup and write
		if db.IsForeignKeyViolation(err) {
			return nil, productNotFound(productID)
		}
		return nil, storeUnavailable("upsert cart item", err)
	}

	s.invalidate(ctx, userID)
	return s.load(ctx, userID)
}

// UpdateQuantity overwrites the quantity of an existing line.
func (s *service) UpdateQuantity(ctx context.Context, userID uuid.UUID, productID int64, quantity int) (cart *Cart, err error) {
	defer s.observe(opUpdateQuantity, time.Now(), &err)
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if quantity <= 0 || quantity > MaxQuantity {
		return nil, invalidQuantity(quantity)
	}

	affected, err := s.repo.SetQuantity(ctx, userID, productID, quantity, s.now().UTC())
	if err != nil {
		return nil, storeUnavailable("update cart item", err)
	}
	if affected == 0 {
		return nil, cartItemNotFound(productID)
	}

	s.invalidate(ctx, userID)
	return s.load(ctx, userID)
}

// RemoveItem deletes a single line.
func (s *service) RemoveItem(ctx context.Context, userID uuid.UUID, productID int64) (cart *Cart, err error) {
	defer s.observe(opRemoveItem, time.Now(), &err)
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	affected, err := s.repo.DeleteItem(ctx, userID, productID)
	if err != nil {
		return nil, storeUnavailable("delete cart item", err)
	}
	if affected == 0 {
		return nil, cartItemNotFound(productID)
	}

	s.invalidate(ctx, userID)
	return s.load(ctx, userID)
}

// Clear removes every line. Clearing an empty cart succeeds.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) (cart *Cart, err error) {
	defer s.observe(opClear, time.Now(), &err)
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	if err := s.repo.DeleteAll(ctx, userID); err != nil {
		return nil, storeUnavailable("clear cart", err)
	}

	s.invalidate(ctx, userID)
	return EmptyCart(userID), nil
}

func (s *service) load(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	version, cacheable := s.cacheVersion(ctx, userID)

	rows, err := s.repo.ListItems(ctx, userID)
	if err != nil {
		return nil, storeUnavailable("load cart", err)
	}

	cart := EmptyCart(userID)
	lines := make([]CachedLine, 0, len(rows))
	for _, row := range rows {
		item, err := NewCartItem(row.product(), row.Quantity)
		if err != nil {
			return nil, invalidState(fmt.Sprintf("cart row for product %d: %v", row.ProductID, err))
		}
		// prices carry two places; sqlite hands the product back as REAL
		if item, err = item.WithLineTotal(row.LineTotal.Round(2)); err != nil {
			return nil, err
		}
		if err := cart.AddItem(item); err != nil {
			return nil, err
		}
		lines = append(lines, CachedLine{ProductID: row.ProductID, Quantity: row.Quantity})
	}

	if cacheable {
		if err := s.cache.Set(ctx, userID, version, lines); err != nil {
			s.logg.Warn(s.logg.WithError(ctx, err), "cart cache write failed")
		}
	}
	return cart, nil
}

// cacheVersion reads the cart generation before the store is queried. A
// snapshot written under it is discarded if a mutation lands in between.
func (s *service) cacheVersion(ctx context.Context, userID uuid.UUID) (int64, bool) {
	if s.cache == nil {
		return 0, false
	}
	version, err := s.cache.Version(ctx, userID)
	if err != nil {
		s.logg.Warn(s.logg.WithError(ctx, err), "cart cache version read failed")
		return 0, false
	}
	return version, true
}

// cached rebuilds the cart from cached lines against the live catalog. Any
// failure or vanished product falls back to the store.
func (s *service) cached(ctx context.Context, userID uuid.UUID) (*Cart, bool) {
	lines, hit, err := s.cache.Get(ctx, userID)
	if err != nil {
		s.logg.Warn(s.logg.WithError(ctx, err), "cart cache read failed")
		return nil, false
	}
	if !hit {
		return nil, false
	}

	cart := EmptyCart(userID)
	if len(lines) == 0 {
		return cart, true
	}
	ids := make([]int64, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}
	products, err := s.catalog.GetProducts(ctx, ids)
	if err != nil {
		s.logg.Warn(s.logg.WithError(ctx, err), "cart cache hydrate failed")
		return nil, false
	}
	for _, line := range lines {
		p, ok := products[line.ProductID]
		if !ok {
			return nil, false
		}
		item, err := NewCartItem(p, line.Quantity)
		if err != nil {
			return nil, false
		}
		if item, err = item.WithLineTotal(item.LineTotal().Round(2)); err != nil {
			return nil, false
		}
		if err := cart.AddItem(item); err != nil {
			return nil, false
		}
	}
	return cart, true
}

func (s *service) invalidate(ctx context.Context, userID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.logg.Error(ctx, "cart cache invalidation failed", err)
	}
}

func (s *service) observe(op string, start time.Time, errp *error) {
	s.metrics.ObserveDuration(op, time.Since(start))
	if errp != nil && *errp != nil {
		s.metrics.IncFailure(op, string(pkgerrors.CodeOf(*errp)))
		return
	}
	s.metrics.IncSuccess(op)
}

func requireUser(userID uuid.UUID) error {
	if userID == uuid.Nil {
		return auth.Unauthenticated("missing user id")
	}
	return nil
}
