package cart

import (
	"net/http"

	"github.com/google/uuid"

	cartdto "github.com/angelmondragon/storefront-backend/api/controllers/cart/dto"
	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	cartsvc "github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/pkg/auth"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

const productIDParam = "productId"

// CartFetch returns the shopper's cart.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return cartHandler(svc, logg, func(r *http.Request, userID uuid.UUID) (*cartsvc.Cart, error) {
		return svc.GetCart(r.Context(), userID)
	})
}

// CartAddProduct adds one unit of the path product.
func CartAddProduct(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return cartHandler(svc, logg, func(r *http.Request, userID uuid.UUID) (*cartsvc.Cart, error) {
		productID, err := validators.ParsePathID(r, productIDParam)
		if err != nil {
			return nil, err
		}
		return svc.AddOrIncrement(r.Context(), userID, productID)
	})
}

// CartUpdateQuantity overwrites the quantity of an existing line.
func CartUpdateQuantity(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload cartdto.UpdateQuantityRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cartHandler(svc, logg, func(r *http.Request, userID uuid.UUID) (*cartsvc.Cart, error) {
			productID, err := validators.ParsePathID(r, productIDParam)
			if err != nil {
				return nil, err
			}
			return svc.UpdateQuantity(r.Context(), userID, productID, *payload.Quantity)
		})(w, r)
	}
}

// CartRemoveProduct deletes a line from the cart.
func CartRemoveProduct(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return cartHandler(svc, logg, func(r *http.Request, userID uuid.UUID) (*cartsvc.Cart, error) {
		productID, err := validators.ParsePathID(r, productIDParam)
		if err != nil {
			return nil, err
		}
		return svc.RemoveItem(r.Context(), userID, productID)
	})
}

// CartClear empties the cart.
func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return cartHandler(svc, logg, func(r *http.Request, userID uuid.UUID) (*cartsvc.Cart, error) {
		return svc.Clear(r.Context(), userID)
	})
}

func cartHandler(svc cartsvc.Service, logg *logger.Logger, op func(*http.Request, uuid.UUID) (*cartsvc.Cart, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		if userID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, auth.Unauthenticated("user context missing"))
			return
		}

		record, err := op(r, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartdto.FromCart(record))
	}
}
