package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdto "github.com/angelmondragon/storefront-backend/api/controllers/cart/dto"
	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/api/responses"
	cartsvc "github.com/angelmondragon/storefront-backend/internal/cart"
	product "github.com/angelmondragon/storefront-backend/internal/products"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

type stubCartService struct {
	cart *cartsvc.Cart
	err  error

	lastOp        string
	lastUser      uuid.UUID
	lastProductID int64
	lastQuantity  int
}

func (s *stubCartService) GetCart(ctx context.Context, userID uuid.UUID) (*cartsvc.Cart, error) {
	s.lastOp, s.lastUser = "get", userID
	return s.cart, s.err
}

func (s *stubCartService) AddOrIncrement(ctx context.Context, userID uuid.UUID, productID int64) (*cartsvc.Cart, error) {
	s.lastOp, s.lastUser, s.lastProductID = "add", userID, productID
	return s.cart, s.err
}

func (s *stubCartService) UpdateQuantity(ctx context.Context, userID uuid.UUID, productID int64, quantity int) (*cartsvc.Cart, error) {
	s.lastOp, s.lastUser, s.lastProductID, s.lastQuantity = "update", userID, productID, quantity
	return s.cart, s.err
}

func (s *stubCartService) RemoveItem(ctx context.Context, userID uuid.UUID, productID int64) (*cartsvc.Cart, error) {
	s.lastOp, s.lastUser, s.lastProductID = "remove", userID, productID
	return s.cart, s.err
}

func (s *stubCartService) Clear(ctx context.Context, userID uuid.UUID) (*cartsvc.Cart, error) {
	s.lastOp, s.lastUser = "clear", userID
	return s.cart, s.err
}

func sampleCart(t *testing.T, userID uuid.UUID) *cartsvc.Cart {
	t.Helper()
	shirt, err := cartsvc.NewCartItem(&product.Product{ID: 7, Name: "Shirt", Price: decimal.RequireFromString("10.00")}, 2)
	require.NoError(t, err)
	mug, err := cartsvc.NewCartItem(&product.Product{ID: 12, Name: "Mug", Price: decimal.RequireFromString("7.00")}, 1)
	require.NoError(t, err)
	c, err := cartsvc.NewCart(userID, shirt, mug)
	require.NoError(t, err)
	return c
}

func newRequest(method, target, body string, userID uuid.UUID, productID string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := req.Context()
	if userID != uuid.Nil {
		ctx = middleware.WithUserID(ctx, userID)
	}
	if productID != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add(productIDParam, productID)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

func decodeCart(t *testing.T, resp *httptest.ResponseRecorder) cartdto.Cart {
	t.Helper()
	var envelope struct {
		Data cartdto.Cart `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return envelope.Data
}

func TestCartFetchSuccess(t *testing.T) {
	userID := uuid.New()
	svc := &stubCartService{cart: sampleCart(t, userID)}

	resp := httptest.NewRecorder()
	CartFetch(svc, nil).ServeHTTP(resp, newRequest(http.MethodGet, "/api/v1/cart", "", userID, ""))

	require.Equal(t, http.StatusOK, resp.Code)
	body := decodeCart(t, resp)
	require.Len(t, body.Items, 2)
	assert.Equal(t, 2, body.Items["7"].Quantity)
	assert.True(t, body.Items["7"].LineTotal.Equal(decimal.RequireFromString("20")))
	assert.True(t, body.Items["12"].DiscountPercent.IsZero())
	assert.True(t, body.Total.Equal(decimal.RequireFromString("27")), "total %s", body.Total)
	assert.Equal(t, userID, svc.lastUser)
}

func TestCartFetchEmptyCartSerializesEmptyItems(t *testing.T) {
	userID := uuid.New()
	svc := &stubCartService{cart: cartsvc.EmptyCart(userID)}

	resp := httptest.NewRecorder()
	CartFetch(svc, nil).ServeHTTP(resp, newRequest(http.MethodGet, "/api/v1/cart", "", userID, ""))

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"items":{}`)
	assert.Contains(t, resp.Body.String(), `"total":"0"`)
}

func TestCartHandlersRequireUser(t *testing.T) {
	svc := &stubCartService{}
	handlers := map[string]http.HandlerFunc{
		"fetch":  CartFetch(svc, nil),
		"add":    CartAddProduct(svc, nil),
		"remove": CartRemoveProduct(svc, nil),
		"clear":  CartClear(svc, nil),
	}
	for name, h := range handlers {
		t.Run(name, func(t *testing.T) {
			resp := httptest.NewRecorder()
			h.ServeHTTP(resp, newRequest(http.MethodPost, "/api/v1/cart/products/7", "", uuid.Nil, "7"))
			assert.Equal(t, http.StatusUnauthorized, resp.Code)
		})
	}
	assert.Empty(t, svc.lastOp)
}

func TestCartAddProduct(t *testing.T) {
	userID := uuid.New()
	svc := &stubCartService{cart: sampleCart(t, userID)}

	resp := httptest.NewRecorder()
	CartAddProduct(svc, nil).ServeHTTP(resp, newRequest(http.MethodPost, "/api/v1/cart/products/7", "", userID, "7"))

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "add", svc.lastOp)
	assert.Equal(t, int64(7), svc.lastProductID)
	assert.Len(t, decodeCart(t, resp).Items, 2)
}

func TestCartAddProductNotFound(t *testing.T) {
	userID := uuid.New()
	svc := &stubCartService{err: pkgerrors.Wrap(pkgerrors.CodeNotFound, cartsvc.ErrProductNotFound, "product 99 not found")}

	resp := httptest.NewRecorder()
	CartAddProduct(svc, nil).ServeHTTP(resp, newRequest(http.MethodPost, "/api/v1/cart/products/99", "", userID, "99"))

	require.Equal(t, http.StatusNotFound, resp.Code)
	var envelope responses.ErrorEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, string(pkgerrors.CodeNotFound), envelope.Error.Code)
}

func TestCartAddProductRejectsNonNumericID(t *testing.T) {
	userID := uuid.New()
	svc := &stubCartService{}

	resp := httptest.NewRecorder()
	CartAddProduct(svc, nil).ServeHTTP(resp, newRequest(http.MethodPost, "/api/v1/cart/products/abc", "", userID, "abc"))

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Empty(t, svc.lastOp)
}

func TestCartUpdateQuantity(t *testing.T) {
	userID := uuid.New()
	svc := &stubCartService{cart: sampleCart(t, userID)}

	resp := httptest.NewRecorder()
	CartUpdateQuantity(svc, nil).ServeHTTP(resp, newRequest(http.MethodPut, "/api/v1/cart/products/7", `{"quantity":5}`, userID, "7"))

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "update", svc.lastOp)
	assert.Equal(t, int64(7), svc.lastProductID)
	assert.Equal(t, 5, svc.lastQuantity)
}

func TestCartUpdateQuantityValidation(t *testing.T) {
	userID := uuid.New()
	for _, body := range []string{`{}`, `{"quantity":0}`, `{"quantity":-2}`, `{"quantity":2147483648}`, `{"quantity":1e12}`, `not json`} {
		svc := &stubCartService{}
		resp := httptest.NewRecorder()
		CartUpdateQuantity(svc, nil).ServeHTTP(resp, newRequest(http.MethodPut, "/api/v1/cart/products/7", body, userID, "7"))

		assert.Equal(t, http.StatusBadRequest, resp.Code, "body %s", body)
		assert.Empty(t, svc.lastOp, "body %s", body)
	}
}

func TestCartUpdateQuantityMissingLine(t *testing.T) {
	userID := uuid.New()
	svc := &stubCartService{err: pkgerrors.Wrap(pkgerrors.CodeNotFound, cartsvc.ErrCartItemNotFound, "product 7 is not in the cart")}

	resp := httptest.NewRecorder()
	CartUpdateQuantity(svc, nil).ServeHTTP(resp, newRequest(http.MethodPut, "/api/v1/cart/products/7", `{"quantity":2}`, userID, "7"))

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCartRemoveProduct(t *testing.T) {
	userID := uuid.New()
	svc := &stubCartService{cart: cartsvc.EmptyCart(userID)}

	resp := httptest.NewRecorder()
	CartRemoveProduct(svc, nil).ServeHTTP(resp, newRequest(http.MethodDelete, "/api/v1/cart/products/12", "", userID, "12"))

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "remove", svc.lastOp)
	assert.Equal(t, int64(12), svc.lastProductID)
}

func TestCartClear(t *testing.T) {
	userID := uuid.New()
	svc := &stubCartService{cart: cartsvc.EmptyCart(userID)}

	resp := httptest.NewRecorder()
	CartClear(svc, nil).ServeHTTP(resp, newRequest(http.MethodDelete, "/api/v1/cart", "", userID, ""))

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "clear", svc.lastOp)
	assert.Empty(t, decodeCart(t, resp).Items)
}

func TestCartStoreUnavailable(t *testing.T) {
	userID := uuid.New()
	svc := &stubCartService{err: pkgerrors.Wrap(pkgerrors.CodeDependency, cartsvc.ErrStoreUnavailable, "list cart items")}

	resp := httptest.NewRecorder()
	CartFetch(svc, nil).ServeHTTP(resp, newRequest(http.MethodGet, "/api/v1/cart", "", userID, ""))

	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}
