package cart

import (
	"context"
	"time"

	product "github.com/angelmondragon/storefront-backend/internal/products"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Single statement so concurrent adds for the same pair never lose an update.
// Supported by both Postgres and sqlite.
const incrementSQL = `INSERT INTO cart_items (user_id, product_id, quantity, created_at, updated_at)
VALUES (?, ?, 1, ?, ?)
ON CONFLICT (user_id, product_id) DO UPDATE SET quantity = cart_items.quantity + 1, updated_at = ?`

// CartRow is one cart_items row joined with its current product.
type CartRow struct {
	ProductID   int64
	Name        string
	Price       decimal.Decimal
	CategoryID  int64
	Description string
	Color       string
	Stock       int
	Featured    bool
	ImageURL    string
	Quantity    int
	LineTotal   decimal.Decimal
}

func (r CartRow) product() *product.Product {
	return &product.Product{
		ID:          r.ProductID,
		Name:        r.Name,
		Price:       r.Price,
		CategoryID:  r.CategoryID,
		Description: r.Description,
		Color:       r.Color,
		Stock:       r.Stock,
		Featured:    r.Featured,
		ImageURL:    r.ImageURL,
	}
}

// Repository exposes persistence operations for cart rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListItems joins the user's rows against the catalog in one query.
func (r *Repository) ListItems(ctx context.Context, userID uuid.UUID) ([]CartRow, error) {
	var rows []CartRow
	err := r.db.WithContext(ctx).
		Table("cart_items ci").
		Select(`p.product_id, p.name, p.price, p.category_id, p.description, p.color,
p.stock, p.featured, p.image_url, ci.quantity, ci.quantity * p.price AS line_total`).
		Joins("JOIN products p ON p.product_id = ci.product_id").
		Where("ci.user_id = ?", userID).
		Order("ci.product_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Increment inserts the pair with quantity 1 or bumps the existing quantity.
func (r *Repository) Increment(ctx context.Context, userID uuid.UUID, productID int64, now time.Time) error {
	return r.db.WithContext(ctx).
		Exec(incrementSQL, userID, productID, now, now, now).
		Error
}

// SetQuantity overwrites the quantity and reports the affected row count.
func (r *Repository) SetQuantity(ctx context.Context, userID uuid.UUID, productID int64, quantity int, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Updates(map[string]any{"quantity": quantity, "updated_at": now})
	return res.RowsAffected, res.Error
}

// DeleteItem removes one row and reports the affected row count.
func (r *Repository) DeleteItem(ctx context.Context, userID uuid.UUID, productID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

// DeleteAll removes every row for the user.
func (r *Repository) DeleteAll(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).
		Error
}
