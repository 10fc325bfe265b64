package product

import (
	"context"
	"errors"
	"strings"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SearchFilter narrows catalog listings. Nil/empty fields are ignored.
type SearchFilter struct {
	CategoryID *int64
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Color      string
	AfterID    int64
	Limit      int
}

// Repository reads catalog rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the product without associations. Returns gorm.ErrRecordNotFound when absent.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "product_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Search lists products in ascending id order starting after filter.AfterID.
// FindByIDs loads every product whose id is in ids.
func (r *Repository) FindByIDs(ctx context.Context, ids []int64) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Where("product_id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *Repository) Search(ctx context.Context, filter SearchFilter) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if color := strings.TrimSpace(filter.Color); color != "" {
		query = query.Where("LOWER(color) = ?", strings.ToLower(color))
	}
	if filter.AfterID > 0 {
		query = query.Where("product_id > ?", filter.AfterID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var rows []models.Product
	if err := query.Order("product_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// EnsureCategory loads the category named c.Name into c, creating it when
// absent. created reports whether a row was inserted.
func (r *Repository) EnsureCategory(ctx context.Context, c *models.Category) (created bool, err error) {
	var existing models.Category
	err = r.db.WithContext(ctx).Where("name = ?", c.Name).First(&existing).Error
	switch {
	case err == nil:
		*c = existing
		return false, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return false, err
	}
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return false, err
	}
	return true, nil
}

// EnsureProduct loads the product named p.Name within p.CategoryID into p,
// creating it when absent.
func (r *Repository) EnsureProduct(ctx context.Context, p *models.Product) (created bool, err error) {
	var existing models.Product
	err = r.db.WithContext(ctx).
		Where("name = ? AND category_id = ?", p.Name, p.CategoryID).
		First(&existing).Error
	switch {
	case err == nil:
		*p = existing
		return false, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return false, err
	}
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return false, err
	}
	return true, nil
}
