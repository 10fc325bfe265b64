package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrNotFound is wrapped into every lookup miss.
var ErrNotFound = errors.New("product not found")

// Service exposes read-only catalog operations.
type Service interface {
	GetProduct(ctx context.Context, id int64) (*Product, error)
	GetProducts(ctx context.Context, ids []int64) (map[int64]*Product, error)
	Search(ctx context.Context, params SearchParams) (*ProductPage, error)
}

// SearchParams are the validated catalog query inputs.
type SearchParams struct {
	CategoryID *int64
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Color      string
	pagination.Params
}

type productReader interface {
	FindByID(ctx context.Context, id int64) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []int64) ([]models.Product, error)
	Search(ctx context.Context, filter SearchFilter) ([]models.Product, error)
}

type service struct {
	repo productReader
}

// NewService constructs a catalog service instance.
func NewService(repo productReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

// GetProduct returns the catalog snapshot for id.
func (s *service) GetProduct(ctx context.Context, id int64) (*Product, error) {
	if id <= 0 {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, ErrNotFound, fmt.Sprintf("product %d not found", id))
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, ErrNotFound, fmt.Sprintf("product %d not found", id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	return FromModel(row), nil
}

// GetProducts returns current catalog snapshots keyed by id. Unknown ids are
// absent from the result.
func (s *service) GetProducts(ctx context.Context, ids []int64) (map[int64]*Product, error) {
	out := make(map[int64]*Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load products")
	}
	for i := range rows {
		out[rows[i].ID] = FromModel(&rows[i])
	}
	return out, nil
}

// Search lists catalog products matching params, one page at a time.
func (s *service) Search(ctx context.Context, params SearchParams) (*ProductPage, error) {
	if params.MinPrice != nil && params.MaxPrice != nil && params.MinPrice.GreaterThan(*params.MaxPrice) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "minPrice cannot exceed maxPrice")
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	filter := SearchFilter{
		CategoryID: params.CategoryID,
		MinPrice:   params.MinPrice,
		MaxPrice:   params.MaxPrice,
		Color:      params.Color,
		Limit:      pagination.LimitWithBuffer(params.Limit),
	}
	if cursor != nil {
		filter.AfterID = cursor.AfterID
	}

	rows, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: search products")
	}

	page := &ProductPage{Items: make([]Product, 0, min(len(rows), limit))}
	if len(rows) > limit {
		rows = rows[:limit]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{AfterID: rows[len(rows)-1].ID})
	}
	for i := range rows {
		page.Items = append(page.Items, *FromModel(&rows[i]))
	}
	return page, nil
}
