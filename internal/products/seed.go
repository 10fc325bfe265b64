package product

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SeedProduct is one catalog listing to ensure.
type SeedProduct struct {
	Name        string
	Price       string
	Description string
	Color       string
	Stock       int
	Featured    bool
}

// SeedCategory is a category and the products it should contain.
type SeedCategory struct {
	Name        string
	Description string
	Products    []SeedProduct
}

// SeedResult counts inserted rows.
type SeedResult struct {
	Categories int
	Products   int
}

// DemoCatalog is the local development catalog.
var DemoCatalog = []SeedCategory{
	{
		Name:        "Electronics",
		Description: "Explore the latest gadgets and electronic devices.",
		Products: []SeedProduct{
			{Name: "Smartphone", Price: "499.99", Description: "A powerful and feature-rich smartphone.", Color: "Black", Stock: 50, Featured: true},
			{Name: "Laptop", Price: "899.99", Description: "A high-performance laptop for work and play.", Color: "Gray", Stock: 30},
			{Name: "Headphones", Price: "99.99", Description: "Immerse yourself in sound.", Color: "White", Stock: 100},
		},
	},
	{
		Name:        "Fashion",
		Description: "Discover trendy clothing and accessories.",
		Products: []SeedProduct{
			{Name: "Men's T-Shirt", Price: "29.99", Description: "A classic cotton tee.", Color: "Blue", Stock: 200},
			{Name: "Women's Dress", Price: "59.99", Description: "An elegant dress for any occasion.", Color: "Red", Stock: 80, Featured: true},
		},
	},
	{
		Name:        "Home & Kitchen",
		Description: "Find everything you need for your home.",
		Products: []SeedProduct{
			{Name: "Cookware Set", Price: "149.99", Description: "A complete set of non-stick cookware.", Color: "Black", Stock: 40},
			{Name: "Coffee Maker", Price: "79.99", Description: "Brew your favorite coffee at home.", Color: "Silver", Stock: 60},
		},
	},
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Seed inserts the categories and products of catalog that do not exist yet,
// matching by name, in a single transaction. Running it twice inserts nothing.
func Seed(ctx context.Context, runner txRunner, repo *Repository, catalog []SeedCategory) (SeedResult, error) {
	var result SeedResult
	if runner == nil || repo == nil {
		return result, fmt.Errorf("transaction runner and repository required")
	}

	err := runner.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := repo.WithTx(tx)
		for _, sc := range catalog {
			category := &models.Category{Name: sc.Name, Description: sc.Description}
			created, err := txRepo.EnsureCategory(ctx, category)
			if err != nil {
				return fmt.Errorf("seed category %q: %w", sc.Name, err)
			}
			if created {
				result.Categories++
			}

			for _, sp := range sc.Products {
				price, err := decimal.NewFromString(sp.Price)
				if err != nil || price.IsNegative() {
					return fmt.Errorf("seed product %q: invalid price %q", sp.Name, sp.Price)
				}
				created, err := txRepo.EnsureProduct(ctx, &models.Product{
					Name:        sp.Name,
					Price:       price,
					CategoryID:  category.ID,
					Description: sp.Description,
					Color:       sp.Color,
					Stock:       sp.Stock,
					Featured:    sp.Featured,
				})
				if err != nil {
					return fmt.Errorf("seed product %q: %w", sp.Name, err)
				}
				if created {
					result.Products++
				}
			}
		}
		return nil
	})
	if err != nil {
		return SeedResult{}, err
	}
	return result, nil
}
