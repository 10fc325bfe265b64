package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog listing referenced by cart rows.
type Product struct {
	ID          int64           `gorm:"column:product_id;primaryKey;autoIncrement"`
	Name        string          `gorm:"column:name;not null"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	CategoryID  int64           `gorm:"column:category_id;not null;index:idx_products_category"`
	Category    *Category       `gorm:"foreignKey:CategoryID;references:ID"`
	Description string          `gorm:"column:description;not null;default:''"`
	Color       string          `gorm:"column:color;not null;default:''"`
	Stock       int             `gorm:"column:stock;not null;default:0"`
	Featured    bool            `gorm:"column:featured;not null;default:false"`
	ImageURL    string          `gorm:"column:image_url;not null;default:''"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }
