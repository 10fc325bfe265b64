package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is the durable (user, product, quantity) cart row. Line totals are
// derived at read time and never stored.
type CartItem struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:cart_items_user_product_key,priority:1"`
	ProductID int64     `gorm:"column:product_id;not null;uniqueIndex:cart_items_user_product_key,priority:2"`
	Product   *Product  `gorm:"foreignKey:ProductID;references:ID;constraint:OnDelete:CASCADE"`
	Quantity  int       `gorm:"column:quantity;not null;check:chk_cart_items_quantity,quantity > 0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (CartItem) TableName() string { return "cart_items" }

// All lists the persisted models in dependency order.
func All() []any {
	return []any{&Category{}, &Product{}, &CartItem{}}
}
