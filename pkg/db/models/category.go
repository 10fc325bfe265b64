package models

// Category groups catalog products.
type Category struct {
	ID          int64  `gorm:"column:category_id;primaryKey;autoIncrement"`
	Name        string `gorm:"column:name;not null"`
	Description string `gorm:"column:description;not null;default:''"`
}

func (Category) TableName() string { return "categories" }
