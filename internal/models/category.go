package models

import (
	"time"

	"gorm.io/gorm"
)

// Category is a top level catalog section.
type Category struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Code      string         `gorm:"uniqueIndex;size:100;not null" json:"code"`
	Name      string         `gorm:"size:200;not null" json:"name"`
	SortOrder int            `gorm:"default:0;index" json:"sort_order"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Subcategories []Subcategory `gorm:"foreignKey:CategoryID" json:"subcategories,omitempty"`
}

// TableName sets the table name.
func (Category) TableName() string {
	return "categories"
}

// Subcategory groups products that share an attribute schema.
type Subcategory struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	CategoryID uint           `gorm:"not null;uniqueIndex:idx_subcategory_code" json:"category_id"`
	Code       string         `gorm:"size:100;not null;uniqueIndex:idx_subcategory_code" json:"code"`
	Name       string         `gorm:"size:200;not null" json:"name"`
	SortOrder  int            `gorm:"default:0;index" json:"sort_order"`
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Category         Category               `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	SchemaAttributes []SubcategoryAttribute `gorm:"foreignKey:SubcategoryID" json:"schema_attributes,omitempty"`
}

// TableName sets the table name.
func (Subcategory) TableName() string {
	return "subcategories"
}

// SubcategoryAttribute binds an attribute into a subcategory schema.
type SubcategoryAttribute struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	SubcategoryID uint      `gorm:"not null;uniqueIndex:idx_subcategory_attribute" json:"subcategory_id"`
	AttributeID   uint      `gorm:"not null;uniqueIndex:idx_subcategory_attribute" json:"attribute_id"`
	IsRequired    bool      `gorm:"default:false" json:"is_required"`
	SortOrder     int       `gorm:"default:0" json:"sort_order"`
	CreatedAt     time.Time `json:"created_at"`

	Attribute Attribute `gorm:"foreignKey:AttributeID" json:"attribute,omitempty"`
}

// TableName sets the table name.
func (SubcategoryAttribute) TableName() string {
	return "subcategory_attributes"
}
