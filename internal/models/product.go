package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Product is a supplier-submitted catalog item.
type Product struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	SKU           string         `gorm:"uniqueIndex;size:100;not null" json:"sku"`
	Name          string         `gorm:"size:500;not null" json:"name"`
	Description   string         `gorm:"type:text" json:"description"`
	SubcategoryID uint           `gorm:"not null;index" json:"subcategory_id"`
	Status        string         `gorm:"size:20;not null;default:'draft';index" json:"status"`
	ImportBatchID *uint          `gorm:"index" json:"import_batch_id"`
	Exported      bool           `gorm:"default:false" json:"exported"`
	ExportedAt    *time.Time     `json:"exported_at"`
	CreatedByID   uint           `gorm:"index" json:"created_by_id"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Subcategory     Subcategory             `gorm:"foreignKey:SubcategoryID" json:"subcategory,omitempty"`
	AttributeValues []ProductAttributeValue `gorm:"foreignKey:ProductID" json:"attribute_values,omitempty"`
	Verifications   []ProductVerification   `gorm:"foreignKey:ProductID" json:"verifications,omitempty"`
	StatusHistory   []ProductStatusHistory  `gorm:"foreignKey:ProductID" json:"status_history,omitempty"`
	Media           []ProductMedia          `gorm:"foreignKey:ProductID" json:"media,omitempty"`
}

// TableName sets the table name.
func (Product) TableName() string {
	return "products"
}

// AttributeValue returns the stored value for an attribute, empty when unset.
func (p *Product) AttributeValue(attributeID uint) string {
	if p == nil {
		return ""
	}
	for _, pav := range p.AttributeValues {
		if pav.AttributeID == attributeID {
			return pav.Value
		}
	}
	return ""
}

// FilledAttributeValue reports whether a non-blank value is stored.
func (p *Product) FilledAttributeValue(attributeID uint) bool {
	return strings.TrimSpace(p.AttributeValue(attributeID)) != ""
}

// ProductAttributeValue stores one attribute value of a product.
// Values are kept canonically as strings and validated by attribute type.
type ProductAttributeValue struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	ProductID   uint      `gorm:"not null;uniqueIndex:idx_product_attribute" json:"product_id"`
	AttributeID uint      `gorm:"not null;uniqueIndex:idx_product_attribute" json:"attribute_id"`
	Value       string    `gorm:"type:text" json:"value"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Attribute Attribute `gorm:"foreignKey:AttributeID" json:"attribute,omitempty"`
}

// TableName sets the table name.
func (ProductAttributeValue) TableName() string {
	return "product_attribute_values"
}
