package models

import "time"

// ProductMedia is a downloaded media file attached to a product.
type ProductMedia struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	ProductID   uint      `gorm:"not null;index" json:"product_id"`
	AttributeID *uint     `gorm:"index" json:"attribute_id"`
	MediaType   string    `gorm:"size:20;not null" json:"media_type"`
	OriginalURL string    `gorm:"size:2000;not null" json:"original_url"`
	FilePath    string    `gorm:"size:1000" json:"file_path"`
	FileName    string    `gorm:"size:500" json:"file_name"`
	FileSize    int64     `json:"file_size"`
	MimeType    string    `gorm:"size:100" json:"mime_type"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	ModelFormat string    `gorm:"size:20" json:"model_format"`
	SortOrder   int       `gorm:"default:0" json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName sets the table name.
func (ProductMedia) TableName() string {
	return "product_media"
}
