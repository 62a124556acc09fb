package models

import "time"

// ImportBatch records one file or clipboard import run.
type ImportBatch struct {
	ID            uint        `gorm:"primarykey" json:"id"`
	Source        string      `gorm:"size:20;not null" json:"source"`
	FileName      string      `gorm:"size:500" json:"file_name"`
	SubcategoryID uint        `gorm:"not null;index" json:"subcategory_id"`
	TotalRows     int         `gorm:"default:0" json:"total_rows"`
	ImportedCount int         `gorm:"default:0" json:"imported_count"`
	ErrorCount    int         `gorm:"default:0" json:"error_count"`
	Errors        StringArray `gorm:"type:json" json:"errors"`
	Warnings      StringArray `gorm:"type:json" json:"warnings"`
	CreatedByID   uint        `gorm:"index" json:"created_by_id"`
	CreatedAt     time.Time   `gorm:"index" json:"created_at"`

	Subcategory Subcategory `gorm:"foreignKey:SubcategoryID" json:"subcategory,omitempty"`
	Products    []Product   `gorm:"foreignKey:ImportBatchID" json:"products,omitempty"`
}

// TableName sets the table name.
func (ImportBatch) TableName() string {
	return "import_batches"
}
