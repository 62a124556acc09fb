package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/catalog-next/internal/constants"
)

// Supplier is an external company asked to provide product data.
type Supplier struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	Code          string         `gorm:"uniqueIndex;size:100;not null" json:"code"`
	Name          string         `gorm:"size:255;not null" json:"name"`
	ContactPerson string         `gorm:"size:255" json:"contact_person"`
	Email         string         `gorm:"size:255" json:"email"`
	Phone         string         `gorm:"size:50" json:"phone"`
	Address       string         `gorm:"type:text" json:"address"`
	IsActive      bool           `gorm:"default:true;not null" json:"is_active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Subcategories []Subcategory `gorm:"many2many:supplier_subcategories" json:"subcategories,omitempty"`
}

// TableName sets the table name.
func (Supplier) TableName() string {
	return "suppliers"
}

// DataRequest tracks one request for product data sent to a supplier.
type DataRequest struct {
	ID              uint       `gorm:"primarykey" json:"id"`
	SupplierID      uint       `gorm:"not null;index" json:"supplier_id"`
	CategoryID      uint       `gorm:"not null;index" json:"category_id"`
	SubcategoryIDs  UintArray  `gorm:"type:json" json:"subcategory_ids"`
	Status          string     `gorm:"size:20;not null;default:new;index" json:"status"`
	RequestSentAt   *time.Time `json:"request_sent_at"`
	DataReceivedAt  *time.Time `json:"data_received_at"`
	Deadline        *time.Time `json:"deadline"`
	RequestedByID   uint       `gorm:"not null;index" json:"requested_by_id"`
	RequestMessage  string     `gorm:"type:text" json:"request_message"`
	ResponseMessage string     `gorm:"type:text" json:"response_message"`
	ImportBatchID   *uint      `gorm:"index" json:"import_batch_id"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	Supplier    Supplier     `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	Category    Category     `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	RequestedBy User         `gorm:"foreignKey:RequestedByID" json:"requested_by,omitempty"`
	ImportBatch *ImportBatch `gorm:"foreignKey:ImportBatchID" json:"import_batch,omitempty"`
}

// TableName sets the table name.
func (DataRequest) TableName() string {
	return "data_requests"
}

// IsOverdue reports whether a sent request passed its deadline without data.
func (r *DataRequest) IsOverdue() bool {
	if r.Deadline == nil {
		return false
	}
	return r.Status == constants.DataRequestStatusSent && time.Now().After(*r.Deadline)
}
