package models

import "time"

// ProductStatusHistory records one workflow status transition.
type ProductStatusHistory struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	ProductID   uint      `gorm:"not null;index" json:"product_id"`
	OldStatus   string    `gorm:"size:20" json:"old_status"`
	NewStatus   string    `gorm:"size:20;not null" json:"new_status"`
	ChangedByID uint      `json:"changed_by_id"`
	Comment     string    `gorm:"type:text" json:"comment"`
	ChangedAt   time.Time `gorm:"index" json:"changed_at"`
}

// TableName sets the table name.
func (ProductStatusHistory) TableName() string {
	return "product_status_history"
}
