package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/catalog-next/internal/models"

	"gorm.io/gorm"
)

// DataRequestRepository is the supplier data request access interface.
type DataRequestRepository interface {
	List(filter DataRequestListFilter) ([]models.DataRequest, error)
	ListBySupplier(supplierID uint) ([]models.DataRequest, error)
	GetByID(id uint) (*models.DataRequest, error)
	Create(request *models.DataRequest) error
	Update(request *models.DataRequest) error
	CountByStatus(status string) (int64, error)
	ListOverdue(now time.Time) ([]models.DataRequest, error)
}

// GormDataRequestRepository is the GORM implementation.
type GormDataRequestRepository struct {
	db *gorm.DB
}

// NewDataRequestRepository creates a data request repository.
func NewDataRequestRepository(db *gorm.DB) *GormDataRequestRepository {
	return &GormDataRequestRepository{db: db}
}

// List returns requests, newest first, with optional filters.
func (r *GormDataRequestRepository) List(filter DataRequestListFilter) ([]models.DataRequest, error) {
	var requests []models.DataRequest
	query := r.db.Model(&models.DataRequest{}).Preload("Supplier").Preload("Category")
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if filter.SupplierID != 0 {
		query = query.Where("supplier_id = ?", filter.SupplierID)
	}
	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if err := query.Order("created_at DESC, id DESC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// ListBySupplier returns the full request history of a supplier.
func (r *GormDataRequestRepository) ListBySupplier(supplierID uint) ([]models.DataRequest, error) {
	var requests []models.DataRequest
	err := r.db.Where("supplier_id = ?", supplierID).
		Order("created_at DESC, id DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// GetByID fetches a request with its supplier and category.
func (r *GormDataRequestRepository) GetByID(id uint) (*models.DataRequest, error) {
	var request models.DataRequest
	err := r.db.Preload("Supplier").Preload("Category").Preload("ImportBatch").
		First(&request, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

// Create inserts a request.
func (r *GormDataRequestRepository) Create(request *models.DataRequest) error {
	return r.db.Create(request).Error
}

// Update saves a request.
func (r *GormDataRequestRepository) Update(request *models.DataRequest) error {
	return r.db.Save(request).Error
}

// CountByStatus counts requests in one status.
func (r *GormDataRequestRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.DataRequest{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// ListOverdue returns sent requests whose deadline already passed.
func (r *GormDataRequestRepository) ListOverdue(now time.Time) ([]models.DataRequest, error) {
	var requests []models.DataRequest
	err := r.db.Where("status = ? AND deadline IS NOT NULL AND deadline < ?",
		"request_sent", now).
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}
