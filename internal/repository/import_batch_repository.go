package repository

import (
	"errors"
	"strings"

	"github.com/catalog-next/internal/models"

	"gorm.io/gorm"
)

// ImportBatchRepository is the import history data access interface.
type ImportBatchRepository interface {
	Create(batch *models.ImportBatch) error
	Update(batch *models.ImportBatch) error
	GetByID(id uint) (*models.ImportBatch, error)
	List(filter ImportBatchListFilter) ([]models.ImportBatch, int64, error)
	WithTx(tx *gorm.DB) ImportBatchRepository
}

// GormImportBatchRepository is the GORM implementation.
type GormImportBatchRepository struct {
	db *gorm.DB
}

// NewImportBatchRepository creates an import batch repository.
func NewImportBatchRepository(db *gorm.DB) *GormImportBatchRepository {
	return &GormImportBatchRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormImportBatchRepository) WithTx(tx *gorm.DB) ImportBatchRepository {
	if tx == nil {
		return r
	}
	return &GormImportBatchRepository{db: tx}
}

// Create inserts a batch.
func (r *GormImportBatchRepository) Create(batch *models.ImportBatch) error {
	return r.db.Create(batch).Error
}

// Update saves a batch.
func (r *GormImportBatchRepository) Update(batch *models.ImportBatch) error {
	return r.db.Save(batch).Error
}

// GetByID fetches a batch.
func (r *GormImportBatchRepository) GetByID(id uint) (*models.ImportBatch, error) {
	var batch models.ImportBatch
	if err := r.db.Preload("Subcategory").First(&batch, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &batch, nil
}

// List returns batches matching the filter, newest first.
func (r *GormImportBatchRepository) List(filter ImportBatchListFilter) ([]models.ImportBatch, int64, error) {
	var batches []models.ImportBatch

	query := r.db.Model(&models.ImportBatch{}).Preload("Subcategory")
	if filter.SubcategoryID != 0 {
		query = query.Where("subcategory_id = ?", filter.SubcategoryID)
	}
	if source := strings.TrimSpace(filter.Source); source != "" {
		query = query.Where("source = ?", source)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("created_at DESC, id DESC").Find(&batches).Error; err != nil {
		return nil, 0, err
	}
	return batches, total, nil
}
