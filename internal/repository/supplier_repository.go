package repository

import (
	"errors"
	"strings"

	"github.com/catalog-next/internal/models"

	"gorm.io/gorm"
)

// SupplierRepository is the supplier data access interface.
type SupplierRepository interface {
	List(filter SupplierListFilter) ([]models.Supplier, error)
	GetByID(id uint) (*models.Supplier, error)
	GetByCode(code string) (*models.Supplier, error)
	Create(supplier *models.Supplier) error
	Update(supplier *models.Supplier) error
	ReplaceSubcategories(supplier *models.Supplier, subcategories []models.Subcategory) error
	CountActive() (int64, error)
}

// GormSupplierRepository is the GORM implementation.
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewSupplierRepository creates a supplier repository.
func NewSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// List returns suppliers ordered by name.
func (r *GormSupplierRepository) List(filter SupplierListFilter) ([]models.Supplier, error) {
	var suppliers []models.Supplier
	query := r.db.Model(&models.Supplier{}).Preload("Subcategories")
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR code LIKE ?", like, like)
	}
	if filter.SubcategoryID != 0 {
		query = query.Joins("JOIN supplier_subcategories ss ON ss.supplier_id = suppliers.id").
			Where("ss.subcategory_id = ?", filter.SubcategoryID)
	}
	if err := query.Order("name ASC, id ASC").Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

// GetByID fetches a supplier with its subcategory bindings.
func (r *GormSupplierRepository) GetByID(id uint) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := r.db.Preload("Subcategories").First(&supplier, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &supplier, nil
}

// GetByCode fetches a supplier by its unique code.
func (r *GormSupplierRepository) GetByCode(code string) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := r.db.Where("code = ?", code).First(&supplier).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &supplier, nil
}

// Create inserts a supplier.
func (r *GormSupplierRepository) Create(supplier *models.Supplier) error {
	return r.db.Create(supplier).Error
}

// Update saves a supplier.
func (r *GormSupplierRepository) Update(supplier *models.Supplier) error {
	return r.db.Save(supplier).Error
}

// ReplaceSubcategories rebinds the subcategories a supplier covers.
func (r *GormSupplierRepository) ReplaceSubcategories(supplier *models.Supplier, subcategories []models.Subcategory) error {
	return r.db.Model(supplier).Association("Subcategories").Replace(subcategories)
}

// CountActive counts active suppliers.
func (r *GormSupplierRepository) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&models.Supplier{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}
