package repository

import (
	"errors"
	"strings"

	"github.com/catalog-next/internal/models"

	"gorm.io/gorm"
)

// ProductRepository is the product data access interface.
type ProductRepository interface {
	List(filter ProductListFilter) ([]models.Product, int64, error)
	GetByID(id uint) (*models.Product, error)
	GetBySKU(sku string) (*models.Product, error)
	CountBySKU(sku string, excludeID *uint) (int64, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id uint) error
	ListByBatch(batchID uint) ([]models.Product, error)
	UpsertAttributeValue(value *models.ProductAttributeValue) error
	CountValueOwners(attributeID uint, value string, excludeProductID uint) (int64, error)
	FindValueOwner(attributeID uint, value string, excludeProductID uint) (*models.ProductAttributeValue, error)
	AddStatusHistory(entry *models.ProductStatusHistory) error
	ListStatusHistory(productID uint) ([]models.ProductStatusHistory, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) ProductRepository
}

// GormProductRepository is the GORM implementation.
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a product repository.
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormProductRepository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// Transaction runs fn inside a transaction.
func (r *GormProductRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// List returns products matching the filter.
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	var products []models.Product

	query := r.db.Model(&models.Product{}).Preload("Subcategory")
	if filter.WithValues {
		query = query.Preload("AttributeValues").Preload("AttributeValues.Attribute")
	}
	if filter.SubcategoryID != 0 {
		query = query.Where("subcategory_id = ?", filter.SubcategoryID)
	}
	if filter.ImportBatchID != 0 {
		query = query.Where("import_batch_id = ?", filter.ImportBatchID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("sku LIKE ? OR name LIKE ?", like, like)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("created_at DESC, id DESC").Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// GetByID fetches a product with its values, media and schema context.
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.Preload("Subcategory").
		Preload("AttributeValues").
		Preload("AttributeValues.Attribute").
		Preload("AttributeValues.Attribute.Options").
		Preload("Media", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// GetBySKU fetches a product by SKU.
func (r *GormProductRepository) GetBySKU(sku string) (*models.Product, error) {
	var product models.Product
	if err := r.db.Where("sku = ?", sku).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// CountBySKU counts products holding a SKU.
func (r *GormProductRepository) CountBySKU(sku string, excludeID *uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.Product{}).Where("sku = ?", sku)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a product.
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// Update saves a product.
func (r *GormProductRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

// Delete removes a product.
func (r *GormProductRepository) Delete(id uint) error {
	return r.db.Delete(&models.Product{}, id).Error
}

// ListByBatch returns every product of an import batch.
func (r *GormProductRepository) ListByBatch(batchID uint) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Where("import_batch_id = ?", batchID).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// UpsertAttributeValue inserts or updates one attribute value.
func (r *GormProductRepository) UpsertAttributeValue(value *models.ProductAttributeValue) error {
	var existing models.ProductAttributeValue
	err := r.db.Where("product_id = ? AND attribute_id = ?", value.ProductID, value.AttributeID).
		First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return r.db.Create(value).Error
		}
		return err
	}
	existing.Value = value.Value
	if err := r.db.Save(&existing).Error; err != nil {
		return err
	}
	*value = existing
	return nil
}

// CountValueOwners counts other products storing the same value of an attribute.
// Used for uniqueness checks on is_unique attributes.
func (r *GormProductRepository) CountValueOwners(attributeID uint, value string, excludeProductID uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.ProductAttributeValue{}).
		Where("attribute_id = ? AND value = ?", attributeID, value)
	if excludeProductID != 0 {
		query = query.Where("product_id != ?", excludeProductID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindValueOwner returns another product's value record holding the same
// value of an attribute, or nil.
func (r *GormProductRepository) FindValueOwner(attributeID uint, value string, excludeProductID uint) (*models.ProductAttributeValue, error) {
	var owner models.ProductAttributeValue
	query := r.db.Where("attribute_id = ? AND value = ?", attributeID, value)
	if excludeProductID != 0 {
		query = query.Where("product_id != ?", excludeProductID)
	}
	if err := query.First(&owner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &owner, nil
}

// AddStatusHistory appends a status transition record.
func (r *GormProductRepository) AddStatusHistory(entry *models.ProductStatusHistory) error {
	return r.db.Create(entry).Error
}

// ListStatusHistory returns a product's transitions, newest first.
func (r *GormProductRepository) ListStatusHistory(productID uint) ([]models.ProductStatusHistory, error) {
	var history []models.ProductStatusHistory
	err := r.db.Where("product_id = ?", productID).
		Order("changed_at DESC, id DESC").
		Find(&history).Error
	if err != nil {
		return nil, err
	}
	return history, nil
}
