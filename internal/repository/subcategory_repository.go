package repository

import (
	"errors"

	"github.com/catalog-next/internal/models"

	"gorm.io/gorm"
)

// SubcategoryRepository is the catalog structure data access interface.
type SubcategoryRepository interface {
	ListCategories() ([]models.Category, error)
	GetCategoryByID(id uint) (*models.Category, error)
	CreateCategory(category *models.Category) error
	List(categoryID uint) ([]models.Subcategory, error)
	GetByID(id uint) (*models.Subcategory, error)
	Create(subcategory *models.Subcategory) error
	Schema(subcategoryID uint) ([]models.SubcategoryAttribute, error)
	AssignAttribute(binding *models.SubcategoryAttribute) error
	RemoveAttribute(subcategoryID, attributeID uint) error
	UpdateBinding(binding *models.SubcategoryAttribute) error
	GetBinding(subcategoryID, attributeID uint) (*models.SubcategoryAttribute, error)
}

// GormSubcategoryRepository is the GORM implementation.
type GormSubcategoryRepository struct {
	db *gorm.DB
}

// NewSubcategoryRepository creates a subcategory repository.
func NewSubcategoryRepository(db *gorm.DB) *GormSubcategoryRepository {
	return &GormSubcategoryRepository{db: db}
}

// ListCategories returns all categories with their subcategories.
func (r *GormSubcategoryRepository) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	err := r.db.Preload("Subcategories", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC, id ASC")
	}).Order("sort_order ASC, id ASC").Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// GetCategoryByID fetches a category.
func (r *GormSubcategoryRepository) GetCategoryByID(id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// CreateCategory inserts a category.
func (r *GormSubcategoryRepository) CreateCategory(category *models.Category) error {
	return r.db.Create(category).Error
}

// List returns subcategories, optionally scoped to one category.
func (r *GormSubcategoryRepository) List(categoryID uint) ([]models.Subcategory, error) {
	var subcategories []models.Subcategory
	query := r.db.Model(&models.Subcategory{})
	if categoryID != 0 {
		query = query.Where("category_id = ?", categoryID)
	}
	if err := query.Order("sort_order ASC, id ASC").Find(&subcategories).Error; err != nil {
		return nil, err
	}
	return subcategories, nil
}

// GetByID fetches a subcategory.
func (r *GormSubcategoryRepository) GetByID(id uint) (*models.Subcategory, error) {
	var subcategory models.Subcategory
	if err := r.db.Preload("Category").First(&subcategory, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &subcategory, nil
}

// Create inserts a subcategory.
func (r *GormSubcategoryRepository) Create(subcategory *models.Subcategory) error {
	return r.db.Create(subcategory).Error
}

// Schema returns the ordered attribute schema of a subcategory.
func (r *GormSubcategoryRepository) Schema(subcategoryID uint) ([]models.SubcategoryAttribute, error) {
	var bindings []models.SubcategoryAttribute
	err := r.db.Preload("Attribute").Preload("Attribute.Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC, id ASC")
	}).Where("subcategory_id = ?", subcategoryID).
		Order("sort_order ASC, id ASC").
		Find(&bindings).Error
	if err != nil {
		return nil, err
	}
	return bindings, nil
}

// AssignAttribute inserts a schema binding.
func (r *GormSubcategoryRepository) AssignAttribute(binding *models.SubcategoryAttribute) error {
	return r.db.Create(binding).Error
}

// RemoveAttribute deletes a schema binding.
func (r *GormSubcategoryRepository) RemoveAttribute(subcategoryID, attributeID uint) error {
	return r.db.Where("subcategory_id = ? AND attribute_id = ?", subcategoryID, attributeID).
		Delete(&models.SubcategoryAttribute{}).Error
}

// UpdateBinding saves a schema binding.
func (r *GormSubcategoryRepository) UpdateBinding(binding *models.SubcategoryAttribute) error {
	return r.db.Save(binding).Error
}

// GetBinding fetches one schema binding.
func (r *GormSubcategoryRepository) GetBinding(subcategoryID, attributeID uint) (*models.SubcategoryAttribute, error) {
	var binding models.SubcategoryAttribute
	err := r.db.Where("subcategory_id = ? AND attribute_id = ?", subcategoryID, attributeID).
		First(&binding).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &binding, nil
}
