package repository

import (
	"errors"
	"strings"

	"github.com/catalog-next/internal/models"

	"gorm.io/gorm"
)

// AttributeRepository is the attribute registry data access interface.
type AttributeRepository interface {
	List(filter AttributeListFilter) ([]models.Attribute, int64, error)
	ListAll() ([]models.Attribute, error)
	GetByID(id uint) (*models.Attribute, error)
	GetByCode(code string) (*models.Attribute, error)
	GetByName(name string) (*models.Attribute, error)
	Create(attribute *models.Attribute) error
	Update(attribute *models.Attribute) error
	Delete(id uint) error
	CountReferences(attributeID uint) (int64, error)
	ReplaceOptions(attributeID uint, options []models.AttributeOption) error
}

// GormAttributeRepository is the GORM implementation.
type GormAttributeRepository struct {
	db *gorm.DB
}

// NewAttributeRepository creates an attribute repository.
func NewAttributeRepository(db *gorm.DB) *GormAttributeRepository {
	return &GormAttributeRepository{db: db}
}

// List returns attributes matching the filter.
func (r *GormAttributeRepository) List(filter AttributeListFilter) ([]models.Attribute, int64, error) {
	var attributes []models.Attribute

	query := r.db.Model(&models.Attribute{}).Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC, id ASC")
	})
	if attrType := strings.TrimSpace(filter.Type); attrType != "" {
		query = query.Where("type = ?", attrType)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR code LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("name ASC").Find(&attributes).Error; err != nil {
		return nil, 0, err
	}
	return attributes, total, nil
}

// ListAll returns every attribute with its options.
func (r *GormAttributeRepository) ListAll() ([]models.Attribute, error) {
	var attributes []models.Attribute
	err := r.db.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC, id ASC")
	}).Order("name ASC").Find(&attributes).Error
	if err != nil {
		return nil, err
	}
	return attributes, nil
}

// GetByID fetches an attribute by ID.
func (r *GormAttributeRepository) GetByID(id uint) (*models.Attribute, error) {
	var attribute models.Attribute
	if err := r.db.Preload("Options").First(&attribute, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &attribute, nil
}

// GetByCode fetches an attribute by code.
func (r *GormAttributeRepository) GetByCode(code string) (*models.Attribute, error) {
	var attribute models.Attribute
	if err := r.db.Preload("Options").Where("code = ?", code).First(&attribute).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &attribute, nil
}

// GetByName fetches an attribute by exact name.
func (r *GormAttributeRepository) GetByName(name string) (*models.Attribute, error) {
	var attribute models.Attribute
	if err := r.db.Preload("Options").Where("name = ?", name).First(&attribute).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &attribute, nil
}

// Create inserts an attribute.
func (r *GormAttributeRepository) Create(attribute *models.Attribute) error {
	return r.db.Create(attribute).Error
}

// Update saves an attribute.
func (r *GormAttributeRepository) Update(attribute *models.Attribute) error {
	return r.db.Save(attribute).Error
}

// Delete removes an attribute.
func (r *GormAttributeRepository) Delete(id uint) error {
	return r.db.Delete(&models.Attribute{}, id).Error
}

// CountReferences counts schema bindings and stored values of an attribute.
func (r *GormAttributeRepository) CountReferences(attributeID uint) (int64, error) {
	var schemaCount int64
	if err := r.db.Model(&models.SubcategoryAttribute{}).
		Where("attribute_id = ?", attributeID).Count(&schemaCount).Error; err != nil {
		return 0, err
	}
	var valueCount int64
	if err := r.db.Model(&models.ProductAttributeValue{}).
		Where("attribute_id = ?", attributeID).Count(&valueCount).Error; err != nil {
		return 0, err
	}
	return schemaCount + valueCount, nil
}

// ReplaceOptions swaps the full option set of a select attribute.
func (r *GormAttributeRepository) ReplaceOptions(attributeID uint, options []models.AttributeOption) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("attribute_id = ?", attributeID).
			Delete(&models.AttributeOption{}).Error; err != nil {
			return err
		}
		for i := range options {
			options[i].ID = 0
			options[i].AttributeID = attributeID
			if options[i].SortOrder == 0 {
				options[i].SortOrder = i
			}
		}
		if len(options) == 0 {
			return nil
		}
		return tx.Create(&options).Error
	})
}
