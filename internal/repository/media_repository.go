package repository

import (
	"errors"

	"github.com/catalog-next/internal/models"

	"gorm.io/gorm"
)

// MediaRepository is the product media data access interface.
type MediaRepository interface {
	Create(media *models.ProductMedia) error
	ListByProduct(productID uint) ([]models.ProductMedia, error)
	GetByOriginalURL(productID uint, attributeID *uint, url string) (*models.ProductMedia, error)
	Delete(id uint) error
}

// GormMediaRepository is the GORM implementation.
type GormMediaRepository struct {
	db *gorm.DB
}

// NewMediaRepository creates a media repository.
func NewMediaRepository(db *gorm.DB) *GormMediaRepository {
	return &GormMediaRepository{db: db}
}

// Create inserts a media record.
func (r *GormMediaRepository) Create(media *models.ProductMedia) error {
	return r.db.Create(media).Error
}

// ListByProduct returns a product's media in sort order.
func (r *GormMediaRepository) ListByProduct(productID uint) ([]models.ProductMedia, error) {
	var media []models.ProductMedia
	err := r.db.Where("product_id = ?", productID).
		Order("sort_order ASC, id ASC").
		Find(&media).Error
	if err != nil {
		return nil, err
	}
	return media, nil
}

// GetByOriginalURL finds an already downloaded file for the same source URL.
func (r *GormMediaRepository) GetByOriginalURL(productID uint, attributeID *uint, url string) (*models.ProductMedia, error) {
	var media models.ProductMedia
	query := r.db.Where("product_id = ? AND original_url = ?", productID, url)
	if attributeID != nil {
		query = query.Where("attribute_id = ?", *attributeID)
	}
	if err := query.First(&media).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &media, nil
}

// Delete removes a media record.
func (r *GormMediaRepository) Delete(id uint) error {
	return r.db.Delete(&models.ProductMedia{}, id).Error
}
