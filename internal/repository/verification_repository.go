package repository

import (
	"errors"

	"github.com/catalog-next/internal/models"

	"gorm.io/gorm"
)

// VerificationRepository is the verification result data access interface.
type VerificationRepository interface {
	Create(verification *models.ProductVerification) error
	Latest(productID uint) (*models.ProductVerification, error)
	ListByProduct(productID uint) ([]models.ProductVerification, error)
}

// GormVerificationRepository is the GORM implementation.
type GormVerificationRepository struct {
	db *gorm.DB
}

// NewVerificationRepository creates a verification repository.
func NewVerificationRepository(db *gorm.DB) *GormVerificationRepository {
	return &GormVerificationRepository{db: db}
}

// Create inserts a verification run with its issues.
func (r *GormVerificationRepository) Create(verification *models.ProductVerification) error {
	return r.db.Create(verification).Error
}

// Latest returns the most recent verification of a product.
func (r *GormVerificationRepository) Latest(productID uint) (*models.ProductVerification, error) {
	var verification models.ProductVerification
	err := r.db.Preload("Issues").
		Where("product_id = ?", productID).
		Order("verified_at DESC, id DESC").
		First(&verification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &verification, nil
}

// ListByProduct returns all verification runs of a product, newest first.
func (r *GormVerificationRepository) ListByProduct(productID uint) ([]models.ProductVerification, error) {
	var verifications []models.ProductVerification
	err := r.db.Preload("Issues").
		Where("product_id = ?", productID).
		Order("verified_at DESC, id DESC").
		Find(&verifications).Error
	if err != nil {
		return nil, err
	}
	return verifications, nil
}
