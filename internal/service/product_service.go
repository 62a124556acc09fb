package service

import (
	"fmt"
	"strings"

	"github.com/catalog-next/internal/models"
	"github.com/catalog-next/internal/repository"
)

// ProductService reads and edits imported products.
type ProductService struct {
	productRepo      repository.ProductRepository
	attrRepo         repository.AttributeRepository
	mediaRepo        repository.MediaRepository
	verificationRepo repository.VerificationRepository
}

// NewProductService creates the product service.
func NewProductService(
	productRepo repository.ProductRepository,
	attrRepo repository.AttributeRepository,
	mediaRepo repository.MediaRepository,
	verificationRepo repository.VerificationRepository,
) *ProductService {
	return &ProductService{
		productRepo:      productRepo,
		attrRepo:         attrRepo,
		mediaRepo:        mediaRepo,
		verificationRepo: verificationRepo,
	}
}

// List returns products matching the filter with the total count.
func (s *ProductService) List(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

// Get returns one product with values, media and subcategory context.
func (s *ProductService) Get(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	return product, nil
}

// UpdateInput carries editable product fields. Nil fields stay unchanged.
type UpdateInput struct {
	Name        *string
	Description *string
}

// Update edits the base fields of a product.
func (s *ProductService) Update(id uint, input UpdateInput) (*models.Product, error) {
	product, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("название товара не может быть пустым")
		}
		product.Name = name
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// SetAttributeValue validates and stores one attribute value of a product.
func (s *ProductService) SetAttributeValue(productID, attributeID uint, value string) (*models.ProductAttributeValue, error) {
	product, err := s.Get(productID)
	if err != nil {
		return nil, err
	}
	attr, err := s.attrRepo.GetByID(attributeID)
	if err != nil {
		return nil, err
	}
	if attr == nil {
		return nil, ErrNotFound
	}

	value = strings.TrimSpace(value)
	if value != "" {
		if !validateAttributeType(attr, value) {
			return nil, fmt.Errorf("неверный тип данных для атрибута %s", attr.Name)
		}
		if !validateAttributeRules(attr, value) {
			return nil, fmt.Errorf("значение не соответствует правилам валидации для %s", attr.Name)
		}
		if attr.IsUnique {
			owner, err := s.productRepo.FindValueOwner(attr.ID, value, product.ID)
			if err != nil {
				return nil, err
			}
			if owner != nil {
				return nil, fmt.Errorf("значение атрибута %s уже используется товаром ID: %d", attr.Name, owner.ProductID)
			}
		}
	}

	pav := models.ProductAttributeValue{
		ProductID:   product.ID,
		AttributeID: attr.ID,
		Value:       value,
	}
	if err := s.productRepo.UpsertAttributeValue(&pav); err != nil {
		return nil, err
	}
	return &pav, nil
}

// Delete removes a product.
func (s *ProductService) Delete(id uint) error {
	product, err := s.Get(id)
	if err != nil {
		return err
	}
	return s.productRepo.Delete(product.ID)
}

// StatusHistory returns a product's workflow transitions, newest first.
func (s *ProductService) StatusHistory(productID uint) ([]models.ProductStatusHistory, error) {
	if _, err := s.Get(productID); err != nil {
		return nil, err
	}
	return s.productRepo.ListStatusHistory(productID)
}

// Verifications returns a product's verification runs, newest first.
func (s *ProductService) Verifications(productID uint) ([]models.ProductVerification, error) {
	if _, err := s.Get(productID); err != nil {
		return nil, err
	}
	return s.verificationRepo.ListByProduct(productID)
}

// Media returns a product's downloaded media in sort order.
func (s *ProductService) Media(productID uint) ([]models.ProductMedia, error) {
	if _, err := s.Get(productID); err != nil {
		return nil, err
	}
	return s.mediaRepo.ListByProduct(productID)
}
