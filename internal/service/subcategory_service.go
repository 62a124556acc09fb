package service

import (
	"strings"

	"github.com/catalog-next/internal/mapper"
	"github.com/catalog-next/internal/models"
	"github.com/catalog-next/internal/repository"
)

// SubcategoryService manages the catalog tree and per-subcategory
// attribute schemas.
type SubcategoryService struct {
	repo     repository.SubcategoryRepository
	attrRepo repository.AttributeRepository
}

// NewSubcategoryService creates the catalog structure service.
func NewSubcategoryService(repo repository.SubcategoryRepository, attrRepo repository.AttributeRepository) *SubcategoryService {
	return &SubcategoryService{repo: repo, attrRepo: attrRepo}
}

// ListCategories returns the full catalog tree.
func (s *SubcategoryService) ListCategories() ([]models.Category, error) {
	return s.repo.ListCategories()
}

// CreateCategory adds a top level category.
func (s *SubcategoryService) CreateCategory(name string, sortOrder int) (*models.Category, error) {
	category := models.Category{
		Code:      mapper.GenerateCode(name),
		Name:      strings.TrimSpace(name),
		SortOrder: sortOrder,
	}
	if err := s.repo.CreateCategory(&category); err != nil {
		return nil, err
	}
	return &category, nil
}

// List returns subcategories, optionally scoped to one category.
func (s *SubcategoryService) List(categoryID uint) ([]models.Subcategory, error) {
	return s.repo.List(categoryID)
}

// Get returns one subcategory.
func (s *SubcategoryService) Get(id uint) (*models.Subcategory, error) {
	subcategory, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if subcategory == nil {
		return nil, ErrNotFound
	}
	return subcategory, nil
}

// Create adds a subcategory under a category.
func (s *SubcategoryService) Create(categoryID uint, name string, sortOrder int) (*models.Subcategory, error) {
	category, err := s.repo.GetCategoryByID(categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrNotFound
	}

	subcategory := models.Subcategory{
		CategoryID: categoryID,
		Code:       mapper.GenerateCode(name),
		Name:       strings.TrimSpace(name),
		SortOrder:  sortOrder,
	}
	if err := s.repo.Create(&subcategory); err != nil {
		return nil, err
	}
	return &subcategory, nil
}

// Schema returns the ordered attribute schema of a subcategory.
func (s *SubcategoryService) Schema(subcategoryID uint) ([]models.SubcategoryAttribute, error) {
	subcategory, err := s.repo.GetByID(subcategoryID)
	if err != nil {
		return nil, err
	}
	if subcategory == nil {
		return nil, ErrNotFound
	}
	return s.repo.Schema(subcategoryID)
}

// AssignAttribute binds an attribute to a subcategory schema.
func (s *SubcategoryService) AssignAttribute(subcategoryID, attributeID uint, isRequired bool, sortOrder int) (*models.SubcategoryAttribute, error) {
	subcategory, err := s.repo.GetByID(subcategoryID)
	if err != nil {
		return nil, err
	}
	if subcategory == nil {
		return nil, ErrNotFound
	}
	attr, err := s.attrRepo.GetByID(attributeID)
	if err != nil {
		return nil, err
	}
	if attr == nil {
		return nil, ErrNotFound
	}

	if existing, err := s.repo.GetBinding(subcategoryID, attributeID); err != nil {
		return nil, err
	} else if existing != nil {
		existing.IsRequired = isRequired
		existing.SortOrder = sortOrder
		if err := s.repo.UpdateBinding(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	binding := models.SubcategoryAttribute{
		SubcategoryID: subcategoryID,
		AttributeID:   attributeID,
		IsRequired:    isRequired,
		SortOrder:     sortOrder,
	}
	if err := s.repo.AssignAttribute(&binding); err != nil {
		return nil, err
	}
	return &binding, nil
}

// RemoveAttribute unbinds an attribute from a subcategory schema.
func (s *SubcategoryService) RemoveAttribute(subcategoryID, attributeID uint) error {
	binding, err := s.repo.GetBinding(subcategoryID, attributeID)
	if err != nil {
		return err
	}
	if binding == nil {
		return ErrNotFound
	}
	return s.repo.RemoveAttribute(subcategoryID, attributeID)
}

// RequiredAttributes returns the schema bindings marked required.
func (s *SubcategoryService) RequiredAttributes(subcategoryID uint) ([]models.SubcategoryAttribute, error) {
	schema, err := s.repo.Schema(subcategoryID)
	if err != nil {
		return nil, err
	}
	required := make([]models.SubcategoryAttribute, 0, len(schema))
	for _, binding := range schema {
		if binding.IsRequired {
			required = append(required, binding)
		}
	}
	return required, nil
}
