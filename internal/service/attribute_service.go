package service

import (
	"strings"

	"github.com/catalog-next/internal/constants"
	"github.com/catalog-next/internal/mapper"
	"github.com/catalog-next/internal/models"
	"github.com/catalog-next/internal/repository"
)

// AttributeService manages the attribute registry.
type AttributeService struct {
	repo repository.AttributeRepository
}

// NewAttributeService creates the attribute registry service.
func NewAttributeService(repo repository.AttributeRepository) *AttributeService {
	return &AttributeService{repo: repo}
}

// AttributeInput carries attribute create/update fields.
type AttributeInput struct {
	Code            string
	Name            string
	Type            string
	Description     string
	Unit            string
	IsUnique        bool
	ValidationRules map[string]interface{}
	Options         []string
}

// List returns attributes matching the filter.
func (s *AttributeService) List(filter repository.AttributeListFilter) ([]models.Attribute, int64, error) {
	return s.repo.List(filter)
}

// Get returns one attribute.
func (s *AttributeService) Get(id uint) (*models.Attribute, error) {
	attr, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if attr == nil {
		return nil, ErrNotFound
	}
	return attr, nil
}

// Create registers a new attribute. An empty code is derived from the
// name via transliteration.
func (s *AttributeService) Create(input AttributeInput) (*models.Attribute, error) {
	code := strings.TrimSpace(input.Code)
	if code == "" {
		code = mapper.GenerateCode(input.Name)
	}
	attrType := strings.TrimSpace(input.Type)
	if attrType == "" {
		attrType = constants.AttributeTypeText
	}

	if existing, err := s.repo.GetByCode(code); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrCodeExists
	}
	if existing, err := s.repo.GetByName(input.Name); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrNameExists
	}

	attr := models.Attribute{
		Code:            code,
		Name:            strings.TrimSpace(input.Name),
		Type:            attrType,
		Description:     input.Description,
		Unit:            strings.TrimSpace(input.Unit),
		IsUnique:        input.IsUnique,
		ValidationRules: models.JSON(input.ValidationRules),
	}
	if err := s.repo.Create(&attr); err != nil {
		return nil, err
	}
	if len(input.Options) > 0 {
		if err := s.replaceOptions(attr.ID, input.Options); err != nil {
			return nil, err
		}
	}
	return s.repo.GetByID(attr.ID)
}

// Update modifies an attribute. The code is immutable once assigned.
func (s *AttributeService) Update(id uint, input AttributeInput) (*models.Attribute, error) {
	attr, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if attr == nil {
		return nil, ErrNotFound
	}

	if name := strings.TrimSpace(input.Name); name != "" && name != attr.Name {
		if existing, err := s.repo.GetByName(name); err != nil {
			return nil, err
		} else if existing != nil && existing.ID != id {
			return nil, ErrNameExists
		}
		attr.Name = name
	}
	if attrType := strings.TrimSpace(input.Type); attrType != "" {
		attr.Type = attrType
	}
	attr.Description = input.Description
	attr.Unit = strings.TrimSpace(input.Unit)
	attr.IsUnique = input.IsUnique
	if input.ValidationRules != nil {
		attr.ValidationRules = models.JSON(input.ValidationRules)
	}

	if err := s.repo.Update(attr); err != nil {
		return nil, err
	}
	if input.Options != nil {
		if err := s.replaceOptions(attr.ID, input.Options); err != nil {
			return nil, err
		}
	}
	return s.repo.GetByID(attr.ID)
}

// Delete removes an attribute that is not referenced by any schema or
// product value.
func (s *AttributeService) Delete(id uint) error {
	attr, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if attr == nil {
		return ErrNotFound
	}

	references, err := s.repo.CountReferences(id)
	if err != nil {
		return err
	}
	if references > 0 {
		return ErrAttributeInUse
	}
	return s.repo.Delete(id)
}

func (s *AttributeService) replaceOptions(attributeID uint, values []string) error {
	options := make([]models.AttributeOption, 0, len(values))
	for i, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		options = append(options, models.AttributeOption{
			AttributeID: attributeID,
			Value:       value,
			SortOrder:   i,
		})
	}
	return s.repo.ReplaceOptions(attributeID, options)
}
