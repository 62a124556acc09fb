package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/catalog-next/internal/constants"
	"github.com/catalog-next/internal/mapper"
	"github.com/catalog-next/internal/models"
	"github.com/catalog-next/internal/repository"
)

// SupplierService manages the supplier directory for the data collection
// stage.
type SupplierService struct {
	repo        repository.SupplierRepository
	subcatRepo  repository.SubcategoryRepository
	requestRepo repository.DataRequestRepository
}

// NewSupplierService creates the supplier service.
func NewSupplierService(repo repository.SupplierRepository, subcatRepo repository.SubcategoryRepository, requestRepo repository.DataRequestRepository) *SupplierService {
	return &SupplierService{repo: repo, subcatRepo: subcatRepo, requestRepo: requestRepo}
}

// SupplierInput is the create and update payload.
type SupplierInput struct {
	Name           string
	ContactPerson  string
	Email          string
	Phone          string
	Address        string
	SubcategoryIDs []uint
	IsActive       *bool
}

// SupplierView pairs a supplier with its derived collection state.
type SupplierView struct {
	models.Supplier
	State        string           `json:"state"`
	RequestStats DataRequestStats `json:"request_stats"`
}

// CollectionStats summarizes the data collection stage.
type CollectionStats struct {
	SuppliersCount   int64 `json:"suppliers_count"`
	RequestsActive   int64 `json:"requests_active"`
	RequestsReceived int64 `json:"requests_received"`
	RequestsOverdue  int64 `json:"requests_overdue"`
}

// Create stores a new supplier with its subcategory coverage.
func (s *SupplierService) Create(input SupplierInput) (*models.Supplier, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("не указано название поставщика")
	}
	code := mapper.GenerateCode(name)
	if existing, err := s.repo.GetByCode(code); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrSupplierExists
	}

	subcategories, err := s.resolveSubcategories(input.SubcategoryIDs)
	if err != nil {
		return nil, err
	}

	supplier := models.Supplier{
		Code:          code,
		Name:          name,
		ContactPerson: strings.TrimSpace(input.ContactPerson),
		Email:         strings.TrimSpace(input.Email),
		Phone:         strings.TrimSpace(input.Phone),
		Address:       strings.TrimSpace(input.Address),
		IsActive:      true,
		Subcategories: subcategories,
	}
	if err := s.repo.Create(&supplier); err != nil {
		return nil, err
	}
	return &supplier, nil
}

// Update changes supplier contact data and subcategory coverage.
func (s *SupplierService) Update(id uint, input SupplierInput) (*models.Supplier, error) {
	supplier, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		supplier.Name = name
	}
	supplier.ContactPerson = strings.TrimSpace(input.ContactPerson)
	supplier.Email = strings.TrimSpace(input.Email)
	supplier.Phone = strings.TrimSpace(input.Phone)
	supplier.Address = strings.TrimSpace(input.Address)
	if input.IsActive != nil {
		supplier.IsActive = *input.IsActive
	}

	if input.SubcategoryIDs != nil {
		subcategories, err := s.resolveSubcategories(input.SubcategoryIDs)
		if err != nil {
			return nil, err
		}
		if err := s.repo.ReplaceSubcategories(supplier, subcategories); err != nil {
			return nil, err
		}
		supplier.Subcategories = subcategories
	}
	if err := s.repo.Update(supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// Get returns one supplier with its subcategory coverage.
func (s *SupplierService) Get(id uint) (*models.Supplier, error) {
	supplier, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, ErrNotFound
	}
	return supplier, nil
}

// List returns suppliers with their derived collection state, optionally
// narrowed to one state.
func (s *SupplierService) List(filter repository.SupplierListFilter, state string) ([]SupplierView, error) {
	suppliers, err := s.repo.List(filter)
	if err != nil {
		return nil, err
	}

	views := make([]SupplierView, 0, len(suppliers))
	for _, supplier := range suppliers {
		requests, err := s.requestRepo.ListBySupplier(supplier.ID)
		if err != nil {
			return nil, err
		}
		stats := dataRequestStats(requests)
		view := SupplierView{
			Supplier:     supplier,
			State:        supplierState(stats),
			RequestStats: stats,
		}
		if state != "" && view.State != state {
			continue
		}
		views = append(views, view)
	}
	return views, nil
}

// CollectionStats summarizes the data collection stage.
func (s *SupplierService) CollectionStats() (*CollectionStats, error) {
	suppliers, err := s.repo.CountActive()
	if err != nil {
		return nil, err
	}
	active, err := s.requestRepo.CountByStatus(constants.DataRequestStatusSent)
	if err != nil {
		return nil, err
	}
	received, err := s.requestRepo.CountByStatus(constants.DataRequestStatusReceived)
	if err != nil {
		return nil, err
	}
	overdue, err := s.requestRepo.ListOverdue(time.Now())
	if err != nil {
		return nil, err
	}
	return &CollectionStats{
		SuppliersCount:   suppliers,
		RequestsActive:   active,
		RequestsReceived: received,
		RequestsOverdue:  int64(len(overdue)),
	}, nil
}

func (s *SupplierService) resolveSubcategories(ids []uint) ([]models.Subcategory, error) {
	subcategories := make([]models.Subcategory, 0, len(ids))
	for _, id := range ids {
		subcategory, err := s.subcatRepo.GetByID(id)
		if err != nil {
			return nil, err
		}
		if subcategory == nil {
			return nil, fmt.Errorf("некоторые подкатегории не найдены")
		}
		subcategories = append(subcategories, *subcategory)
	}
	return subcategories, nil
}

// supplierState derives the collection state of a supplier from its
// request history. Received data wins over open requests.
func supplierState(stats DataRequestStats) string {
	switch {
	case stats.DataReceived > 0:
		return constants.SupplierStateHasData
	case stats.RequestSent > 0 || stats.Overdue > 0:
		return constants.SupplierStateWaiting
	case stats.NoResponse > 0:
		return constants.SupplierStateNoResponse
	default:
		return constants.SupplierStateNew
	}
}
