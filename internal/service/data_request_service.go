package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/catalog-next/internal/constants"
	"github.com/catalog-next/internal/logger"
	"github.com/catalog-next/internal/models"
	"github.com/catalog-next/internal/repository"
)

// DataRequestService drives the supplier data request lifecycle: a request
// is created, sent to the supplier, and then either answered with data or
// closed as unanswered.
type DataRequestService struct {
	repo         repository.DataRequestRepository
	supplierRepo repository.SupplierRepository
	subcatRepo   repository.SubcategoryRepository
}

// NewDataRequestService creates the data request service.
func NewDataRequestService(repo repository.DataRequestRepository, supplierRepo repository.SupplierRepository, subcatRepo repository.SubcategoryRepository) *DataRequestService {
	return &DataRequestService{repo: repo, supplierRepo: supplierRepo, subcatRepo: subcatRepo}
}

// DataRequestInput is the create payload.
type DataRequestInput struct {
	SupplierID     uint
	CategoryID     uint
	SubcategoryIDs []uint
	RequestedByID  uint
	Deadline       *time.Time
	RequestMessage string
}

// DataRequestStats summarizes the request history of a supplier.
type DataRequestStats struct {
	Total        int `json:"total"`
	New          int `json:"new"`
	RequestSent  int `json:"request_sent"`
	DataReceived int `json:"data_received"`
	NoResponse   int `json:"no_response"`
	Cancelled    int `json:"cancelled"`
	Overdue      int `json:"overdue"`
}

// Create validates and stores a new data request in the new status.
func (s *DataRequestService) Create(input DataRequestInput) (*models.DataRequest, error) {
	supplier, err := s.supplierRepo.GetByID(input.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, ErrNotFound
	}
	category, err := s.subcatRepo.GetCategoryByID(input.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrNotFound
	}

	covered := make(map[uint]struct{}, len(supplier.Subcategories))
	for _, subcategory := range supplier.Subcategories {
		covered[subcategory.ID] = struct{}{}
	}
	for _, id := range input.SubcategoryIDs {
		subcategory, err := s.subcatRepo.GetByID(id)
		if err != nil {
			return nil, err
		}
		if subcategory == nil {
			return nil, fmt.Errorf("некоторые подкатегории не найдены")
		}
		if subcategory.CategoryID != input.CategoryID {
			return nil, fmt.Errorf("подкатегория %s не принадлежит категории %s", subcategory.Name, category.Name)
		}
		if _, ok := covered[id]; !ok {
			return nil, fmt.Errorf("подкатегория %s не привязана к поставщику %s", subcategory.Name, supplier.Name)
		}
	}

	request := models.DataRequest{
		SupplierID:     input.SupplierID,
		CategoryID:     input.CategoryID,
		SubcategoryIDs: models.UintArray(input.SubcategoryIDs),
		Status:         constants.DataRequestStatusNew,
		RequestedByID:  input.RequestedByID,
		Deadline:       input.Deadline,
		RequestMessage: strings.TrimSpace(input.RequestMessage),
	}
	if err := s.repo.Create(&request); err != nil {
		return nil, err
	}
	return &request, nil
}

// Get returns one request.
func (s *DataRequestService) Get(id uint) (*models.DataRequest, error) {
	request, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, ErrNotFound
	}
	return request, nil
}

// List returns requests filtered by status, supplier or category.
func (s *DataRequestService) List(filter repository.DataRequestListFilter) ([]models.DataRequest, error) {
	return s.repo.List(filter)
}

// Send marks a new request as sent to the supplier.
func (s *DataRequestService) Send(id uint) (*models.DataRequest, error) {
	request, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if request.Status != constants.DataRequestStatusNew {
		return nil, ErrRequestAlreadySent
	}

	now := time.Now()
	request.Status = constants.DataRequestStatusSent
	request.RequestSentAt = &now
	if err := s.repo.Update(request); err != nil {
		return nil, err
	}
	logger.Infow("data_request_sent", "request_id", request.ID, "supplier_id", request.SupplierID)
	return request, nil
}

// MarkReceived records that the supplier answered with data, optionally
// linking the import batch built from the delivered file.
func (s *DataRequestService) MarkReceived(id uint, importBatchID *uint, responseMessage string) (*models.DataRequest, error) {
	request, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if request.Status != constants.DataRequestStatusSent {
		return nil, ErrRequestNotSent
	}

	now := time.Now()
	request.Status = constants.DataRequestStatusReceived
	request.DataReceivedAt = &now
	if importBatchID != nil {
		request.ImportBatchID = importBatchID
	}
	if message := strings.TrimSpace(responseMessage); message != "" {
		request.ResponseMessage = message
	}
	if err := s.repo.Update(request); err != nil {
		return nil, err
	}
	logger.Infow("data_request_received", "request_id", request.ID, "supplier_id", request.SupplierID)
	return request, nil
}

// MarkNoResponse closes a request as unanswered.
func (s *DataRequestService) MarkNoResponse(id uint) (*models.DataRequest, error) {
	request, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	request.Status = constants.DataRequestStatusNoResponse
	if err := s.repo.Update(request); err != nil {
		return nil, err
	}
	return request, nil
}

// Cancel withdraws a request unless data was already received.
func (s *DataRequestService) Cancel(id uint) (*models.DataRequest, error) {
	request, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if request.Status == constants.DataRequestStatusReceived {
		return nil, ErrRequestCompleted
	}
	request.Status = constants.DataRequestStatusCancelled
	if err := s.repo.Update(request); err != nil {
		return nil, err
	}
	return request, nil
}

// CheckOverdue moves sent requests past their deadline to no_response and
// returns the number of updated requests.
func (s *DataRequestService) CheckOverdue() (int, error) {
	overdue, err := s.repo.ListOverdue(time.Now())
	if err != nil {
		return 0, err
	}
	count := 0
	for i := range overdue {
		overdue[i].Status = constants.DataRequestStatusNoResponse
		if err := s.repo.Update(&overdue[i]); err != nil {
			return count, err
		}
		count++
	}
	if count > 0 {
		logger.Infow("data_requests_overdue_closed", "count", count)
	}
	return count, nil
}

// SupplierStats summarizes the request history of one supplier.
func (s *DataRequestService) SupplierStats(supplierID uint) (*DataRequestStats, error) {
	requests, err := s.repo.ListBySupplier(supplierID)
	if err != nil {
		return nil, err
	}
	stats := dataRequestStats(requests)
	return &stats, nil
}

func dataRequestStats(requests []models.DataRequest) DataRequestStats {
	stats := DataRequestStats{Total: len(requests)}
	for i := range requests {
		switch requests[i].Status {
		case constants.DataRequestStatusNew:
			stats.New++
		case constants.DataRequestStatusSent:
			stats.RequestSent++
		case constants.DataRequestStatusReceived:
			stats.DataReceived++
		case constants.DataRequestStatusNoResponse:
			stats.NoResponse++
		case constants.DataRequestStatusCancelled:
			stats.Cancelled++
		}
		if requests[i].IsOverdue() {
			stats.Overdue++
		}
	}
	return stats
}
