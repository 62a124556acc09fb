package service

import (
	"strings"
	"time"

	"github.com/catalog-next/internal/constants"
	"github.com/catalog-next/internal/logger"
	"github.com/catalog-next/internal/models"
	"github.com/catalog-next/internal/repository"
)

// allowedTransitions maps each workflow status to the statuses an
// operator may move a product into.
var allowedTransitions = map[string][]string{
	constants.ProductStatusDraft: {
		constants.ProductStatusInProgress,
	},
	constants.ProductStatusInProgress: {
		constants.ProductStatusToReview,
		constants.ProductStatusApproved,
		constants.ProductStatusRejected,
	},
	constants.ProductStatusToReview: {
		constants.ProductStatusApproved,
		constants.ProductStatusRejected,
		constants.ProductStatusInProgress,
	},
	constants.ProductStatusApproved: {
		constants.ProductStatusRejected,
		constants.ProductStatusInProgress,
	},
	constants.ProductStatusRejected: {
		constants.ProductStatusInProgress,
		constants.ProductStatusToReview,
	},
	constants.ProductStatusExported: {
		constants.ProductStatusInProgress,
	},
}

// WorkflowService drives manual status transitions and export.
type WorkflowService struct {
	productRepo repository.ProductRepository
}

// NewWorkflowService creates the workflow service.
func NewWorkflowService(productRepo repository.ProductRepository) *WorkflowService {
	return &WorkflowService{productRepo: productRepo}
}

// CanTransition reports whether a move between two statuses is allowed.
func CanTransition(from, to string) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// AllowedTargets returns the statuses a product may move into from its
// current status.
func AllowedTargets(from string) []string {
	targets := allowedTransitions[from]
	out := make([]string, len(targets))
	copy(out, targets)
	return out
}

// TransitionStatus moves a product to a new workflow status and records
// the transition.
func (s *WorkflowService) TransitionStatus(productID uint, newStatus string, userID uint, comment string) (*models.Product, error) {
	newStatus = strings.TrimSpace(newStatus)
	if !validStatus(newStatus) {
		return nil, ErrInvalidStatus
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	if !CanTransition(product.Status, newStatus) {
		return nil, ErrInvalidTransition
	}

	oldStatus := product.Status
	product.Status = newStatus
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	history := models.ProductStatusHistory{
		ProductID:   product.ID,
		OldStatus:   oldStatus,
		NewStatus:   newStatus,
		ChangedByID: userID,
		Comment:     comment,
		ChangedAt:   time.Now(),
	}
	if err := s.productRepo.AddStatusHistory(&history); err != nil {
		return nil, err
	}

	logger.Infow("product_status_changed",
		"product_id", product.ID,
		"old_status", oldStatus,
		"new_status", newStatus,
		"user_id", userID,
	)
	return product, nil
}

// Export marks an approved product as exported. Products in any other
// status are refused.
func (s *WorkflowService) Export(productID uint, userID uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	if product.Status != constants.ProductStatusApproved {
		return nil, ErrNotApproved
	}

	oldStatus := product.Status
	now := time.Now()
	product.Status = constants.ProductStatusExported
	product.Exported = true
	product.ExportedAt = &now
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	history := models.ProductStatusHistory{
		ProductID:   product.ID,
		OldStatus:   oldStatus,
		NewStatus:   constants.ProductStatusExported,
		ChangedByID: userID,
		Comment:     "Товар выгружен во внешнюю систему",
		ChangedAt:   now,
	}
	if err := s.productRepo.AddStatusHistory(&history); err != nil {
		return nil, err
	}

	logger.Infow("product_exported", "product_id", product.ID, "user_id", userID)
	return product, nil
}

// ExportBatch exports every product of an import batch. The batch is
// refused while any of its products is not approved.
func (s *WorkflowService) ExportBatch(batchID uint, userID uint) ([]models.Product, error) {
	products, err := s.productRepo.ListByBatch(batchID)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, ErrNotFound
	}
	for _, product := range products {
		if product.Status != constants.ProductStatusApproved {
			return nil, ErrNotApproved
		}
	}

	exported := make([]models.Product, 0, len(products))
	for _, product := range products {
		updated, err := s.Export(product.ID, userID)
		if err != nil {
			return nil, err
		}
		exported = append(exported, *updated)
	}

	logger.Infow("import_batch_exported", "batch_id", batchID, "products", len(exported), "user_id", userID)
	return exported, nil
}

func validStatus(status string) bool {
	switch status {
	case constants.ProductStatusDraft,
		constants.ProductStatusInProgress,
		constants.ProductStatusToReview,
		constants.ProductStatusApproved,
		constants.ProductStatusRejected,
		constants.ProductStatusExported:
		return true
	}
	return false
}
