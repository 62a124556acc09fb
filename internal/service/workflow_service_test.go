package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/catalog-next/internal/constants"
	"github.com/catalog-next/internal/models"
	"github.com/catalog-next/internal/repository"
)

func newWorkflowTestRepo(t *testing.T) repository.ProductRepository {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Product{},
		&models.ProductAttributeValue{},
		&models.Attribute{},
		&models.AttributeOption{},
		&models.ProductStatusHistory{},
		&models.ProductMedia{},
		&models.Subcategory{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return repository.NewProductRepository(db)
}

func createWorkflowProduct(t *testing.T, repo repository.ProductRepository, sku, status string, batchID *uint) *models.Product {
	t.Helper()

	product := models.Product{
		SKU:           sku,
		Name:          "Товар " + sku,
		SubcategoryID: 1,
		Status:        status,
		ImportBatchID: batchID,
	}
	if err := repo.Create(&product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return &product
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from    string
		to      string
		allowed bool
	}{
		{constants.ProductStatusDraft, constants.ProductStatusInProgress, true},
		{constants.ProductStatusDraft, constants.ProductStatusApproved, false},
		{constants.ProductStatusInProgress, constants.ProductStatusToReview, true},
		{constants.ProductStatusInProgress, constants.ProductStatusApproved, true},
		{constants.ProductStatusInProgress, constants.ProductStatusRejected, true},
		{constants.ProductStatusInProgress, constants.ProductStatusExported, false},
		{constants.ProductStatusToReview, constants.ProductStatusApproved, true},
		{constants.ProductStatusToReview, constants.ProductStatusDraft, false},
		{constants.ProductStatusApproved, constants.ProductStatusInProgress, true},
		{constants.ProductStatusRejected, constants.ProductStatusToReview, true},
		{constants.ProductStatusRejected, constants.ProductStatusApproved, false},
		{constants.ProductStatusExported, constants.ProductStatusInProgress, true},
		{constants.ProductStatusExported, constants.ProductStatusApproved, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.allowed {
			t.Fatalf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestTransitionStatus(t *testing.T) {
	repo := newWorkflowTestRepo(t)
	svc := NewWorkflowService(repo)
	product := createWorkflowProduct(t, repo, "F-001", constants.ProductStatusToReview, nil)

	updated, err := svc.TransitionStatus(product.ID, constants.ProductStatusApproved, 7, "проверено вручную")
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if updated.Status != constants.ProductStatusApproved {
		t.Fatalf("expected approved, got %s", updated.Status)
	}

	history, err := repo.ListStatusHistory(product.ID)
	if err != nil {
		t.Fatalf("list history failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(history))
	}
	entry := history[0]
	if entry.OldStatus != constants.ProductStatusToReview ||
		entry.NewStatus != constants.ProductStatusApproved ||
		entry.ChangedByID != 7 ||
		entry.Comment != "проверено вручную" {
		t.Fatalf("unexpected history entry: %+v", entry)
	}
}

func TestTransitionStatus_Refusals(t *testing.T) {
	repo := newWorkflowTestRepo(t)
	svc := NewWorkflowService(repo)
	product := createWorkflowProduct(t, repo, "F-002", constants.ProductStatusDraft, nil)

	if _, err := svc.TransitionStatus(product.ID, "shipped", 1, ""); err != ErrInvalidStatus {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := svc.TransitionStatus(product.ID, constants.ProductStatusApproved, 1, ""); err != ErrInvalidTransition {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if _, err := svc.TransitionStatus(9999, constants.ProductStatusInProgress, 1, ""); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	history, err := repo.ListStatusHistory(product.ID)
	if err != nil {
		t.Fatalf("list history failed: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("refused transitions must not record history, got %d entries", len(history))
	}
}

func TestExport(t *testing.T) {
	repo := newWorkflowTestRepo(t)
	svc := NewWorkflowService(repo)

	pending := createWorkflowProduct(t, repo, "F-003", constants.ProductStatusToReview, nil)
	if _, err := svc.Export(pending.ID, 1); err != ErrNotApproved {
		t.Fatalf("expected ErrNotApproved, got %v", err)
	}

	approved := createWorkflowProduct(t, repo, "F-004", constants.ProductStatusApproved, nil)
	exported, err := svc.Export(approved.ID, 1)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if exported.Status != constants.ProductStatusExported {
		t.Fatalf("expected exported status, got %s", exported.Status)
	}
	if !exported.Exported || exported.ExportedAt == nil {
		t.Fatalf("export flags not set: exported=%v exported_at=%v", exported.Exported, exported.ExportedAt)
	}

	history, err := repo.ListStatusHistory(approved.ID)
	if err != nil {
		t.Fatalf("list history failed: %v", err)
	}
	if len(history) != 1 || history[0].Comment != "Товар выгружен во внешнюю систему" {
		t.Fatalf("unexpected export history: %+v", history)
	}
}

func TestExportBatch_RefusedWhileAnyNotApproved(t *testing.T) {
	repo := newWorkflowTestRepo(t)
	svc := NewWorkflowService(repo)
	batchID := uint(41)

	createWorkflowProduct(t, repo, "F-005", constants.ProductStatusApproved, &batchID)
	holdout := createWorkflowProduct(t, repo, "F-006", constants.ProductStatusToReview, &batchID)

	if _, err := svc.ExportBatch(batchID, 1); err != ErrNotApproved {
		t.Fatalf("expected ErrNotApproved, got %v", err)
	}

	if _, err := svc.TransitionStatus(holdout.ID, constants.ProductStatusApproved, 1, ""); err != nil {
		t.Fatalf("approve holdout failed: %v", err)
	}
	exported, err := svc.ExportBatch(batchID, 1)
	if err != nil {
		t.Fatalf("export batch failed: %v", err)
	}
	if len(exported) != 2 {
		t.Fatalf("expected 2 exported products, got %d", len(exported))
	}
	for _, product := range exported {
		if product.Status != constants.ProductStatusExported || !product.Exported {
			t.Fatalf("product %s not exported: %+v", product.SKU, product)
		}
	}
}

func TestExportBatch_EmptyBatch(t *testing.T) {
	repo := newWorkflowTestRepo(t)
	svc := NewWorkflowService(repo)

	if _, err := svc.ExportBatch(999, 1); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
