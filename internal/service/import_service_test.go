package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/catalog-next/internal/config"
	"github.com/catalog-next/internal/constants"
	"github.com/catalog-next/internal/models"
	"github.com/catalog-next/internal/repository"
)

func openImportTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Subcategory{},
		&models.SubcategoryAttribute{},
		&models.Attribute{},
		&models.AttributeOption{},
		&models.Product{},
		&models.ProductAttributeValue{},
		&models.ProductMedia{},
		&models.ProductVerification{},
		&models.VerificationIssue{},
		&models.ProductStatusHistory{},
		&models.ImportBatch{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

type importTestEnv struct {
	db          *gorm.DB
	productRepo repository.ProductRepository
	batchRepo   repository.ImportBatchRepository
	svc         *ImportService
	subcategory models.Subcategory
}

func newImportTestEnv(t *testing.T) *importTestEnv {
	t.Helper()

	db := openImportTestDB(t)
	productRepo := repository.NewProductRepository(db)
	subcatRepo := repository.NewSubcategoryRepository(db)
	attrRepo := repository.NewAttributeRepository(db)
	batchRepo := repository.NewImportBatchRepository(db)

	category := models.Category{Code: "furniture", Name: "Мебель"}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	subcategory := models.Subcategory{CategoryID: category.ID, Code: "sofas", Name: "Диваны"}
	if err := db.Create(&subcategory).Error; err != nil {
		t.Fatalf("create subcategory failed: %v", err)
	}

	width := models.Attribute{
		Code: "width", Name: "Ширина", Type: constants.AttributeTypeNumber, Unit: "см",
		ValidationRules: models.JSON{"min": 1, "max": 1000},
	}
	manufacturerSKU := models.Attribute{
		Code: "manufacturer_sku", Name: "Артикул производителя",
		Type: constants.AttributeTypeText, IsUnique: true,
	}
	for _, attr := range []*models.Attribute{&width, &manufacturerSKU} {
		if err := db.Create(attr).Error; err != nil {
			t.Fatalf("create attribute %s failed: %v", attr.Code, err)
		}
	}
	bindings := []models.SubcategoryAttribute{
		{SubcategoryID: subcategory.ID, AttributeID: width.ID, IsRequired: true, SortOrder: 1},
		{SubcategoryID: subcategory.ID, AttributeID: manufacturerSKU.ID, SortOrder: 2},
	}
	for i := range bindings {
		if err := db.Create(&bindings[i]).Error; err != nil {
			t.Fatalf("create schema binding failed: %v", err)
		}
	}

	cfg := &config.Config{}
	svc := NewImportService(cfg, productRepo, subcatRepo, attrRepo, batchRepo, nil, nil, nil)
	return &importTestEnv{
		db:          db,
		productRepo: productRepo,
		batchRepo:   batchRepo,
		svc:         svc,
		subcategory: subcategory,
	}
}

func TestImportClipboard_CleanImport(t *testing.T) {
	env := newImportTestEnv(t)

	text := "SKU\tНазвание\twidth\n" +
		"F-001\tДиван Осло\t120\n" +
		"F-002\tДиван Берген\t140\n"
	result, err := env.svc.ImportClipboard(ImportInput{
		SubcategoryID: env.subcategory.ID,
		ClipboardText: text,
		UserID:        1,
	})
	if err != nil {
		t.Fatalf("import clipboard failed: %v", err)
	}
	if result.Imported != 2 {
		t.Fatalf("expected 2 imported, got %d (errors: %v)", result.Imported, result.Errors)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", result.Errors)
	}
	if result.TotalRows != 2 {
		t.Fatalf("expected 2 total rows, got %d", result.TotalRows)
	}

	product, err := env.productRepo.GetBySKU("F-001")
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if product == nil {
		t.Fatalf("product F-001 not created")
	}
	if product.Name != "Диван Осло" {
		t.Fatalf("expected name from column, got %q", product.Name)
	}
	if product.Status != constants.ProductStatusInProgress {
		t.Fatalf("expected status in_progress after import, got %s", product.Status)
	}

	loaded, err := env.productRepo.GetByID(product.ID)
	if err != nil {
		t.Fatalf("load product failed: %v", err)
	}
	foundWidth := false
	for _, pav := range loaded.AttributeValues {
		if pav.Attribute.Code == "width" && pav.Value == "120" {
			foundWidth = true
		}
	}
	if !foundWidth {
		t.Fatalf("width value not stored, values: %+v", loaded.AttributeValues)
	}

	history, err := env.productRepo.ListStatusHistory(product.ID)
	if err != nil {
		t.Fatalf("list history failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(history))
	}
	if history[0].OldStatus != constants.ProductStatusDraft || history[0].NewStatus != constants.ProductStatusInProgress {
		t.Fatalf("unexpected history transition %s -> %s", history[0].OldStatus, history[0].NewStatus)
	}
	if history[0].Comment != "Автоматический переход при импорте" {
		t.Fatalf("unexpected history comment %q", history[0].Comment)
	}

	batch, err := env.batchRepo.GetByID(result.BatchID)
	if err != nil {
		t.Fatalf("get batch failed: %v", err)
	}
	if batch == nil {
		t.Fatalf("batch not recorded")
	}
	if batch.ImportedCount != 2 || batch.ErrorCount != 0 {
		t.Fatalf("unexpected batch counters: imported=%d errors=%d", batch.ImportedCount, batch.ErrorCount)
	}
	if batch.Source != constants.ImportSourceClipboard {
		t.Fatalf("expected clipboard source, got %s", batch.Source)
	}
}

func TestImportClipboard_DuplicateSKU(t *testing.T) {
	env := newImportTestEnv(t)

	text := "SKU\tНазвание\n" +
		"F-001\tДиван Осло\n" +
		"F-001\tДиван Осло копия\n" +
		"F-002\tКресло Турку\n"
	result, err := env.svc.ImportClipboard(ImportInput{
		SubcategoryID: env.subcategory.ID,
		ClipboardText: text,
		UserID:        1,
	})
	if err != nil {
		t.Fatalf("import clipboard failed: %v", err)
	}
	if result.Imported != 2 {
		t.Fatalf("expected 2 imported, got %d", result.Imported)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", result.Errors)
	}
	want := "Строка 3: Товар с артикулом F-001 уже существует"
	if result.Errors[0] != want {
		t.Fatalf("expected error %q, got %q", want, result.Errors[0])
	}
}

func TestImportClipboard_MissingSKU(t *testing.T) {
	env := newImportTestEnv(t)

	text := "SKU\tНазвание\n" +
		"\tДиван без артикула\n"
	result, err := env.svc.ImportClipboard(ImportInput{
		SubcategoryID: env.subcategory.ID,
		ClipboardText: text,
		UserID:        1,
	})
	if err != nil {
		t.Fatalf("import clipboard failed: %v", err)
	}
	if result.Imported != 0 {
		t.Fatalf("expected 0 imported, got %d", result.Imported)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Не найден артикул") {
		t.Fatalf("expected missing SKU error, got %v", result.Errors)
	}
}

func TestImportClipboard_ManufacturerSKUConflict(t *testing.T) {
	env := newImportTestEnv(t)

	first := "SKU\tНазвание\tmanufacturer_sku\n" +
		"F-001\tДиван Осло\tMS-100\n"
	if _, err := env.svc.ImportClipboard(ImportInput{
		SubcategoryID: env.subcategory.ID,
		ClipboardText: first,
		UserID:        1,
	}); err != nil {
		t.Fatalf("first import failed: %v", err)
	}

	second := "SKU\tНазвание\tmanufacturer_sku\n" +
		"F-777\tДиван Осло реплика\tMS-100\n"
	result, err := env.svc.ImportClipboard(ImportInput{
		SubcategoryID: env.subcategory.ID,
		ClipboardText: second,
		UserID:        1,
	})
	if err != nil {
		t.Fatalf("second import failed: %v", err)
	}
	if result.Imported != 0 {
		t.Fatalf("expected 0 imported, got %d", result.Imported)
	}
	if len(result.Errors) != 1 ||
		!strings.Contains(result.Errors[0], "Товар с артикулом производителя MS-100 уже существует") {
		t.Fatalf("expected manufacturer SKU conflict, got %v", result.Errors)
	}
}

func TestImportClipboard_EmptyData(t *testing.T) {
	env := newImportTestEnv(t)

	result, err := env.svc.ImportClipboard(ImportInput{
		SubcategoryID: env.subcategory.ID,
		ClipboardText: "SKU\tНазвание\n",
		UserID:        1,
	})
	if err != nil {
		t.Fatalf("import clipboard failed: %v", err)
	}
	if result.Imported != 0 {
		t.Fatalf("expected 0 imported, got %d", result.Imported)
	}
	if len(result.Errors) != 1 || result.Errors[0] != ErrEmptyData.Error() {
		t.Fatalf("expected empty data error, got %v", result.Errors)
	}
}

func TestImportClipboard_UnknownSubcategory(t *testing.T) {
	env := newImportTestEnv(t)

	_, err := env.svc.ImportClipboard(ImportInput{
		SubcategoryID: 9999,
		ClipboardText: "SKU\nF-001\n",
		UserID:        1,
	})
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
