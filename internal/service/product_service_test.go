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

type productTestEnv struct {
	db          *gorm.DB
	productRepo repository.ProductRepository
	svc         *ProductService
	attrs       map[string]models.Attribute
}

func newProductTestEnv(t *testing.T) *productTestEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Subcategory{},
		&models.Attribute{},
		&models.AttributeOption{},
		&models.Product{},
		&models.ProductAttributeValue{},
		&models.ProductMedia{},
		&models.ProductVerification{},
		&models.VerificationIssue{},
		&models.ProductStatusHistory{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	attrs := map[string]models.Attribute{}
	width := models.Attribute{
		Code: "width", Name: "Ширина", Type: constants.AttributeTypeNumber, Unit: "см",
		ValidationRules: models.JSON{"min": 1, "max": 1000},
	}
	material := models.Attribute{Code: "material", Name: "Материал", Type: constants.AttributeTypeSelect}
	serial := models.Attribute{Code: "serial", Name: "Серийный номер", Type: constants.AttributeTypeText, IsUnique: true}
	for _, attr := range []*models.Attribute{&width, &material, &serial} {
		if err := db.Create(attr).Error; err != nil {
			t.Fatalf("create attribute %s failed: %v", attr.Code, err)
		}
		attrs[attr.Code] = *attr
	}
	for i, value := range []string{"Дерево", "Металл"} {
		option := models.AttributeOption{AttributeID: material.ID, Value: value, SortOrder: i}
		if err := db.Create(&option).Error; err != nil {
			t.Fatalf("create option failed: %v", err)
		}
	}

	productRepo := repository.NewProductRepository(db)
	svc := NewProductService(
		productRepo,
		repository.NewAttributeRepository(db),
		repository.NewMediaRepository(db),
		repository.NewVerificationRepository(db),
	)
	return &productTestEnv{db: db, productRepo: productRepo, svc: svc, attrs: attrs}
}

func (env *productTestEnv) createProduct(t *testing.T, sku string) *models.Product {
	t.Helper()

	product := models.Product{
		SKU:           sku,
		Name:          "Товар " + sku,
		SubcategoryID: 1,
		Status:        constants.ProductStatusInProgress,
	}
	if err := env.productRepo.Create(&product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return &product
}

func TestSetAttributeValue(t *testing.T) {
	env := newProductTestEnv(t)
	product := env.createProduct(t, "F-001")

	value, err := env.svc.SetAttributeValue(product.ID, env.attrs["width"].ID, "120")
	if err != nil {
		t.Fatalf("set value failed: %v", err)
	}
	if value.Value != "120" {
		t.Fatalf("expected stored value 120, got %q", value.Value)
	}

	// Upsert replaces the previous value instead of duplicating it.
	if _, err := env.svc.SetAttributeValue(product.ID, env.attrs["width"].ID, "150"); err != nil {
		t.Fatalf("second set failed: %v", err)
	}
	loaded, err := env.svc.Get(product.ID)
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if len(loaded.AttributeValues) != 1 || loaded.AttributeValues[0].Value != "150" {
		t.Fatalf("unexpected values after upsert: %+v", loaded.AttributeValues)
	}
}

func TestSetAttributeValue_TypeMismatch(t *testing.T) {
	env := newProductTestEnv(t)
	product := env.createProduct(t, "F-002")

	_, err := env.svc.SetAttributeValue(product.ID, env.attrs["width"].ID, "широкий")
	if err == nil || !strings.Contains(err.Error(), "неверный тип данных") {
		t.Fatalf("expected type error, got %v", err)
	}
}

func TestSetAttributeValue_RuleViolation(t *testing.T) {
	env := newProductTestEnv(t)
	product := env.createProduct(t, "F-003")

	_, err := env.svc.SetAttributeValue(product.ID, env.attrs["width"].ID, "5000")
	if err == nil || !strings.Contains(err.Error(), "не соответствует правилам валидации") {
		t.Fatalf("expected rule error, got %v", err)
	}
}

func TestSetAttributeValue_SelectOption(t *testing.T) {
	env := newProductTestEnv(t)
	product := env.createProduct(t, "F-004")

	if _, err := env.svc.SetAttributeValue(product.ID, env.attrs["material"].ID, "Дерево"); err != nil {
		t.Fatalf("allowed option refused: %v", err)
	}
	_, err := env.svc.SetAttributeValue(product.ID, env.attrs["material"].ID, "Бумага")
	if err == nil || !strings.Contains(err.Error(), "неверный тип данных") {
		t.Fatalf("expected refusal of unknown option, got %v", err)
	}
}

func TestSetAttributeValue_UniqueConflict(t *testing.T) {
	env := newProductTestEnv(t)
	first := env.createProduct(t, "F-005")
	second := env.createProduct(t, "F-006")

	if _, err := env.svc.SetAttributeValue(first.ID, env.attrs["serial"].ID, "SN-1"); err != nil {
		t.Fatalf("first set failed: %v", err)
	}
	_, err := env.svc.SetAttributeValue(second.ID, env.attrs["serial"].ID, "SN-1")
	if err == nil || !strings.Contains(err.Error(), "уже используется товаром ID") {
		t.Fatalf("expected uniqueness conflict, got %v", err)
	}

	// The same product may re-set its own unique value.
	if _, err := env.svc.SetAttributeValue(first.ID, env.attrs["serial"].ID, "SN-1"); err != nil {
		t.Fatalf("re-set own value failed: %v", err)
	}
}

func TestUpdateProduct(t *testing.T) {
	env := newProductTestEnv(t)
	product := env.createProduct(t, "F-007")

	name := "Диван Осло"
	description := "  трёхместный  "
	updated, err := env.svc.Update(product.ID, UpdateInput{Name: &name, Description: &description})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "Диван Осло" || updated.Description != "трёхместный" {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	empty := "   "
	if _, err := env.svc.Update(product.ID, UpdateInput{Name: &empty}); err == nil {
		t.Fatalf("expected refusal of blank name")
	}
}

func TestDeleteProduct(t *testing.T) {
	env := newProductTestEnv(t)
	product := env.createProduct(t, "F-008")

	if err := env.svc.Delete(product.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := env.svc.Get(product.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := env.svc.Delete(product.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
}
