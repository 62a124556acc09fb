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

type fakeProber struct {
	reachable map[string]bool
	probes    map[string]*ImageProbe
}

func (f *fakeProber) CheckURL(url string) bool {
	return f.reachable[url]
}

func (f *fakeProber) ProbeImage(url string) (*ImageProbe, error) {
	if probe, ok := f.probes[url]; ok {
		return probe, nil
	}
	return nil, fmt.Errorf("no probe for %s", url)
}

type verifyTestEnv struct {
	db               *gorm.DB
	productRepo      repository.ProductRepository
	verificationRepo repository.VerificationRepository
	svc              *VerificationService
	prober           *fakeProber
	subcategory      models.Subcategory
	attrs            map[string]models.Attribute
}

func newVerifyTestEnv(t *testing.T) *verifyTestEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
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
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	category := models.Category{Code: "furniture", Name: "Мебель"}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	subcategory := models.Subcategory{CategoryID: category.ID, Code: "sofas", Name: "Диваны"}
	if err := db.Create(&subcategory).Error; err != nil {
		t.Fatalf("create subcategory failed: %v", err)
	}

	attrs := map[string]models.Attribute{}
	seeds := []struct {
		attr     models.Attribute
		required bool
	}{
		{models.Attribute{Code: "width", Name: "Ширина", Type: constants.AttributeTypeNumber, Unit: "см"}, true},
		{models.Attribute{Code: "color", Name: "Цвет", Type: constants.AttributeTypeText}, false},
		{models.Attribute{Code: "photo", Name: "Фото", Type: constants.AttributeTypeImage}, false},
		{models.Attribute{Code: "model_3d", Name: "3D модель", Type: constants.AttributeTypeURL}, false},
	}
	for i, seed := range seeds {
		attr := seed.attr
		if err := db.Create(&attr).Error; err != nil {
			t.Fatalf("create attribute %s failed: %v", attr.Code, err)
		}
		binding := models.SubcategoryAttribute{
			SubcategoryID: subcategory.ID,
			AttributeID:   attr.ID,
			IsRequired:    seed.required,
			SortOrder:     i,
		}
		if err := db.Create(&binding).Error; err != nil {
			t.Fatalf("bind attribute %s failed: %v", attr.Code, err)
		}
		attrs[attr.Code] = attr
	}

	cfg := &config.Config{}
	cfg.Media.MinImagesPerProduct = 3
	cfg.Media.MinImageWidth = 800
	cfg.Media.MinImageHeight = 600
	cfg.Media.MaxImageSize = 10 * 1024 * 1024

	prober := &fakeProber{reachable: map[string]bool{}, probes: map[string]*ImageProbe{}}
	productRepo := repository.NewProductRepository(db)
	verificationRepo := repository.NewVerificationRepository(db)
	svc := NewVerificationService(cfg, productRepo, repository.NewSubcategoryRepository(db), verificationRepo, prober)

	return &verifyTestEnv{
		db:               db,
		productRepo:      productRepo,
		verificationRepo: verificationRepo,
		svc:              svc,
		prober:           prober,
		subcategory:      subcategory,
		attrs:            attrs,
	}
}

func (env *verifyTestEnv) createProduct(t *testing.T, sku string, values map[string]string) *models.Product {
	t.Helper()

	product := models.Product{
		SKU:           sku,
		Name:          "Товар " + sku,
		SubcategoryID: env.subcategory.ID,
		Status:        constants.ProductStatusInProgress,
	}
	if err := env.productRepo.Create(&product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	for code, value := range values {
		attr, ok := env.attrs[code]
		if !ok {
			t.Fatalf("unknown attribute code %s", code)
		}
		if err := env.productRepo.UpsertAttributeValue(&models.ProductAttributeValue{
			ProductID:   product.ID,
			AttributeID: attr.ID,
			Value:       value,
		}); err != nil {
			t.Fatalf("set value %s failed: %v", code, err)
		}
	}
	return &product
}

func TestVerifyProduct_CompleteProductApproved(t *testing.T) {
	env := newVerifyTestEnv(t)
	product := env.createProduct(t, "F-001", map[string]string{"width": "120"})

	verification, err := env.svc.VerifyProduct(product.ID, 1)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if verification.CompletenessScore != 100 {
		t.Fatalf("expected completeness 100, got %d", verification.CompletenessScore)
	}
	if verification.QualityScore != 100 {
		t.Fatalf("expected quality 100, got %d", verification.QualityScore)
	}
	if verification.MediaScore != 50 {
		t.Fatalf("expected media 50 without images, got %d", verification.MediaScore)
	}
	if verification.OverallScore != 90 {
		t.Fatalf("expected overall 90, got %d", verification.OverallScore)
	}

	updated, err := env.productRepo.GetByID(product.ID)
	if err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if updated.Status != constants.ProductStatusApproved {
		t.Fatalf("expected approved status, got %s", updated.Status)
	}

	history, err := env.productRepo.ListStatusHistory(product.ID)
	if err != nil {
		t.Fatalf("list history failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(history))
	}
	if history[0].Comment != "Автоматический переход на основе верификации (оценка: 90%)" {
		t.Fatalf("unexpected history comment %q", history[0].Comment)
	}
}

func TestVerifyProduct_BoundaryScoreToReview(t *testing.T) {
	env := newVerifyTestEnv(t)
	// Required width is missing, so completeness is 0 while the single
	// set value keeps quality at 100 and absent images give media 50.
	product := env.createProduct(t, "F-002", map[string]string{"color": "синий"})

	verification, err := env.svc.VerifyProduct(product.ID, 1)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if verification.CompletenessScore != 0 {
		t.Fatalf("expected completeness 0, got %d", verification.CompletenessScore)
	}
	if verification.QualityScore != 100 {
		t.Fatalf("expected quality 100, got %d", verification.QualityScore)
	}
	if verification.MediaScore != 50 {
		t.Fatalf("expected media 50, got %d", verification.MediaScore)
	}
	if verification.OverallScore != 50 {
		t.Fatalf("expected overall exactly 50, got %d", verification.OverallScore)
	}

	updated, err := env.productRepo.GetByID(product.ID)
	if err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if updated.Status != constants.ProductStatusToReview {
		t.Fatalf("expected to_review at the 50 boundary, got %s", updated.Status)
	}

	missingIssue := false
	for _, issue := range verification.Issues {
		if issue.IssueType == constants.IssueMissingRequired &&
			strings.Contains(issue.Message, "Ширина") {
			missingIssue = true
		}
	}
	if !missingIssue {
		t.Fatalf("expected missing required issue for width, issues: %+v", verification.Issues)
	}
}

func TestVerifyProduct_ImageChecksThroughProber(t *testing.T) {
	env := newVerifyTestEnv(t)
	goodURL := "https://cdn.example.com/sofa.jpg"
	product := env.createProduct(t, "F-003", map[string]string{
		"width": "120",
		"photo": goodURL,
	})
	env.prober.reachable[goodURL] = true
	env.prober.probes[goodURL] = &ImageProbe{Width: 1200, Height: 900, Format: "JPEG", FileSize: 1 << 20}

	verification, err := env.svc.VerifyProduct(product.ID, 1)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	// One healthy image out of a recommended three costs 20 points.
	if verification.MediaScore != 80 {
		t.Fatalf("expected media 80, got %d", verification.MediaScore)
	}
	for _, issue := range verification.Issues {
		if issue.IssueType == constants.IssueImageNotAccessible {
			t.Fatalf("unexpected accessibility issue: %+v", issue)
		}
	}
}

func TestVerifyProduct_UnreachableImageZeroesMediaScore(t *testing.T) {
	env := newVerifyTestEnv(t)
	badURL := "https://cdn.example.com/missing.jpg"
	product := env.createProduct(t, "F-004", map[string]string{
		"width": "120",
		"photo": badURL,
	})

	verification, err := env.svc.VerifyProduct(product.ID, 1)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if verification.MediaScore != 0 {
		t.Fatalf("expected media 0 for unreachable image, got %d", verification.MediaScore)
	}
	if verification.OverallScore != 80 {
		t.Fatalf("expected overall 80, got %d", verification.OverallScore)
	}

	found := false
	for _, issue := range verification.Issues {
		if issue.IssueType == constants.IssueImageNotAccessible &&
			strings.Contains(issue.Message, badURL) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected image accessibility issue, issues: %+v", verification.Issues)
	}
}

func TestVerifyProduct_Model3DReachability(t *testing.T) {
	env := newVerifyTestEnv(t)
	modelURL := "https://cdn.example.com/sofa.glb"
	product := env.createProduct(t, "F-005", map[string]string{
		"width":    "120",
		"model_3d": modelURL,
	})

	verification, err := env.svc.VerifyProduct(product.ID, 1)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	// No images drops media to 50, an unreachable model takes 20 more.
	if verification.MediaScore != 30 {
		t.Fatalf("expected media 30, got %d", verification.MediaScore)
	}
	modelAttrID := env.attrs["model_3d"].ID
	found := false
	for _, issue := range verification.Issues {
		if strings.Contains(issue.Message, "3D модель недоступна") {
			if issue.AttributeID == nil || *issue.AttributeID != modelAttrID {
				t.Fatalf("model issue not tied to its attribute: %+v", issue)
			}
			found = true
		}
	}
	if !found {
		t.Fatalf("expected model accessibility issue, issues: %+v", verification.Issues)
	}

	env.prober.reachable[modelURL] = true
	second, err := env.svc.VerifyProduct(product.ID, 1)
	if err != nil {
		t.Fatalf("second verify failed: %v", err)
	}
	if second.MediaScore != 50 {
		t.Fatalf("expected media 50 with reachable model, got %d", second.MediaScore)
	}
}

func TestVerifyProduct_Deterministic(t *testing.T) {
	env := newVerifyTestEnv(t)
	product := env.createProduct(t, "F-006", map[string]string{"width": "120"})

	first, err := env.svc.VerifyProduct(product.ID, 1)
	if err != nil {
		t.Fatalf("first verify failed: %v", err)
	}
	second, err := env.svc.VerifyProduct(product.ID, 1)
	if err != nil {
		t.Fatalf("second verify failed: %v", err)
	}
	if first.OverallScore != second.OverallScore ||
		first.CompletenessScore != second.CompletenessScore ||
		first.QualityScore != second.QualityScore ||
		first.MediaScore != second.MediaScore {
		t.Fatalf("verification not deterministic: %+v vs %+v", first, second)
	}

	runs, err := env.verificationRepo.ListByProduct(product.ID)
	if err != nil {
		t.Fatalf("list verifications failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 stored runs, got %d", len(runs))
	}

	history, err := env.productRepo.ListStatusHistory(product.ID)
	if err != nil {
		t.Fatalf("list history failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected a single transition across identical runs, got %d", len(history))
	}
}

func TestVerifyProduct_ScoresWithinBounds(t *testing.T) {
	env := newVerifyTestEnv(t)
	product := env.createProduct(t, "F-007", map[string]string{
		"width": "не число",
		"photo": "https://cdn.example.com/broken.jpg",
	})

	verification, err := env.svc.VerifyProduct(product.ID, 1)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	for name, score := range map[string]int{
		"completeness": verification.CompletenessScore,
		"quality":      verification.QualityScore,
		"media":        verification.MediaScore,
		"overall":      verification.OverallScore,
	} {
		if score < 0 || score > 100 {
			t.Fatalf("%s score out of bounds: %d", name, score)
		}
	}
}
