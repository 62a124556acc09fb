package service

import (
	"context"
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

func newAttributeImportEnv(t *testing.T) (*AttributeImportService, repository.AttributeRepository) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Attribute{}, &models.AttributeOption{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.Import.MappingSessionTTLMins = 30
	attrRepo := repository.NewAttributeRepository(db)
	return NewAttributeImportService(cfg, attrRepo), attrRepo
}

func TestAttributeImportClipboard_CreatesDefinitions(t *testing.T) {
	svc, attrRepo := newAttributeImportEnv(t)

	text := "Название\tТип\tЕдиница\n" +
		"Ширина\tчисло\tсм\n" +
		"Материал\tвыбор\t\n"
	result, err := svc.ImportClipboard(text)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if result.Imported != 2 {
		t.Fatalf("expected 2 imported, got %d (errors: %v)", result.Imported, result.Errors)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", result.Errors)
	}

	width, err := attrRepo.GetByName("Ширина")
	if err != nil {
		t.Fatalf("get attribute failed: %v", err)
	}
	if width == nil {
		t.Fatalf("attribute not created")
	}
	if width.Type != constants.AttributeTypeNumber {
		t.Fatalf("expected number type, got %s", width.Type)
	}
	if width.Unit != "см" {
		t.Fatalf("expected unit см, got %q", width.Unit)
	}
	if width.Code == "" {
		t.Fatalf("expected generated code for attribute without code column")
	}
}

func TestAttributeImportClipboard_RowErrors(t *testing.T) {
	svc, _ := newAttributeImportEnv(t)

	text := "Название\tТип\n" +
		"Цвет\t\n" +
		"\tтекст\n" +
		"Вес\tтонны\n"
	result, err := svc.ImportClipboard(text)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if result.Imported != 0 {
		t.Fatalf("expected 0 imported, got %d", result.Imported)
	}
	if len(result.Errors) != 3 {
		t.Fatalf("expected 3 errors, got %v", result.Errors)
	}
	if result.Errors[0] != "Строка 2: Отсутствует тип атрибута" {
		t.Fatalf("unexpected first error: %q", result.Errors[0])
	}
	if result.Errors[1] != "Строка 3: Отсутствует название атрибута" {
		t.Fatalf("unexpected second error: %q", result.Errors[1])
	}
	if !strings.Contains(result.Errors[2], "Неверный тип атрибута: тонны") {
		t.Fatalf("unexpected third error: %q", result.Errors[2])
	}
}

func TestAttributeImportClipboard_UpdatesByCode(t *testing.T) {
	svc, attrRepo := newAttributeImportEnv(t)

	existing := models.Attribute{Code: "width", Name: "Ширина", Type: constants.AttributeTypeText}
	if err := attrRepo.Create(&existing); err != nil {
		t.Fatalf("seed attribute failed: %v", err)
	}

	text := "Код\tНазвание\tТип\tЕдиница\n" +
		"width\tШирина\tчисло\tсм\n"
	result, err := svc.ImportClipboard(text)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if result.Updated != 1 || result.Imported != 0 {
		t.Fatalf("expected update, got imported=%d updated=%d", result.Imported, result.Updated)
	}

	reloaded, err := attrRepo.GetByCode("width")
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Type != constants.AttributeTypeNumber || reloaded.Unit != "см" {
		t.Fatalf("attribute not updated: %+v", reloaded)
	}
}

func TestMappingPreviewConfirmFlow(t *testing.T) {
	svc, attrRepo := newAttributeImportEnv(t)
	ctx := context.Background()

	existing := models.Attribute{Code: "material", Name: "Материал", Type: constants.AttributeTypeSelect}
	if err := attrRepo.Create(&existing); err != nil {
		t.Fatalf("seed attribute failed: %v", err)
	}

	session, err := svc.PreviewClipboard(ctx, "Высота\tМатериал\n180\tДерево\n")
	if err != nil {
		t.Fatalf("preview failed: %v", err)
	}
	if session.ID == "" {
		t.Fatalf("session id empty")
	}
	if len(session.Columns) != 2 || session.TotalRows != 1 {
		t.Fatalf("unexpected session shape: %+v", session)
	}
	suggestion, ok := session.Suggestions["Материал"]
	if !ok {
		t.Fatalf("expected suggestion for existing attribute, got %+v", session.Suggestions)
	}
	if suggestion.IsNew || suggestion.AttributeCode != "material" || suggestion.MatchScore != 1.0 {
		t.Fatalf("expected exact match to material, got %+v", suggestion)
	}

	loaded, err := svc.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("get session failed: %v", err)
	}
	if loaded.ID != session.ID {
		t.Fatalf("session id mismatch: %s vs %s", loaded.ID, session.ID)
	}

	result, err := svc.ConfirmMapping(ctx, session.ID, []MappingEntry{
		{Column: "Высота", Name: "Высота", Type: "число", Unit: "см"},
		{Column: "Материал", Skip: true},
	})
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if result.Imported != 1 {
		t.Fatalf("expected 1 imported, got %d (errors: %v)", result.Imported, result.Errors)
	}

	created, err := attrRepo.GetByName("Высота")
	if err != nil {
		t.Fatalf("get created attribute failed: %v", err)
	}
	if created == nil || created.Type != constants.AttributeTypeNumber || created.Unit != "см" {
		t.Fatalf("confirmed attribute wrong: %+v", created)
	}

	// The session is consumed by confirmation.
	if _, err := svc.GetSession(ctx, session.ID); err != ErrMappingSessionNotFound {
		t.Fatalf("expected consumed session, got %v", err)
	}
}

func TestValidateMapping(t *testing.T) {
	svc, _ := newAttributeImportEnv(t)

	session := &MappingSession{Columns: []string{"Высота", "Ширина"}}
	issues := svc.ValidateMapping(session, []MappingEntry{
		{Column: "Глубина", Name: "Глубина"},
		{Column: "Высота"},
		{Column: "Ширина", Name: "Ширина", Type: "метры"},
	})
	if len(issues) != 3 {
		t.Fatalf("expected 3 issues, got %+v", issues)
	}
	if !strings.Contains(issues[0].Message, "отсутствует в данных") {
		t.Fatalf("unexpected unknown column issue: %+v", issues[0])
	}
	if issues[1].Message != "Не указано название атрибута" {
		t.Fatalf("unexpected missing name issue: %+v", issues[1])
	}
	if !strings.Contains(issues[2].Message, "Неверный тип атрибута") {
		t.Fatalf("unexpected type issue: %+v", issues[2])
	}
}

func TestConfirmMapping_UnknownSession(t *testing.T) {
	svc, _ := newAttributeImportEnv(t)

	if _, err := svc.ConfirmMapping(context.Background(), "missing", nil); err != ErrMappingSessionNotFound {
		t.Fatalf("expected ErrMappingSessionNotFound, got %v", err)
	}
}
