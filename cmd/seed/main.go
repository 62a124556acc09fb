package main

import (
	"os"

	"github.com/catalog-next/internal/config"
	"github.com/catalog-next/internal/constants"
	"github.com/catalog-next/internal/logger"
	"github.com/catalog-next/internal/models"
)

type attributeSeed struct {
	attr    models.Attribute
	options []string
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("failed to migrate database: %v", err)
	}

	if err := models.InitDefaultUser(os.Getenv("CN_DEFAULT_ADMIN_USERNAME"), os.Getenv("CN_DEFAULT_ADMIN_PASSWORD")); err != nil {
		stdLog.Printf("failed to seed admin user: %v", err)
	}

	categories := []models.Category{
		{Code: "furniture", Name: "Мебель", SortOrder: 1},
		{Code: "lighting", Name: "Освещение", SortOrder: 2},
		{Code: "decor", Name: "Декор", SortOrder: 3},
	}
	categoryIDs := map[string]uint{}
	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("code = ?", cat.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("failed to create category %s: %v", cat.Code, err)
				continue
			}
			stdLog.Printf("created category: %s", cat.Code)
			categoryIDs[cat.Code] = cat.ID
		} else {
			stdLog.Printf("category already exists: %s", existing.Code)
			categoryIDs[existing.Code] = existing.ID
		}
	}

	subcategories := []models.Subcategory{
		{CategoryID: categoryIDs["furniture"], Code: "sofas", Name: "Диваны", SortOrder: 1},
		{CategoryID: categoryIDs["furniture"], Code: "tables", Name: "Столы", SortOrder: 2},
		{CategoryID: categoryIDs["furniture"], Code: "chairs", Name: "Стулья", SortOrder: 3},
		{CategoryID: categoryIDs["lighting"], Code: "floor-lamps", Name: "Торшеры", SortOrder: 1},
	}
	subcategoryIDs := map[string]uint{}
	for _, sub := range subcategories {
		if sub.CategoryID == 0 {
			continue
		}
		var existing models.Subcategory
		if err := models.DB.Where("category_id = ? AND code = ?", sub.CategoryID, sub.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&sub).Error; err != nil {
				stdLog.Printf("failed to create subcategory %s: %v", sub.Code, err)
				continue
			}
			stdLog.Printf("created subcategory: %s", sub.Code)
			subcategoryIDs[sub.Code] = sub.ID
		} else {
			stdLog.Printf("subcategory already exists: %s", existing.Code)
			subcategoryIDs[existing.Code] = existing.ID
		}
	}

	attributes := []attributeSeed{
		{attr: models.Attribute{
			Code: "sku", Name: "Артикул", Type: constants.AttributeTypeText,
			IsUnique:        true,
			ValidationRules: models.JSON{"min_length": 2, "max_length": 64},
		}},
		{attr: models.Attribute{
			Code: "manufacturer_sku", Name: "Артикул производителя", Type: constants.AttributeTypeText,
			IsUnique: true,
		}},
		{attr: models.Attribute{
			Code: "width", Name: "Ширина", Type: constants.AttributeTypeNumber, Unit: "см",
			ValidationRules: models.JSON{"min": 1, "max": 1000},
		}},
		{attr: models.Attribute{
			Code: "height", Name: "Высота", Type: constants.AttributeTypeNumber, Unit: "см",
			ValidationRules: models.JSON{"min": 1, "max": 1000},
		}},
		{attr: models.Attribute{
			Code: "depth", Name: "Глубина", Type: constants.AttributeTypeNumber, Unit: "см",
			ValidationRules: models.JSON{"min": 1, "max": 1000},
		}},
		{attr: models.Attribute{
			Code: "weight", Name: "Вес", Type: constants.AttributeTypeNumber, Unit: "кг",
			ValidationRules: models.JSON{"min": 0.1},
		}},
		{attr: models.Attribute{
			Code: "material", Name: "Материал", Type: constants.AttributeTypeSelect,
		}, options: []string{"Дерево", "Металл", "Стекло", "Ткань", "Кожа", "Пластик"}},
		{attr: models.Attribute{
			Code: "color", Name: "Цвет", Type: constants.AttributeTypeText,
		}},
		{attr: models.Attribute{
			Code: "warranty_months", Name: "Гарантия", Type: constants.AttributeTypeNumber, Unit: "мес",
			ValidationRules: models.JSON{"min": 0, "max": 120},
		}},
		{attr: models.Attribute{
			Code: "release_date", Name: "Дата выпуска", Type: constants.AttributeTypeDate,
		}},
		{attr: models.Attribute{
			Code: "foldable", Name: "Раскладной", Type: constants.AttributeTypeBoolean,
		}},
		{attr: models.Attribute{
			Code: "photo", Name: "Фото", Type: constants.AttributeTypeImage,
		}},
		{attr: models.Attribute{
			Code: "model_3d", Name: "3D модель", Type: constants.AttributeTypeURL,
		}},
	}
	attributeIDs := map[string]uint{}
	for _, seed := range attributes {
		attr := seed.attr
		var existing models.Attribute
		if err := models.DB.Where("code = ?", attr.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&attr).Error; err != nil {
				stdLog.Printf("failed to create attribute %s: %v", attr.Code, err)
				continue
			}
			stdLog.Printf("created attribute: %s", attr.Code)
			attributeIDs[attr.Code] = attr.ID
		} else {
			stdLog.Printf("attribute already exists: %s", existing.Code)
			attributeIDs[existing.Code] = existing.ID
			continue
		}
		for i, value := range seed.options {
			option := models.AttributeOption{
				AttributeID: attr.ID,
				Value:       value,
				SortOrder:   i,
			}
			if err := models.DB.Create(&option).Error; err != nil {
				stdLog.Printf("failed to create option %s for %s: %v", value, attr.Code, err)
			}
		}
	}

	type binding struct {
		subcategory string
		attribute   string
		required    bool
	}
	bindings := []binding{
		{"sofas", "sku", true},
		{"sofas", "manufacturer_sku", false},
		{"sofas", "width", true},
		{"sofas", "height", true},
		{"sofas", "depth", true},
		{"sofas", "material", true},
		{"sofas", "color", false},
		{"sofas", "foldable", false},
		{"sofas", "photo", true},
		{"sofas", "model_3d", false},
		{"tables", "sku", true},
		{"tables", "width", true},
		{"tables", "height", true},
		{"tables", "material", true},
		{"tables", "photo", true},
		{"chairs", "sku", true},
		{"chairs", "height", true},
		{"chairs", "weight", false},
		{"chairs", "material", true},
		{"chairs", "photo", true},
		{"floor-lamps", "sku", true},
		{"floor-lamps", "height", true},
		{"floor-lamps", "color", false},
		{"floor-lamps", "photo", true},
	}
	for i, b := range bindings {
		subID := subcategoryIDs[b.subcategory]
		attrID := attributeIDs[b.attribute]
		if subID == 0 || attrID == 0 {
			continue
		}
		var existing models.SubcategoryAttribute
		if err := models.DB.Where("subcategory_id = ? AND attribute_id = ?", subID, attrID).First(&existing).Error; err == nil {
			continue
		}
		record := models.SubcategoryAttribute{
			SubcategoryID: subID,
			AttributeID:   attrID,
			IsRequired:    b.required,
			SortOrder:     i,
		}
		if err := models.DB.Create(&record).Error; err != nil {
			stdLog.Printf("failed to bind %s to %s: %v", b.attribute, b.subcategory, err)
		}
	}

	stdLog.Printf("seed finished")
}
