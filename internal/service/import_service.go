package service

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/catalog-next/internal/config"
	"github.com/catalog-next/internal/constants"
	"github.com/catalog-next/internal/logger"
	"github.com/catalog-next/internal/models"
	"github.com/catalog-next/internal/queue"
	"github.com/catalog-next/internal/repository"
	"github.com/catalog-next/internal/tabular"
)

// skuColumnHints mark columns holding the product SKU when no explicit
// mapping points at one.
var skuColumnHints = []string{"sku", "артикул", "код"}

var nameColumnHints = []string{"name", "название", "title"}

// manufacturerSKUCodes are the attribute codes treated as a supplier-side
// article number for duplicate detection.
var manufacturerSKUCodes = []string{
	"manufacturer_sku", "manufacturer_code", "manufacturer_article",
	"производитель_артикул", "артикул_производителя",
}

// ImportService turns parsed supplier tables into products.
type ImportService struct {
	cfg         *config.Config
	productRepo repository.ProductRepository
	subcatRepo  repository.SubcategoryRepository
	attrRepo    repository.AttributeRepository
	batchRepo   repository.ImportBatchRepository
	media       *MediaService
	verifier    *VerificationService
	queueClient *queue.Client
}

// NewImportService creates the product import service.
func NewImportService(
	cfg *config.Config,
	productRepo repository.ProductRepository,
	subcatRepo repository.SubcategoryRepository,
	attrRepo repository.AttributeRepository,
	batchRepo repository.ImportBatchRepository,
	media *MediaService,
	verifier *VerificationService,
	queueClient *queue.Client,
) *ImportService {
	return &ImportService{
		cfg:         cfg,
		productRepo: productRepo,
		subcatRepo:  subcatRepo,
		attrRepo:    attrRepo,
		batchRepo:   batchRepo,
		media:       media,
		verifier:    verifier,
		queueClient: queueClient,
	}
}

// ImportInput describes one import request.
type ImportInput struct {
	SubcategoryID uint
	FilePath      string
	FileName      string
	ClipboardText string
	UserID        uint
	AutoVerify    bool
}

// ImportResult summarizes an import batch.
type ImportResult struct {
	BatchID   uint             `json:"batch_id"`
	Imported  int              `json:"imported"`
	TotalRows int              `json:"total_rows"`
	Errors    []string         `json:"errors"`
	Warnings  []string         `json:"warnings"`
	Products  []models.Product `json:"products"`
}

// ImportFile imports products from an uploaded file.
func (s *ImportService) ImportFile(input ImportInput) (*ImportResult, error) {
	table, err := tabular.ParseFile(input.FilePath)
	if err != nil {
		return nil, err
	}
	return s.importTable(table, input, constants.ImportSourceFile)
}

// ImportClipboard imports products from pasted spreadsheet text.
func (s *ImportService) ImportClipboard(input ImportInput) (*ImportResult, error) {
	table, err := tabular.ParseClipboard(input.ClipboardText)
	if err != nil {
		return nil, err
	}
	return s.importTable(table, input, constants.ImportSourceClipboard)
}

func (s *ImportService) importTable(table *tabular.Table, input ImportInput, source string) (*ImportResult, error) {
	subcategory, err := s.subcatRepo.GetByID(input.SubcategoryID)
	if err != nil {
		return nil, err
	}
	if subcategory == nil {
		return nil, ErrNotFound
	}

	batch := models.ImportBatch{
		Source:        source,
		FileName:      input.FileName,
		SubcategoryID: input.SubcategoryID,
		TotalRows:     table.TotalRows,
		CreatedByID:   input.UserID,
	}
	if err := s.batchRepo.Create(&batch); err != nil {
		return nil, err
	}

	result := &ImportResult{
		BatchID:   batch.ID,
		TotalRows: table.TotalRows,
		Errors:    []string{},
		Warnings:  []string{},
		Products:  []models.Product{},
	}
	if table.TotalRows == 0 {
		result.Errors = append(result.Errors, ErrEmptyData.Error())
		return result, s.finishBatch(&batch, result)
	}

	schema, err := s.subcatRepo.Schema(input.SubcategoryID)
	if err != nil {
		return nil, err
	}
	reference := make(map[string]models.SubcategoryAttribute, len(schema))
	codes := make([]string, 0, len(schema))
	for _, binding := range schema {
		reference[binding.Attribute.Code] = binding
		codes = append(codes, binding.Attribute.Code)
	}
	columnMapping := autoMapFields(table.Columns, codes)

	productRows := map[uint]int{}
	err = s.productRepo.Transaction(func(tx *gorm.DB) error {
		txProducts := s.productRepo.WithTx(tx)
		for i, row := range table.Rows {
			rowNum := i + 2
			product, rowErr := s.createProductFromRow(txProducts, table.Columns, row, batch.ID, input, columnMapping, reference)
			if rowErr != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("Строка %d: %s", rowNum, rowErr.Error()))
				continue
			}
			result.Products = append(result.Products, *product)
			result.Imported++
			productRows[product.ID] = rowNum
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i := range result.Products {
		product := &result.Products[i]
		rowNum := productRows[product.ID]
		s.acquireMedia(product.ID, rowNum, result)
		if input.AutoVerify && s.verifier != nil {
			if _, verifyErr := s.verifier.VerifyProduct(product.ID, input.UserID); verifyErr != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("Строка %d: Ошибка верификации - %s", rowNum, verifyErr.Error()))
			}
		}
	}

	logger.Infow("import_batch_finished",
		"batch_id", batch.ID,
		"subcategory_id", input.SubcategoryID,
		"imported", result.Imported,
		"total_rows", result.TotalRows,
		"errors", len(result.Errors),
	)
	return result, s.finishBatch(&batch, result)
}

func (s *ImportService) finishBatch(batch *models.ImportBatch, result *ImportResult) error {
	batch.ImportedCount = result.Imported
	batch.ErrorCount = len(result.Errors)
	batch.Errors = models.StringArray(result.Errors)
	batch.Warnings = models.StringArray(result.Warnings)
	return s.batchRepo.Update(batch)
}

// acquireMedia defers to the queue when it is enabled, otherwise
// downloads inline and reports outcomes as row warnings.
func (s *ImportService) acquireMedia(productID uint, rowNum int, result *ImportResult) {
	if s.queueClient.Enabled() {
		if err := s.queueClient.EnqueueMediaFetch(queue.MediaFetchPayload{ProductID: productID}); err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Строка %d: Ошибка при скачивании медиа-файлов - %s", rowNum, err.Error()))
		}
		return
	}
	if s.media == nil {
		return
	}
	stats, err := s.media.ProcessProductMedia(productID)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Строка %d: Ошибка при скачивании медиа-файлов - %s", rowNum, err.Error()))
		return
	}
	if stats.ImagesDownloaded > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Строка %d: Скачано изображений: %d", rowNum, stats.ImagesDownloaded))
	}
	if stats.ModelsDownloaded > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Строка %d: Скачано 3D моделей: %d", rowNum, stats.ModelsDownloaded))
	}
	for _, mediaErr := range stats.Errors {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Строка %d: %s", rowNum, mediaErr))
	}
}

// createProductFromRow builds one product with its attribute values. The
// returned error carries a user facing Russian message without the row
// prefix.
func (s *ImportService) createProductFromRow(
	products repository.ProductRepository,
	columns []string,
	row tabular.Row,
	batchID uint,
	input ImportInput,
	columnMapping map[string]string,
	reference map[string]models.SubcategoryAttribute,
) (*models.Product, error) {
	sku := mappedValue(columns, row, columnMapping, "sku")
	if sku == "" {
		for i, col := range columns {
			if i >= len(row) || strings.TrimSpace(row[i]) == "" {
				continue
			}
			if containsAny(strings.ToLower(col), skuColumnHints) {
				sku = strings.TrimSpace(row[i])
				break
			}
		}
	}
	if sku == "" {
		return nil, fmt.Errorf("Не найден артикул (SKU) товара")
	}

	count, err := products.CountBySKU(sku, nil)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("Товар с артикулом %s уже существует", sku)
	}

	if err := s.checkManufacturerSKU(products, columns, row, columnMapping); err != nil {
		return nil, err
	}

	name := mappedValue(columns, row, columnMapping, "name")
	if name == "" {
		for i, col := range columns {
			if i >= len(row) || strings.TrimSpace(row[i]) == "" {
				continue
			}
			if containsAny(strings.ToLower(col), nameColumnHints) {
				name = strings.TrimSpace(row[i])
				break
			}
		}
	}
	if name == "" {
		name = fmt.Sprintf("Товар %s", sku)
	}

	batchRef := batchID
	product := models.Product{
		SKU:           sku,
		Name:          name,
		SubcategoryID: input.SubcategoryID,
		Status:        constants.ProductStatusDraft,
		ImportBatchID: &batchRef,
		CreatedByID:   input.UserID,
	}
	if err := products.Create(&product); err != nil {
		return nil, err
	}

	if err := products.AddStatusHistory(&models.ProductStatusHistory{
		ProductID:   product.ID,
		OldStatus:   constants.ProductStatusDraft,
		NewStatus:   constants.ProductStatusInProgress,
		ChangedByID: input.UserID,
		Comment:     "Автоматический переход при импорте",
		ChangedAt:   time.Now(),
	}); err != nil {
		return nil, err
	}
	product.Status = constants.ProductStatusInProgress
	if err := products.Update(&product); err != nil {
		return nil, err
	}

	for i, col := range columns {
		if i >= len(row) {
			continue
		}
		value := strings.TrimSpace(row[i])
		if value == "" {
			continue
		}
		attrCode, ok := columnMapping[col]
		if !ok {
			continue
		}
		binding, ok := reference[attrCode]
		if !ok {
			continue
		}
		if !validateAttributeType(&binding.Attribute, value) {
			continue
		}
		if err := products.UpsertAttributeValue(&models.ProductAttributeValue{
			ProductID:   product.ID,
			AttributeID: binding.AttributeID,
			Value:       value,
		}); err != nil {
			return nil, err
		}
	}

	return &product, nil
}

// checkManufacturerSKU rejects rows whose supplier article number already
// belongs to another product.
func (s *ImportService) checkManufacturerSKU(
	products repository.ProductRepository,
	columns []string,
	row tabular.Row,
	columnMapping map[string]string,
) error {
	manufacturerSKU := ""
	for i, col := range columns {
		if i >= len(row) || strings.TrimSpace(row[i]) == "" {
			continue
		}
		code := columnMapping[col]
		for _, known := range manufacturerSKUCodes {
			if code == known {
				manufacturerSKU = strings.TrimSpace(row[i])
				break
			}
		}
		if manufacturerSKU != "" {
			break
		}
	}
	if manufacturerSKU == "" {
		for i, col := range columns {
			if i >= len(row) || strings.TrimSpace(row[i]) == "" {
				continue
			}
			lowered := strings.ToLower(col)
			if containsAny(lowered, []string{"manufacturer", "производитель"}) &&
				containsAny(lowered, []string{"sku", "code", "article", "артикул"}) {
				manufacturerSKU = strings.TrimSpace(row[i])
				break
			}
		}
	}
	if manufacturerSKU == "" {
		return nil
	}

	attr, err := s.findManufacturerAttribute()
	if err != nil || attr == nil {
		return err
	}
	owner, err := products.FindValueOwner(attr.ID, manufacturerSKU, 0)
	if err != nil {
		return err
	}
	if owner != nil {
		return fmt.Errorf("Товар с артикулом производителя %s уже существует (товар ID: %d)", manufacturerSKU, owner.ProductID)
	}
	return nil
}

func (s *ImportService) findManufacturerAttribute() (*models.Attribute, error) {
	if s.attrRepo == nil {
		return nil, nil
	}
	for _, code := range []string{"manufacturer_sku", "manufacturer_code", "manufacturer_article"} {
		attr, err := s.attrRepo.GetByCode(code)
		if err != nil {
			return nil, err
		}
		if attr != nil {
			return attr, nil
		}
	}
	return nil, nil
}

// autoMapFields binds supplier columns to schema attribute codes: well
// known core fields first, then exact normalized matches, then substring
// matches.
func autoMapFields(columns []string, attributeCodes []string) map[string]string {
	mapping := map[string]string{}

	normalizedColumns := make(map[string]string, len(columns))
	columnOrder := make([]string, 0, len(columns))
	for _, col := range columns {
		norm := strings.ToLower(strings.TrimSpace(col))
		if _, seen := normalizedColumns[norm]; !seen {
			columnOrder = append(columnOrder, norm)
		}
		normalizedColumns[norm] = col
	}
	normalizedAttrs := make(map[string]string, len(attributeCodes))
	attrOrder := make([]string, 0, len(attributeCodes))
	for _, code := range attributeCodes {
		norm := strings.ToLower(strings.TrimSpace(code))
		normalizedAttrs[norm] = code
		attrOrder = append(attrOrder, norm)
	}

	specialMappings := []struct {
		code  string
		names []string
	}{
		{"sku", []string{"sku", "артикул", "article", "код", "code"}},
		{"name", []string{"name", "название", "title", "наименование"}},
		{"description", []string{"description", "описание", "desc"}},
	}
	for _, special := range specialMappings {
		if _, ok := normalizedAttrs[special.code]; !ok {
			continue
		}
		for _, candidate := range special.names {
			if original, ok := normalizedColumns[candidate]; ok {
				mapping[original] = special.code
				break
			}
		}
	}

	for _, normCol := range columnOrder {
		original := normalizedColumns[normCol]
		if _, done := mapping[original]; done {
			continue
		}
		if code, ok := normalizedAttrs[normCol]; ok {
			mapping[original] = code
		}
	}

	for _, normCol := range columnOrder {
		original := normalizedColumns[normCol]
		if _, done := mapping[original]; done {
			continue
		}
		for _, normAttr := range attrOrder {
			if strings.Contains(normCol, normAttr) || strings.Contains(normAttr, normCol) {
				mapping[original] = normalizedAttrs[normAttr]
				break
			}
		}
	}
	return mapping
}

func mappedValue(columns []string, row tabular.Row, columnMapping map[string]string, code string) string {
	for i, col := range columns {
		if columnMapping[col] != code {
			continue
		}
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
	}
	return ""
}

func containsAny(s string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}
