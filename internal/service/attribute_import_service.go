package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/catalog-next/internal/cache"
	"github.com/catalog-next/internal/config"
	"github.com/catalog-next/internal/constants"
	"github.com/catalog-next/internal/logger"
	"github.com/catalog-next/internal/mapper"
	"github.com/catalog-next/internal/models"
	"github.com/catalog-next/internal/repository"
	"github.com/catalog-next/internal/tabular"
)

// attributeFieldAliases maps registry fields to accepted column names.
var attributeFieldAliases = map[string][]string{
	"code":        {"code", "код"},
	"name":        {"name", "название", "наименование"},
	"type":        {"type", "тип"},
	"description": {"description", "описание"},
	"unit":        {"unit", "единица", "единица измерения", "ед. изм."},
	"is_unique":   {"is_unique", "unique", "уникальный"},
}

// attributeTypeAliases maps accepted type spellings to canonical types.
var attributeTypeAliases = map[string]string{
	"text":        constants.AttributeTypeText,
	"текст":       constants.AttributeTypeText,
	"number":      constants.AttributeTypeNumber,
	"число":       constants.AttributeTypeNumber,
	"date":        constants.AttributeTypeDate,
	"дата":        constants.AttributeTypeDate,
	"boolean":     constants.AttributeTypeBoolean,
	"булево":      constants.AttributeTypeBoolean,
	"url":         constants.AttributeTypeURL,
	"image":       constants.AttributeTypeImage,
	"изображение": constants.AttributeTypeImage,
	"select":      constants.AttributeTypeSelect,
	"выбор":       constants.AttributeTypeSelect,
}

var truthyCellTokens = map[string]struct{}{
	"true": {}, "1": {}, "yes": {}, "да": {},
}

// AttributeImportResult summarizes one registry import.
type AttributeImportResult struct {
	Imported int      `json:"imported"`
	Updated  int      `json:"updated"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// MappingSession is a parsed clipboard preview waiting for the
// operator's confirmation.
type MappingSession struct {
	ID          string                       `json:"id"`
	Columns     []string                     `json:"columns"`
	Rows        []tabular.Row                `json:"rows"`
	TotalRows   int                          `json:"total_rows"`
	Suggestions map[string]mapper.Suggestion `json:"suggestions"`
	CreatedAt   time.Time                    `json:"created_at"`
}

// MappingEntry is one confirmed column mapping. Skip drops the column.
type MappingEntry struct {
	Column   string `json:"column"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Unit     string `json:"unit"`
	IsUnique bool   `json:"is_unique"`
	Skip     bool   `json:"skip"`
}

// MappingIssue is one problem found while validating a mapping.
type MappingIssue struct {
	Column  string `json:"column"`
	Message string `json:"message"`
	Warning bool   `json:"warning"`
}

// AttributeImportService bulk-loads attribute definitions from tabular
// data and drives the clipboard preview flow.
type AttributeImportService struct {
	cfg      *config.Config
	attrRepo repository.AttributeRepository
}

// NewAttributeImportService creates the registry import service.
func NewAttributeImportService(cfg *config.Config, attrRepo repository.AttributeRepository) *AttributeImportService {
	return &AttributeImportService{cfg: cfg, attrRepo: attrRepo}
}

// ImportFile imports attribute definitions from an uploaded file.
func (s *AttributeImportService) ImportFile(path string) (*AttributeImportResult, error) {
	table, err := tabular.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return s.ImportTable(table)
}

// ImportClipboard imports attribute definitions from pasted text.
func (s *AttributeImportService) ImportClipboard(text string) (*AttributeImportResult, error) {
	table, err := tabular.ParseClipboard(text)
	if err != nil {
		return nil, err
	}
	return s.ImportTable(table)
}

// ImportTable imports attribute definitions row by row. One bad row is
// reported and skipped, the rest proceed.
func (s *AttributeImportService) ImportTable(table *tabular.Table) (*AttributeImportResult, error) {
	if table == nil || len(table.Rows) == 0 {
		return nil, ErrEmptyData
	}

	fields := mapAttributeColumns(table.Columns)
	result := &AttributeImportResult{Errors: []string{}, Warnings: []string{}}

	for i, row := range table.Rows {
		rowNum := i + 2
		if err := s.importDefinitionRow(fields, row, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Строка %d: %s", rowNum, err.Error()))
		}
	}

	logger.Infow("attribute_import_finished",
		"imported", result.Imported,
		"updated", result.Updated,
		"errors", len(result.Errors),
	)
	return result, nil
}

func (s *AttributeImportService) importDefinitionRow(fields map[string]int, row tabular.Row, result *AttributeImportResult) error {
	cell := func(field string) string {
		idx, ok := fields[field]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	name := cell("name")
	if name == "" {
		return fmt.Errorf("Отсутствует название атрибута")
	}
	rawType := cell("type")
	if rawType == "" {
		return fmt.Errorf("Отсутствует тип атрибута")
	}
	attrType, ok := attributeTypeAliases[strings.ToLower(rawType)]
	if !ok {
		return fmt.Errorf("Неверный тип атрибута: %s", rawType)
	}

	code := cell("code")
	if code == "" {
		code = mapper.GenerateCode(name)
	}
	description := cell("description")
	unit := cell("unit")
	isUnique := truthyCell(cell("is_unique"))

	existing, err := s.attrRepo.GetByCode(code)
	if err != nil {
		return err
	}
	byName, err := s.attrRepo.GetByName(name)
	if err != nil {
		return err
	}

	if existing != nil {
		if byName != nil && byName.ID != existing.ID {
			return fmt.Errorf("Атрибут с названием '%s' уже существует", name)
		}
		existing.Name = name
		existing.Type = attrType
		existing.Description = description
		existing.Unit = unit
		existing.IsUnique = isUnique
		if err := s.attrRepo.Update(existing); err != nil {
			return err
		}
		result.Updated++
		return nil
	}

	if byName != nil {
		return fmt.Errorf("Атрибут с названием '%s' уже существует", name)
	}
	attr := models.Attribute{
		Code:        code,
		Name:        name,
		Type:        attrType,
		Description: description,
		Unit:        unit,
		IsUnique:    isUnique,
	}
	if err := s.attrRepo.Create(&attr); err != nil {
		return err
	}
	result.Imported++
	return nil
}

// PreviewClipboard parses pasted text, matches its columns against the
// registry and stores the result as a short-lived mapping session.
func (s *AttributeImportService) PreviewClipboard(ctx context.Context, text string) (*MappingSession, error) {
	table, err := tabular.ParseClipboard(text)
	if err != nil {
		return nil, err
	}

	attrs, err := s.attrRepo.ListAll()
	if err != nil {
		return nil, err
	}
	refs := make([]mapper.AttributeRef, 0, len(attrs))
	for _, attr := range attrs {
		refs = append(refs, mapper.AttributeRef{
			Code: attr.Code,
			Name: attr.Name,
			Type: attr.Type,
			Unit: attr.Unit,
		})
	}

	session := &MappingSession{
		ID:          uuid.NewString(),
		Columns:     table.Columns,
		Rows:        table.Rows,
		TotalRows:   table.TotalRows,
		Suggestions: mapper.Suggest(table.Columns, refs),
		CreatedAt:   time.Now(),
	}
	if err := cache.SaveMappingSession(ctx, session.ID, session, s.sessionTTL()); err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession loads a mapping session by id.
func (s *AttributeImportService) GetSession(ctx context.Context, id string) (*MappingSession, error) {
	var session MappingSession
	hit, err := cache.GetMappingSession(ctx, id, &session)
	if err != nil {
		return nil, err
	}
	if !hit {
		return nil, ErrMappingSessionNotFound
	}
	return &session, nil
}

// ValidateMapping checks a confirmed mapping against the session and
// the registry without writing anything.
func (s *AttributeImportService) ValidateMapping(session *MappingSession, mapping []MappingEntry) []MappingIssue {
	issues := []MappingIssue{}
	known := map[string]struct{}{}
	for _, column := range session.Columns {
		known[column] = struct{}{}
	}

	seenCodes := map[string]string{}
	for _, entry := range mapping {
		if entry.Skip {
			continue
		}
		if _, ok := known[entry.Column]; !ok {
			issues = append(issues, MappingIssue{
				Column:  entry.Column,
				Message: fmt.Sprintf("Колонка %q отсутствует в данных", entry.Column),
			})
			continue
		}
		name := strings.TrimSpace(entry.Name)
		if name == "" && strings.TrimSpace(entry.Code) == "" {
			issues = append(issues, MappingIssue{
				Column:  entry.Column,
				Message: "Не указано название атрибута",
			})
			continue
		}
		if entry.Type != "" {
			if _, ok := attributeTypeAliases[strings.ToLower(entry.Type)]; !ok {
				issues = append(issues, MappingIssue{
					Column:  entry.Column,
					Message: fmt.Sprintf("Неверный тип атрибута: %s", entry.Type),
				})
				continue
			}
		}

		code := strings.TrimSpace(entry.Code)
		if code == "" {
			code = mapper.GenerateCode(name)
		}
		if owner, dup := seenCodes[code]; dup {
			issues = append(issues, MappingIssue{
				Column:  entry.Column,
				Message: fmt.Sprintf("Дублирующийся код атрибута %q (уже занят колонкой %q)", code, owner),
			})
			continue
		}
		seenCodes[code] = entry.Column

		attr, err := s.attrRepo.GetByCode(code)
		if err != nil {
			continue
		}
		if attr != nil {
			check := mapper.ValidateUnit(strings.TrimSpace(entry.Unit), attr.Unit)
			if check != nil && check.Warning {
				issues = append(issues, MappingIssue{
					Column:  entry.Column,
					Message: check.Message,
					Warning: true,
				})
			}
		}
	}
	return issues
}

// ConfirmMapping applies a confirmed mapping: creates missing
// attributes and updates matched ones. The session is consumed.
func (s *AttributeImportService) ConfirmMapping(ctx context.Context, sessionID string, mapping []MappingEntry) (*AttributeImportResult, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	issues := s.ValidateMapping(session, mapping)
	result := &AttributeImportResult{Errors: []string{}, Warnings: []string{}}
	blocked := map[string]struct{}{}
	for _, issue := range issues {
		if issue.Warning {
			result.Warnings = append(result.Warnings, issue.Message)
			continue
		}
		result.Errors = append(result.Errors, issue.Message)
		blocked[issue.Column] = struct{}{}
	}

	for _, entry := range mapping {
		if entry.Skip {
			continue
		}
		if _, bad := blocked[entry.Column]; bad {
			continue
		}
		if err := s.confirmEntry(entry, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Колонка %q: %s", entry.Column, err.Error()))
		}
	}

	if err := cache.DeleteMappingSession(ctx, sessionID); err != nil {
		logger.Warnw("mapping_session_delete_failed", "session_id", sessionID, "error", err.Error())
	}
	return result, nil
}

func (s *AttributeImportService) confirmEntry(entry MappingEntry, result *AttributeImportResult) error {
	name := strings.TrimSpace(entry.Name)
	if name == "" {
		name = strings.TrimSpace(entry.Column)
	}
	code := strings.TrimSpace(entry.Code)
	if code == "" {
		code = mapper.GenerateCode(name)
	}
	attrType := constants.AttributeTypeText
	if entry.Type != "" {
		attrType = attributeTypeAliases[strings.ToLower(entry.Type)]
	}

	existing, err := s.attrRepo.GetByCode(code)
	if err != nil {
		return err
	}
	if existing != nil {
		existing.Unit = strings.TrimSpace(entry.Unit)
		existing.IsUnique = entry.IsUnique
		if entry.Type != "" {
			existing.Type = attrType
		}
		if err := s.attrRepo.Update(existing); err != nil {
			return err
		}
		result.Updated++
		return nil
	}

	if byName, err := s.attrRepo.GetByName(name); err != nil {
		return err
	} else if byName != nil {
		return fmt.Errorf("Атрибут с названием '%s' уже существует", name)
	}

	attr := models.Attribute{
		Code:     code,
		Name:     name,
		Type:     attrType,
		Unit:     strings.TrimSpace(entry.Unit),
		IsUnique: entry.IsUnique,
	}
	if err := s.attrRepo.Create(&attr); err != nil {
		return err
	}
	result.Imported++
	return nil
}

func (s *AttributeImportService) sessionTTL() time.Duration {
	minutes := s.cfg.Import.MappingSessionTTLMins
	if minutes <= 0 {
		minutes = 30
	}
	return time.Duration(minutes) * time.Minute
}

// mapAttributeColumns resolves which column feeds which registry field.
// First alias match wins; unmatched fields stay absent.
func mapAttributeColumns(columns []string) map[string]int {
	fields := map[string]int{}
	for field, aliases := range attributeFieldAliases {
		for idx, column := range columns {
			lowered := strings.ToLower(strings.TrimSpace(column))
			matched := false
			for _, alias := range aliases {
				if lowered == alias {
					matched = true
					break
				}
			}
			if matched {
				fields[field] = idx
				break
			}
		}
	}
	return fields
}

func truthyCell(value string) bool {
	_, ok := truthyCellTokens[strings.ToLower(strings.TrimSpace(value))]
	return ok
}
