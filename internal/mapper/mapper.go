package mapper

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/catalog-next/internal/constants"
)

// AttributeRef is the slice of an attribute the mapper needs to match
// supplier columns against.
type AttributeRef struct {
	Code string
	Name string
	Type string
	Unit string
}

// Suggestion is the proposed binding of one supplier column.
type Suggestion struct {
	AttributeCode  string          `json:"attribute_code,omitempty"`
	AttributeName  string          `json:"attribute_name,omitempty"`
	IsNew          bool            `json:"is_new"`
	MatchScore     float64         `json:"match_score"`
	SuggestedType  string          `json:"suggested_type"`
	SuggestedUnit  string          `json:"suggested_unit,omitempty"`
	ExistingUnit   string          `json:"existing_unit,omitempty"`
	UnitValidation *UnitValidation `json:"unit_validation,omitempty"`
}

// matchThreshold is the minimum score for binding a column to an existing
// attribute; anything below proposes a new attribute instead.
const matchThreshold = 0.6

// Suggest proposes a mapping for every supplier column. The attribute
// index is rebuilt on each call so freshly created attributes are always
// visible to the next suggestion round.
func Suggest(columns []string, attrs []AttributeRef) map[string]Suggestion {
	index := buildIndex(attrs)
	result := make(map[string]Suggestion, len(columns))
	for _, column := range columns {
		result[column] = suggestColumn(column, index)
	}
	return result
}

type indexEntry struct {
	key  string
	attr AttributeRef
}

// buildIndex keys each attribute by its code, its name and the
// transliteration of its name when that differs.
func buildIndex(attrs []AttributeRef) []indexEntry {
	var index []indexEntry
	seen := map[string]struct{}{}
	add := func(key string, attr AttributeRef) {
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			return
		}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		index = append(index, indexEntry{key: key, attr: attr})
	}

	for _, attr := range attrs {
		add(attr.Code, attr)
		add(attr.Name, attr)
		if translit := Transliterate(strings.ToLower(attr.Name)); translit != strings.ToLower(attr.Name) {
			add(translit, attr)
		}
	}
	return index
}

func suggestColumn(column string, index []indexEntry) Suggestion {
	lowered := strings.ToLower(strings.TrimSpace(column))
	normalized := strings.NewReplacer(" ", "_", "-", "_").Replace(lowered)

	var best *AttributeRef
	bestScore := 0.0

	for i := range index {
		if index[i].key == lowered {
			best = &index[i].attr
			bestScore = 1.0
			break
		}
	}
	if best == nil {
		for i := range index {
			if index[i].key == normalized {
				best = &index[i].attr
				bestScore = 0.95
				break
			}
		}
	}
	if best == nil {
		for i := range index {
			key := index[i].key
			if strings.Contains(key, lowered) || strings.Contains(lowered, key) {
				colLen := len([]rune(lowered))
				keyLen := len([]rune(key))
				score := float64(colLen) / float64(max(colLen, keyLen))
				if score > bestScore {
					bestScore = score
					best = &index[i].attr
				}
			}
			if similarity := similarityRatio(lowered, key); similarity > bestScore && similarity > matchThreshold {
				bestScore = similarity
				best = &index[i].attr
			}
		}
	}

	suggestion := Suggestion{
		IsNew:         true,
		SuggestedType: SuggestType(column),
		SuggestedUnit: SuggestUnit(column),
	}
	if best != nil && bestScore > matchThreshold {
		suggestion.IsNew = false
		suggestion.AttributeCode = best.Code
		suggestion.AttributeName = best.Name
		suggestion.MatchScore = bestScore
		suggestion.ExistingUnit = best.Unit
		if best.Unit != "" {
			suggestion.UnitValidation = ValidateUnit(suggestion.SuggestedUnit, best.Unit)
		}
	} else if best != nil {
		suggestion.MatchScore = bestScore
	}
	return suggestion
}

// similarityRatio measures how close two strings are, 1.0 meaning equal.
func similarityRatio(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 1.0
	}
	distance := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(distance)/float64(longest)
}

// typeKeywords drive type inference from column names, most specific
// first.
var typeKeywords = []struct {
	attrType string
	words    []string
}{
	{constants.AttributeTypeImage, []string{"фото", "изображение", "картинка", "image", "photo", "picture", "img"}},
	{constants.AttributeTypeURL, []string{"url", "ссылка", "link", "href"}},
	{constants.AttributeTypeDate, []string{"дата", "date", "время", "time", "создан", "created", "обновлен", "updated"}},
	{constants.AttributeTypeBoolean, []string{"есть", "нет", "да", "включен", "выключен", "yes", "no", "true", "false", "bool"}},
	{constants.AttributeTypeNumber, []string{
		"вес", "масса", "weight", "mass",
		"длина", "ширина", "высота", "глубина", "length", "width", "height", "depth",
		"диаметр", "diameter", "толщина", "thickness",
		"объем", "объём", "volume",
		"цена", "стоимость", "price", "cost",
		"количество", "quantity", "count",
		"мощность", "power", "напряжение", "voltage",
		"температура", "temperature", "давление", "pressure",
	}},
}

// SuggestType infers an attribute type from a column name, falling back
// to text.
func SuggestType(columnName string) string {
	lowered := strings.ToLower(columnName)
	for _, group := range typeKeywords {
		for _, word := range group.words {
			if strings.Contains(lowered, word) {
				return group.attrType
			}
		}
	}
	return constants.AttributeTypeText
}
