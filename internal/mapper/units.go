package mapper

import (
	"fmt"
	"regexp"
	"strings"
)

// UnitValidation is the result of comparing a suggested unit against the
// unit already stored on an attribute. Incompatible units are reported but
// never block a mapping.
type UnitValidation struct {
	IsValid       bool   `json:"is_valid"`
	IsCompatible  bool   `json:"is_compatible"`
	Message       string `json:"message"`
	SuggestedUnit string `json:"suggested_unit,omitempty"`
	ExistingUnit  string `json:"existing_unit,omitempty"`
	UnitType      string `json:"unit_type,omitempty"`
	Warning       bool   `json:"warning,omitempty"`
}

// standardUnits lists accepted spellings per measured quantity. The first
// entry of each list is the default suggestion.
var standardUnits = map[string][]string{
	"length":      {"мм", "см", "м", "дм", "km", "m", "cm", "mm", "inch", "ft"},
	"width":       {"мм", "см", "м", "дм", "km", "m", "cm", "mm", "inch", "ft"},
	"height":      {"мм", "см", "м", "дм", "km", "m", "cm", "mm", "inch", "ft"},
	"depth":       {"мм", "см", "м", "дм", "km", "m", "cm", "mm", "inch", "ft"},
	"weight":      {"г", "кг", "т", "g", "kg", "t", "lb", "oz"},
	"volume":      {"л", "мл", "м³", "l", "ml", "m³", "m3", "gal", "fl oz"},
	"diameter":    {"мм", "см", "м", "cm", "mm", "m", "inch"},
	"thickness":   {"мм", "см", "м", "cm", "mm", "m", "inch"},
	"temperature": {"°C", "°F", "K", "C", "F"},
	"pressure":    {"Па", "кПа", "МПа", "бар", "атм", "Pa", "kPa", "MPa", "bar", "atm", "psi"},
	"power":       {"Вт", "кВт", "МВт", "W", "kW", "MW", "hp"},
	"voltage":     {"В", "кВ", "V", "kV"},
	"frequency":   {"Гц", "кГц", "МГц", "Hz", "kHz", "MHz"},
	"speed":       {"м/с", "км/ч", "об/мин", "m/s", "km/h", "rpm"},
	"time":        {"сек", "мин", "ч", "дн", "s", "min", "h", "d", "day"},
	"quantity":    {"шт", "ед", "pcs", "pcs.", "units", "unit"},
	"area":        {"м²", "см²", "мм²", "m²", "m2", "cm²", "cm2", "mm²", "mm2", "sq ft"},
	"price":       {"руб", "₽", "RUB", "USD", "$", "EUR", "€"},
}

// unitKeyword binds a column name keyword to a measured quantity. Kept as
// an ordered list so the first match wins deterministically.
type unitKeyword struct {
	keyword  string
	unitType string
}

var unitKeywords = []unitKeyword{
	{"длина", "length"}, {"length", "length"},
	{"высота", "height"}, {"height", "height"},
	{"ширина", "width"}, {"width", "width"},
	{"глубина", "depth"}, {"depth", "depth"},
	{"вес", "weight"}, {"weight", "weight"}, {"масса", "weight"}, {"mass", "weight"},
	{"объем", "volume"}, {"объём", "volume"}, {"volume", "volume"},
	{"диаметр", "diameter"}, {"diameter", "diameter"},
	{"толщина", "thickness"}, {"thickness", "thickness"},
	{"температура", "temperature"}, {"temperature", "temperature"},
	{"давление", "pressure"}, {"pressure", "pressure"},
	{"мощность", "power"}, {"power", "power"},
	{"напряжение", "voltage"}, {"voltage", "voltage"},
	{"частота", "frequency"}, {"frequency", "frequency"},
	{"скорость", "speed"}, {"speed", "speed"},
	{"время", "time"}, {"time", "time"},
	{"количество", "quantity"}, {"quantity", "quantity"},
	{"площадь", "area"}, {"area", "area"},
	{"цена", "price"}, {"price", "price"}, {"стоимость", "price"}, {"cost", "price"},
}

// unitLiteralPatterns extract an explicit unit from a column name, for
// example "Длина (мм)", "Высота, см" or "Вес кг".
var unitLiteralPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\(([^)]+)\)`),
	regexp.MustCompile(`,\s*([а-яa-z]+)`),
	regexp.MustCompile(`\s+([а-яa-z]+)$`),
}

// SuggestUnit proposes a unit for a column. A unit literal found in the
// column name wins; otherwise the quantity's default unit is used.
func SuggestUnit(columnName string) string {
	lowered := strings.ToLower(columnName)

	unitType := ""
	for _, entry := range unitKeywords {
		if strings.Contains(lowered, entry.keyword) {
			unitType = entry.unitType
			break
		}
	}
	if unitType == "" {
		return ""
	}

	units := standardUnits[unitType]
	for _, pattern := range unitLiteralPatterns {
		match := pattern.FindStringSubmatch(lowered)
		if match == nil {
			continue
		}
		literal := strings.ToLower(strings.TrimSpace(match[1]))
		for _, unit := range units {
			lowerUnit := strings.ToLower(unit)
			if strings.Contains(lowerUnit, literal) || strings.Contains(literal, lowerUnit) {
				return unit
			}
		}
	}

	if len(units) > 0 {
		return units[0]
	}
	return ""
}

// ValidateUnit compares a suggested unit with an attribute's stored unit.
func ValidateUnit(suggestedUnit, existingUnit string) *UnitValidation {
	if existingUnit == "" {
		return &UnitValidation{
			IsValid:       true,
			IsCompatible:  true,
			Message:       "Единица измерения не задана у существующего атрибута",
			SuggestedUnit: suggestedUnit,
		}
	}
	if suggestedUnit == "" {
		return &UnitValidation{
			IsValid:      true,
			IsCompatible: true,
			Message:      "Единица измерения не указана для новой колонки",
			ExistingUnit: existingUnit,
		}
	}

	suggestedNorm := strings.ToLower(strings.TrimSpace(suggestedUnit))
	existingNorm := strings.ToLower(strings.TrimSpace(existingUnit))
	if suggestedNorm == existingNorm {
		return &UnitValidation{
			IsValid:       true,
			IsCompatible:  true,
			Message:       "Единицы измерения совпадают",
			SuggestedUnit: suggestedUnit,
			ExistingUnit:  existingUnit,
		}
	}

	suggestedType := unitType(suggestedNorm)
	existingType := unitType(existingNorm)
	if suggestedType != "" && suggestedType == existingType {
		return &UnitValidation{
			IsValid:       true,
			IsCompatible:  true,
			Message:       fmt.Sprintf("Единицы измерения совместимы (тип: %s)", suggestedType),
			SuggestedUnit: suggestedUnit,
			ExistingUnit:  existingUnit,
			UnitType:      suggestedType,
		}
	}

	return &UnitValidation{
		IsValid:       false,
		IsCompatible:  false,
		Message:       fmt.Sprintf("Внимание: несовместимые единицы измерения! Предложено: %q, у атрибута: %q", suggestedUnit, existingUnit),
		SuggestedUnit: suggestedUnit,
		ExistingUnit:  existingUnit,
		Warning:       true,
	}
}

// unitType resolves the measured quantity a unit spelling belongs to.
func unitType(unit string) string {
	lowered := strings.ToLower(strings.TrimSpace(unit))
	if lowered == "" {
		return ""
	}
	for _, entry := range unitKeywords {
		unitsForType := standardUnits[entry.unitType]
		for _, std := range unitsForType {
			lowerStd := strings.ToLower(std)
			if lowered == lowerStd || strings.Contains(lowerStd, lowered) || strings.Contains(lowered, lowerStd) {
				return entry.unitType
			}
		}
	}
	return ""
}
