package service

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/catalog-next/internal/constants"
	"github.com/catalog-next/internal/models"
)

var booleanTokens = map[string]struct{}{
	"true": {}, "false": {}, "1": {}, "0": {},
	"yes": {}, "no": {}, "да": {}, "нет": {},
}

var dateFormats = []string{
	"2006-01-02",
	"02.01.2006",
	"2006/01/02",
	"02-01-2006",
}

// typeValidators dispatches value checks by attribute type tag. Types
// without an entry accept any non-empty string.
var typeValidators = map[string]func(attr *models.Attribute, value string) bool{
	constants.AttributeTypeNumber:  validateNumber,
	constants.AttributeTypeBoolean: validateBoolean,
	constants.AttributeTypeDate:    validateDate,
	constants.AttributeTypeSelect:  validateSelect,
	constants.AttributeTypeURL:     validateURL,
}

// validateAttributeType reports whether a raw string conforms to the
// attribute's declared type.
func validateAttributeType(attr *models.Attribute, value string) bool {
	validator, ok := typeValidators[attr.Type]
	if !ok {
		return true
	}
	return validator(attr, value)
}

func validateNumber(_ *models.Attribute, value string) bool {
	_, err := decimal.NewFromString(strings.TrimSpace(value))
	return err == nil
}

func validateBoolean(_ *models.Attribute, value string) bool {
	_, ok := booleanTokens[strings.ToLower(strings.TrimSpace(value))]
	return ok
}

func validateDate(_ *models.Attribute, value string) bool {
	value = strings.TrimSpace(value)
	for _, format := range dateFormats {
		if _, err := time.Parse(format, value); err == nil {
			return true
		}
	}
	for _, format := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if _, err := time.Parse(format, value); err == nil {
			return true
		}
	}
	return false
}

func validateSelect(attr *models.Attribute, value string) bool {
	for _, allowed := range attr.OptionValues() {
		if value == allowed {
			return true
		}
	}
	return false
}

func validateURL(_ *models.Attribute, value string) bool {
	return strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://")
}

// validateAttributeRules applies the attribute's stored validation rules
// (numeric bounds, regexp pattern, length limits) to an already
// type-checked value.
func validateAttributeRules(attr *models.Attribute, value string) bool {
	if len(attr.ValidationRules) == 0 {
		return true
	}

	if attr.Type == constants.AttributeTypeNumber {
		num, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return false
		}
		if minValue, ok := attr.RuleFloat("min"); ok && num.LessThan(decimal.NewFromFloat(minValue)) {
			return false
		}
		if maxValue, ok := attr.RuleFloat("max"); ok && num.GreaterThan(decimal.NewFromFloat(maxValue)) {
			return false
		}
	}

	if pattern, ok := attr.RuleString("pattern"); ok && pattern != "" {
		re, err := regexp.Compile(pattern)
		if err == nil && !re.MatchString(value) {
			return false
		}
	}

	length := len([]rune(value))
	if minLen, ok := attr.RuleInt("min_length"); ok && length < minLen {
		return false
	}
	if maxLen, ok := attr.RuleInt("max_length"); ok && length > maxLen {
		return false
	}
	return true
}
