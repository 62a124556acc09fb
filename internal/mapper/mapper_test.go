package mapper

import (
	"testing"

	"github.com/catalog-next/internal/constants"
)

func TestSuggestExactNameMatch(t *testing.T) {
	attrs := []AttributeRef{{Code: "weight", Name: "Вес", Type: constants.AttributeTypeNumber, Unit: "кг"}}

	result := Suggest([]string{"Вес"}, attrs)
	suggestion, ok := result["Вес"]
	if !ok {
		t.Fatalf("no suggestion for column")
	}
	if suggestion.IsNew {
		t.Fatalf("suggestion marked new: %+v", suggestion)
	}
	if suggestion.MatchScore != 1.0 {
		t.Fatalf("MatchScore = %v, want 1.0", suggestion.MatchScore)
	}
	if suggestion.AttributeCode != "weight" {
		t.Fatalf("AttributeCode = %q", suggestion.AttributeCode)
	}
}

func TestSuggestNormalizedMatchScore(t *testing.T) {
	attrs := []AttributeRef{{Code: "service_life", Name: "срок_службы"}}

	result := Suggest([]string{"Срок службы"}, attrs)
	suggestion := result["Срок службы"]
	if suggestion.IsNew {
		t.Fatalf("suggestion marked new: %+v", suggestion)
	}
	if suggestion.MatchScore != 0.95 {
		t.Fatalf("MatchScore = %v, want 0.95", suggestion.MatchScore)
	}
}

func TestSuggestTranslitIndex(t *testing.T) {
	attrs := []AttributeRef{{Code: "color_attr", Name: "цвет"}}

	result := Suggest([]string{"tsvet"}, attrs)
	suggestion := result["tsvet"]
	if suggestion.IsNew {
		t.Fatalf("transliterated name not matched: %+v", suggestion)
	}
	if suggestion.AttributeCode != "color_attr" {
		t.Fatalf("AttributeCode = %q", suggestion.AttributeCode)
	}
}

func TestSuggestSubstringMatch(t *testing.T) {
	attrs := []AttributeRef{{Code: "gross_weight", Name: "вес брутто (кг)"}}

	result := Suggest([]string{"Вес брутто"}, attrs)
	suggestion := result["Вес брутто"]
	if suggestion.IsNew {
		t.Fatalf("substring not matched: %+v", suggestion)
	}
	if suggestion.MatchScore <= matchThreshold || suggestion.MatchScore >= 1.0 {
		t.Fatalf("MatchScore = %v, want between %v and 1.0", suggestion.MatchScore, matchThreshold)
	}
}

func TestSuggestUnmatchedColumnIsNew(t *testing.T) {
	attrs := []AttributeRef{{Code: "weight", Name: "Вес"}}

	result := Suggest([]string{"Гарантийный талон поставщика"}, attrs)
	suggestion := result["Гарантийный талон поставщика"]
	if !suggestion.IsNew {
		t.Fatalf("expected new attribute: %+v", suggestion)
	}
	if suggestion.AttributeCode != "" {
		t.Fatalf("AttributeCode = %q, want empty", suggestion.AttributeCode)
	}
}

func TestSuggestUnitValidationAttached(t *testing.T) {
	attrs := []AttributeRef{{Code: "height", Name: "Высота", Unit: "мм"}}

	result := Suggest([]string{"Высота (см)"}, attrs)
	suggestion := result["Высота (см)"]
	if suggestion.IsNew {
		t.Fatalf("suggestion marked new: %+v", suggestion)
	}
	if suggestion.SuggestedUnit != "см" {
		t.Fatalf("SuggestedUnit = %q, want см", suggestion.SuggestedUnit)
	}
	if suggestion.UnitValidation == nil {
		t.Fatalf("UnitValidation missing")
	}
	if !suggestion.UnitValidation.IsCompatible {
		t.Fatalf("units of the same quantity must stay compatible: %+v", suggestion.UnitValidation)
	}
	if suggestion.UnitValidation.UnitType != "length" {
		t.Fatalf("UnitType = %q", suggestion.UnitValidation.UnitType)
	}
}

func TestSuggestTypeInference(t *testing.T) {
	cases := map[string]string{
		"Фото товара":       constants.AttributeTypeImage,
		"Ссылка на сайт":    constants.AttributeTypeURL,
		"Дата производства": constants.AttributeTypeDate,
		"Вес (кг)":          constants.AttributeTypeNumber,
		"Материал":          constants.AttributeTypeText,
	}
	for column, want := range cases {
		if got := SuggestType(column); got != want {
			t.Errorf("SuggestType(%q) = %q, want %q", column, got, want)
		}
	}
}

func TestSuggestUnitFromColumnName(t *testing.T) {
	cases := map[string]string{
		"Длина (мм)":  "мм",
		"Высота, см":  "см",
		"Вес кг":      "г",
		"Вес":         "г",
		"Материал":    "",
		"Цена":        "руб",
		"Температура": "°C",
	}
	for column, want := range cases {
		if got := SuggestUnit(column); got != want {
			t.Errorf("SuggestUnit(%q) = %q, want %q", column, got, want)
		}
	}
}

func TestValidateUnitIncompatible(t *testing.T) {
	validation := ValidateUnit("кг", "мм")
	if validation.IsCompatible {
		t.Fatalf("weight and length units reported compatible")
	}
	if !validation.Warning {
		t.Fatalf("incompatible units must carry the warning flag")
	}
}

func TestValidateUnitExactMatch(t *testing.T) {
	validation := ValidateUnit("кг", "кг")
	if !validation.IsValid || !validation.IsCompatible {
		t.Fatalf("equal units reported invalid: %+v", validation)
	}
}

func TestGenerateCode(t *testing.T) {
	cases := map[string]string{
		"Вес":           "weight",
		"Название":      "name",
		"Производитель": "manufacturer",
		"Толщина":       "tolschina",
		"Цвет каркаса":  "tsvet_karkasa",
		"Model X":       "model_x",
	}
	for name, want := range cases {
		if got := GenerateCode(name); got != want {
			t.Errorf("GenerateCode(%q) = %q, want %q", name, got, want)
		}
	}
}
