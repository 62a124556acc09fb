package mapper

import (
	"strings"
	"unicode"
)

// russianToEnglish maps well known attribute names straight to stable
// English codes, bypassing transliteration.
var russianToEnglish = map[string]string{
	"название": "name", "описание": "description", "вес": "weight",
	"длина": "length", "ширина": "width", "высота": "height",
	"глубина": "depth", "цвет": "color", "материал": "material",
	"размер": "size", "цена": "price", "количество": "quantity",
	"артикул": "sku", "бренд": "brand", "производитель": "manufacturer",
	"модель": "model", "серия": "series", "коллекция": "collection",
	"страна": "country", "гарантия": "warranty", "изображение": "image",
	"фото": "photo", "видео": "video", "ссылка": "url",
	"дата": "date", "время": "time", "статус": "status",
	"тип": "type", "категория": "category", "подкатегория": "subcategory",
	"единица": "unit", "измерения": "measurement", "объем": "volume",
	"площадь": "area", "диаметр": "diameter", "радиус": "radius",
	"мощность": "power", "напряжение": "voltage", "ток": "current",
	"частота": "frequency", "температура": "temperature", "влажность": "humidity",
	"давление": "pressure", "скорость": "speed", "расход": "consumption",
	"емкость": "capacity", "ресурс": "resource", "срок": "lifetime",
	"эксплуатации": "service_life",
}

// translitTable carries the per-letter Cyrillic to Latin mapping.
var translitTable = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d",
	'е': "e", 'ё': "yo", 'ж': "zh", 'з': "z", 'и': "i",
	'й': "y", 'к': "k", 'л': "l", 'м': "m", 'н': "n",
	'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t",
	'у': "u", 'ф': "f", 'х': "h", 'ц': "ts", 'ч': "ch",
	'ш': "sh", 'щ': "sch", 'ъ': "", 'ы': "y", 'ь': "",
	'э': "e", 'ю': "yu", 'я': "ya",
}

// GenerateCode builds a latin attribute code from a display name. Known
// Russian names map to their canonical English codes; anything else is
// transliterated letter by letter.
func GenerateCode(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	if code, ok := russianToEnglish[lowered]; ok {
		return code
	}
	return sanitizeCode(Transliterate(lowered))
}

// Transliterate converts Cyrillic letters to their Latin spelling, keeping
// every other rune as is.
func Transliterate(s string) string {
	var b strings.Builder
	for _, r := range s {
		if latin, ok := translitTable[unicode.ToLower(r)]; ok {
			b.WriteString(latin)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// sanitizeCode keeps letters, digits, underscores and hyphens, turns
// spaces into underscores and collapses runs of underscores.
func sanitizeCode(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == ' ':
			b.WriteRune('_')
		case r == '_' || r == '-':
			b.WriteRune(r)
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		}
	}

	code := b.String()
	for strings.Contains(code, "__") {
		code = strings.ReplaceAll(code, "__", "_")
	}
	return strings.Trim(code, "_")
}
