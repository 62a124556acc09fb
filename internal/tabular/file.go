package tabular

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

// ParseFile reads a supplier file into a Table. The format is chosen by
// file extension: xlsx, xls, csv or json.
func ParseFile(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		return parseExcel(path)
	case ".csv":
		return parseCSV(path)
	case ".json":
		return parseJSON(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func parseExcel(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка при чтении Excel файла: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyInput
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("ошибка при чтении Excel файла: %w", err)
	}
	return buildTable(rows)
}

func parseCSV(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка при чтении CSV файла: %w", err)
	}

	text, err := decodeCSVBytes(data)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	delimiter := sniffDelimiter(text)
	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ошибка при чтении CSV файла: %w", err)
	}
	return buildTable(records)
}

// decodeCSVBytes tries the encodings supplier files come in: UTF-8 first,
// then the common Cyrillic single-byte codepage, then Latin-1.
func decodeCSVBytes(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(data) {
		return string(data), nil
	}
	for _, cm := range []*charmap.Charmap{charmap.Windows1251, charmap.ISO8859_1} {
		decoded, err := cm.NewDecoder().Bytes(data)
		if err == nil {
			return string(decoded), nil
		}
	}
	return "", fmt.Errorf("не удалось определить кодировку CSV файла")
}

// sniffDelimiter picks the most frequent candidate delimiter within the
// first kilobyte of the file.
func sniffDelimiter(text string) rune {
	sample := text
	if len(sample) > 1024 {
		sample = sample[:1024]
	}
	if idx := strings.IndexByte(sample, '\n'); idx > 0 {
		sample = sample[:idx]
	}

	best := ','
	bestCount := 0
	for _, candidate := range []rune{',', ';', '\t', '|'} {
		count := strings.Count(sample, string(candidate))
		if count > bestCount {
			best = candidate
			bestCount = count
		}
	}
	return best
}

func parseJSON(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка при чтении JSON файла: %w", err)
	}

	var payload interface{}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("ошибка при парсинге JSON: %w", err)
	}

	switch value := payload.(type) {
	case []interface{}:
		return tableFromJSONList(value)
	case map[string]interface{}:
		for _, key := range []string{"products", "items", "attributes"} {
			if list, ok := value[key].([]interface{}); ok {
				return tableFromJSONList(list)
			}
		}
		return tableFromJSONList([]interface{}{value})
	default:
		return nil, fmt.Errorf("%w: ожидается массив объектов", ErrNoStructure)
	}
}

func tableFromJSONList(list []interface{}) (*Table, error) {
	if len(list) == 0 {
		return nil, ErrEmptyInput
	}

	columnSet := map[string]struct{}{}
	objects := make([]map[string]interface{}, 0, len(list))
	for _, item := range list {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: ожидается массив объектов", ErrNoStructure)
		}
		objects = append(objects, obj)
		for key := range obj {
			columnSet[key] = struct{}{}
		}
	}

	columns := make([]string, 0, len(columnSet))
	for key := range columnSet {
		columns = append(columns, key)
	}
	sort.Strings(columns)

	table := &Table{Columns: columns}
	for _, obj := range objects {
		row := make(Row, len(columns))
		for i, col := range columns {
			row[i] = jsonCellString(obj[col])
		}
		table.Rows = append(table.Rows, row)
	}
	table.TotalRows = len(table.Rows)
	return table, nil
}

func jsonCellString(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}
