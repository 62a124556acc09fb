package tabular

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

func writeTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestParseFileCSV(t *testing.T) {
	path := writeTempFile(t, "products.csv", []byte("sku,name,weight\nA-1,Стул,4.5\nA-2,Стол,12\n"))

	table, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(table.Columns) != 3 || table.TotalRows != 2 {
		t.Fatalf("columns = %v rows = %d", table.Columns, table.TotalRows)
	}
	if table.Rows[0][1] != "Стул" {
		t.Fatalf("rows = %v", table.Rows)
	}
}

func TestParseFileCSVSemicolon(t *testing.T) {
	path := writeTempFile(t, "products.csv", []byte("sku;name\nA-1;Стул\n"))

	table, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(table.Columns) != 2 {
		t.Fatalf("columns = %v", table.Columns)
	}
}

func TestParseFileCSVWindows1251(t *testing.T) {
	encoded, err := charmap.Windows1251.NewEncoder().Bytes([]byte("артикул,название\nA-1,Стул\n"))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	path := writeTempFile(t, "products.csv", encoded)

	table, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if table.Columns[0] != "артикул" || table.Rows[0][1] != "Стул" {
		t.Fatalf("table = %+v", table)
	}
}

func TestParseFileJSONArray(t *testing.T) {
	path := writeTempFile(t, "products.json", []byte(`[{"sku":"A-1","name":"Стул","weight":4.5},{"sku":"A-2","name":"Стол","weight":12}]`))

	table, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if table.TotalRows != 2 {
		t.Fatalf("TotalRows = %d", table.TotalRows)
	}
	skuIdx := -1
	for i, col := range table.Columns {
		if col == "sku" {
			skuIdx = i
		}
	}
	if skuIdx < 0 {
		t.Fatalf("columns = %v", table.Columns)
	}
	if table.Rows[0][skuIdx] != "A-1" {
		t.Fatalf("rows = %v", table.Rows)
	}
}

func TestParseFileJSONWrapped(t *testing.T) {
	for _, key := range []string{"products", "items", "attributes"} {
		path := writeTempFile(t, "data.json", []byte(`{"`+key+`":[{"sku":"A-1"}]}`))
		table, err := ParseFile(path)
		if err != nil {
			t.Fatalf("ParseFile(%s): %v", key, err)
		}
		if table.TotalRows != 1 {
			t.Fatalf("key %s: TotalRows = %d", key, table.TotalRows)
		}
	}
}

func TestParseFileXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	cells := map[string]string{
		"A1": "sku", "B1": "Название",
		"A2": "A-1", "B2": "Стул",
		"A3": "A-2", "B3": "Стол",
	}
	for cell, value := range cells {
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			t.Fatalf("SetCellValue: %v", err)
		}
	}
	path := filepath.Join(t.TempDir(), "products.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}

	table, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(table.Columns) != 2 || table.TotalRows != 2 {
		t.Fatalf("columns = %v rows = %d", table.Columns, table.TotalRows)
	}
	if table.Rows[1][1] != "Стол" {
		t.Fatalf("rows = %v", table.Rows)
	}
}

func TestParseFileUnsupportedExtension(t *testing.T) {
	path := writeTempFile(t, "products.txt", []byte("whatever"))
	if _, err := ParseFile(path); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
}
