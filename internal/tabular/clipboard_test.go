package tabular

import (
	"errors"
	"strings"
	"testing"
)

func TestParseClipboardTabSeparated(t *testing.T) {
	text := "Название\tВес (кг)\tЦвет\nСтул\t4.5\tБелый\nСтол\t12\tЧёрный\n"

	table, err := ParseClipboard(text)
	if err != nil {
		t.Fatalf("ParseClipboard: %v", err)
	}
	if len(table.Columns) != 3 {
		t.Fatalf("columns = %v, want 3", table.Columns)
	}
	if table.Columns[1] != "Вес (кг)" {
		t.Fatalf("column[1] = %q", table.Columns[1])
	}
	if table.TotalRows != 2 {
		t.Fatalf("TotalRows = %d, want 2", table.TotalRows)
	}
	if table.Rows[0][0] != "Стул" || table.Rows[1][2] != "Чёрный" {
		t.Fatalf("rows = %v", table.Rows)
	}
}

func TestParseClipboardQuotedCellKeepsNewline(t *testing.T) {
	text := "Название\tОписание\nСтул\t\"Первая строка\nвторая строка\"\n"

	table, err := ParseClipboard(text)
	if err != nil {
		t.Fatalf("ParseClipboard: %v", err)
	}
	if table.TotalRows != 1 {
		t.Fatalf("TotalRows = %d, want 1", table.TotalRows)
	}
	if !strings.Contains(table.Rows[0][1], "\n") {
		t.Fatalf("cell lost its newline: %q", table.Rows[0][1])
	}
	if table.Rows[0][1] != "Первая строка\nвторая строка" {
		t.Fatalf("cell = %q", table.Rows[0][1])
	}
}

func TestParseClipboardUnquotedContinuationLines(t *testing.T) {
	// A line with no tabs continues the last cell of the open row.
	text := "Название\tОписание\nСтул\tПервая строка\nвторая строка"

	table, err := ParseClipboard(text)
	if err != nil {
		t.Fatalf("ParseClipboard: %v", err)
	}
	if table.TotalRows != 1 {
		t.Fatalf("TotalRows = %d, want 1: %v", table.TotalRows, table.Rows)
	}
	if table.Rows[0][1] != "Первая строка\nвторая строка" {
		t.Fatalf("cell = %q", table.Rows[0][1])
	}
}

func TestParseClipboardUnquotedNewlineInMiddleColumn(t *testing.T) {
	// The broken cell is not the last column: the row's tabs are spread
	// over two lines and must add up before the row closes.
	text := "Название\tОписание\tЦвет\nСтул\tПервая строка\nвторая строка\tБелый\nСтол\tОбычное\tЧёрный"

	table, err := ParseClipboard(text)
	if err != nil {
		t.Fatalf("ParseClipboard: %v", err)
	}
	if table.TotalRows != 2 {
		t.Fatalf("TotalRows = %d, want 2: %v", table.TotalRows, table.Rows)
	}
	if len(table.Columns) != 3 || table.Columns[2] != "Цвет" {
		t.Fatalf("headers = %v", table.Columns)
	}
	if table.Rows[0][1] != "Первая строка\nвторая строка" {
		t.Fatalf("cell = %q", table.Rows[0][1])
	}
	if table.Rows[0][2] != "Белый" {
		t.Fatalf("last cell shifted: %v", table.Rows[0])
	}
	if table.Rows[1][0] != "Стол" || table.Rows[1][2] != "Чёрный" {
		t.Fatalf("following row corrupted: %v", table.Rows[1])
	}
}

func TestParseClipboardSemicolonRows(t *testing.T) {
	text := "Название;Вес;Цвет\nСтул;4;Белый\nСтол;12;Чёрный"

	table, err := ParseClipboard(text)
	if err != nil {
		t.Fatalf("ParseClipboard: %v", err)
	}
	if len(table.Columns) != 3 || table.TotalRows != 2 {
		t.Fatalf("columns = %v rows = %d", table.Columns, table.TotalRows)
	}
}

func TestParseClipboardAlignedSpaces(t *testing.T) {
	text := "Название  Вес  Цвет\nСтул  4  Белый"

	table, err := ParseClipboard(text)
	if err != nil {
		t.Fatalf("ParseClipboard: %v", err)
	}
	if len(table.Columns) != 3 {
		t.Fatalf("columns = %v", table.Columns)
	}
	if table.Columns[0] != "Название" || table.Rows[0][2] != "Белый" {
		t.Fatalf("table = %+v", table)
	}
}

func TestParseClipboardSingleHeaderLine(t *testing.T) {
	table, err := ParseClipboard("Название\tВес\tЦвет")
	if err != nil {
		t.Fatalf("ParseClipboard: %v", err)
	}
	if table.TotalRows != 0 {
		t.Fatalf("TotalRows = %d, want 0", table.TotalRows)
	}
	want := []string{"Название", "Вес", "Цвет"}
	for i, col := range want {
		if table.Columns[i] != col {
			t.Fatalf("columns = %v, want %v", table.Columns, want)
		}
	}
}

func TestParseClipboardSingleLineWordMerge(t *testing.T) {
	table, err := ParseClipboard("Название Высота от пола Цвет Материал обивки")
	if err != nil {
		t.Fatalf("ParseClipboard: %v", err)
	}
	want := []string{"Название", "Высота от пола", "Цвет", "Материал обивки"}
	if len(table.Columns) != len(want) {
		t.Fatalf("columns = %v, want %v", table.Columns, want)
	}
	for i, col := range want {
		if table.Columns[i] != col {
			t.Fatalf("columns = %v, want %v", table.Columns, want)
		}
	}
}

func TestParseClipboardQuotedHeaderPhrases(t *testing.T) {
	table, err := ParseClipboard(`"Материал обивки" Цвет "Страна производства"`)
	if err != nil {
		t.Fatalf("ParseClipboard: %v", err)
	}
	if len(table.Columns) != 3 {
		t.Fatalf("columns = %v", table.Columns)
	}
	if table.Columns[0] != "Материал обивки" || table.Columns[2] != "Страна производства" {
		t.Fatalf("columns = %v", table.Columns)
	}
}

func TestParseClipboardBlankLinesDropped(t *testing.T) {
	text := "Название;Вес\n\nСтул;4\n\n\nСтол;12\n"

	table, err := ParseClipboard(text)
	if err != nil {
		t.Fatalf("ParseClipboard: %v", err)
	}
	if table.TotalRows != 2 {
		t.Fatalf("TotalRows = %d, want 2", table.TotalRows)
	}
}

func TestParseClipboardEmptyInput(t *testing.T) {
	for _, text := range []string{"", "   \n\t  ", "<p></p>"} {
		if _, err := ParseClipboard(text); !errors.Is(err, ErrEmptyInput) {
			t.Fatalf("ParseClipboard(%q) err = %v, want ErrEmptyInput", text, err)
		}
	}
}

func TestParseClipboardStripsHTML(t *testing.T) {
	table, err := ParseClipboard("<b>Название</b>\t<i>Вес</i>\nСтул\t4")
	if err != nil {
		t.Fatalf("ParseClipboard: %v", err)
	}
	if table.Columns[0] != "Название" || table.Columns[1] != "Вес" {
		t.Fatalf("columns = %v", table.Columns)
	}
}

func TestParseClipboardPlaceholderHeaders(t *testing.T) {
	table, err := ParseClipboard("Название\t\tЦвет\nСтул\t4\tБелый")
	if err != nil {
		t.Fatalf("ParseClipboard: %v", err)
	}
	if table.Columns[1] != "Колонка 2" {
		t.Fatalf("columns = %v", table.Columns)
	}
}
