package tabular

import (
	"errors"
	"fmt"
	"strings"
)

// Row is one data row, cell values aligned with Table.Columns.
type Row []string

// Table is the normalized result of parsing any supported tabular source.
type Table struct {
	Columns   []string
	Rows      []Row
	TotalRows int
}

var (
	// ErrEmptyInput marks input with no usable content.
	ErrEmptyInput = errors.New("буфер обмена пуст, скопируйте данные из таблицы")
	// ErrNoStructure marks input whose tabular structure could not be detected.
	ErrNoStructure = errors.New("не удалось определить структуру данных")
	// ErrUnsupportedFormat marks a file extension outside the supported set.
	ErrUnsupportedFormat = errors.New("неподдерживаемый формат файла")
)

// placeholderColumn names an unnamed column, 1-based.
func placeholderColumn(i int) string {
	return fmt.Sprintf("Колонка %d", i+1)
}

// buildTable turns raw parsed rows into a Table. The first raw row becomes
// the header unless every cell in it is blank, in which case placeholder
// names are generated and all rows are treated as data. Fully blank data
// rows are dropped.
func buildTable(raw [][]string) (*Table, error) {
	rows := make([][]string, 0, len(raw))
	for _, r := range raw {
		if !rowBlank(r) {
			rows = append(rows, r)
		}
	}
	if len(rows) == 0 {
		return nil, ErrEmptyInput
	}

	maxCols := 0
	for _, r := range rows {
		if len(r) > maxCols {
			maxCols = len(r)
		}
	}
	if maxCols == 0 {
		return nil, ErrNoStructure
	}
	for i, r := range rows {
		for len(r) < maxCols {
			r = append(r, "")
		}
		rows[i] = r
	}

	header := rows[0]
	allBlank := true
	for _, cell := range header {
		if strings.TrimSpace(cell) != "" {
			allBlank = false
			break
		}
	}

	var columns []string
	dataStart := 1
	if allBlank {
		columns = make([]string, maxCols)
		for i := range columns {
			columns[i] = placeholderColumn(i)
		}
		dataStart = 0
	} else {
		columns = make([]string, maxCols)
		for i := 0; i < maxCols; i++ {
			name := strings.TrimSpace(header[i])
			if name == "" {
				name = placeholderColumn(i)
			}
			columns[i] = name
		}
	}

	table := &Table{Columns: columns}
	for _, r := range rows[dataStart:] {
		row := make(Row, maxCols)
		for i := 0; i < maxCols; i++ {
			row[i] = strings.TrimSpace(r[i])
		}
		table.Rows = append(table.Rows, row)
	}
	table.TotalRows = len(table.Rows)
	return table, nil
}

// headerOnlyTable builds a table that carries column names and no data.
func headerOnlyTable(columns []string) *Table {
	named := make([]string, len(columns))
	for i, col := range columns {
		name := strings.TrimSpace(col)
		if name == "" {
			name = placeholderColumn(i)
		}
		named[i] = name
	}
	return &Table{Columns: named, Rows: []Row{}, TotalRows: 0}
}

func rowBlank(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
