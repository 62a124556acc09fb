package tabular

import (
	"encoding/csv"
	"regexp"
	"strings"
	"unicode"
)

var (
	htmlTagPattern    = regexp.MustCompile(`<[^>]+>`)
	multiSpacePattern = regexp.MustCompile(`\s{2,}`)
	quotedPattern     = regexp.MustCompile(`"([^"]+)"`)
)

// Russian function words that glue a header phrase together when a single
// line has to be split on plain spaces.
var joinWords = map[string]struct{}{
	"в": {}, "на": {}, "от": {}, "до": {}, "для": {}, "из": {},
	"к": {}, "по": {}, "с": {}, "у": {}, "о": {}, "об": {},
	"и": {}, "или": {}, "а": {}, "но": {},
}

// ParseClipboard turns pasted spreadsheet text into a Table. Tab separated
// content is preferred since that is what spreadsheet applications put on
// the clipboard; comma, semicolon and aligned-space layouts are recognized
// as fallbacks, and a single header line is split heuristically.
func ParseClipboard(text string) (*Table, error) {
	text = htmlTagPattern.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	lines := strings.Split(text, "\n")
	hasTabs := strings.Contains(text, "\t")
	hasCommas := strings.Contains(text, ",")
	hasSemicolons := strings.Contains(text, ";")
	hasMultiSpaces := strings.Contains(text, "  ")

	if hasTabs {
		return parseTabSeparated(text)
	}
	if hasCommas || hasSemicolons {
		delimiter := ","
		if !hasCommas {
			delimiter = ";"
		}
		if delimiterCountsConsistent(lines, delimiter) {
			return splitByDelimiter(lines, delimiter)
		}
	}
	if hasMultiSpaces && spaceRunCountsConsistent(lines) {
		return splitByMultiSpace(lines)
	}

	nonEmpty := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			nonEmpty = append(nonEmpty, strings.TrimSpace(line))
		}
	}
	if len(nonEmpty) == 0 {
		return nil, ErrEmptyInput
	}
	if len(nonEmpty) == 1 {
		return parseSingleLine(nonEmpty[0])
	}

	// No regular structure was detected; fall back to the dominant
	// delimiter of the first line.
	first := nonEmpty[0]
	tabCount := strings.Count(first, "\t")
	commaCount := strings.Count(first, ",")
	semicolonCount := strings.Count(first, ";")

	switch {
	case tabCount > commaCount && tabCount > semicolonCount:
		return splitByDelimiter(nonEmpty, "\t")
	case commaCount > semicolonCount:
		return splitByDelimiter(nonEmpty, ",")
	case semicolonCount > 0:
		return splitByDelimiter(nonEmpty, ";")
	case strings.Contains(first, "  "):
		return splitByMultiSpace(nonEmpty)
	default:
		return splitByDelimiter(nonEmpty, "\t")
	}
}

// parseTabSeparated reads TSV clipboard content. Quoted cells keep their
// embedded newlines; if CSV reading fails the rows are reconstructed by
// tab count, treating short lines as continuations of the previous cell.
func parseTabSeparated(text string) (*Table, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err == nil && len(records) > 0 && recordsRegular(records) {
		return buildTable(records)
	}
	return buildTable(reconstructTabRows(text))
}

// recordsRegular reports whether every record carries the header's field
// count. Ragged records mean cells with unquoted embedded newlines.
func recordsRegular(records [][]string) bool {
	want := len(records[0])
	for _, record := range records {
		if len(record) != want {
			return false
		}
	}
	return true
}

// reconstructTabRows rebuilds rows from raw lines when cells with embedded
// newlines are not quoted. The first line fixes the expected tab count; a
// row stays open, accumulating lines, until its tabs add up to that count.
// Untabbed text after a full row continues the row's last cell.
func reconstructTabRows(text string) [][]string {
	lines := strings.Split(text, "\n")
	if len(lines) == 0 {
		return nil
	}
	expectedTabs := strings.Count(lines[0], "\t")

	var rows [][]string
	buffer := ""
	bufferTabs := 0
	open := false

	flush := func() {
		if open {
			rows = append(rows, trimCells(strings.Split(buffer, "\t")))
			open = false
		}
	}

	for _, line := range lines {
		tabs := strings.Count(line, "\t")
		switch {
		case !open:
			buffer = line
			bufferTabs = tabs
			open = true
		case bufferTabs < expectedTabs:
			// The open row still misses columns, so this line continues
			// a cell somewhere in its middle.
			buffer += "\n" + line
			bufferTabs += tabs
		case expectedTabs > 0 && tabs == 0:
			if strings.TrimSpace(line) != "" {
				buffer += "\n" + line
			}
		default:
			flush()
			buffer = line
			bufferTabs = tabs
			open = true
		}
	}
	flush()

	filtered := rows[:0]
	for _, row := range rows {
		if !rowBlank(row) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

// delimiterCountsConsistent reports whether non-blank lines carry the same
// (or nearly the same) number of delimiters, which marks tabular content.
func delimiterCountsConsistent(lines []string, delimiter string) bool {
	counts := map[int]struct{}{}
	seen := false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		counts[strings.Count(line, delimiter)] = struct{}{}
		seen = true
	}
	return seen && len(counts) <= 2
}

func spaceRunCountsConsistent(lines []string) bool {
	counts := map[int]struct{}{}
	seen := false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		counts[len(multiSpacePattern.FindAllString(line, -1))] = struct{}{}
		seen = true
	}
	return seen && len(counts) <= 2
}

func splitByDelimiter(lines []string, delimiter string) (*Table, error) {
	var rows [][]string
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, trimCells(strings.Split(line, delimiter)))
	}
	return buildTable(rows)
}

func splitByMultiSpace(lines []string) (*Table, error) {
	var rows [][]string
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, trimCells(multiSpacePattern.Split(line, -1)))
	}
	return buildTable(rows)
}

// parseSingleLine treats one line as a header row. Delimiters are tried in
// order of reliability; with none present the line is split on spaces and
// lowercase continuations are merged back into the preceding phrase.
func parseSingleLine(line string) (*Table, error) {
	if strings.Contains(line, "\t") {
		cells := trimCells(strings.Split(line, "\t"))
		if !rowBlank(cells) {
			return headerOnlyTable(cells), nil
		}
	}
	for _, delimiter := range []string{",", ";"} {
		if !strings.Contains(line, delimiter) {
			continue
		}
		parts := splitNonEmpty(line, delimiter)
		if len(parts) > 1 {
			return headerOnlyTable(parts), nil
		}
	}
	if strings.Contains(line, "  ") {
		parts := filterNonEmpty(multiSpacePattern.Split(line, -1))
		if len(parts) > 1 {
			return headerOnlyTable(parts), nil
		}
	}
	if columns := splitQuotedPhrases(line); len(columns) > 1 {
		return headerOnlyTable(columns), nil
	}

	words := strings.Fields(line)
	if len(words) > 3 {
		columns := mergePhrases(words)
		if len(columns) > 1 {
			return headerOnlyTable(columns), nil
		}
		return headerOnlyTable(words), nil
	}
	return nil, ErrNoStructure
}

// splitQuotedPhrases extracts quoted header names from a line, keeping the
// unquoted words around them as separate columns.
func splitQuotedPhrases(line string) []string {
	matches := quotedPattern.FindAllStringSubmatch(line, -1)
	if len(matches) == 0 {
		return nil
	}

	var columns []string
	rest := line
	for _, match := range matches {
		quoted := `"` + match[1] + `"`
		idx := strings.Index(rest, quoted)
		if idx < 0 {
			continue
		}
		columns = append(columns, strings.Fields(rest[:idx])...)
		columns = append(columns, match[1])
		rest = rest[idx+len(quoted):]
	}
	columns = append(columns, strings.Fields(rest)...)
	return columns
}

// mergePhrases joins space separated words into header phrases. A word
// starting with a lowercase letter, or a function word, continues the
// previous phrase.
func mergePhrases(words []string) []string {
	var columns []string
	var phrase []string
	for _, word := range words {
		if continuesPhrase(word) && len(phrase) > 0 {
			phrase = append(phrase, word)
			continue
		}
		if len(phrase) > 0 {
			columns = append(columns, strings.Join(phrase, " "))
		}
		phrase = []string{word}
	}
	if len(phrase) > 0 {
		columns = append(columns, strings.Join(phrase, " "))
	}
	return columns
}

func continuesPhrase(word string) bool {
	if word == "" {
		return false
	}
	if _, ok := joinWords[strings.ToLower(word)]; ok {
		return true
	}
	return unicode.IsLower([]rune(word)[0])
}

func trimCells(cells []string) []string {
	trimmed := make([]string, len(cells))
	for i, cell := range cells {
		trimmed[i] = strings.TrimSpace(cell)
	}
	return trimmed
}

func splitNonEmpty(line, delimiter string) []string {
	return filterNonEmpty(strings.Split(line, delimiter))
}

func filterNonEmpty(parts []string) []string {
	out := parts[:0:0]
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
