package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"

	"github.com/pivolan/sheet_analyzer/domain/models"
)

const Separator = ','

type HeaderAnalysis struct {
	Headers        []string // Итоговые заголовки
	FirstRowIsData bool     // Является ли первая строка данными
	FirstDataRow   []string // Первая строка с данными
}

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
	regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`),
	regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}$`),
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}\s\d{2}:\d{2}:\d{2}$`),
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}\s\d{2}:\d{2}:\d{2}\.\d+$`),
}

// AnalyzeHeaders decides whether the first CSV row is a header. Header
// names are kept as written (trimmed) since column names carry meaning for
// grouping and date handling; blanks and duplicates are renamed.
func AnalyzeHeaders(firstRow []string) *HeaderAnalysis {
	if len(firstRow) == 0 {
		return nil
	}

	result := &HeaderAnalysis{
		Headers:      make([]string, len(firstRow)),
		FirstDataRow: firstRow,
	}

	headerLikeCount := 0
	for _, field := range firstRow {
		if isLikelyHeader(field) {
			headerLikeCount++
		}
	}

	// Если большинство полей похожи на заголовки
	if float64(headerLikeCount)/float64(len(firstRow)) >= 0.5 {
		for i, header := range firstRow {
			header = strings.TrimSpace(header)
			if header == "" {
				header = generateColumnName(i)
			}
			result.Headers[i] = header
		}
	} else {
		result.FirstRowIsData = true
		for i := range firstRow {
			result.Headers[i] = generateColumnName(i)
		}
	}

	result.Headers = ValidateHeaders(result.Headers)
	return result
}

// isLikelyHeader определяет, похож ли текст на заголовок
func isLikelyHeader(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	if _, err := strconv.ParseFloat(text, 64); err == nil {
		return false
	}
	for _, re := range datePatterns {
		if re.MatchString(text) {
			return false
		}
	}

	letters, other := 0, 0
	for _, r := range text {
		switch {
		case unicode.IsLetter(r):
			letters++
		case unicode.IsSpace(r):
		default:
			other++
		}
	}
	total := letters + other
	return letters > 0 && float64(letters)/float64(total) >= 0.3
}

func generateColumnName(index int) string {
	return fmt.Sprintf("column_%d", index+1)
}

// ValidateHeaders проверяет и исправляет дубликаты в заголовках
func ValidateHeaders(headers []string) []string {
	seen := make(map[string]bool, len(headers))
	result := make([]string, len(headers))
	for i, header := range headers {
		original := header
		for counter := 1; seen[header]; counter++ {
			header = fmt.Sprintf("%s_%d", original, counter)
		}
		seen[header] = true
		result[i] = header
	}
	return result
}

// ReadCSV loads a whole CSV file into columns. Short rows are padded with
// blanks so every column has one cell per row.
func ReadCSV(r io.Reader) (models.SheetContents, error) {
	cr := csv.NewReader(r)
	cr.Comma = Separator
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	first, err := cr.Read()
	if err == io.EOF {
		return models.SheetContents{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read csv header")
	}
	analysis := AnalyzeHeaders(first)
	if analysis == nil {
		return models.SheetContents{}, nil
	}

	columns := make([][]string, len(analysis.Headers))
	rows := 0
	appendRow := func(record []string) {
		for i := range columns {
			v := ""
			if i < len(record) {
				v = record[i]
			}
			columns[i] = append(columns[i], v)
		}
		rows++
	}
	if analysis.FirstRowIsData {
		appendRow(first)
	}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "read csv row %d", rows+1)
		}
		appendRow(record)
	}

	contents := make(models.SheetContents, len(columns))
	for i, h := range analysis.Headers {
		if columns[i] == nil {
			columns[i] = []string{}
		}
		contents[h] = columns[i]
	}
	return contents, nil
}
