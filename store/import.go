package store

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/pivolan/sheet_analyzer/domain/models"
)

const (
	sampleRows = 50000
	batchRows  = 5000
)

const (
	typeUnknown    = ""
	typeDateTime64 = "DateTime64"
	typeDate       = "Date"
	typeInt64      = "Int64"
	typeFloat64    = "Float64"
	typeString     = "String"
)

type columnType struct {
	Name     string
	Type     string
	Nullable bool
}

func (c columnType) ddl() string {
	t := c.Type
	if t == typeUnknown {
		t = typeString
	}
	if c.Nullable {
		t = "Nullable(" + t + ")"
	}
	return c.Name + " " + t
}

// ImportCSV creates a table for the CSV file at filePath and loads it.
func (s *Store) ImportCSV(ctx context.Context, filePath string) (models.ClickhouseTableName, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	columns, firstRowIsData, err := inferColumns(f)
	if err != nil {
		return "", err
	}
	if len(columns) == 0 {
		return "", errors.New("csv has no columns")
	}
	table := tableNameFor(columns, filePath)
	withID := !hasIDColumn(columns)

	db := s.db.WithContext(ctx)
	if tx := db.Exec("DROP TABLE IF EXISTS " + string(table)); tx.Error != nil {
		return "", errors.Wrap(tx.Error, "drop table")
	}
	if tx := db.Exec(createTableSQL(table, columns, withID)); tx.Error != nil {
		return "", errors.Wrap(tx.Error, "create table")
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	r := newCSVReader(f)
	if !firstRowIsData {
		if _, err := r.Read(); err != nil {
			return "", errors.Wrap(err, "skip header")
		}
	}

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	flush := func() error {
		w.Flush()
		if buf.Len() == 0 {
			return nil
		}
		tx := db.Exec(insertSQL(table, buf.String()))
		buf.Reset()
		return errors.Wrap(tx.Error, "insert batch")
	}

	for i := 0; ; i++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", errors.Wrapf(err, "read csv row %d", i+1)
		}
		if err := w.Write(insertRecord(record, columns, withID, i)); err != nil {
			return "", err
		}
		if (i+1)%batchRows == 0 {
			if err := flush(); err != nil {
				return "", err
			}
		}
	}
	if err := flush(); err != nil {
		return "", err
	}
	return table, nil
}

func newCSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = Separator
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	return cr
}

// inferColumns reads the header and a sample of rows and picks a
// ClickHouse type for every column.
func inferColumns(r io.Reader) ([]columnType, bool, error) {
	cr := newCSVReader(r)
	first, err := cr.Read()
	if err == io.EOF {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "read csv header")
	}
	analysis := AnalyzeHeaders(first)
	columns := make([]columnType, len(analysis.Headers))
	seen := map[string]bool{}
	for i, h := range analysis.Headers {
		name := columnIdentifier(h, i)
		for n := 1; seen[name]; n++ {
			name = fmt.Sprintf("%s_%d", columnIdentifier(h, i), n)
		}
		seen[name] = true
		columns[i].Name = name
	}

	observe := func(record []string) {
		for i := range columns {
			v := ""
			if i < len(record) {
				v = record[i]
			}
			if v == "" {
				columns[i].Nullable = true
				continue
			}
			columns[i].Type = mergeTypes(columns[i].Type, classifyValue(v))
		}
	}
	if analysis.FirstRowIsData {
		observe(first)
	}
	for n := 0; n < sampleRows; n++ {
		record, err := cr.Read()
		if err != nil {
			break
		}
		observe(record)
	}
	return columns, analysis.FirstRowIsData, nil
}

func classifyValue(v string) string {
	for _, layout := range []string{"2006-01-02 15:04:05.999999", "2006-01-02 15:04:05"} {
		if _, err := time.Parse(layout, v); err == nil {
			return typeDateTime64
		}
	}
	if _, err := time.Parse("2006-01-02", v); err == nil {
		return typeDate
	}
	if _, err := strconv.ParseInt(v, 10, 64); err == nil {
		return typeInt64
	}
	if _, err := strconv.ParseFloat(v, 64); err == nil {
		return typeFloat64
	}
	return typeString
}

// mergeTypes widens a column type to also hold t.
func mergeTypes(current, t string) string {
	switch {
	case current == typeUnknown || current == t:
		return t
	case isNumericType(current) && isNumericType(t):
		return typeFloat64
	case isDateType(current) && isDateType(t):
		return typeDateTime64
	}
	return typeString
}

func isNumericType(t string) bool { return t == typeInt64 || t == typeFloat64 }
func isDateType(t string) bool    { return t == typeDate || t == typeDateTime64 }

func hasIDColumn(columns []columnType) bool {
	for _, c := range columns {
		if c.Name == "id" {
			return true
		}
	}
	return false
}

func tableNameFor(columns []columnType, filePath string) models.ClickhouseTableName {
	names := make([]string, 0, 3)
	for i := 0; i < len(columns) && i < 3; i++ {
		names = append(names, strings.ToLower(strings.ReplaceAll(columns[i].Name, "_", "")))
	}
	return models.ClickhouseTableName(strings.Join(names, "_") + "_" + getMD5String(filePath)[:6])
}

func createTableSQL(table models.ClickhouseTableName, columns []columnType, withID bool) string {
	fields := make([]string, 0, len(columns)+1)
	if withID {
		fields = append(fields, "id UInt64")
	}
	for _, c := range columns {
		if c.Name == "id" {
			// part of the primary key
			c.Nullable = false
		}
		fields = append(fields, c.ddl())
	}
	return "CREATE TABLE " + string(table) + " (" + strings.Join(fields, ", ") +
		") ENGINE = ReplacingMergeTree PRIMARY KEY (id) SETTINGS index_granularity = 8192"
}

func insertSQL(table models.ClickhouseTableName, csvData string) string {
	return "INSERT INTO " + string(table) + " FORMAT CSV\n" + csvData
}

// insertRecord pads record to the table width, writes NULL markers for
// blank nullable cells and prepends the generated id.
func insertRecord(record []string, columns []columnType, withID bool, row int) []string {
	out := make([]string, 0, len(columns)+1)
	if withID {
		out = append(out, strconv.Itoa(row))
	}
	for i, c := range columns {
		v := ""
		if i < len(record) {
			v = record[i]
		}
		if v == "" && c.Nullable && c.Name != "id" {
			v = `\N`
		}
		out = append(out, v)
	}
	return out
}
