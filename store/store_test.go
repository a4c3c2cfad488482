package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pivolan/sheet_analyzer/domain/models"
)

func TestAnalyzeHeaders(t *testing.T) {
	tests := []struct {
		name        string
		input       []string
		wantHeaders []string
		wantIsData  bool
	}{
		{"valid headers", []string{"Name", "Age", "Birthday"}, []string{"Name", "Age", "Birthday"}, false},
		{"numeric data", []string{"123", "456", "789"}, []string{"column_1", "column_2", "column_3"}, true},
		{"date data", []string{"2024-01-01", "2024-01-02"}, []string{"column_1", "column_2"}, true},
		{"duplicates", []string{"Name", "Name", "Name", "Age"}, []string{"Name", "Name_1", "Name_2", "Age"}, false},
		{"empty", []string{"", "", ""}, []string{"column_1", "column_2", "column_3"}, true},
		{"blank among headers", []string{"City", "", "Zip"}, []string{"City", "column_2", "Zip"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnalyzeHeaders(tt.input)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantHeaders, got.Headers)
			assert.Equal(t, tt.wantIsData, got.FirstRowIsData)
			assert.Equal(t, tt.input, got.FirstDataRow)
		})
	}
	assert.Nil(t, AnalyzeHeaders(nil))
}

func TestIsLikelyHeader(t *testing.T) {
	tests := map[string]bool{
		"":                false,
		"Name":            true,
		"User Name":       true,
		"123":             false,
		"2024-01-01":      false,
		"User#Name!":      true,
		"###":             false,
		"User123":         true,
		"колонка1":        true,
		"test@email.com":  true,
		"+1-234-567-8900": false,
	}
	for input, want := range tests {
		assert.Equal(t, want, isLikelyHeader(input), input)
	}
}

func TestValidateHeaders(t *testing.T) {
	assert.Equal(t, []string{"name", "age", "name_1", "email", "age_1"},
		ValidateHeaders([]string{"name", "age", "name", "email", "age"}))
	assert.Equal(t, []string{}, ValidateHeaders([]string{}))
	assert.Equal(t, []string{"a_1", "a", "a_1_1"}, ValidateHeaders([]string{"a_1", "a", "a_1"}))
}

func TestReadCSV(t *testing.T) {
	contents, err := ReadCSV(strings.NewReader("Name,Age,Called\nAnn,30,1\nBob,,\nCid,41\n"))
	require.NoError(t, err)
	assert.Equal(t, models.SheetContents{
		"Name":   {"Ann", "Bob", "Cid"},
		"Age":    {"30", "", "41"},
		"Called": {"1", "", ""},
	}, contents)
	assert.Equal(t, 3, contents.RowCount())

	contents, err = ReadCSV(strings.NewReader("1,2\n3,4\n"))
	require.NoError(t, err)
	assert.Equal(t, models.SheetContents{"column_1": {"1", "3"}, "column_2": {"2", "4"}}, contents)

	contents, err = ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, contents)
}

func TestInferColumns(t *testing.T) {
	data := "id,Birthday,Score,Ratio,City,Seen\n" +
		"1,1990-01-02,10,0.5,Ames,2022-10-26 06:03:18\n" +
		"2,,11,2,Boone,2022-10-26\n" +
		"3,1980-03-04,12,,Ames,2022-10-26 06:03:18.272132\n"
	columns, isData, err := inferColumns(strings.NewReader(data))
	require.NoError(t, err)
	assert.False(t, isData)
	assert.Equal(t, []columnType{
		{Name: "id", Type: typeInt64},
		{Name: "Birthday", Type: typeDate, Nullable: true},
		{Name: "Score", Type: typeInt64},
		{Name: "Ratio", Type: typeFloat64, Nullable: true},
		{Name: "City", Type: typeString},
		{Name: "Seen", Type: typeDateTime64},
	}, columns)
}

func TestMergeTypes(t *testing.T) {
	assert.Equal(t, typeInt64, mergeTypes(typeUnknown, typeInt64))
	assert.Equal(t, typeFloat64, mergeTypes(typeInt64, typeFloat64))
	assert.Equal(t, typeDateTime64, mergeTypes(typeDate, typeDateTime64))
	assert.Equal(t, typeString, mergeTypes(typeDate, typeInt64))
	assert.Equal(t, typeString, mergeTypes(typeString, typeInt64))
}

func TestColumnIdentifier(t *testing.T) {
	assert.Equal(t, "User_Name", columnIdentifier("User Name!", 0))
	assert.Equal(t, "kolonka", columnIdentifier("колонка", 0))
	assert.Equal(t, "column_3", columnIdentifier("###", 2))
	assert.Equal(t, "c_2024", columnIdentifier("2024", 0))
}

func TestCreateTableSQL(t *testing.T) {
	columns := []columnType{
		{Name: "Name", Type: typeString},
		{Name: "Age", Type: typeInt64, Nullable: true},
		{Name: "Empty", Nullable: true},
	}
	assert.Equal(t,
		"CREATE TABLE t_1 (id UInt64, Name String, Age Nullable(Int64), Empty Nullable(String)) ENGINE = ReplacingMergeTree PRIMARY KEY (id) SETTINGS index_granularity = 8192",
		createTableSQL("t_1", columns, true))

	table := tableNameFor(columns, "/tmp/a.csv")
	assert.True(t, strings.HasPrefix(string(table), "name_age_empty_"))
	assert.Len(t, string(table), len("name_age_empty_")+6)
}

func TestInsertRecord(t *testing.T) {
	columns := []columnType{{Name: "A", Type: typeString, Nullable: true}, {Name: "B", Type: typeInt64}}
	assert.Equal(t, []string{"7", `\N`, "3"}, insertRecord([]string{"", "3"}, columns, true, 7))
	assert.Equal(t, []string{"x", ""}, insertRecord([]string{"x"}, columns, false, 0))
}

func TestSelectSQL(t *testing.T) {
	assert.Equal(t, "SELECT toString(a), toString(b) FROM t LIMIT 10", selectSQL("t", []string{"a", "b"}, 10))
	assert.Equal(t, "SELECT toString(a) FROM t", selectSQL("t", []string{"a"}, 0))
	assert.True(t, excludeColumn("id"))
	assert.False(t, excludeColumn("RecId"))
}
