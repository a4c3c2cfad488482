package models

// SheetContents maps a column name to its cells in row order.
type SheetContents map[string][]string

// RowCount is the length of the longest column.
func (c SheetContents) RowCount() int {
	n := 0
	for _, col := range c {
		if len(col) > n {
			n = len(col)
		}
	}
	return n
}

type ClickhouseTableName string

type ColumnInfo struct {
	Name string
	Type string //Date DateTime64 Int64 Float64 String
}

type SheetInfo struct {
	Name          string `json:"Name"`
	ParentName    string `json:"ParentName"`
	LatestVersion int    `json:"LatestVersion"`
	CountRecords  int    `json:"CountRecords"`
}

// ChildSheet is a sheet derived from its parent by a filter expression.
type ChildSheet struct {
	SheetID string `json:"Id"`
	Name    string `json:"Name"`
	Filter  string `json:"Filter"`
}

// CustomData is a named blob stored with a sheet, e.g. a polygon.
type CustomData struct {
	DataID string `json:"DataId"`
	Name   string `json:"Name"`
	Kind   string `json:"Kind"`
}

const PolygonKind = "_polygon"

type ColumnSummary struct {
	Name    string
	Summary string
}
