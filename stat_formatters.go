package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/pivolan/sheet_analyzer/domain/models"
	"github.com/pivolan/sheet_analyzer/query"
	"github.com/pivolan/sheet_analyzer/sheet"
	"github.com/pivolan/sheet_analyzer/stats"
)

// Values lists longer than this are cut in the fields table.
const maxListedValues = 10

func GenerateSummaryTable(summaries []models.ColumnSummary) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Column", "Summary"})
	for _, s := range summaries {
		t.AppendRow(table.Row{s.Name, s.Summary})
	}
	t.SetStyle(table.StyleDefault)
	return t.Render()
}

func GenerateFieldsTable(fields []query.Field) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Field", "Type", "Input", "Operators", "Values"})
	for _, f := range fields {
		ops := make([]string, len(f.Operators))
		for i, op := range f.Operators {
			ops[i] = op.String()
		}
		values := f.Values
		more := ""
		if len(values) > maxListedValues {
			more = fmt.Sprintf(" (+%d)", len(values)-maxListedValues)
			values = values[:maxListedValues]
		}
		t.AppendRow(table.Row{f.ID, f.Type.String(), f.Input.String(), strings.Join(ops, " "), strings.Join(values, ",") + more})
	}
	t.SetStyle(table.StyleDefault)
	return t.Render()
}

func GenerateChildrenTable(children []models.ChildSheet) string {
	if len(children) == 0 {
		return "No child sheets"
	}
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Id", "Name", "Filter"})
	for _, c := range children {
		t.AppendRow(table.Row{c.SheetID, c.Name, c.Filter})
	}
	t.SetStyle(table.StyleDefault)
	return t.Render()
}

// GenerateGroupsTable shows the row count and share of every category.
func GenerateGroupsTable(g stats.Grouper, counts []int) string {
	total := 0
	for _, c := range counts {
		total += c
	}
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Category", "Count", "Share"})
	for i, category := range g.Categories() {
		n := 0
		if i < len(counts) {
			n = counts[i]
		}
		share := 0.0
		if total > 0 {
			share = float64(n) * 100 / float64(total)
		}
		t.AppendRow(table.Row{category, humanize.Comma(int64(n)), fmt.Sprintf("%.1f%%", share)})
	}
	t.AppendFooter(table.Row{"Total", humanize.Comma(int64(total)), ""})
	t.SetStyle(table.StyleDefault)
	return t.Render()
}

func rowsText(n int) string {
	if n == 1 {
		return "1 row"
	}
	return humanize.Comma(int64(n)) + " rows"
}

// formatResults describes a query run for the chat.
func formatResults(r *sheet.Results) string {
	text := "Found " + rowsText(r.Count())
	if n, ok := r.Households(); ok {
		text += " in " + humanize.Comma(int64(n)) + " households"
	}
	return text + "\nFilter: " + r.Expression
}

func preformatted(text string) string {
	return "<pre>\n" + escapeHTML(text) + "\n</pre>"
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}
