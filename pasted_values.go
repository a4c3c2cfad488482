package main

import (
	"strings"

	"github.com/pivolan/sheet_analyzer/stats"
)

const pastedColumn = "values"

// extractValues splits text pasted into the chat into the cells of one
// column: one cell per line, or per comma for a single line. Empty lines
// are blank cells. nil means the text is not a list.
func extractValues(text string) []string {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	sep := "\n"
	if !strings.Contains(text, sep) {
		sep = ","
	}
	parts := strings.Split(text, sep)
	if len(parts) < 2 {
		return nil
	}
	values := make([]string, len(parts))
	for i, p := range parts {
		values[i] = strings.TrimSpace(p)
	}
	return values
}

// replyPastedValues profiles pasted values like a sheet column.
func (a *App) replyPastedValues(chatID int64, values []string) {
	p := stats.NewProfile(pastedColumn, values, a.conv)
	a.reply(chatID, p.Summarize(len(values)))
	if g := p.Grouper(); g != nil {
		a.replyTable(chatID, "groups", GenerateGroupsTable(g, stats.GroupCounts(g, values)))
	}
}
