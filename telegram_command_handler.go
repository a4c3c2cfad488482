package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-kit/log/level"
	"github.com/pkg/errors"

	"github.com/pivolan/sheet_analyzer/explorer"
	"github.com/pivolan/sheet_analyzer/plot"
	"github.com/pivolan/sheet_analyzer/query"
	"github.com/pivolan/sheet_analyzer/sheet"
)

const helpText = `This bot profiles sheets. Send a CSV file (plain, zip, gzip or lz4) or open a remote sheet, then:

/summary - column summaries
/fields - query builder fields
/query {json} - run a query builder tree, e.g. {"condition":"AND","rules":[{"field":"Age","type":"double","operator":"greater","value":30}]}
/filter <expression> - run a filter expression, e.g. (Age > 30) && (City == 'Ames')
/group <column> - category counts and chart
/children - child sheets
/child <name> - save the last query as a child sheet
/tag <name> - save the last query as a tag column
/sheet <id> - open a sheet of the sheet service`

func (a *App) handleCommand(ctx context.Context, chatID int64, command, args string) {
	args = strings.TrimSpace(args)
	level.Debug(a.logger).Log("msg", "command", "chat", chatID, "command", command)

	switch command {
	case "start", "help":
		a.reply(chatID, helpText)
		return
	case "sheet":
		a.handleOpenSheet(ctx, chatID, args)
		return
	}

	sess, ok := a.sessions.get(chatID)
	if !ok {
		a.reply(chatID, "Send a CSV file or open a sheet with /sheet <id> first")
		return
	}
	e := sess.explorer

	switch command {
	case "summary":
		a.sendSummary(chatID, e)
	case "fields":
		a.replyTable(chatID, "fields", GenerateFieldsTable(e.Fields()))
	case "query":
		a.handleQuery(ctx, chatID, e, args)
	case "filter":
		if args == "" {
			a.reply(chatID, "Usage: /filter <expression>")
			return
		}
		e.ClearResults()
		results, err := e.RunExpression(ctx, args)
		a.replyRun(chatID, results, err)
	case "group":
		a.handleGroup(chatID, sess, args)
	case "children":
		a.replyTable(chatID, "children", GenerateChildrenTable(e.Children()))
	case "child":
		if args == "" {
			a.reply(chatID, "Usage: /child <name>")
			return
		}
		child, err := e.CreateChild(ctx, args)
		if err != nil {
			a.replyError(chatID, "create child sheet", err)
			return
		}
		a.reply(chatID, fmt.Sprintf("Created child sheet %q (%s)", child.Name, child.SheetID))
	case "tag":
		if args == "" {
			a.reply(chatID, "Usage: /tag <name>")
			return
		}
		p, err := e.CreateTag(ctx, args)
		if err != nil {
			a.replyError(chatID, "create tag", err)
			return
		}
		a.reply(chatID, fmt.Sprintf("Created tag %s: %s", p.Name(), p.Summarize(e.RowCount())))
	default:
		a.reply(chatID, "Unknown command, see /help")
	}
}

func (a *App) handleOpenSheet(ctx context.Context, chatID int64, sheetID string) {
	if sheetID == "" {
		a.reply(chatID, "Usage: /sheet <id>")
		return
	}
	if a.openSheet == nil {
		a.reply(chatID, "The sheet service is not configured")
		return
	}
	e := explorer.New(a.openSheet(sheetID), a.conv, a.logger)
	if err := e.Refresh(ctx); err != nil {
		a.replyError(chatID, "open sheet", err)
		return
	}
	a.sessions.set(chatID, e)
	a.sendSummary(chatID, e)
}

func (a *App) handleQuery(ctx context.Context, chatID int64, e *explorer.Explorer, args string) {
	if args == "" {
		a.reply(chatID, "Usage: /query {json}")
		return
	}
	node, err := query.DecodeNode([]byte(args))
	if err != nil {
		a.replyError(chatID, "read query", err)
		return
	}
	// a new query invalidates the previous results
	e.ClearResults()
	results, err := e.Run(ctx, node)
	var compileErr *query.CompileError
	if errors.As(err, &compileErr) {
		a.replyError(chatID, "compile query", err)
		return
	}
	a.replyRun(chatID, results, err)
}

// replyRun reports the rows a filter matched.
func (a *App) replyRun(chatID int64, results *sheet.Results, err error) {
	var filterErr *explorer.FilterError
	if errors.As(err, &filterErr) && errors.Is(err, explorer.ErrFilterUnsupported) {
		a.reply(chatID, "Filter: "+filterErr.Filter+"\nUploaded files cannot run filters, open the sheet with /sheet <id> to run it")
		return
	}
	if err != nil {
		a.replyError(chatID, "run query", err)
		return
	}
	a.reply(chatID, formatResults(results)+"\nSave it with /child <name> or /tag <name>")
}

func (a *App) handleGroup(chatID int64, sess *session, column string) {
	if column == "" {
		a.reply(chatID, "Usage: /group <column>")
		return
	}
	g, counts, err := sess.explorer.Group(column)
	if err != nil {
		a.replyError(chatID, "group", err)
		return
	}
	a.replyTable(chatID, "groups", GenerateGroupsTable(g, counts))

	graph, err := plot.DrawGroups(column, g, counts)
	if errors.Is(err, plot.ErrNothingToDraw) {
		return
	}
	if err != nil {
		a.replyError(chatID, "draw chart", err)
		return
	}
	a.sendGraph(chatID, graph, column, "Interactive chart: "+a.chartURL(sess, column))
}

func (a *App) replyError(chatID int64, action string, err error) {
	level.Warn(a.logger).Log("msg", action+" failed", "chat", chatID, "err", err)
	a.reply(chatID, "Could not "+action+": "+err.Error())
}
