// Package explorer keeps the analysis state of one sheet: its column
// profiles, its polygons and the results of the last query. State is
// replaced on change, never mutated.
package explorer

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/pivolan/sheet_analyzer/domain/models"
	"github.com/pivolan/sheet_analyzer/query"
	"github.com/pivolan/sheet_analyzer/sheet"
	"github.com/pivolan/sheet_analyzer/stats"
)

// Sheets with more rows than this do not share their sandbox with children.
const shareSandboxMaxRows = 1000

var (
	ErrNoResults     = errors.New("run a query first")
	ErrUnknownColumn = errors.New("unknown column")
	ErrNotGroupable  = errors.New("column has too many values to group")
)

// FilterError is returned when the sheet fails to run a filter expression.
type FilterError struct {
	Filter string
	Err    error
}

func (e *FilterError) Error() string { return "run " + e.Filter + ": " + e.Err.Error() }
func (e *FilterError) Unwrap() error { return e.Err }

type Explorer struct {
	src      Source
	conv     stats.Conventions
	compiler *query.Compiler
	logger   log.Logger

	mu       sync.RWMutex
	info     models.SheetInfo
	rowCount int
	contents models.SheetContents
	profiles map[string]*stats.Profile
	polygons query.PolygonMap
	children []models.ChildSheet
	last     *sheet.Results
}

func New(src Source, conv stats.Conventions, logger log.Logger) *Explorer {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	conv = conv.WithDefaults()
	return &Explorer{
		src:      src,
		conv:     conv,
		compiler: query.NewCompiler(conv),
		logger:   logger,
		profiles: map[string]*stats.Profile{},
		polygons: query.PolygonMap{},
	}
}

// Refresh reloads the sheet and profiles every column again.
func (e *Explorer) Refresh(ctx context.Context) error {
	info, err := e.src.Info(ctx)
	if err != nil {
		return errors.Wrap(err, "sheet info")
	}
	children, err := e.src.Children(ctx)
	if err != nil {
		return errors.Wrap(err, "sheet children")
	}
	polygonData, err := e.src.Polygons(ctx)
	if err != nil {
		return errors.Wrap(err, "sheet polygons")
	}
	contents, err := e.src.Contents(ctx, "", nil)
	if err != nil {
		return errors.Wrap(err, "sheet contents")
	}

	profiles, err := e.profileColumns(ctx, contents)
	if err != nil {
		return err
	}

	rowCount := contents.RowCount()
	if rowCount == 0 {
		rowCount = info.CountRecords
	}

	polygons := make(query.PolygonMap, len(polygonData))
	names := make([]string, 0, len(polygonData))
	for _, p := range polygonData {
		polygons[p.Name] = p.DataID
		names = append(names, p.Name)
	}
	if len(names) > 0 {
		contents[e.conv.PolygonField] = names
		profiles[e.conv.PolygonField] = stats.NewCategoryProfile(e.conv.PolygonField, names, e.conv)
	}

	e.mu.Lock()
	e.info = info
	e.rowCount = rowCount
	e.contents = contents
	e.profiles = profiles
	e.polygons = polygons
	e.children = children
	e.last = nil
	e.mu.Unlock()

	level.Info(e.logger).Log("msg", "sheet refreshed", "sheet", info.Name, "rows", rowCount,
		"columns", len(profiles), "polygons", len(polygons), "children", len(children))
	return nil
}

func (e *Explorer) profileColumns(ctx context.Context, contents models.SheetContents) (map[string]*stats.Profile, error) {
	names := make([]string, 0, len(contents))
	for name := range contents {
		names = append(names, name)
	}
	result := make([]*stats.Profile, len(names))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result[i] = stats.NewProfile(name, contents[name], e.conv)
			profiledColumns.Inc()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	profiles := make(map[string]*stats.Profile, len(names))
	for i, name := range names {
		profiles[name] = result[i]
	}
	return profiles, nil
}

func (e *Explorer) Info() models.SheetInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.info
}

func (e *Explorer) RowCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.rowCount
}

func (e *Explorer) Profile(name string) (*stats.Profile, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	p, ok := e.profiles[name]
	return p, ok
}

// Summaries describes every column, sorted by name.
func (e *Explorer) Summaries() []models.ColumnSummary {
	e.mu.RLock()
	profiles, rows := e.profiles, e.rowCount
	e.mu.RUnlock()

	out := make([]models.ColumnSummary, 0, len(profiles))
	for name, p := range profiles {
		out = append(out, models.ColumnSummary{Name: name, Summary: p.Summarize(rows)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Fields is the query builder configuration for the current profiles.
func (e *Explorer) Fields() []query.Field {
	e.mu.RLock()
	profiles := e.profiles
	e.mu.RUnlock()
	return query.BuildFields(profiles, e.conv)
}

func (e *Explorer) Polygons() query.PolygonMap {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.polygons
}

func (e *Explorer) Compile(n query.Node) (string, error) {
	filter, err := e.compiler.Compile(n, e.Polygons())
	compiledQueries.WithLabelValues(outcome(err)).Inc()
	return filter, err
}

// Run compiles n and runs it against the sheet.
func (e *Explorer) Run(ctx context.Context, n query.Node) (*sheet.Results, error) {
	filter, err := e.Compile(n)
	if err != nil {
		return nil, err
	}
	return e.RunExpression(ctx, filter)
}

// RunExpression fetches the rows matching filter. The results are kept for
// CreateChild and CreateTag.
func (e *Explorer) RunExpression(ctx context.Context, filter string) (*sheet.Results, error) {
	contents, err := e.src.Contents(ctx, filter, sheet.ResultColumns)
	queryRuns.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		return nil, &FilterError{Filter: filter, Err: err}
	}
	results := &sheet.Results{Expression: filter, Contents: contents}

	e.mu.Lock()
	e.last = results
	e.mu.Unlock()

	level.Debug(e.logger).Log("msg", "query run", "filter", filter, "rows", results.Count())
	return results, nil
}

// LastResults returns the results of the last query, nil when there are none.
func (e *Explorer) LastResults() *sheet.Results {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.last
}

// ClearResults forgets the last query, e.g. after the query was edited.
func (e *Explorer) ClearResults() {
	e.mu.Lock()
	e.last = nil
	e.mu.Unlock()
}

// CreateChild saves the last query as a child sheet.
func (e *Explorer) CreateChild(ctx context.Context, name string) (models.ChildSheet, error) {
	e.mu.RLock()
	last, rows := e.last, e.rowCount
	e.mu.RUnlock()
	if last == nil {
		return models.ChildSheet{}, ErrNoResults
	}

	child, err := e.src.CreateChildFromFilter(ctx, name, last.Expression, rows <= shareSandboxMaxRows)
	if err != nil {
		return models.ChildSheet{}, err
	}

	e.mu.Lock()
	// copy, the refresh slice belongs to the source
	e.children = append(e.children[:len(e.children):len(e.children)], child)
	e.mu.Unlock()

	level.Info(e.logger).Log("msg", "child sheet created", "name", name, "filter", last.Expression)
	return child, nil
}

// CreateTag adds a computed column for the last query and profiles it from
// the rows the query returned, without reloading the sheet.
func (e *Explorer) CreateTag(ctx context.Context, name string) (*stats.Profile, error) {
	e.mu.RLock()
	last, rows := e.last, e.rowCount
	e.mu.RUnlock()
	if last == nil {
		return nil, ErrNoResults
	}

	if err := e.src.AddExpressionColumn(ctx, name, last.Expression); err != nil {
		return nil, err
	}
	recIDs := last.RecIDs()
	p := stats.NewTagProfile(name, recIDs, rows, e.conv)

	values := make([]string, p.TotalCount())
	for i := range recIDs {
		values[i] = "1"
	}

	e.mu.Lock()
	profiles := make(map[string]*stats.Profile, len(e.profiles)+1)
	for k, v := range e.profiles {
		profiles[k] = v
	}
	profiles[name] = p
	contents := make(models.SheetContents, len(e.contents)+1)
	for k, v := range e.contents {
		contents[k] = v
	}
	contents[name] = values
	e.profiles = profiles
	e.contents = contents
	e.mu.Unlock()

	level.Info(e.logger).Log("msg", "tag created", "name", name, "tagged", len(recIDs))
	return p, nil
}

// Children lists the child sheets known since the last Refresh, with their
// filters ready for display. Polygon filters show the polygon name.
func (e *Explorer) Children() []models.ChildSheet {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]models.ChildSheet, len(e.children))
	for i, c := range e.children {
		if id, ok := query.PolygonIDFromFilter(c.Filter); ok {
			c.Filter = "{geofenced: " + e.polygonName(id) + "}"
		} else {
			c.Filter = query.FixupFilterExpression(c.Filter)
		}
		out[i] = c
	}
	return out
}

// polygonName falls back to the data id for polygons deleted since.
func (e *Explorer) polygonName(dataID string) string {
	for name, id := range e.polygons {
		if id == dataID {
			return name
		}
	}
	return dataID
}

// Group counts the rows of column per category of its grouper.
func (e *Explorer) Group(column string) (stats.Grouper, []int, error) {
	e.mu.RLock()
	p, ok := e.profiles[column]
	values := e.contents[column]
	e.mu.RUnlock()
	if !ok {
		return nil, nil, errors.Wrap(ErrUnknownColumn, column)
	}
	g := p.Grouper()
	if g == nil {
		return nil, nil, errors.Wrap(ErrNotGroupable, column)
	}
	return g, stats.GroupCounts(g, values), nil
}
