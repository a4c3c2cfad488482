package explorer

import (
	"context"

	"github.com/pkg/errors"

	"github.com/pivolan/sheet_analyzer/domain/models"
)

// Source is a sheet the explorer reads from and writes children and
// computed columns to. *sheet.Client is the remote implementation.
type Source interface {
	Info(ctx context.Context) (models.SheetInfo, error)
	// Contents returns the rows matching filter, every row when filter is
	// empty. A nil columns slice selects every column.
	Contents(ctx context.Context, filter string, columns []string) (models.SheetContents, error)
	Children(ctx context.Context) ([]models.ChildSheet, error)
	Polygons(ctx context.Context) ([]models.CustomData, error)
	CreateChildFromFilter(ctx context.Context, name, filter string, shareSandbox bool) (models.ChildSheet, error)
	AddExpressionColumn(ctx context.Context, name, expression string) error
}

var (
	ErrReadOnly          = errors.New("sheet is read only")
	ErrFilterUnsupported = errors.New("sheet cannot evaluate filters")
)

// LocalSource serves an uploaded sheet from memory. It has no children
// or polygons and cannot evaluate filter expressions.
type LocalSource struct {
	name     string
	contents models.SheetContents
}

func NewLocalSource(name string, contents models.SheetContents) *LocalSource {
	if contents == nil {
		contents = models.SheetContents{}
	}
	return &LocalSource{name: name, contents: contents}
}

func (s *LocalSource) Info(context.Context) (models.SheetInfo, error) {
	return models.SheetInfo{Name: s.name, CountRecords: s.contents.RowCount()}, nil
}

func (s *LocalSource) Contents(_ context.Context, filter string, columns []string) (models.SheetContents, error) {
	if filter != "" {
		return nil, ErrFilterUnsupported
	}
	if columns == nil {
		out := make(models.SheetContents, len(s.contents))
		for k, v := range s.contents {
			out[k] = v
		}
		return out, nil
	}
	out := make(models.SheetContents, len(columns))
	for _, c := range columns {
		if v, ok := s.contents[c]; ok {
			out[c] = v
		}
	}
	return out, nil
}

func (s *LocalSource) Children(context.Context) ([]models.ChildSheet, error) { return nil, nil }

func (s *LocalSource) Polygons(context.Context) ([]models.CustomData, error) { return nil, nil }

func (s *LocalSource) CreateChildFromFilter(context.Context, string, string, bool) (models.ChildSheet, error) {
	return models.ChildSheet{}, ErrReadOnly
}

func (s *LocalSource) AddExpressionColumn(context.Context, string, string) error {
	return ErrReadOnly
}
