// Package sheet is a client for the remote sheet-management service that
// holds the rows, children, computed columns and polygons of a sheet.
package sheet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/pivolan/sheet_analyzer/domain/models"
)

// APIError is a non-2xx answer of the service.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sheet service returned %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	baseURL string
	sheetID string
	token   string
	http    *http.Client
}

// NewClient uses a client with a one minute timeout when httpClient is nil.
func NewClient(baseURL, sheetID, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: time.Minute}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		sheetID: sheetID,
		token:   token,
		http:    httpClient,
	}
}

func (c *Client) SheetID() string { return c.sheetID }

func (c *Client) Info(ctx context.Context) (models.SheetInfo, error) {
	var info models.SheetInfo
	err := c.do(ctx, http.MethodGet, "/info", nil, nil, &info)
	return info, errors.Wrap(err, "get sheet info")
}

// Contents fetches the sheet, or the rows matching filter when it is not
// empty. columns limits the result; nil means every column.
func (c *Client) Contents(ctx context.Context, filter string, columns []string) (models.SheetContents, error) {
	q := url.Values{}
	if filter != "" {
		q.Set("filter", filter)
	}
	if len(columns) > 0 {
		q.Set("select", strings.Join(columns, ","))
	}
	contents := models.SheetContents{}
	err := c.do(ctx, http.MethodGet, "", q, nil, &contents)
	return contents, errors.Wrap(err, "get sheet contents")
}

func (c *Client) Children(ctx context.Context) ([]models.ChildSheet, error) {
	var children []models.ChildSheet
	err := c.do(ctx, http.MethodGet, "/child", nil, nil, &children)
	return children, errors.Wrap(err, "list child sheets")
}

func (c *Client) CreateChildFromFilter(ctx context.Context, name, filter string, shareSandbox bool) (models.ChildSheet, error) {
	body := map[string]interface{}{
		"Name":         name,
		"Filter":       filter,
		"ShareSandbox": shareSandbox,
	}
	var child models.ChildSheet
	err := c.do(ctx, http.MethodPost, "/child", nil, body, &child)
	return child, errors.Wrapf(err, "create child sheet %q", name)
}

// AddExpressionColumn adds a column computed by the service from expression.
func (c *Client) AddExpressionColumn(ctx context.Context, name, expression string) error {
	body := map[string]interface{}{
		"ColumnName": name,
		"Expression": expression,
	}
	err := c.do(ctx, http.MethodPost, "/ops/addcolumn", nil, body, nil)
	return errors.Wrapf(err, "add column %q", name)
}

func (c *Client) Polygons(ctx context.Context) ([]models.CustomData, error) {
	q := url.Values{"kind": {models.PolygonKind}}
	var items []models.CustomData
	err := c.do(ctx, http.MethodGet, "/customdata", q, nil, &items)
	return items, errors.Wrap(err, "list polygons")
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, in, out interface{}) error {
	u := c.baseURL + "/sheets/" + url.PathEscape(c.sheetID) + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
