package main

import (
	"context"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/go-kit/log/level"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pivolan/sheet_analyzer/explorer"
	"github.com/pivolan/sheet_analyzer/plot"
)

var uploadForm = template.Must(template.New("upload").Parse(`<!DOCTYPE html>
<html>
<head><title>Upload a sheet</title></head>
<body>
<form action="/upload" method="post" enctype="multipart/form-data">
<input type="hidden" name="uuid" value="{{.}}">
<input type="file" name="file" accept=".csv,.zip,.gz,.lz4">
<input type="submit" value="Upload">
</form>
</body>
</html>
`))

// newRouter serves the upload form, uploads, charts and metrics. Uploads are
// processed in the background under ctx.
func (a *App) newRouter(ctx context.Context) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", a.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		a.handleUpload(ctx, w, r)
	}).Methods(http.MethodPost)
	r.HandleFunc("/chart/{session}/{column}", a.handleChart).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	if err := uploadForm.Execute(w, r.URL.Query().Get("id")); err != nil {
		http.Error(w, "Error rendering upload form", http.StatusInternalServerError)
	}
}

func (a *App) handleUpload(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	id := r.FormValue("uuid")
	chatID, ok := a.sessions.uploadChat(id)
	if !ok {
		http.Error(w, "Unknown or expired upload link", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Error uploading file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	filePath := filepath.Join(a.cfg.UploadDir, id, filepath.Base(header.Filename))
	if err := saveUpload(filePath, file); err != nil {
		level.Error(a.logger).Log("msg", "cannot save upload", "file", filePath, "err", err)
		http.Error(w, "Error saving file", http.StatusInternalServerError)
		return
	}

	a.reply(chatID, "Your file uploaded ("+humanize.Bytes(uint64(header.Size))+"), wait for first results")
	go a.loadFile(ctx, chatID, filePath)

	w.Write([]byte("File uploaded successfully"))
}

func saveUpload(filePath string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return errors.Wrap(err, "create upload dir")
	}
	return writeFile(filePath, r)
}

// handleChart renders the interactive pie chart of a grouped column.
func (a *App) handleChart(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sess, ok := a.sessions.byShareToken(vars["session"])
	if !ok {
		http.NotFound(w, r)
		return
	}
	column := vars["column"]
	g, counts, err := sess.explorer.Group(column)
	switch {
	case errors.Is(err, explorer.ErrUnknownColumn):
		http.NotFound(w, r)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := plot.RenderGroupsPie(w, column, g, counts); err != nil {
		level.Warn(a.logger).Log("msg", "cannot render chart", "column", column, "err", err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	}
}

func (a *App) chartURL(sess *session, column string) string {
	return a.cfg.PublicURL + "/chart/" + sess.token + "/" + url.PathEscape(column)
}
