package main

import (
	"archive/zip"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pierrec/lz4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnpackArchive(t *testing.T) {
	dir := t.TempDir()

	gzPath := filepath.Join(dir, "a.csv.gz")
	f, err := os.Create(gzPath)
	require.NoError(t, err)
	gw := gzip.NewWriter(f)
	_, err = gw.Write([]byte(testCSV))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	require.NoError(t, f.Close())

	lzPath := filepath.Join(dir, "b.csv.lz4")
	f, err = os.Create(lzPath)
	require.NoError(t, err)
	lw := lz4.NewWriter(f)
	_, err = lw.Write([]byte(testCSV))
	require.NoError(t, err)
	require.NoError(t, lw.Close())
	require.NoError(t, f.Close())

	zipPath := filepath.Join(dir, "c.zip")
	f, err = os.Create(zipPath)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	readme, err := zw.Create("docs/readme.txt")
	require.NoError(t, err)
	_, err = readme.Write([]byte("hi"))
	require.NoError(t, err)
	data, err := zw.Create("export/c.csv")
	require.NoError(t, err)
	_, err = data.Write([]byte(testCSV))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	tests := []struct {
		archive string
		want    string
	}{
		{gzPath, filepath.Join(dir, "a.csv")},
		{lzPath, filepath.Join(dir, "b.csv")},
		{zipPath, filepath.Join(dir, "c.csv")},
	}
	for _, tt := range tests {
		t.Run(filepath.Base(tt.archive), func(t *testing.T) {
			got, err := unpackArchive(tt.archive)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			content, err := os.ReadFile(got)
			require.NoError(t, err)
			assert.Equal(t, testCSV, string(content))
			assert.NoFileExists(t, tt.archive)
		})
	}

	plain := filepath.Join(dir, "a.csv")
	got, err := unpackArchive(plain)
	require.NoError(t, err)
	assert.Equal(t, plain, got)
}

func TestUnpackBrokenArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.gz")
	require.NoError(t, os.WriteFile(path, []byte("not gzip"), 0644))
	_, err := unpackArchive(path)
	assert.Error(t, err)
}

func TestRemoveOldFiles(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "chat", "old.csv")
	fresh := filepath.Join(dir, "fresh.csv")
	require.NoError(t, os.MkdirAll(filepath.Dir(old), 0755))
	require.NoError(t, os.WriteFile(old, nil, 0644))
	require.NoError(t, os.WriteFile(fresh, nil, 0644))
	past := time.Now().Add(-3 * time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))

	require.NoError(t, removeOldFiles(dir, time.Now().Add(-2*time.Hour)))
	assert.NoFileExists(t, old)
	assert.FileExists(t, fresh)
}
