package main

import (
	"archive/zip"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4"
	"github.com/pkg/errors"
)

// unpackArchive extracts an uploaded archive next to it and removes the
// archive. Plain files are returned unchanged.
func unpackArchive(filePath string) (string, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".zip":
		return unpackZipArchive(filePath)
	case ".gz":
		return unpackStream(filePath, ".gz", func(r io.Reader) (io.Reader, error) {
			return gzip.NewReader(r)
		})
	case ".lz4":
		return unpackStream(filePath, ".lz4", func(r io.Reader) (io.Reader, error) {
			return lz4.NewReader(r), nil
		})
	}
	return filePath, nil
}

// unpackZipArchive extracts the largest file of the archive.
func unpackZipArchive(filePath string) (string, error) {
	r, err := zip.OpenReader(filePath)
	if err != nil {
		return "", errors.Wrap(err, "open zip")
	}
	defer r.Close()

	var largestFile *zip.File
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if largestFile == nil || f.UncompressedSize64 > largestFile.UncompressedSize64 {
			largestFile = f
		}
	}
	if largestFile == nil {
		return "", errors.New("zip archive is empty")
	}

	// только имя файла, без путей из архива
	destPath := filepath.Join(filepath.Dir(filePath), filepath.Base(largestFile.Name))
	rc, err := largestFile.Open()
	if err != nil {
		return "", errors.Wrapf(err, "open %s in zip", largestFile.Name)
	}
	defer rc.Close()
	if err := writeFile(destPath, rc); err != nil {
		return "", err
	}
	return destPath, os.Remove(filePath)
}

func unpackStream(filePath, ext string, open func(io.Reader) (io.Reader, error)) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	r, err := open(file)
	if err != nil {
		return "", errors.Wrapf(err, "open %s stream", ext)
	}
	destPath := filePath[:len(filePath)-len(ext)]
	if err := writeFile(destPath, r); err != nil {
		return "", err
	}
	return destPath, os.Remove(filePath)
}

func writeFile(path string, r io.Reader) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return errors.Wrapf(err, "write %s", path)
	}
	return out.Close()
}
