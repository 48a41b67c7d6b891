// Package fetcher reads tabular inputs (CSV, TSV, XLSX) into rows and
// downloads remote archives.
package fetcher

import (
	"context"
	"io"
)

// Row is one record from a tabular source. Line is the 1-based line (CSV) or
// row number (XLSX) in the source, used in error messages.
type Row struct {
	Line  int
	Cells []string
}

// Downloader fetches remote data.
type Downloader interface {
	// Download fetches the URL and returns the response body.
	Download(ctx context.Context, url string) (io.ReadCloser, error)

	// DownloadToFile fetches the URL and writes it to the given path. Returns bytes written.
	DownloadToFile(ctx context.Context, url string, path string) (int64, error)
}
