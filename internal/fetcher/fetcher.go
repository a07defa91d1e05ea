// Package fetcher downloads remote boundary files over HTTP and FTP, unpacks
// ZIP archives, and reads tabular CSV, XLSX and JSON inputs.
package fetcher

import (
	"context"
	"io"
)

// Fetcher defines the interface for downloading remote boundary and data files.
type Fetcher interface {
	// Download fetches the URL and returns the response body.
	Download(ctx context.Context, url string) (io.ReadCloser, error)

	// DownloadToFile fetches the URL and writes it to the given path. Returns bytes written.
	DownloadToFile(ctx context.Context, url string, path string) (int64, error)
}
