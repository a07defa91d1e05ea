package boundary

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Pratiksahu04/TelanganaDataViz/internal/fetcher"
)

// FetchOptions configures remote boundary downloads.
type FetchOptions struct {
	Timeout    time.Duration
	MaxRetries int
	CacheDir   string
}

// Fetch resolves a boundary location to a local file path. Local paths are
// returned unchanged. http, https and ftp URLs are downloaded into CacheDir
// once; a cached copy is reused on later calls.
func Fetch(ctx context.Context, location string, opts FetchOptions) (string, error) {
	u, err := url.Parse(location)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return location, nil
	}

	var f fetcher.Fetcher
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		f = fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
			Timeout:    opts.Timeout,
			MaxRetries: opts.MaxRetries,
		})
	case "ftp":
		f = fetcher.NewFTPFetcher(fetcher.FTPOptions{Timeout: opts.Timeout})
	default:
		return "", eris.Errorf("boundary: unsupported url scheme %q", u.Scheme)
	}

	cacheDir := opts.CacheDir
	if cacheDir == "" {
		cacheDir = os.TempDir()
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return "", eris.Wrap(err, "boundary: create cache dir")
	}

	name := path.Base(u.Path)
	if name == "" || name == "/" || name == "." {
		name = "boundaries.geojson"
	}
	dest := filepath.Join(cacheDir, name)

	if info, statErr := os.Stat(dest); statErr == nil && info.Size() > 0 {
		zap.L().Debug("boundary: using cached download", zap.String("path", dest))
		return dest, nil
	}

	n, err := f.DownloadToFile(ctx, location, dest)
	if err != nil {
		_ = os.Remove(dest)
		return "", eris.Wrapf(err, "boundary: download %s", location)
	}

	zap.L().Info("boundary: downloaded boundaries",
		zap.String("url", location),
		zap.String("path", dest),
		zap.Int64("bytes", n),
	)
	return dest, nil
}
