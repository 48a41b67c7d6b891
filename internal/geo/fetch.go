package geo

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/crimerate-cli/internal/fetcher"
)

// FetchBoundaries downloads a zipped shapefile into tempDir, extracts it, and
// returns the path of the first .shp file in the archive.
func FetchBoundaries(ctx context.Context, dl fetcher.Downloader, url, tempDir string) (string, error) {
	log := zap.L().With(zap.String("component", "geo.fetch"))

	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return "", eris.Wrap(err, "geo: create temp dir")
	}

	zipPath := filepath.Join(tempDir, "boundaries.zip")
	log.Info("downloading boundary shapefile", zap.String("url", url))
	n, err := dl.DownloadToFile(ctx, url, zipPath)
	if err != nil {
		return "", eris.Wrap(err, "geo: download boundaries")
	}

	extractDir := filepath.Join(tempDir, "boundaries")
	if err := os.MkdirAll(extractDir, 0o755); err != nil {
		return "", eris.Wrap(err, "geo: create extract dir")
	}
	if _, err := fetcher.ExtractZIP(zipPath, extractDir); err != nil {
		return "", eris.Wrap(err, "geo: extract boundaries")
	}

	shpPath, err := fetcher.FindByExt(extractDir, ".shp")
	if err != nil {
		return "", eris.Wrap(err, "geo: find .shp file")
	}

	log.Info("boundary shapefile ready", zap.String("path", shpPath), zap.Int64("bytes", n))
	return shpPath, nil
}
