package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/crimerate-cli/internal/fetcher"
	"github.com/sells-group/crimerate-cli/internal/geo"
)

var geojoinCmd = &cobra.Command{
	Use:   "geojoin",
	Short: "Join community rates onto boundary polygons as GeoJSON",
	Long:  "Runs the pipeline, reads community boundaries from a local shapefile or a zipped shapefile URL, bins each community's cases per 100 residents, and writes a GeoJSON FeatureCollection.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		flags := cmd.Flags()
		applyPipelineFlags(flags, cfg)
		setString(flags, "boundary", &cfg.Boundary.Path)
		setString(flags, "boundary-url", &cfg.Boundary.URL)
		setString(flags, "name-field", &cfg.Boundary.NameField)
		setFloats(flags, "bins", &cfg.Boundary.Bins)
		if err := cfg.Validate("geojoin"); err != nil {
			return err
		}
		bins := geo.Bins(cfg.Boundary.Bins)
		if err := bins.Validate(); err != nil {
			return err
		}

		res, err := runPipeline(ctx, cfg)
		if err != nil {
			return err
		}

		shpPath := cfg.Boundary.Path
		if shpPath == "" {
			dl := fetcher.NewHTTPDownloader(fetcher.HTTPOptions{
				Timeout: time.Duration(cfg.Boundary.TimeoutSecs) * time.Second,
			})
			shpPath, err = geo.FetchBoundaries(ctx, dl, cfg.Boundary.URL, cfg.Boundary.TempDir)
			if err != nil {
				return err
			}
		}

		boundaries, err := geo.ReadBoundaries(shpPath, cfg.Boundary.NameField)
		if err != nil {
			return err
		}
		joined := geo.Join(boundaries, res.Totals, bins, res.Options.OutlierThreshold)

		outPath, _ := flags.GetString("geojson")
		if outPath == "" {
			outPath = filepath.Join(cfg.Output.Dir, "communities.geojson")
		}
		data, err := json.Marshal(geo.FeatureCollection(joined.Features))
		if err != nil {
			return eris.Wrap(err, "geojoin: encode geojson")
		}
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return eris.Wrapf(err, "geojoin: create dir for %s", outPath)
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return eris.Wrapf(err, "geojoin: write %s", outPath)
		}

		zap.L().Info("geojson written",
			zap.String("path", outPath),
			zap.Int("features", len(joined.Features)),
			zap.Int("unmatched", len(joined.Unmatched)),
		)
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d features to %s (%d communities without a boundary)\n",
			len(joined.Features), outPath, len(joined.Unmatched))
		return nil
	},
}

func init() {
	addPipelineFlags(geojoinCmd)
	geojoinCmd.Flags().String("boundary", "", "community boundary shapefile (.shp)")
	geojoinCmd.Flags().String("boundary-url", "", "URL of a zipped boundary shapefile")
	geojoinCmd.Flags().String("name-field", "", "shapefile attribute holding the community name")
	geojoinCmd.Flags().Float64Slice("bins", nil, "ascending per-100 break points for rate classes")
	geojoinCmd.Flags().String("geojson", "", "GeoJSON output path (default <out>/communities.geojson)")
	rootCmd.AddCommand(geojoinCmd)
}
