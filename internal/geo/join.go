package geo

import (
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/sells-group/crimerate-cli/internal/model"
	"github.com/sells-group/crimerate-cli/internal/pipeline"
	"github.com/sells-group/crimerate-cli/internal/transform"
)

// Feature is a boundary with its matched community total, if any.
type Feature struct {
	Boundary Boundary
	Total    *model.CommunityTotal
	Class    string
	Outlier  bool
}

// JoinResult is the output of Join.
type JoinResult struct {
	Features []Feature
	// Unmatched lists community totals with no boundary, in input order.
	Unmatched []string
}

// Join matches each boundary to the community total with the same
// normalized name. Boundaries without a total are kept with class
// ClassNoData.
func Join(boundaries []Boundary, totals []model.CommunityTotal, bins Bins, outlierThreshold float64) *JoinResult {
	byKey := make(map[string]int, len(totals))
	for i, t := range totals {
		key := transform.NormalizeCommunity(t.Community)
		if _, ok := byKey[key]; !ok {
			byKey[key] = i
		}
	}

	res := &JoinResult{Features: make([]Feature, 0, len(boundaries))}
	matched := make(map[int]bool, len(totals))
	for _, b := range boundaries {
		f := Feature{Boundary: b, Class: ClassNoData}
		if i, ok := byKey[transform.NormalizeCommunity(b.Name)]; ok {
			t := totals[i]
			matched[i] = true
			f.Total = &t
			f.Class = bins.Classify(t)
			f.Outlier = pipeline.IsOutlier(t, outlierThreshold)
		}
		res.Features = append(res.Features, f)
	}

	for i, t := range totals {
		if !matched[i] {
			res.Unmatched = append(res.Unmatched, t.Community)
		}
	}
	if len(res.Unmatched) > 0 {
		zap.L().Warn("geo: communities without a boundary",
			zap.Int("count", len(res.Unmatched)),
			zap.Strings("communities", res.Unmatched),
		)
	}
	return res
}

// FeatureCollection encodes joined features as GeoJSON. Communities without
// a total carry null rate properties.
func FeatureCollection(features []Feature) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(features))}
	for _, f := range features {
		props := map[string]interface{}{
			"name":               f.Boundary.Name,
			"community":          nil,
			"total_by_community": nil,
			"avg_pop":            nil,
			"per100":             nil,
			"class":              f.Class,
			"outlier":            f.Outlier,
		}
		if f.Total != nil {
			props["community"] = f.Total.Community
			props["total_by_community"] = f.Total.TotalByCommunity
			if f.Total.AvgPop != nil {
				props["avg_pop"] = *f.Total.AvgPop
			}
			if rate, ok := f.Total.Rate(); ok {
				props["per100"] = rate
			}
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         f.Boundary.Name,
			Geometry:   f.Boundary.Geometry,
			Properties: props,
		})
	}
	return fc
}
