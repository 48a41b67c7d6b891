// Package pipeline turns a wide crime table and a census table into tidy,
// population-normalized community crime rates with outlier classification.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/crimerate-cli/internal/config"
	"github.com/sells-group/crimerate-cli/internal/model"
)

// Options configures a pipeline run.
type Options struct {
	CrimePath   string
	CrimeSheet  string
	CensusPath  string
	CensusSheet string

	CommunityColumn string
	CategoryColumn  string

	Window            Window
	DateLayouts       []string
	PopulationColumns []string
	Classify          ClassifyOptions
}

// OptionsFromConfig builds run options from the pipeline config section.
func OptionsFromConfig(cfg config.PipelineConfig) (Options, error) {
	opts := Options{
		CrimePath:         cfg.CrimePath,
		CrimeSheet:        cfg.CrimeSheet,
		CensusPath:        cfg.CensusPath,
		CensusSheet:       cfg.CensusSheet,
		CommunityColumn:   cfg.CommunityColumn,
		CategoryColumn:    cfg.CategoryColumn,
		DateLayouts:       cfg.DateLayouts,
		PopulationColumns: cfg.PopulationColumns,
		Window: Window{
			Exclude: cfg.ExcludeColumns,
			Layouts: cfg.DateLayouts,
		},
		Classify: ClassifyOptions{
			OutlierThreshold: cfg.OutlierThreshold,
			MinPopulation:    cfg.MinPopulation,
		},
	}

	var err error
	if cfg.WindowStart != "" {
		if err = opts.Window.Start.UnmarshalText([]byte(cfg.WindowStart)); err != nil {
			return Options{}, eris.Wrap(err, "pipeline: window_start")
		}
	}
	if cfg.WindowEnd != "" {
		if err = opts.Window.End.UnmarshalText([]byte(cfg.WindowEnd)); err != nil {
			return Options{}, eris.Wrap(err, "pipeline: window_end")
		}
	}
	if !opts.Window.Start.IsZero() && !opts.Window.End.IsZero() && opts.Window.End.Before(opts.Window.Start) {
		return Options{}, eris.Errorf("pipeline: window_end %s is before window_start %s", opts.Window.End, opts.Window.Start)
	}
	return opts, nil
}

// StageResult records how long a stage took.
type StageResult struct {
	Stage      Stage `json:"stage" yaml:"stage"`
	DurationMs int64 `json:"duration_ms" yaml:"duration_ms"`
}

// Result holds every table produced by a run.
type Result struct {
	RunID     string    `json:"run_id" yaml:"run_id"`
	StartedAt time.Time `json:"started_at" yaml:"started_at"`

	CrimeSource  string `json:"crime_source" yaml:"crime_source"`
	CensusSource string `json:"census_source" yaml:"census_source"`

	// Clean is the cleaned wide table that was reshaped.
	Clean     *model.CrimeTable `json:"-" yaml:"-"`
	CleanInfo CleanStats        `json:"clean" yaml:"clean"`

	Tidy           []model.CrimeRecord      `json:"tidy" yaml:"tidy"`
	Census         []model.CensusRecord     `json:"-" yaml:"-"`
	Enriched       []model.EnrichedRecord   `json:"enriched" yaml:"enriched"`
	Mismatches     []model.JoinMismatch     `json:"mismatches" yaml:"mismatches"`
	Totals         []model.CommunityTotal   `json:"totals" yaml:"totals"`
	Classification Classification           `json:"classification" yaml:"classification"`
	ByCategory     []model.CategoryTotal    `json:"by_category" yaml:"by_category"`
	ByMonth        []model.MonthTotal       `json:"by_month" yaml:"by_month"`
	MonthlyMeans   []model.CommunityMonthly `json:"monthly_means" yaml:"monthly_means"`
	Stages         []StageResult            `json:"stages" yaml:"stages"`
	Options        ClassifyOptions          `json:"thresholds" yaml:"thresholds"`
}

// Run executes load, clean, reshape, enrich, and classify in order. A fatal
// error aborts the run with a *StageError and no partial result.
func Run(ctx context.Context, opts Options) (*Result, error) {
	opts.Classify = opts.Classify.withDefaults()

	res := &Result{
		RunID:        uuid.New().String(),
		StartedAt:    time.Now().UTC(),
		CrimeSource:  opts.CrimePath,
		CensusSource: opts.CensusPath,
		Options:      opts.Classify,
	}
	log := zap.L().With(zap.String("run_id", res.RunID))
	log.Info("pipeline: starting run",
		zap.String("crime", opts.CrimePath),
		zap.String("census", opts.CensusPath),
	)

	track := func(stage Stage, fn func() error) error {
		start := time.Now()
		err := fn()
		duration := time.Since(start).Milliseconds()
		if err != nil {
			log.Error("pipeline: stage failed",
				zap.String("stage", string(stage)),
				zap.Int64("duration_ms", duration),
				zap.Error(err),
			)
			return stageErr(stage, err)
		}
		res.Stages = append(res.Stages, StageResult{Stage: stage, DurationMs: duration})
		log.Info("pipeline: stage complete",
			zap.String("stage", string(stage)),
			zap.Int64("duration_ms", duration),
		)
		return nil
	}

	var (
		crime  *model.CrimeTable
		census *model.CensusTable
	)
	err := track(StageLoad, func() error {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			crime, err = LoadCrime(gctx, opts.CrimePath, LoadOptions{
				Sheet:           opts.CrimeSheet,
				CommunityColumn: opts.CommunityColumn,
				CategoryColumn:  opts.CategoryColumn,
				Exclude:         opts.Window.Exclude,
			})
			return err
		})
		g.Go(func() error {
			var err error
			census, err = LoadCensus(gctx, opts.CensusPath, LoadOptions{
				Sheet:           opts.CensusSheet,
				CommunityColumn: opts.CommunityColumn,
			})
			return err
		})
		return g.Wait()
	})
	if err != nil {
		return nil, err
	}

	err = track(StageClean, func() error {
		res.Clean, res.CleanInfo = Clean(crime, opts.Window)
		if len(res.Clean.MonthColumns) == 0 {
			return eris.New("no month columns remain after applying the reporting window")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = track(StageReshape, func() error {
		var err error
		res.Tidy, err = Reshape(res.Clean, opts.DateLayouts)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = track(StageEnrich, func() error {
		var err error
		res.Census, err = AveragePopulation(census, opts.PopulationColumns)
		if err != nil {
			return err
		}
		joined := Join(res.Tidy, res.Census)
		res.Enriched = joined.Records
		res.Mismatches = joined.Mismatches
		res.Totals = Totals(res.Enriched)
		res.ByCategory = CategoryTotals(res.Enriched)
		res.ByMonth = MonthTotals(res.Enriched)
		res.MonthlyMeans = CommunityMonthlyMeans(res.Enriched)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = track(StageClassify, func() error {
		res.Classification = Classify(res.Totals, opts.Classify)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("pipeline: run complete",
		zap.Int("tidy_rows", len(res.Tidy)),
		zap.Int("communities", len(res.Totals)),
		zap.Int("outliers", len(res.Classification.Outliers)),
		zap.Int("clean", len(res.Classification.Clean)),
		zap.Int("census_mismatches", len(res.Mismatches)),
	)
	return res, nil
}
