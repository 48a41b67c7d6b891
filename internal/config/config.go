package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
	Boundary BoundaryConfig `yaml:"boundary" mapstructure:"boundary"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// PipelineConfig configures the crime-rate pipeline inputs and thresholds.
type PipelineConfig struct {
	CrimePath   string `yaml:"crime_path" mapstructure:"crime_path"`
	CrimeSheet  string `yaml:"crime_sheet" mapstructure:"crime_sheet"`
	CensusPath  string `yaml:"census_path" mapstructure:"census_path"`
	CensusSheet string `yaml:"census_sheet" mapstructure:"census_sheet"`

	CommunityColumn string `yaml:"community_column" mapstructure:"community_column"`
	CategoryColumn  string `yaml:"category_column" mapstructure:"category_column"`

	// ExcludeColumns names month columns dropped before reshaping.
	ExcludeColumns []string `yaml:"exclude_columns" mapstructure:"exclude_columns"`
	// WindowStart and WindowEnd bound the reporting window (YYYY-MM, inclusive).
	WindowStart string `yaml:"window_start" mapstructure:"window_start"`
	WindowEnd   string `yaml:"window_end" mapstructure:"window_end"`
	// PopulationColumns selects the census years averaged into AvgPop; empty means all.
	PopulationColumns []string `yaml:"population_columns" mapstructure:"population_columns"`
	DateLayouts       []string `yaml:"date_layouts" mapstructure:"date_layouts"`

	OutlierThreshold float64 `yaml:"outlier_threshold" mapstructure:"outlier_threshold"`
	MinPopulation    float64 `yaml:"min_population" mapstructure:"min_population"`
	ReportTop        int     `yaml:"report_top" mapstructure:"report_top"`
}

// OutputConfig configures where run tables are written.
type OutputConfig struct {
	Dir     string   `yaml:"dir" mapstructure:"dir"`
	Formats []string `yaml:"formats" mapstructure:"formats"`
}

// BoundaryConfig configures the community boundary shapefile join.
type BoundaryConfig struct {
	Path        string    `yaml:"path" mapstructure:"path"`
	URL         string    `yaml:"url" mapstructure:"url"`
	NameField   string    `yaml:"name_field" mapstructure:"name_field"`
	TempDir     string    `yaml:"temp_dir" mapstructure:"temp_dir"`
	TimeoutSecs int       `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Bins        []float64 `yaml:"bins" mapstructure:"bins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CRIMERATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("pipeline.crime_path", "")
	v.SetDefault("pipeline.crime_sheet", "")
	v.SetDefault("pipeline.census_path", "")
	v.SetDefault("pipeline.census_sheet", "")
	v.SetDefault("pipeline.community_column", "Community")
	v.SetDefault("pipeline.category_column", "Category")
	v.SetDefault("pipeline.exclude_columns", []string{})
	v.SetDefault("pipeline.window_start", "")
	v.SetDefault("pipeline.window_end", "")
	v.SetDefault("pipeline.population_columns", []string{})
	v.SetDefault("pipeline.date_layouts", []string{})
	v.SetDefault("pipeline.outlier_threshold", 500.0)
	v.SetDefault("pipeline.min_population", 500.0)
	v.SetDefault("pipeline.report_top", 10)
	v.SetDefault("output.dir", "out")
	v.SetDefault("output.formats", []string{"csv"})
	v.SetDefault("boundary.path", "")
	v.SetDefault("boundary.url", "")
	v.SetDefault("boundary.name_field", "NAME")
	v.SetDefault("boundary.temp_dir", "/tmp/crimerate")
	v.SetDefault("boundary.timeout_secs", 120)
	v.SetDefault("boundary.bins", []float64{5, 10, 20, 50})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the configuration for the given command mode ("run" or
// "geojoin"). All problems are reported together.
func (c *Config) Validate(mode string) error {
	var errs []string

	if c.Pipeline.CommunityColumn == "" || c.Pipeline.CategoryColumn == "" {
		errs = append(errs, "pipeline.community_column and pipeline.category_column are required")
	}
	if c.Pipeline.OutlierThreshold <= 0 {
		errs = append(errs, "pipeline.outlier_threshold must be > 0")
	}
	if c.Pipeline.MinPopulation < 0 {
		errs = append(errs, "pipeline.min_population must be >= 0")
	}

	switch mode {
	case "run":
	case "geojoin":
		if c.Boundary.Path == "" && c.Boundary.URL == "" {
			errs = append(errs, "boundary.path or boundary.url is required")
		}
		if c.Boundary.NameField == "" {
			errs = append(errs, "boundary.name_field is required")
		}
		for i := 1; i < len(c.Boundary.Bins); i++ {
			if c.Boundary.Bins[i] <= c.Boundary.Bins[i-1] {
				errs = append(errs, "boundary.bins must be strictly increasing")
				break
			}
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Pipeline.CrimePath == "" {
		errs = append(errs, "pipeline.crime_path is required")
	}
	if c.Pipeline.CensusPath == "" {
		errs = append(errs, "pipeline.census_path is required")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
