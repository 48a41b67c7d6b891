package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/crimerate-cli/internal/config"
	"github.com/sells-group/crimerate-cli/internal/export"
	"github.com/sells-group/crimerate-cli/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the pipeline and write its tables",
	Long:  "Runs load, clean, reshape, enrich, and classify, writes the output tables in the configured formats, and prints a markdown report.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		applyPipelineFlags(cmd.Flags(), cfg)
		if err := cfg.Validate("run"); err != nil {
			return err
		}

		res, err := runPipeline(ctx, cfg)
		if err != nil {
			return err
		}

		formats, err := export.ParseFormats(cfg.Output.Formats)
		if err != nil {
			return err
		}
		paths, err := export.WriteAll(res, cfg.Output.Dir, formats)
		if err != nil {
			return eris.Wrap(err, "write outputs")
		}
		zap.L().Info("outputs written", zap.Strings("paths", paths))

		noReport, _ := cmd.Flags().GetBool("no-report")
		if !noReport {
			fmt.Fprint(cmd.OutOrStdout(), pipeline.FormatReport(res, cfg.Pipeline.ReportTop))
		}
		return nil
	},
}

// runPipeline builds run options from c and executes the pipeline.
func runPipeline(ctx context.Context, c *config.Config) (*pipeline.Result, error) {
	opts, err := pipeline.OptionsFromConfig(c.Pipeline)
	if err != nil {
		return nil, err
	}
	res, err := pipeline.Run(ctx, opts)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline run")
	}
	return res, nil
}

func init() {
	addPipelineFlags(runCmd)
	runCmd.Flags().Bool("no-report", false, "do not print the markdown report")
	rootCmd.AddCommand(runCmd)
}
