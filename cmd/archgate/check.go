package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/viant/archgate/analyzer"
	"github.com/viant/archgate/analyzer/layer"
	"github.com/viant/archgate/analyzer/report"
	"github.com/viant/archgate/config"
	"github.com/viant/archgate/inspector/repository"
	"github.com/viant/archgate/metrics"
	"go.uber.org/zap"
)

// checkFlags overrides configuration values when set
type checkFlags struct {
	format      string
	workers     int
	rootPackage string
	metricsFile string
}

func newCheckCmd(c *cli) *cobra.Command {
	flags := &checkFlags{}
	cmd := &cobra.Command{
		Use:   "check [path]",
		Short: "Check a source tree against the layer policy",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			root, err := c.sourceRoot(pathArg(args))
			if err != nil {
				return err
			}
			passed, err := c.check(cmd.Context(), cfg, root, metrics.New())
			if err != nil {
				return err
			}
			if !passed {
				return &exitCodeError{code: exitFailed}
			}
			return nil
		},
	}
	addCheckFlags(cmd, flags)
	return cmd
}

func addCheckFlags(cmd *cobra.Command, flags *checkFlags) {
	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "report format: text, json or yaml")
	cmd.Flags().IntVarP(&flags.workers, "workers", "w", 0, "modules analyzed concurrently (default: number of CPUs)")
	cmd.Flags().StringVar(&flags.rootPackage, "root-package", "", "top-level package name stripped from absolute imports")
	cmd.Flags().StringVar(&flags.metricsFile, "metrics-file", "", "write Prometheus textfile metrics to this file")
}

func pathArg(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}

// loadConfig applies explicitly set flags to the resolved configuration
func (c *cli) loadConfig(cmd *cobra.Command, flags *checkFlags) (*config.Config, error) {
	cfg := c.config
	if cmd.Flags().Changed("format") {
		cfg.Output.Format = flags.format
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = flags.workers
	}
	if cmd.Flags().Changed("root-package") {
		cfg.Source.RootPackage = flags.rootPackage
	}
	if cmd.Flags().Changed("metrics-file") {
		cfg.Output.MetricsFile = flags.metricsFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// sourceRoot returns location when it holds layer packages, otherwise the source root detected from its project
func (c *cli) sourceRoot(location string) (string, error) {
	detector := repository.New(layer.Names()...)
	if detector.IsSourceRoot(location) {
		return location, nil
	}
	aRepository, err := detector.DetectRepository(location)
	if err != nil {
		return "", err
	}
	project := aRepository.Info
	if project.SourceRoot == "" {
		return location, nil
	}
	c.logger.Info("detected source root",
		zap.String("repository", aRepository.Kind),
		zap.String("origin", aRepository.Origin),
		zap.String("project", project.Name),
		zap.String("sourceRoot", project.SourceRoot))
	return project.SourceRoot, nil
}

// check runs the gate once and renders its report
func (c *cli) check(ctx context.Context, cfg *config.Config, root string, gateMetrics *metrics.Metrics) (bool, error) {
	format, err := report.ParseFormat(cfg.Output.Format)
	if err != nil {
		return false, err
	}
	anAnalyzer := analyzer.New(
		analyzer.WithPolicy(cfg.Policy),
		analyzer.WithConfig(cfg.Source),
		analyzer.WithWorkers(cfg.Workers),
		analyzer.WithLogger(c.logger),
	)
	aReport, err := anAnalyzer.Run(ctx, root)
	if err != nil {
		return false, err
	}
	if err = report.Render(c.stdout, aReport, format); err != nil {
		return false, err
	}
	if cfg.Output.MetricsFile != "" {
		gateMetrics.Observe(aReport)
		if err = gateMetrics.WriteTextfile(cfg.Output.MetricsFile); err != nil {
			return false, err
		}
	}
	return aReport.Passed(), nil
}
