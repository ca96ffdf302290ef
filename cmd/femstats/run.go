package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/saucynandhu/femicideKEanalysis/internal/config"
	"github.com/saucynandhu/femicideKEanalysis/internal/dataset"
	apperrors "github.com/saucynandhu/femicideKEanalysis/internal/errors"
	"github.com/saucynandhu/femicideKEanalysis/internal/exporter"
	"github.com/saucynandhu/femicideKEanalysis/internal/infrastructure"
	"github.com/saucynandhu/femicideKEanalysis/internal/operations"
	"github.com/saucynandhu/femicideKEanalysis/internal/render"
)

// newRenderer builds the chart renderer for a run. Replaced in tests.
var newRenderer = func() render.Renderer {
	return render.NewPlotRenderer()
}

// runAnalysis performs one batch run: configuration, logging, telemetry, the
// step pipeline and the run manifest.
func runAnalysis(ctx context.Context, f *flags, changed func(string) bool, stdout, stderr io.Writer) error {
	cfg, err := config.Load(f.configFile)
	if err != nil {
		return &exitError{code: exitFailure, err: apperrors.NewConfigError("failed to load configuration", err)}
	}
	applyFlags(cfg, f, changed)
	if err := cfg.Validate(); err != nil {
		return &exitError{code: exitFailure, err: apperrors.NewConfigError("invalid command line options", err)}
	}

	paths, err := config.ResolvePaths(cfg.Paths)
	if err != nil {
		return &exitError{code: exitFailure, err: apperrors.NewConfigError("failed to resolve paths", err)}
	}
	if err := paths.EnsureDirectories(); err != nil {
		return &exitError{code: exitFailure, err: apperrors.NewStorageError("failed to create directories", err)}
	}

	// The default log file follows the resolved logs directory.
	if cfg.Logging.FilePath == config.DefaultLogsDir+"/"+config.DefaultLogFile {
		cfg.Logging.FilePath = paths.LogPath(config.DefaultLogFile)
	}
	runLogger, err := infrastructure.NewLogger(cfg.Logging, stderr)
	if err != nil {
		return &exitError{code: exitFailure, err: err}
	}
	defer runLogger.Close()
	logger := runLogger.Logger
	previous := slog.Default()
	slog.SetDefault(logger)
	defer slog.SetDefault(previous)
	paths.LogPathResolution(logger)

	ctx, runID := infrastructure.EnsureRunID(ctx)

	providers, closeTrace, err := initTracing(cfg, paths, logger)
	if err != nil {
		return &exitError{code: exitFailure, err: err}
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Failed to flush traces", slog.String("error", err.Error()))
		}
		closeTrace()
	}()

	metrics := infrastructure.NewRunMetrics()
	loaderLogger := infrastructure.WithComponent(logger, "loader")
	opts := &operations.StageOptions{
		Config:    cfg,
		InputFile: paths.InputFile,
		OutputDir: paths.OutputDir,
		Loader:    dataset.NewLoader(dataset.WithSheet(cfg.Paths.SheetName), dataset.WithLogger(loaderLogger)),
		Renderer:  newRenderer(),
		CSV:       exporter.NewCSVWriter(paths.OutputDir, logger),
		Workbook:  exporter.NewWorkbookWriter(paths.OutputDir, logger),
		Metrics:   metrics,
		Logger:    logger,
	}

	registry, err := operations.NewRunRegistry(opts)
	if err != nil {
		return &exitError{code: exitFailure, err: apperrors.NewConfigError("failed to build pipeline", err)}
	}
	manager := operations.NewManager(registry,
		operations.WithLogger(logger),
		operations.WithTracer(operations.NewStepTracer(providers.Tracer)),
		operations.WithMetrics(metrics),
	)

	state := operations.NewRunState(runID)
	runErr := manager.Execute(ctx, state)

	writeRunRecords(ctx, logger, cfg, paths, state, metrics)

	if runErr != nil {
		if step := operations.FailedStep(runErr); step != "" {
			return &exitError{code: exitFailure, err: fmt.Errorf("step %s failed: %w", step, runErr)}
		}
		return &exitError{code: exitFailure, err: runErr}
	}

	fmt.Fprintf(stdout, "Analysis complete. All visualizations saved to: %s\n", paths.OutputDir)

	skipped := state.SkippedSteps()
	if len(skipped) > 0 {
		for _, id := range skipped {
			_, reason, _ := state.GetStep(id).Snapshot()
			fmt.Fprintf(stderr, "skipped %s: %s\n", id, reason)
		}
		if cfg.Reports.Strict {
			return &exitError{
				code: exitSkipped,
				err:  fmt.Errorf("strict mode: %d step(s) skipped: %s", len(skipped), strings.Join(skipped, ", ")),
			}
		}
	}
	return nil
}

// initTracing exports spans to the configured trace file, or returns a no-op
// tracer when none is set. The returned func closes the file.
func initTracing(cfg *config.Config, paths *config.Paths, logger *slog.Logger) (*infrastructure.TracingProviders, func(), error) {
	if cfg.Telemetry.TraceFile == "" {
		providers, err := infrastructure.InitializeTracing(nil, logger)
		return providers, func() {}, err
	}

	file, err := os.Create(paths.Artifact(cfg.Telemetry.TraceFile))
	if err != nil {
		return nil, nil, apperrors.NewStorageError("failed to create trace file", err)
	}
	providers, err := infrastructure.InitializeTracing(file, logger)
	if err != nil {
		file.Close()
		return nil, nil, err
	}
	return providers, func() { file.Close() }, nil
}

// writeRunRecords saves the run manifest and the metrics textfile. Failures
// are logged and do not change the exit status.
func writeRunRecords(ctx context.Context, logger *slog.Logger, cfg *config.Config, paths *config.Paths,
	state *operations.RunState, metrics *infrastructure.RunMetrics) {
	manifest := operations.NewRunManifest(state, config.AppVersion, paths.InputFile, paths.OutputDir)
	manifestPath := paths.Artifact(config.ArtifactRunManifest)
	if err := manifest.SaveToFile(manifestPath); err != nil {
		logger.ErrorContext(ctx, "Failed to write run manifest", slog.String("error", err.Error()))
	} else {
		logger.InfoContext(ctx, "Run manifest written", slog.String("path", manifestPath))
	}

	if cfg.Telemetry.MetricsFile == "" {
		return
	}
	metricsPath := paths.Artifact(cfg.Telemetry.MetricsFile)
	if err := metrics.WriteTextfile(metricsPath); err != nil {
		logger.ErrorContext(ctx, "Failed to write metrics", slog.String("error", err.Error()))
	}
}
