// Package operations orchestrates one analysis run as a sequence of steps.
//
// Core Components:
//
// Step: A single unit of work (load, normalize, parse dates, one chart, one
// export). Each step declares the dataset columns it reads.
//
// Registry: Keeps the steps in registration order, which is the run order.
//
// Manager: Runs the registered steps one after another. As soon as a step
// installs the dataset, every required column the sheet lacks is logged with
// the steps depending on it. Before each step it
// checks the loaded dataset for the step's required columns; when any is
// absent the step is skipped and the reason recorded instead of failing the
// run. A step that returns an error stops the run and the remaining steps are
// marked skipped. Every step gets its own trace span and its outcome is
// counted in the run metrics.
//
// RunState: The dataset being cleaned, the step states, intermediate results
// shared between steps and the artifacts written so far.
//
// RunManifest: A JSON snapshot of the RunState written to the output
// directory at the end of the run.
//
// Example usage:
//
//	registry, err := operations.NewRunRegistry(&operations.StageOptions{
//		Config:    cfg,
//		InputFile: paths.InputFile,
//		OutputDir: paths.OutputDir,
//		Loader:    dataset.NewLoader(dataset.WithSheet(cfg.Paths.SheetName)),
//		Renderer:  render.NewPlotRenderer(),
//		CSV:       exporter.NewCSVWriter(paths.OutputDir, logger),
//		Workbook:  exporter.NewWorkbookWriter(paths.OutputDir, logger),
//		Metrics:   metrics,
//		Logger:    logger,
//	})
//	manager := operations.NewManager(registry, operations.WithLogger(logger))
//	state := operations.NewRunState(runID)
//	err = manager.Execute(ctx, state)
package operations
