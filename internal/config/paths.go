package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved file system locations for one run.
// This is the single source of truth for every path the pipeline touches.
type Paths struct {
	ExecutableDir string
	InputFile     string
	OutputDir     string
	LogsDir       string
}

// ResolvePaths turns the configured paths into absolute ones.
//
// A relative input file is looked up in the working directory first and then
// next to the executable, so the default dataset.xlsx can live beside the
// binary. Output and logs directories are relative to the working directory.
func ResolvePaths(cfg PathsConfig) (*Paths, error) {
	exeDir, err := executableDir()
	if err != nil {
		return nil, err
	}

	input, err := resolveInput(cfg.InputFile, exeDir)
	if err != nil {
		return nil, err
	}

	outputDir, err := filepath.Abs(cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory: %w", err)
	}

	logsDir := cfg.LogsDir
	if logsDir == "" {
		logsDir = DefaultLogsDir
	}
	logsDir, err = filepath.Abs(logsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve logs directory: %w", err)
	}

	return &Paths{
		ExecutableDir: exeDir,
		InputFile:     input,
		OutputDir:     outputDir,
		LogsDir:       logsDir,
	}, nil
}

func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %v", err)
	}

	// Resolve symlinks to get the actual executable location
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	return filepath.Dir(exe), nil
}

func resolveInput(input, exeDir string) (string, error) {
	if filepath.IsAbs(input) {
		return input, nil
	}

	candidates := []string{input, filepath.Join(exeDir, input)}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return filepath.Abs(candidate)
		}
	}

	// Neither exists; report the working-directory form so the loader error is readable.
	return filepath.Abs(input)
}

// EnsureDirectories creates the output and logs directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.OutputDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Artifact returns the path of an output file inside the output directory.
func (p *Paths) Artifact(name string) string {
	return filepath.Join(p.OutputDir, name)
}

// LogPath returns the full path for a log file
func (p *Paths) LogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// LogPathResolution logs all resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	logger.Debug("Path resolution complete",
		slog.String("executable_dir", p.ExecutableDir),
		slog.String("input_file", p.InputFile),
		slog.String("output_dir", p.OutputDir),
		slog.String("logs_dir", p.LogsDir))
}
