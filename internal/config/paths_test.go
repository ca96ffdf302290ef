package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePaths_AbsoluteInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "cases.xlsx")

	paths, err := ResolvePaths(PathsConfig{
		InputFile: input,
		OutputDir: filepath.Join(dir, "out"),
		LogsDir:   filepath.Join(dir, "logs"),
	})
	require.NoError(t, err)

	assert.Equal(t, input, paths.InputFile)
	assert.Equal(t, filepath.Join(dir, "out"), paths.OutputDir)
	assert.True(t, filepath.IsAbs(paths.ExecutableDir))
}

func TestResolvePaths_RelativeDirsBecomeAbsolute(t *testing.T) {
	paths, err := ResolvePaths(PathsConfig{
		InputFile: "does-not-exist.xlsx",
		OutputDir: "out",
	})
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "does-not-exist.xlsx"), paths.InputFile)
	assert.Equal(t, filepath.Join(wd, "out"), paths.OutputDir)
	assert.Equal(t, filepath.Join(wd, DefaultLogsDir), paths.LogsDir)
}

func TestPaths_EnsureDirectoriesAndArtifact(t *testing.T) {
	dir := t.TempDir()
	paths := &Paths{
		OutputDir: filepath.Join(dir, "nested", "out"),
		LogsDir:   filepath.Join(dir, "logs"),
	}

	require.NoError(t, paths.EnsureDirectories())
	// Idempotent when the directories already exist.
	require.NoError(t, paths.EnsureDirectories())

	info, err := os.Stat(paths.OutputDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	assert.Equal(t, filepath.Join(dir, "nested", "out", ArtifactVerdicts), paths.Artifact(ArtifactVerdicts))
	assert.Equal(t, filepath.Join(dir, "logs", "run.log"), paths.LogPath("run.log"))
}
