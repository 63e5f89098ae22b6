package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaths(t *testing.T) {
	base := t.TempDir()
	paths := NewPaths(base)

	assert.Equal(t, base, paths.ExecutableDir)
	assert.Equal(t, filepath.Join(base, "sample_data"), paths.SampleDataDir)
	assert.Equal(t, filepath.Join(base, "output"), paths.OutputDir)
	assert.Equal(t, filepath.Join(base, "logs"), paths.LogsDir)
}

func TestPaths_EnsureDirectories(t *testing.T) {
	base := t.TempDir()
	paths := NewPaths(base)

	require.NoError(t, paths.EnsureDirectories())

	for _, dir := range []string{paths.OutputDir, paths.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	// Sample data is input-only and must not be created.
	_, err := os.Stat(paths.SampleDataDir)
	assert.True(t, os.IsNotExist(err))
}

func TestPaths_GetOutputPath(t *testing.T) {
	paths := NewPaths("/base")
	assert.Equal(t, filepath.Join("/base", "output", "global_trends.png"),
		paths.GetOutputPath("global_trends.png"))
}

func TestPaths_ResolveSource(t *testing.T) {
	paths := NewPaths("/base")

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"remote url untouched", "https://example.com/data.csv", "https://example.com/data.csv"},
		{"absolute path untouched", "/tmp/data.csv", "/tmp/data.csv"},
		{"relative path anchored", "sample_data/owid-covid-data.csv", filepath.Join("/base", "sample_data", "owid-covid-data.csv")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paths.ResolveSource(tt.source))
		})
	}
}

func TestIsRemoteSource(t *testing.T) {
	assert.True(t, IsRemoteSource("https://covid.ourworldindata.org/data/owid-covid-data.csv"))
	assert.True(t, IsRemoteSource("http://example.com/data.csv"))
	assert.False(t, IsRemoteSource("sample_data/owid-covid-data.csv"))
	assert.False(t, IsRemoteSource("/data/owid.csv"))
}
