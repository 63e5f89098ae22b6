package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Paths contains all the application paths.
// This is the single source of truth for ALL file paths in the application.
type Paths struct {
	ExecutableDir string
	SampleDataDir string
	OutputDir     string
	LogsDir       string
}

// GetPaths returns the application paths relative to the executable location.
// All paths are ALWAYS relative to the executable directory, never the current
// working directory:
//
//	covid-tracker
//	├── config.yaml          (optional)
//	├── sample_data/         (local dataset copies)
//	├── output/              (charts, cleaned CSV, summary workbook)
//	└── logs/
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %v", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	return NewPaths(filepath.Dir(exe)), nil
}

// NewPaths builds the path set rooted at the given base directory.
func NewPaths(baseDir string) *Paths {
	return &Paths{
		ExecutableDir: baseDir,
		SampleDataDir: filepath.Join(baseDir, "sample_data"),
		OutputDir:     filepath.Join(baseDir, "output"),
		LogsDir:       filepath.Join(baseDir, "logs"),
	}
}

// EnsureDirectories creates the writable directories if they do not exist.
// The sample data directory is input-only and is not created.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.OutputDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetOutputPath returns the full path for an artifact in the output directory
func (p *Paths) GetOutputPath(filename string) string {
	return filepath.Join(p.OutputDir, filename)
}

// GetLogPath returns the full path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// ResolveSource resolves a configured dataset source. Remote URLs and absolute
// paths pass through unchanged; relative local paths are anchored at the
// executable directory.
func (p *Paths) ResolveSource(source string) string {
	if IsRemoteSource(source) || filepath.IsAbs(source) {
		return source
	}
	return filepath.Join(p.ExecutableDir, filepath.FromSlash(source))
}

// IsRemoteSource reports whether the source is an HTTP(S) URL rather than a
// local file path.
func IsRemoteSource(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
