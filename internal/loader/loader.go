package loader

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"covidtracker/internal/config"
	"covidtracker/internal/errors"
	"covidtracker/pkg/contracts/domain"
)

// Loader resolves the raw COVID-19 dataset from an ordered list of sources.
// Each source is either a local CSV file or an HTTPS URL serving the same
// schema. Sources are tried in order and the first one that resolves wins;
// a local file that exists is used without touching the network.
type Loader struct {
	logger    *slog.Logger
	paths     *config.Paths
	client    *http.Client
	userAgent string
	sources   []string
}

// New creates a loader for the configured source list.
func New(logger *slog.Logger, paths *config.Paths, cfg config.SourcesConfig, httpCfg config.HTTPConfig) *Loader {
	if logger == nil {
		logger = slog.Default()
	}

	return &Loader{
		logger:    logger,
		paths:     paths,
		client:    &http.Client{Timeout: httpCfg.Timeout},
		userAgent: httpCfg.UserAgent,
		sources:   cfg.Order,
	}
}

// Load tries each configured source in order and returns the first dataset
// that parses. It fails with a DATA_UNAVAILABLE error when every source
// failed, carrying the last failure as cause.
func (l *Loader) Load(ctx context.Context) (*domain.RawTable, error) {
	var lastErr error

	for _, source := range l.sources {
		table, err := l.loadSource(ctx, source)
		if err != nil {
			l.logger.WarnContext(ctx, "data source failed",
				slog.String("source", source),
				slog.String("error", err.Error()))
			lastErr = err
			continue
		}

		l.logger.InfoContext(ctx, "loaded dataset",
			slog.String("source", source),
			slog.Int("rows", len(table.Rows)),
			slog.Int("columns", len(table.Columns)))
		return table, nil
	}

	return nil, errors.NewDataUnavailableError(
		fmt.Sprintf("all %d data sources failed", len(l.sources)), lastErr)
}

// loadSource resolves a single source, local or remote.
func (l *Loader) loadSource(ctx context.Context, source string) (*domain.RawTable, error) {
	if config.IsRemoteSource(source) {
		return l.loadRemote(ctx, source)
	}
	return l.loadLocal(ctx, source)
}

func (l *Loader) loadLocal(ctx context.Context, source string) (*domain.RawTable, error) {
	path := l.paths.ResolveSource(source)

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("local file unavailable: %w", err)
	}

	l.logger.InfoContext(ctx, "loading local file", slog.String("path", path))

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return ParseCSV(f)
}

func (l *Loader) loadRemote(ctx context.Context, url string) (*domain.RawTable, error) {
	l.logger.InfoContext(ctx, "downloading dataset", slog.String("url", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.NewNetworkError("failed to build request", err)
	}
	req.Header.Set("User-Agent", l.userAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, errors.NewNetworkError("download failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewNetworkError(
			fmt.Sprintf("unexpected status %d from %s", resp.StatusCode, url), nil)
	}

	return ParseCSV(resp.Body)
}
