package aggregator

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"covidtracker/pkg/contracts/domain"
)

// Aggregator turns cleaned records into the two summary tables the rest of
// the pipeline consumes: the global time series and the latest per-country
// snapshot.
type Aggregator struct {
	logger *slog.Logger
}

// New creates an aggregator.
func New(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{logger: logger}
}

// GlobalSeries sums cleaned records across countries per date. A country
// without a row on a given date contributes its last known cumulative totals
// (and zero daily values) once it has appeared, so the summed totals are
// monotonically non-decreasing over the series.
func (a *Aggregator) GlobalSeries(ctx context.Context, records []domain.Record) []domain.GlobalDatapoint {
	if len(records) == 0 {
		return []domain.GlobalDatapoint{}
	}

	type carry struct {
		totalCases  float64
		totalDeaths float64
	}

	byCountry := make(map[string]map[string]domain.Record)
	dateSet := make(map[string]time.Time)

	for _, r := range records {
		key := r.Date.Format(domain.DateFormat)
		dateSet[key] = r.Date
		if byCountry[r.Location] == nil {
			byCountry[r.Location] = make(map[string]domain.Record)
		}
		// Duplicate (country, date) rows: the later input row wins.
		byCountry[r.Location][key] = r
	}

	dates := make([]string, 0, len(dateSet))
	for key := range dateSet {
		dates = append(dates, key)
	}
	sort.Strings(dates)

	points := make(map[string]*domain.GlobalDatapoint, len(dates))
	for _, key := range dates {
		points[key] = &domain.GlobalDatapoint{Date: dateSet[key]}
	}

	for _, perDate := range byCountry {
		var last carry
		started := false

		for _, key := range dates {
			p := points[key]
			if r, ok := perDate[key]; ok {
				p.NewCases += r.NewCases
				p.NewDeaths += r.NewDeaths
				p.NewVaccinations += r.NewVaccinations
				p.TotalCases += r.TotalCases
				p.TotalDeaths += r.TotalDeaths
				last = carry{totalCases: r.TotalCases, totalDeaths: r.TotalDeaths}
				started = true
			} else if started {
				// Carry cumulative totals across dates the country
				// has no row for.
				p.TotalCases += last.totalCases
				p.TotalDeaths += last.totalDeaths
			}
		}
	}

	series := make([]domain.GlobalDatapoint, 0, len(dates))
	for _, key := range dates {
		series = append(series, *points[key])
	}

	a.logger.InfoContext(ctx, "built global time series",
		slog.Int("dates", len(series)),
		slog.Int("countries", len(byCountry)))

	return series
}

// Snapshots selects the latest cleaned record for each country, exactly one
// per distinct country. When several rows share a country's maximum date, the
// row appearing last in input order wins.
func (a *Aggregator) Snapshots(ctx context.Context, records []domain.Record) []domain.CountrySnapshot {
	best := make(map[string]domain.CountrySnapshot)

	for _, r := range records {
		current, ok := best[r.Location]
		if !ok || !r.Date.Before(current.Date) {
			best[r.Location] = r
		}
	}

	snapshots := make([]domain.CountrySnapshot, 0, len(best))
	for _, s := range best {
		snapshots = append(snapshots, s)
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Location < snapshots[j].Location
	})

	a.logger.InfoContext(ctx, "built country snapshots",
		slog.Int("countries", len(snapshots)))

	return snapshots
}

// RollingMean computes the trailing mean of values over the given window.
// Early positions average over however many samples exist so far, so the
// result has the same length as the input and contains no NaN.
func RollingMean(values []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}

	result := make([]float64, len(values))
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		n := i + 1
		if n > window {
			n = window
		}
		result[i] = sum / float64(n)
	}
	return result
}
