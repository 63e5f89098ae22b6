package exporter

import (
	"context"
	"encoding/csv"
	"log/slog"
	"os"
	"strconv"

	"covidtracker/internal/config"
	"covidtracker/internal/errors"
	"covidtracker/pkg/contracts/domain"
)

// CleanDataColumns is the exported column order: the OWID source columns the
// pipeline keeps, followed by the derived columns the cleaner adds.
var CleanDataColumns = []string{
	domain.ColISOCode,
	domain.ColContinent,
	domain.ColLocation,
	domain.ColDate,
	domain.ColPopulation,
	domain.ColNewCases,
	domain.ColTotalCases,
	domain.ColNewDeaths,
	domain.ColTotalDeaths,
	domain.ColTotalVaccinations,
	domain.ColPeopleVaccinated,
	domain.ColPeopleFullyVaccinated,
	domain.ColNewVaccinations,
	domain.ColTotalBoosters,
	domain.ColCasesPerMillion,
	domain.ColDeathsPerMillion,
	domain.ColCaseFatalityRate,
	domain.ColWeeklyCaseGrowth,
	domain.ColPctVaccinated,
	domain.ColPctFullyVaccinated,
	domain.ColYear,
	domain.ColMonth,
}

// CSVWriter exports the cleaned dataset as CSV.
type CSVWriter struct {
	logger *slog.Logger
	paths  *config.Paths
}

// NewCSVWriter creates a new CSV writer instance.
func NewCSVWriter(logger *slog.Logger, paths *config.Paths) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger, paths: paths}
}

// WriteCleanData writes the cleaned records to the named file in the output
// directory, overwriting any existing file, and returns the written path.
// Rows are streamed rather than buffered; the dataset runs to hundreds of
// thousands of rows.
func (w *CSVWriter) WriteCleanData(ctx context.Context, filename string, records []domain.Record) (string, error) {
	path := w.paths.GetOutputPath(filename)

	w.logger.InfoContext(ctx, "writing cleaned dataset",
		slog.String("path", path),
		slog.Int("record_count", len(records)))

	file, err := os.Create(path)
	if err != nil {
		return "", errors.NewStorageError("failed to create clean data file", err)
	}
	defer file.Close()

	// BOM helps Excel recognize UTF-8.
	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return "", errors.NewStorageError("failed to write BOM", err)
	}

	writer := csv.NewWriter(file)

	if err := writer.Write(CleanDataColumns); err != nil {
		return "", errors.NewStorageError("failed to write header row", err)
	}

	for _, r := range records {
		if err := writer.Write(cleanDataRow(r)); err != nil {
			return "", errors.NewStorageError("failed to write data row", err).
				WithContext("location", r.Location)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", errors.NewStorageError("failed to flush clean data file", err)
	}
	if err := file.Close(); err != nil {
		return "", errors.NewStorageError("failed to close clean data file", err)
	}

	return path, nil
}

// cleanDataRow formats one record in CleanDataColumns order.
func cleanDataRow(r domain.Record) []string {
	return []string{
		r.ISOCode,
		r.Continent,
		r.Location,
		r.Date.Format(domain.DateFormat),
		formatCount(r.Population),
		formatCount(r.NewCases),
		formatCount(r.TotalCases),
		formatCount(r.NewDeaths),
		formatCount(r.TotalDeaths),
		formatCount(r.TotalVaccinations),
		formatCount(r.PeopleVaccinated),
		formatCount(r.PeopleFullyVaccinated),
		formatCount(r.NewVaccinations),
		formatCount(r.TotalBoosters),
		formatMetric(r.CasesPerMillion),
		formatMetric(r.DeathsPerMillion),
		formatMetric(r.CaseFatalityRate),
		formatGrowth(r.WeeklyCaseGrowth),
		formatMetric(r.PctVaccinated),
		formatMetric(r.PctFullyVaccinated),
		strconv.Itoa(r.Year),
		strconv.Itoa(r.Month),
	}
}
