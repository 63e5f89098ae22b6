package exporter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"covidtracker/internal/config"
	"covidtracker/internal/errors"
	"covidtracker/pkg/contracts/domain"
)

const (
	snapshotSheet = "Country Snapshot"
	seriesSheet   = "Global Series"
)

// ExcelWriter exports the aggregated tables as a summary workbook.
type ExcelWriter struct {
	logger *slog.Logger
	paths  *config.Paths
}

// NewExcelWriter creates a new Excel writer instance.
func NewExcelWriter(logger *slog.Logger, paths *config.Paths) *ExcelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelWriter{logger: logger, paths: paths}
}

// WriteSummary writes the latest per-country snapshot and the global time
// series into a workbook in the output directory and returns the written
// path. Any existing file is overwritten.
func (w *ExcelWriter) WriteSummary(ctx context.Context, filename string, snapshots []domain.CountrySnapshot, series []domain.GlobalDatapoint) (string, error) {
	path := w.paths.GetOutputPath(filename)

	w.logger.InfoContext(ctx, "writing summary workbook",
		slog.String("path", path),
		slog.Int("countries", len(snapshots)),
		slog.Int("dates", len(series)))

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", snapshotSheet); err != nil {
		return "", errors.NewStorageError("failed to name snapshot sheet", err)
	}
	if err := writeSnapshotSheet(f, snapshots); err != nil {
		return "", err
	}

	if _, err := f.NewSheet(seriesSheet); err != nil {
		return "", errors.NewStorageError("failed to create series sheet", err)
	}
	if err := writeSeriesSheet(f, series); err != nil {
		return "", err
	}

	if err := f.SaveAs(path); err != nil {
		return "", errors.NewStorageError("failed to save summary workbook", err)
	}

	return path, nil
}

func writeSnapshotSheet(f *excelize.File, snapshots []domain.CountrySnapshot) error {
	header := []interface{}{
		"Location", "ISO Code", "Continent", "Date", "Population",
		"Total Cases", "Total Deaths", "People Fully Vaccinated",
		"Cases/Million", "Deaths/Million", "Case Fatality Rate (%)", "Fully Vaccinated (%)",
	}
	if err := f.SetSheetRow(snapshotSheet, "A1", &header); err != nil {
		return errors.NewStorageError("failed to write snapshot header", err)
	}

	for i, s := range snapshots {
		row := []interface{}{
			s.Location,
			s.ISOCode,
			s.Continent,
			s.Date.Format(domain.DateFormat),
			s.Population,
			s.TotalCases,
			s.TotalDeaths,
			s.PeopleFullyVaccinated,
			metricCell(s.CasesPerMillion),
			metricCell(s.DeathsPerMillion),
			metricCell(s.CaseFatalityRate),
			metricCell(s.PctFullyVaccinated),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(snapshotSheet, cell, &row); err != nil {
			return errors.NewStorageError("failed to write snapshot row", err)
		}
	}
	return nil
}

func writeSeriesSheet(f *excelize.File, series []domain.GlobalDatapoint) error {
	header := []interface{}{
		"Date", "New Cases", "New Deaths", "New Vaccinations", "Total Cases", "Total Deaths",
	}
	if err := f.SetSheetRow(seriesSheet, "A1", &header); err != nil {
		return errors.NewStorageError("failed to write series header", err)
	}

	for i, p := range series {
		row := []interface{}{
			p.Date.Format(domain.DateFormat),
			p.NewCases,
			p.NewDeaths,
			p.NewVaccinations,
			p.TotalCases,
			p.TotalDeaths,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(seriesSheet, cell, &row); err != nil {
			return errors.NewStorageError("failed to write series row", err)
		}
	}
	return nil
}

// metricCell maps an undefined metric to an empty cell rather than zero.
func metricCell(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
