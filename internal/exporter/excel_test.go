package exporter

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"covidtracker/internal/config"
	"covidtracker/pkg/contracts/domain"
)

func TestWriteSummary(t *testing.T) {
	paths := config.NewPaths(t.TempDir())
	require.NoError(t, paths.EnsureDirectories())
	w := NewExcelWriter(slog.Default(), paths)

	snapshots := []domain.CountrySnapshot{
		{
			Location:         "Iraq",
			ISOCode:          "IRQ",
			Continent:        "Asia",
			Date:             time.Date(2021, 6, 2, 0, 0, 0, 0, time.UTC),
			Population:       40000000,
			TotalCases:       1350,
			TotalDeaths:      43,
			CasesPerMillion:  floatPtr(33.75),
			DeathsPerMillion: floatPtr(1.08),
		},
		{
			Location: "Vatican",
			ISOCode:  "VAT",
			Date:     time.Date(2021, 6, 2, 0, 0, 0, 0, time.UTC),
		},
	}
	series := []domain.GlobalDatapoint{
		{Date: time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC), NewCases: 150, TotalCases: 3200},
		{Date: time.Date(2021, 6, 2, 0, 0, 0, 0, time.UTC), NewCases: 210, TotalCases: 3410},
	}

	path, err := w.WriteSummary(context.Background(), "covid_summary.xlsx", snapshots, series)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{snapshotSheet, seriesSheet}, f.GetSheetList())

	loc, err := f.GetCellValue(snapshotSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Iraq", loc)

	// Undefined metric exports as an empty cell, not zero.
	empty, err := f.GetCellValue(snapshotSheet, "I3")
	require.NoError(t, err)
	assert.Equal(t, "", empty)

	date, err := f.GetCellValue(seriesSheet, "A3")
	require.NoError(t, err)
	assert.Equal(t, "2021-06-02", date)
}
