package cleaner

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"covidtracker/pkg/contracts/domain"
)

// aggregateRegions are OWID rollup rows that would double-count real
// countries if kept.
var aggregateRegions = map[string]bool{
	"World":               true,
	"Europe":              true,
	"Asia":                true,
	"Africa":              true,
	"North America":       true,
	"South America":       true,
	"European Union":      true,
	"International":       true,
	"High income":         true,
	"Low income":          true,
	"Lower middle income": true,
	"Upper middle income": true,
	"Oceania":             true,
}

// numericColumns lists the counter columns that are forward-filled and
// zero-filled per country, in the order they are stored during cleaning.
var numericColumns = []string{
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
}

// Cleaner normalizes a raw table into cleaned records: rows without a valid
// date or location are dropped, aggregate regions are removed, numeric gaps
// are forward-filled then zero-filled per country, and derived per-capita
// metrics are computed.
type Cleaner struct {
	logger *slog.Logger
}

// Stats describes what a cleaning pass did to the input.
type Stats struct {
	InputRows         int
	DroppedInvalid    int
	DroppedAggregates int
	OutputRows        int
	Countries         int
}

// New creates a cleaner.
func New(logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{logger: logger}
}

// pendingRow holds one surviving raw row before imputation. values is indexed
// by numericColumns; nil marks a missing or unparseable cell.
type pendingRow struct {
	location  string
	isoCode   string
	continent string
	date      time.Time
	values    []*float64
}

// Clean transforms the raw table into cleaned records. Output rows are
// grouped by country in order of first appearance, sorted by date inside each
// group; rows sharing a date keep their input order.
func (c *Cleaner) Clean(ctx context.Context, table *domain.RawTable) ([]domain.Record, Stats, error) {
	stats := Stats{InputRows: len(table.Rows)}

	groups := make(map[string][]pendingRow)
	var order []string

	for _, row := range table.Rows {
		location, _ := table.Field(row, domain.ColLocation)
		location = strings.TrimSpace(location)
		dateStr, _ := table.Field(row, domain.ColDate)

		date, err := time.Parse(domain.DateFormat, strings.TrimSpace(dateStr))
		if location == "" || err != nil {
			stats.DroppedInvalid++
			continue
		}
		if aggregateRegions[location] {
			stats.DroppedAggregates++
			continue
		}

		isoCode, _ := table.Field(row, domain.ColISOCode)
		continent, _ := table.Field(row, domain.ColContinent)

		values := make([]*float64, len(numericColumns))
		for i, col := range numericColumns {
			cell, _ := table.Field(row, col)
			values[i] = parseNumber(cell)
		}

		if _, seen := groups[location]; !seen {
			order = append(order, location)
		}
		groups[location] = append(groups[location], pendingRow{
			location:  location,
			isoCode:   strings.TrimSpace(isoCode),
			continent: strings.TrimSpace(continent),
			date:      date,
			values:    values,
		})
	}

	records := make([]domain.Record, 0, stats.InputRows)
	for _, location := range order {
		group := groups[location]

		// Stable keeps input order for duplicate dates.
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].date.Before(group[j].date)
		})

		fillGroup(group)

		built := make([]domain.Record, len(group))
		for i, row := range group {
			built[i] = buildRecord(row)
		}
		applyWeeklyGrowth(built)

		records = append(records, built...)
	}

	stats.OutputRows = len(records)
	stats.Countries = len(order)

	c.logger.InfoContext(ctx, "cleaned dataset",
		slog.Int("input_rows", stats.InputRows),
		slog.Int("dropped_invalid", stats.DroppedInvalid),
		slog.Int("dropped_aggregates", stats.DroppedAggregates),
		slog.Int("output_rows", stats.OutputRows),
		slog.Int("countries", stats.Countries))

	return records, stats, nil
}

// fillGroup forward-fills each numeric column from the last known value in
// date order, then zero-fills anything still missing.
func fillGroup(group []pendingRow) {
	for col := range numericColumns {
		var carry *float64
		for i := range group {
			if group[i].values[col] == nil {
				group[i].values[col] = carry
			} else {
				carry = group[i].values[col]
			}
		}
		for i := range group {
			if group[i].values[col] == nil {
				zero := 0.0
				group[i].values[col] = &zero
			}
		}
	}
}

// buildRecord converts a filled row into a cleaned record with derived
// metrics.
func buildRecord(row pendingRow) domain.Record {
	at := func(col string) float64 {
		for i, name := range numericColumns {
			if name == col {
				return *row.values[i]
			}
		}
		return 0
	}

	r := domain.Record{
		Location:   row.location,
		ISOCode:    row.isoCode,
		Continent:  row.continent,
		Date:       row.date,
		Year:       row.date.Year(),
		Month:      int(row.date.Month()),
		Population: at(domain.ColPopulation),

		NewCases:    at(domain.ColNewCases),
		TotalCases:  at(domain.ColTotalCases),
		NewDeaths:   at(domain.ColNewDeaths),
		TotalDeaths: at(domain.ColTotalDeaths),

		TotalVaccinations:     at(domain.ColTotalVaccinations),
		PeopleVaccinated:      at(domain.ColPeopleVaccinated),
		PeopleFullyVaccinated: at(domain.ColPeopleFullyVaccinated),
		NewVaccinations:       at(domain.ColNewVaccinations),
		TotalBoosters:         at(domain.ColTotalBoosters),
	}

	r.CasesPerMillion = ratio(r.TotalCases, r.Population, 1_000_000)
	r.DeathsPerMillion = ratio(r.TotalDeaths, r.Population, 1_000_000)
	r.CaseFatalityRate = ratio(r.TotalDeaths, r.TotalCases, 100)
	r.PctVaccinated = ratio(r.PeopleVaccinated, r.Population, 100)
	r.PctFullyVaccinated = ratio(r.PeopleFullyVaccinated, r.Population, 100)

	return r
}

// growthWindow is the number of trailing rows summed when deriving weekly
// case growth.
const growthWindow = 7

// applyWeeklyGrowth derives weekly case growth for one country's records in
// date order: the relative change between consecutive trailing seven-row sums
// of new cases. Growth stays undefined until two full windows exist, and for
// rows whose previous window sums to zero.
func applyWeeklyGrowth(records []domain.Record) {
	if len(records) <= growthWindow {
		return
	}

	sums := make([]float64, len(records))
	var window float64
	for i := range records {
		window += records[i].NewCases
		if i >= growthWindow {
			window -= records[i-growthWindow].NewCases
		}
		sums[i] = window
	}

	for i := growthWindow; i < len(records); i++ {
		prev := sums[i-1]
		if prev == 0 {
			continue
		}
		v := (sums[i] - prev) / prev
		records[i].WeeklyCaseGrowth = &v
	}
}

// ratio computes numer/denom*scale. It returns nil instead of dividing by a
// zero or missing denominator, and nil for negative results so derived
// metrics are always undefined or non-negative.
func ratio(numer, denom, scale float64) *float64 {
	if denom <= 0 {
		return nil
	}
	v := numer / denom * scale
	if v < 0 {
		return nil
	}
	return &v
}

// parseNumber parses a CSV cell as a float. Empty and unparseable cells are
// treated as missing.
func parseNumber(cell string) *float64 {
	cell = strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	if cell == "" {
		return nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return nil
	}
	return &v
}
