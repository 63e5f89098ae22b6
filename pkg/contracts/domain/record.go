package domain

import (
	"time"
)

// Canonical column names of the OWID COVID-19 dataset. The loader maps CSV
// headers to these names; the exporter writes them back in this order.
const (
	ColLocation              = "location"
	ColISOCode               = "iso_code"
	ColContinent             = "continent"
	ColDate                  = "date"
	ColPopulation            = "population"
	ColNewCases              = "new_cases"
	ColTotalCases            = "total_cases"
	ColNewDeaths             = "new_deaths"
	ColTotalDeaths           = "total_deaths"
	ColTotalVaccinations     = "total_vaccinations"
	ColPeopleVaccinated      = "people_vaccinated"
	ColPeopleFullyVaccinated = "people_fully_vaccinated"
	ColNewVaccinations       = "new_vaccinations"
	ColTotalBoosters         = "total_boosters"
)

// Derived column names added by the cleaner.
const (
	ColCasesPerMillion    = "cases_per_million"
	ColDeathsPerMillion   = "deaths_per_million"
	ColCaseFatalityRate   = "case_fatality_rate"
	ColWeeklyCaseGrowth   = "weekly_case_growth"
	ColPctVaccinated      = "pct_vaccinated"
	ColPctFullyVaccinated = "pct_fully_vaccinated"
	ColYear               = "year"
	ColMonth              = "month"
)

// DateFormat is the calendar date layout used throughout the dataset.
const DateFormat = "2006-01-02"

// Record is one cleaned observation for a (location, date) pair.
// Counter fields are zero-filled when absent from the source. Derived ratio
// fields are nil when the denominator is zero or missing; they are never NaN.
// WeeklyCaseGrowth is the relative change between consecutive trailing
// seven-row sums of new cases within a country; unlike the ratio metrics it
// can be negative, and it is nil until two full windows exist.
type Record struct {
	Location   string    `json:"location"`
	ISOCode    string    `json:"iso_code"`
	Continent  string    `json:"continent"`
	Date       time.Time `json:"date"`
	Year       int       `json:"year"`
	Month      int       `json:"month"`
	Population float64   `json:"population"`

	NewCases    float64 `json:"new_cases"`
	TotalCases  float64 `json:"total_cases"`
	NewDeaths   float64 `json:"new_deaths"`
	TotalDeaths float64 `json:"total_deaths"`

	TotalVaccinations     float64 `json:"total_vaccinations"`
	PeopleVaccinated      float64 `json:"people_vaccinated"`
	PeopleFullyVaccinated float64 `json:"people_fully_vaccinated"`
	NewVaccinations       float64 `json:"new_vaccinations"`
	TotalBoosters         float64 `json:"total_boosters"`

	CasesPerMillion    *float64 `json:"cases_per_million,omitempty"`
	DeathsPerMillion   *float64 `json:"deaths_per_million,omitempty"`
	CaseFatalityRate   *float64 `json:"case_fatality_rate,omitempty"`
	WeeklyCaseGrowth   *float64 `json:"weekly_case_growth,omitempty"`
	PctVaccinated      *float64 `json:"pct_vaccinated,omitempty"`
	PctFullyVaccinated *float64 `json:"pct_fully_vaccinated,omitempty"`
}

// CountrySnapshot is the most recent cleaned observation for a single country,
// selected by maximum date. History is discarded.
type CountrySnapshot = Record

// ComparisonMetrics lists the derived metrics that country comparison charts
// can be built from.
var ComparisonMetrics = []string{
	ColCasesPerMillion,
	ColDeathsPerMillion,
	ColCaseFatalityRate,
	ColPctVaccinated,
	ColPctFullyVaccinated,
}

// IsComparisonMetric reports whether name is a chartable derived metric.
func IsComparisonMetric(name string) bool {
	for _, m := range ComparisonMetrics {
		if m == name {
			return true
		}
	}
	return false
}

// Metric returns the named derived metric value. The second return value is
// false when the metric is undefined for this record or the name is unknown.
func (r Record) Metric(name string) (float64, bool) {
	var v *float64
	switch name {
	case ColCasesPerMillion:
		v = r.CasesPerMillion
	case ColDeathsPerMillion:
		v = r.DeathsPerMillion
	case ColCaseFatalityRate:
		v = r.CaseFatalityRate
	case ColPctVaccinated:
		v = r.PctVaccinated
	case ColPctFullyVaccinated:
		v = r.PctFullyVaccinated
	}
	if v == nil {
		return 0, false
	}
	return *v, true
}
