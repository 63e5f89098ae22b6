package domain

import (
	"time"
)

// GlobalDatapoint is one date of the global time series: cleaned records
// summed across all countries. Cumulative fields are monotonically
// non-decreasing as the series advances.
type GlobalDatapoint struct {
	Date            time.Time `json:"date"`
	NewCases        float64   `json:"new_cases"`
	NewDeaths       float64   `json:"new_deaths"`
	NewVaccinations float64   `json:"new_vaccinations"`
	TotalCases      float64   `json:"total_cases"`
	TotalDeaths     float64   `json:"total_deaths"`
}
