package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 { return &v }

func TestRecord_Metric(t *testing.T) {
	record := Record{
		Location:         "Iraq",
		CasesPerMillion:  floatPtr(52341.7),
		DeathsPerMillion: floatPtr(611.2),
		CaseFatalityRate: nil,
	}

	tests := []struct {
		name   string
		metric string
		want   float64
		wantOK bool
	}{
		{"defined metric", ColCasesPerMillion, 52341.7, true},
		{"second defined metric", ColDeathsPerMillion, 611.2, true},
		{"undefined metric", ColCaseFatalityRate, 0, false},
		{"nil vaccination metric", ColPctFullyVaccinated, 0, false},
		{"unknown name", "total_cases", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := record.Metric(tt.metric)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsComparisonMetric(t *testing.T) {
	for _, m := range ComparisonMetrics {
		assert.True(t, IsComparisonMetric(m), m)
	}
	assert.False(t, IsComparisonMetric(ColTotalCases))
	assert.False(t, IsComparisonMetric(""))
}

func TestRawTable_Field(t *testing.T) {
	table := NewRawTable(
		[]string{ColLocation, ColDate, ColNewCases},
		[][]string{
			{"Iraq", "2021-06-01", "120"},
			{"Iraq", "2021-06-02"}, // short row
		},
	)

	assert.True(t, table.HasColumn(ColDate))
	assert.False(t, table.HasColumn(ColPopulation))

	v, ok := table.Field(table.Rows[0], ColNewCases)
	assert.True(t, ok)
	assert.Equal(t, "120", v)

	_, ok = table.Field(table.Rows[1], ColNewCases)
	assert.False(t, ok, "short row should not resolve trailing column")

	_, ok = table.Field(table.Rows[0], "unknown")
	assert.False(t, ok)
}
