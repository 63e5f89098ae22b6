package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"covidtracker/internal/errors"
	"covidtracker/pkg/contracts/domain"
)

// requiredColumns must be present in any source for the pipeline to make
// sense of it. Everything else is optional and zero-filled downstream.
var requiredColumns = []string{domain.ColLocation, domain.ColDate}

// ParseCSV reads a CSV stream into a raw table. The header row is mapped by
// name so column order does not matter; unknown columns are carried through
// untouched. A missing required column is a SCHEMA error.
func ParseCSV(r io.Reader) (*domain.RawTable, error) {
	reader := csv.NewReader(r)
	// OWID rows occasionally vary in trailing empty fields
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, errors.NewParsingError("failed to read CSV header", err)
	}

	// Strip the UTF-8 BOM some writers (including our exporter) prepend.
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "﻿")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	index := make(map[string]bool, len(header))
	for _, col := range header {
		index[col] = true
	}
	for _, col := range requiredColumns {
		if !index[col] {
			return nil, errors.NewSchemaError(
				fmt.Sprintf("required column %q missing from source", col), nil)
		}
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewParsingError(
				fmt.Sprintf("failed to read CSV row %d", len(rows)+2), err)
		}
		rows = append(rows, row)
	}

	return domain.NewRawTable(header, rows), nil
}
