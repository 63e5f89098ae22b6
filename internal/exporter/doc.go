// Package exporter persists the cleaned COVID-19 dataset and summary tables.
//
// CSVWriter streams the cleaned table to covid_clean_data.csv with a UTF-8
// BOM for Excel compatibility; ExcelWriter renders the country snapshot and
// global time series into a summary workbook.
package exporter
