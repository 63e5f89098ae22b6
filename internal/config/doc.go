// Package config provides centralized configuration management for the COVID-19
// data tracker. It handles loading configuration from multiple sources,
// validation, and the single source of truth for file system paths.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. config.yaml next to the executable
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern COVID_* for namespacing:
//
//	COVID_SOURCES_ORDER=sample_data/owid-covid-data.csv,https://covid.ourworldindata.org/data/owid-covid-data.csv
//	COVID_CHARTS_TOP_N=15
//	COVID_LOGGING_LEVEL=info
//
// The defaults reproduce the zero-configuration behavior: a local sample file
// first, then the OWID mirror URLs.
package config
