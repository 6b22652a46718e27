// Package config loads, normalizes, and validates newsforge configuration.
//
// Configuration lives in a single TOML file. Load layers the file over
// repository defaults, expands ~ in every path field, and validates the result
// so downstream components never re-check basics like retry counts or word
// bounds. A commented sample config is embedded for `newsforge config init`.
package config
