// Package config loads, normalizes, and validates the plateview
// configuration: a TOML file with PLATEVIEW_* environment overrides applied
// on top.
package config
