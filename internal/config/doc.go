// Package config loads, normalizes, and validates a11ydiff configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes the screen
// geometry, detector tolerances, screenshot thresholds, and batch settings so
// the CLI and the batch driver discover every knob in one pass.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical log formats, and clear validation errors.
package config
