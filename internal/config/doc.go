// Package config loads, normalizes, and validates steamclip configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours environment fallbacks such as STEAMCLIP_OUTPUT.
// Command-line flags are applied on top of the loaded Config by the CLI.
package config
