// Package config loads, normalizes, and validates rtmodify configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the RTMODIFY_STATE_DIR environment
// fallback. The Config type centralizes the field key, file patterns, worker
// and failure policy, journal, and logging knobs so the CLI discovers every
// setting in one pass.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical log formats, and clear validation errors.
package config
