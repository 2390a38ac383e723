// Package config loads, normalizes, and validates mediakit configuration data.
//
// It supplies defaults rooted in the XDG base directories, expands user paths
// (including tilde shortcuts), reads TOML files, and honours environment
// fallbacks such as MEDIAKIT_GEOCODER_URL. The Config type centralizes every
// knob the commands need: external tool binaries, the geocoder endpoint, the
// proxy GPS window, fuzzy matching thresholds, and the speaker test reference
// list.
//
// Always obtain settings through this package so commands receive sanitized
// paths, canonical log formats, and clear validation errors.
package config
