// Package config loads and validates the tool's TOML configuration.
//
// The configuration covers ambient concerns only: logging, the default
// output directory, and per-format export defaults. Task configuration
// arrives inside the context bundle and is never parsed here.
package config
