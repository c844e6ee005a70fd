// Package config loads, validates, and normalizes tabbycat's TOML
// configuration.
//
// Configuration is resolved from an explicit --config path, then
// ~/.config/tabbycat/config.toml, then tabbycat.toml in the working
// directory, falling back to built-in defaults when no file exists. All path
// fields are tilde-expanded and made absolute during normalization so the
// rest of the code never deals with relative paths.
package config
