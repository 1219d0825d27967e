// Package config loads, validates, and defaults Quill's TOML configuration.
//
// Lookup order: an explicit --config path, ~/.config/quill/config.toml, then
// ./quill.toml. Missing files are not an error; defaults apply and the caller
// learns whether a file existed. Path fields are tilde-expanded and made
// absolute during normalization.
package config
