// Package config resolves the run configuration from named environment inputs.
//
// Schema lists every option with its description, example, default and type.
// Resolve walks it once, in order, and returns either a complete Config or
// the first *ConfigError. Keys are used verbatim as environment variable
// names (url, selector, allowDomain, ...).
package config
