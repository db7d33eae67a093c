// Package config provides application configuration loaded from an optional
// YAML file with environment variable overrides (prefix SIS), plus the
// centralized directory layout every pipeline stage resolves paths through.
package config
