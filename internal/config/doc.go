// Package config provides environment-based configuration.
//
// Loads from process environment with sensible defaults, validates numeric
// settings, and derives the single-instance/Redis-backed mode split.
package config
