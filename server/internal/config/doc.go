// Package config loads and validates the ceimd YAML configuration and
// watches it for hot reloads.
package config
