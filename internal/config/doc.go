// Package config defines the application configuration structure and
// loads it from environment variables. All settings are grouped into
// sections and validated before the application starts.
package config
