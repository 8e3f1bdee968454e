// Package config defines the application configuration structure and its
// loading logic. Configuration is read from environment variables with the
// TODO_ prefix (optionally backed by a config file), with defaults applied
// for everything that has a sensible one, and validated before use.
package config
