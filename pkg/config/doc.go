// Package config provides configuration loading and validation for Saturn.
//
// Configuration is read from a YAML file, merged with defaults, overridden
// by SATURN_* environment variables, and validated before use:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//
// The saturn command initializes a global singleton once at startup via
// config.Initialize; library users should pass explicit Config values
// instead.
//
// Environment variables follow the SATURN_SECTION_FIELD convention, e.g.
// SATURN_SERVER_LISTEN_ADDRESS or SATURN_AUDIT_BACKEND, and always take
// precedence over file values.
package config
