// Package config loads application configuration from DEPSCOPE_*
// environment variables with validated defaults.
package config
