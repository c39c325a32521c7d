package config

import "errors"

var (
	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidConfig is returned when a setting is out of range or unknown.
	ErrInvalidConfig = errors.New("invalid config")
)
