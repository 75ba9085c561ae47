// Package config manages user-level settings stored at ~/.shipyard/config.yaml.
// It provides functions to load, read, and write configuration keys such as
// the telemetry opt-out and the default configuration variant name.
package config
