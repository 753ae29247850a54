// Package config loads, merges and validates FleetZen configuration.
//
// Sources are merged in the following priority order (later sources override
// earlier non-zero fields):
//  1. Built-in defaults
//  2. Config file (JSON or YAML, chosen by extension)
//  3. Environment variables
//  4. Command-line flags
//
// The agent obtains its view through [GetClientConfig] and the intake server
// through [GetServerConfig].
package config
