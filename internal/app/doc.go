// Package app wires application dependencies for the CLI.
//
// It resolves Config from defaults, an optional YAML file, .env files and
// the environment, then builds the concrete stores, the vault client and
// the high-level services, exposing them via the Wire struct for commands
// to use.
package app
