// Package app wires application dependencies for the CLI.
//
// It loads Config from YAML, builds the logging backend, and constructs the
// stores, transport, services and router, exposing them via the Wire struct
// for commands to use.
package app
