// Package cli assembles the repostate command-line application: the root
// command, persistent configuration and logging flags, and the scan command.
package cli
