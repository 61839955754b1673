// Package cmd implements the keychord commands. Each command is a kong
// command struct whose Run method receives the shared settings and logger
// bound by main.
package cmd
