// Package server wires the surety journal, engine, event bus and transports
// into a running process.
package server
