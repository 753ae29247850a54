// Package server runs the intake server's HTTP listener with signal
// handling and graceful shutdown.
package server
