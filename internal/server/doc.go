// Package server manages the lifecycle of the inbound HTTP transport:
// startup, signal-driven graceful shutdown, and timeout configuration.
package server
