// Package timeouts defines shared timeout constants used by the web service.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// TelemetryShutdown limits how long pending spans may take to flush.
const TelemetryShutdown = 5 * time.Second

// ScopeSweep is how often idle visitor event scopes are collected.
const ScopeSweep = time.Minute

// Startup bounds loading stored state before a server starts listening.
const Startup = 10 * time.Second
