// Package storage declares persistence interfaces for web-owned variant data.
//
// Stored overrides are layered over the loaded catalog at startup and on
// every change; the catalog file stays the baseline.
package storage
