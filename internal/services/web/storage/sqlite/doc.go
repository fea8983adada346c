// Package sqlite provides the variant override store backed by SQLite.
package sqlite
