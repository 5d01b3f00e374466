// Package migrations contains embedded SQL migrations for the SQLite journal.
package migrations
