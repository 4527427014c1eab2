// Package sqlite provides SQLite-backed persistence for assembled
// chunks and their source hashes, enabling idempotent re-ingestion.
package sqlite
