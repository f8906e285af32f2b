// Package kv provides the device-local key-value storage that backs the
// contact and document collections.
//
// # Overview
//
// Repository is a minimal string-keyed blob store: Get, Set, Delete, List and
// Clear. Set is a single upsert, so a write atomically replaces the stored
// value for that key.
//
// Implementations:
//
//   - SQLRepository: SQL implementation over dbx.DBTX (SQLite or PostgreSQL)
//   - MemoryRepository: map-backed, for tests and throwaway sessions
//
// DB wraps an opened *sql.DB, applies the embedded goose migrations for its
// dialect and exposes transactions through the Transactor interface.
//
// Typical Usage
//
//	db, err := kv.Open(ctx, "scanbiz.db")
//	_ = db.Set(ctx, "scanbiz_contacts_v3", blob)
//	v, _ := db.Get(ctx, "scanbiz_contacts_v3") // nil, nil when absent
package kv
