// Package store is the persistence collaborator of the synchronization
// engine.
//
// The Store interface covers what reconciliation needs: latest-update
// lookup, idempotent bulk inserts keyed by content hash, hash-to-id
// resolution and the immutable update commit. Reader covers the HTTP
// read API. Gorm implements both on MySQL or SQLite; entities are
// insert-only, duplicate hashes are accepted as no-ops via an ON CONFLICT
// DO NOTHING clause on the hash unique index.
package store
