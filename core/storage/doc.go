// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client to provide a simplified interface for the
// raw feed archive: when enabled, every fetched XML document is uploaded
// under a key derived from its snapshot hash so historic feeds can be
// replayed or audited. The abstraction supports both AWS S3 and
// self-hosted MinIO instances.
//
// The Client interface keeps the storage dependency mockable for unit
// tests; the archive is strictly optional and the rest of the system
// never depends on it.
package storage
