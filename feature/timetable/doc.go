// Package timetable is the schedule synchronization feature.
//
// The Service runs the pipeline: fetch the upstream XML feed, normalize
// it into seven entity collections, assign content hashes and resolve
// cross references, diff against the last persisted update and, when
// something changed, reconcile the snapshot into the store and commit an
// immutable update record. The Handler serves the persisted entities and
// the update/diff history over HTTP.
//
// Subpackages: feed (fetch + normalize), snapshot (hashing + diffing),
// store (persistence), sync (reconciler + scheduler), notify (fan-out),
// models (database rows).
package timetable
