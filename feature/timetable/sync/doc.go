// Package sync persists snapshots and drives the periodic cycle.
//
// The Reconciler writes a hashed snapshot in dependency order (rooms,
// titles, degrees, specialities and subjects concurrently; then teachers;
// then schedules), rewriting hash references to store identifiers along
// the way, and commits one immutable update per cycle with a non-empty
// diff. The Scheduler triggers cycles: once at process start, then on a
// fixed ticker with a single in-flight guard so cycles never overlap.
package sync
