// Package snapshot turns a normalized feed document into a content
// addressed view of the timetable.
//
// Build assigns every entity a deterministic content hash, rewrites cross
// references from feed-local ids to hashes (independent collections
// first, then teachers, then schedules) and fixes a canonical
// hash-ascending ordering per collection. Compute produces the
// added/removed diff between two hash listings; an empty diff means the
// cycle writes nothing.
package snapshot
