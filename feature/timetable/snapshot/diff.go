package snapshot

// Entry is a single change in a collection relative to the previous
// snapshot: "+" for added, "-" for removed.
type Entry struct {
	Type string `json:"type"`
	Hash string `json:"hash"`
}

// Diff maps a collection name to its change entries.
type Diff map[string][]Entry

// Empty reports whether the diff carries no changes in any collection.
// An empty diff gates persistence: the cycle is a no-op.
func (d Diff) Empty() bool {
	for _, entries := range d {
		if len(entries) > 0 {
			return false
		}
	}
	return true
}

// Compute diffs the previous update's hash listing against the new
// snapshot's, independently per collection. Collections absent on either
// side are treated as empty sets.
func Compute(old, current map[string][]string) Diff {
	diff := make(Diff, len(Collections))
	for _, name := range Collections {
		diff[name] = diffHashes(old[name], current[name])
	}
	return diff
}

// diffHashes treats both sides as sets: entries in rhs but not lhs are
// emitted as added, entries in lhs but not rhs as removed. Added entries
// come first, insertion order within each group follows the input.
func diffHashes(lhs, rhs []string) []Entry {
	lset := make(map[string]struct{}, len(lhs))
	for _, h := range lhs {
		lset[h] = struct{}{}
	}
	rset := make(map[string]struct{}, len(rhs))
	for _, h := range rhs {
		rset[h] = struct{}{}
	}

	entries := []Entry{}
	for _, h := range rhs {
		if _, ok := lset[h]; !ok {
			entries = append(entries, Entry{Type: "+", Hash: h})
		}
	}
	for _, h := range lhs {
		if _, ok := rset[h]; !ok {
			entries = append(entries, Entry{Type: "-", Hash: h})
		}
	}
	return entries
}
