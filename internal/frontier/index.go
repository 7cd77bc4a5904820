package frontier

import "sort"

// DedupIndex is the frontier's seen-set: the fingerprints of every URL
// that was ever admitted. It has no removal operation; once seen, always
// seen, for the lifetime of a frontier instance. Crawls that need
// re-visit semantics are out of scope for this core.
//
// Design decision: A plain in-memory map is acceptable for bounded crawl
// runs. An unbounded long-running crawl would want a bounded
// probabilistic membership structure instead, trading memory for a
// tunable false-positive rate; that trade-off should be made explicitly
// by the embedding, not silently in here.
type DedupIndex struct {
	seen map[string]struct{}
}

// NewDedupIndex creates an empty deduplication index.
func NewDedupIndex() *DedupIndex {
	return &DedupIndex{seen: make(map[string]struct{})}
}

// NewDedupIndexFromKeys creates an index pre-populated with keys, as
// read back from a snapshot.
func NewDedupIndexFromKeys(keys []string) *DedupIndex {
	idx := &DedupIndex{seen: make(map[string]struct{}, len(keys))}
	for _, key := range keys {
		idx.seen[key] = struct{}{}
	}
	return idx
}

// Contains reports whether the key has been seen.
func (idx *DedupIndex) Contains(key string) bool {
	_, ok := idx.seen[key]
	return ok
}

// Add marks the key as seen.
func (idx *DedupIndex) Add(key string) {
	idx.seen[key] = struct{}{}
}

// Len returns the number of distinct keys seen.
func (idx *DedupIndex) Len() int {
	return len(idx.seen)
}

// Keys returns all seen keys in sorted order. Sorting keeps snapshot
// output deterministic, which makes snapshots diffable and testable.
func (idx *DedupIndex) Keys() []string {
	keys := make([]string, 0, len(idx.seen))
	for key := range idx.seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
