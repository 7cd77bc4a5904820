package frontier

import (
	"fmt"
	"sort"

	"github.com/jiuzixue09/serritor/internal/model"
)

// Snapshot is the externalized state of a frontier: everything needed to
// reconstruct an equivalent instance that dequeues the identical
// candidate sequence the original would have produced.
//
// The wire format is JSON via the standard struct tags; where and how
// the bytes are stored is the persistence collaborator's concern (see
// the database package).
type Snapshot struct {
	// Pending holds the pending requests in insertion order. Insertion
	// order, not heap order, is what must survive so the FIFO tie-break
	// replays exactly.
	Pending []*model.CrawlRequest `json:"pending"`

	// SeenKeys is the deduplication index, sorted.
	SeenKeys []string `json:"seenKeys"`

	// AllowedDomains is the offsite domain set established by the seeds,
	// sorted.
	AllowedDomains []string `json:"allowedDomains,omitempty"`

	// OffsiteFiltering records whether offsite filtering was enabled.
	OffsiteFiltering bool `json:"offsiteFiltering"`

	// MaxDepth is the configured depth ceiling.
	MaxDepth int `json:"maxDepth"`

	// Served is the number of candidates dequeued before the snapshot.
	Served int `json:"served"`
}

// Snapshot captures the frontier's full state. The frontier remains
// usable afterwards; the snapshot is an independent copy.
func (f *Frontier) Snapshot() *Snapshot {
	// Order pending entries by insertion sequence without disturbing the
	// live heap.
	entries := make([]*pendingEntry, len(f.pending))
	copy(entries, f.pending)
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	pending := make([]*model.CrawlRequest, len(entries))
	for i, entry := range entries {
		pending[i] = entry.request
	}

	domains := make([]string, 0, len(f.allowedDomains))
	for domain := range f.allowedDomains {
		domains = append(domains, domain)
	}
	sort.Strings(domains)

	return &Snapshot{
		Pending:          pending,
		SeenKeys:         f.index.Keys(),
		AllowedDomains:   domains,
		OffsiteFiltering: f.offsiteFiltering,
		MaxDepth:         f.maxDepth,
		Served:           f.served,
	}
}

// Restore reconstructs a frontier from a snapshot.
//
// It fails with an error wrapping ErrCorruptState when the snapshot
// violates the frontier's structural invariants: two pending requests
// sharing a fingerprint, a pending request whose fingerprint is absent
// from the deduplication index, or a pending request deeper than the
// recorded maximum depth.
func Restore(snapshot *Snapshot) (*Frontier, error) {
	if snapshot == nil {
		return nil, fmt.Errorf("%w: nil snapshot", ErrCorruptState)
	}

	maxDepth := snapshot.MaxDepth
	if maxDepth < 0 {
		return nil, fmt.Errorf("%w: negative max depth %d", ErrCorruptState, maxDepth)
	}

	f := New(WithMaxDepth(maxDepth), WithOffsiteFiltering(snapshot.OffsiteFiltering))
	f.served = snapshot.Served
	f.index = NewDedupIndexFromKeys(snapshot.SeenKeys)

	for _, domain := range snapshot.AllowedDomains {
		f.allowedDomains[domain] = struct{}{}
	}

	pendingKeys := make(map[string]struct{}, len(snapshot.Pending))
	for _, request := range snapshot.Pending {
		if request == nil {
			return nil, fmt.Errorf("%w: nil pending request", ErrCorruptState)
		}
		if request.Depth() > maxDepth {
			return nil, fmt.Errorf("%w: pending request %s exceeds max depth %d",
				ErrCorruptState, request, maxDepth)
		}

		key := Fingerprint(request.URL())
		if _, dup := pendingKeys[key]; dup {
			return nil, fmt.Errorf("%w: duplicate pending request %s", ErrCorruptState, request)
		}
		if !f.index.Contains(key) {
			return nil, fmt.Errorf("%w: pending request %s missing from dedup index",
				ErrCorruptState, request)
		}
		pendingKeys[key] = struct{}{}

		// Requests re-enter the queue in snapshot order, so freshly
		// assigned sequence numbers reproduce the original FIFO order.
		f.push(request, key)
	}

	return f, nil
}
