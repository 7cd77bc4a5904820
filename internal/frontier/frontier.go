package frontier

import (
	"container/heap"

	"github.com/jiuzixue09/serritor/internal/model"
)

// DefaultMaxDepth is the depth ceiling applied when no explicit maximum
// is configured. It matches the sanity ceiling on requests themselves,
// so by default only the builder's hard bound limits depth.
const DefaultMaxDepth = model.MaxDepthCeiling

// Frontier is the priority-ordered multiset of pending crawl requests
// plus the admission policy controlling what enters it.
//
// Invariants maintained across all operations, including Snapshot and
// Restore:
//   - no two pending entries share a fingerprint
//   - every pending entry's fingerprint is present in the dedup index
//   - every pending entry's depth is within the configured maximum
//
// Design decision: The frontier owns all of its state as an explicit
// aggregate rather than package-level maps. Snapshotting is then a pure
// read of one value, and restoring builds a fresh, independent instance.
type Frontier struct {
	maxDepth         int
	offsiteFiltering bool

	// allowedDomains is established once, from the top private domains
	// of the seed requests, and is immutable thereafter.
	allowedDomains map[string]struct{}

	index   *DedupIndex
	pending pendingQueue
	nextSeq uint64
	served  int
}

// Option configures a Frontier.
type Option func(*Frontier)

// WithMaxDepth sets the maximum crawl depth. Requests deeper than this
// are dropped at admission. Negative values are treated as 0, which
// admits only seed requests.
func WithMaxDepth(depth int) Option {
	return func(f *Frontier) {
		if depth < 0 {
			depth = 0
		}
		f.maxDepth = depth
	}
}

// WithOffsiteFiltering enables or disables offsite filtering. When
// enabled, non-seed requests whose top private domain was not
// established by a seed request are dropped at admission.
func WithOffsiteFiltering(enabled bool) Option {
	return func(f *Frontier) {
		f.offsiteFiltering = enabled
	}
}

// New creates an empty frontier.
func New(opts ...Option) *Frontier {
	f := &Frontier{
		maxDepth:       DefaultMaxDepth,
		allowedDomains: make(map[string]struct{}),
		index:          NewDedupIndex(),
		pending:        make(pendingQueue, 0),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Feed offers a request to the frontier. Seeds additionally establish
// the offsite domain set.
//
// Admission checks run in a fixed order: depth, offsite, deduplication.
// A rejected request is dropped silently; rejection is the expected
// steady-state outcome for most discovered links, not an error.
func (f *Frontier) Feed(request *model.CrawlRequest, isSeed bool) {
	if isSeed {
		f.allowedDomains[model.TopPrivateDomain(request.URL().Hostname())] = struct{}{}
	}

	if request.Depth() > f.maxDepth {
		return
	}

	if f.offsiteFiltering && !isSeed {
		domain := model.TopPrivateDomain(request.URL().Hostname())
		if _, ok := f.allowedDomains[domain]; !ok {
			return
		}
	}

	key := Fingerprint(request.URL())
	if f.index.Contains(key) {
		return
	}
	f.index.Add(key)

	f.push(request, key)
}

// HasNextCandidate reports whether the frontier has pending requests.
func (f *Frontier) HasNextCandidate() bool {
	return f.pending.Len() > 0
}

// NextCandidate removes the highest-priority pending request and
// projects it into a CrawlCandidate. Requests with equal priority are
// served strictly in the order they were fed.
//
// It fails with ErrEmptyFrontier when there is nothing pending; callers
// must gate on HasNextCandidate.
func (f *Frontier) NextCandidate() (*model.CrawlCandidate, error) {
	if f.pending.Len() == 0 {
		return nil, ErrEmptyFrontier
	}

	entry := heap.Pop(&f.pending).(*pendingEntry)
	f.served++
	return model.NewCandidate(entry.request), nil
}

// Len returns the number of pending requests.
func (f *Frontier) Len() int {
	return f.pending.Len()
}

// Served returns the number of candidates dequeued so far.
func (f *Frontier) Served() int {
	return f.served
}

// SeenCount returns the number of distinct URL fingerprints admitted
// over the frontier's lifetime.
func (f *Frontier) SeenCount() int {
	return f.index.Len()
}

// push inserts a request into the pending queue, assigning it the next
// insertion sequence number. The sequence is what makes the equal
// priority tie-break strict FIFO.
func (f *Frontier) push(request *model.CrawlRequest, key string) {
	heap.Push(&f.pending, &pendingEntry{
		request: request,
		key:     key,
		seq:     f.nextSeq,
	})
	f.nextSeq++
}

// pendingEntry is one pending request together with its fingerprint and
// insertion sequence number.
type pendingEntry struct {
	request *model.CrawlRequest
	key     string
	seq     uint64

	// index is maintained by container/heap.
	index int
}

// pendingQueue is a max-heap over priority with FIFO tie-break on the
// insertion sequence.
type pendingQueue []*pendingEntry

// Len implements heap.Interface.
func (q pendingQueue) Len() int { return len(q) }

// Less implements heap.Interface. Higher priority wins; for equal
// priorities the earlier insertion wins.
func (q pendingQueue) Less(i, j int) bool {
	if q[i].request.Priority() != q[j].request.Priority() {
		return q[i].request.Priority() > q[j].request.Priority()
	}
	return q[i].seq < q[j].seq
}

// Swap implements heap.Interface.
func (q pendingQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

// Push implements heap.Interface.
func (q *pendingQueue) Push(x any) {
	entry := x.(*pendingEntry)
	entry.index = len(*q)
	*q = append(*q, entry)
}

// Pop implements heap.Interface.
func (q *pendingQueue) Pop() any {
	old := *q
	n := len(old)
	entry := old[n-1]
	old[n-1] = nil
	entry.index = -1
	*q = old[:n-1]
	return entry
}
