package discovery

// DedupSet records the source document ids already emitted during a run.
// It lives in memory only.
type DedupSet struct {
	seen map[string]struct{}
}

// NewDedupSet creates an empty set.
func NewDedupSet() *DedupSet {
	return &DedupSet{seen: make(map[string]struct{})}
}

// Contains reports whether id has been added.
func (d *DedupSet) Contains(id string) bool {
	_, ok := d.seen[id]
	return ok
}

// Add inserts id. Adding an id twice has no further effect.
func (d *DedupSet) Add(id string) {
	d.seen[id] = struct{}{}
}

// Len returns the number of distinct ids added.
func (d *DedupSet) Len() int {
	return len(d.seen)
}
