package cluster

import "sync/atomic"

// KeySource hands out cluster keys. Keys increase monotonically and are never
// reused by the same source. A ClusterIndex shares one source across all of
// its levels so keys are unique within the index.
type KeySource struct {
	next atomic.Int64
}

// NewKeySource returns a source whose first key is start.
func NewKeySource(start int64) *KeySource {
	ks := &KeySource{}
	ks.next.Store(start)
	return ks
}

// Next returns the next unused key.
func (ks *KeySource) Next() int64 {
	return ks.next.Add(1) - 1
}

// Peek returns the key the next call to Next will hand out.
func (ks *KeySource) Peek() int64 {
	return ks.next.Load()
}
