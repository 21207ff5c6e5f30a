package engine

import (
	"sort"
	"sync"
)

// PendingIndex is the set of players with actions in flight, so the sweep
// never has to scan every stored player.
type PendingIndex struct {
	mu  sync.Mutex
	ids map[int64]struct{}
}

func NewPendingIndex() *PendingIndex {
	return &PendingIndex{ids: make(map[int64]struct{})}
}

func (x *PendingIndex) Add(id int64) {
	x.mu.Lock()
	x.ids[id] = struct{}{}
	x.mu.Unlock()
}

func (x *PendingIndex) Remove(id int64) {
	x.mu.Lock()
	delete(x.ids, id)
	x.mu.Unlock()
}

func (x *PendingIndex) Has(id int64) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	_, ok := x.ids[id]
	return ok
}

func (x *PendingIndex) Len() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return len(x.ids)
}

// Snapshot returns the current ids in ascending order.
func (x *PendingIndex) Snapshot() []int64 {
	x.mu.Lock()
	out := make([]int64, 0, len(x.ids))
	for id := range x.ids {
		out = append(out, id)
	}
	x.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
