package graph

import (
	"sync"

	"github.com/agentic-research/marquee/api"
)

// HotSwapGraph is a thread-safe wrapper that serializes access to a Graph
// and allows swapping in a freshly loaded one. Records it returns are
// snapshots, detached from the live store.
type HotSwapGraph struct {
	mu      sync.RWMutex
	current Graph
}

var _ Graph = (*HotSwapGraph)(nil)

func NewHotSwapGraph(initial Graph) *HotSwapGraph {
	return &HotSwapGraph{current: initial}
}

// Swap replaces the current graph and returns the previous one.
func (h *HotSwapGraph) Swap(g Graph) Graph {
	h.mu.Lock()
	defer h.mu.Unlock()
	old := h.current
	h.current = g
	return old
}

func snapshot(r *Record, err error) (*Record, error) {
	if r == nil {
		return nil, err
	}
	return r.Snapshot(), err
}

func snapshots(rs []*Record, err error) ([]*Record, error) {
	if rs == nil {
		return nil, err
	}
	out := make([]*Record, len(rs))
	for i, r := range rs {
		out[i] = r.Snapshot()
	}
	return out, err
}

// Traversals mutate nothing shared (their marks are per call), but lookups
// hand back live records, so every call that returns records copies them
// under the lock.

func (h *HotSwapGraph) Insert(m api.Movie) (*Record, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return snapshot(h.current.Insert(m))
}

func (h *HotSwapGraph) Delete(title string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current.Delete(title)
}

func (h *HotSwapGraph) UpdateRating(title string, rating float64) (*Record, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return snapshot(h.current.UpdateRating(title, rating))
}

func (h *HotSwapGraph) Find(title string) (*Record, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return snapshot(h.current.Find(title))
}

func (h *HotSwapGraph) FindAttribute(name string) ([]*Record, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return snapshots(h.current.FindAttribute(name))
}

func (h *HotSwapGraph) FilterByYear(year int) []*Record {
	h.mu.RLock()
	defer h.mu.RUnlock()
	rs, _ := snapshots(h.current.FilterByYear(year), nil)
	return rs
}

func (h *HotSwapGraph) FilterByRating(lo, hi float64) []*Record {
	h.mu.RLock()
	defer h.mu.RUnlock()
	rs, _ := snapshots(h.current.FilterByRating(lo, hi), nil)
	return rs
}

func (h *HotSwapGraph) List() []*Record {
	h.mu.RLock()
	defer h.mu.RUnlock()
	rs, _ := snapshots(h.current.List(), nil)
	return rs
}

func (h *HotSwapGraph) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current.Len()
}

func (h *HotSwapGraph) RecommendBFS(title string, limit int) ([]*Record, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return snapshots(h.current.RecommendBFS(title, limit))
}

func (h *HotSwapGraph) RecommendDFS(title string, limit int) ([]*Record, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return snapshots(h.current.RecommendDFS(title, limit))
}

func (h *HotSwapGraph) ShortestPath(from, to string) ([]*Record, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return snapshots(h.current.ShortestPath(from, to))
}

func (h *HotSwapGraph) Connect(personA, personB string) ([]*Record, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return snapshots(h.current.Connect(personA, personB))
}

func (h *HotSwapGraph) CoActors(actor string) ([]string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current.CoActors(actor)
}

func (h *HotSwapGraph) Neighbors(title string) ([]*Record, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return snapshots(h.current.Neighbors(title))
}

func (h *HotSwapGraph) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current.Stats()
}
