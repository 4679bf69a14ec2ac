package graph

import (
	"context"
	"fmt"
	"slices"

	"github.com/RoaringBitmap/roaring"
	"github.com/agentic-research/marquee/internal/keys"
)

// traversal is the visited/parent marking for one query. Each query builds
// a fresh one, so no marks survive from a previous query.
type traversal struct {
	visited *roaring.Bitmap
	parent  map[ID]ID
}

func (s *MemoryStore) newTraversal() *traversal {
	return &traversal{
		visited: roaring.New(),
		parent:  make(map[ID]ID),
	}
}

// visit marks id and reports whether it was unvisited.
func (tr *traversal) visit(id ID) bool {
	return tr.visited.CheckedAdd(uint32(id))
}

// path walks parent links back from end and returns them start-first.
func (tr *traversal) path(s *MemoryStore, end ID) []*Record {
	var ids []ID
	for id := end; id != noID; id = tr.parent[id] {
		ids = append(ids, id)
	}
	slices.Reverse(ids)
	return s.resolve(ids)
}

// RecommendBFS expands level by level from title and returns up to limit
// newly discovered records in discovery order. Records are marked when
// enqueued; expansion stops as soon as limit is reached, even partway
// through a record's neighbors.
func (s *MemoryStore) RecommendBFS(title string, limit int) ([]*Record, error) {
	start, err := s.Find(title)
	if err != nil {
		return nil, err
	}
	out := []*Record{}
	if limit <= 0 {
		return out, nil
	}

	tr := s.newTraversal()
	tr.visit(start.ID)
	queue := []ID{start.ID}
	for len(queue) > 0 {
		cur := s.arena.get(queue[0])
		queue = queue[1:]
		for _, nb := range cur.neighborIDs() {
			if !tr.visit(nb) {
				continue
			}
			queue = append(queue, nb)
			if nb != start.ID {
				out = append(out, s.arena.get(nb))
			}
			if len(out) >= limit {
				s.log.LogQuery(context.Background(), "recommend_bfs", len(out), nil)
				return out, nil
			}
		}
	}
	s.log.LogQuery(context.Background(), "recommend_bfs", len(out), nil)
	return out, nil
}

// RecommendDFS walks an explicit stack from title and returns up to limit
// records in pop order. Records are marked when pushed, and neighbors are
// pushed in link order, so the most recently linked neighbor pops first.
func (s *MemoryStore) RecommendDFS(title string, limit int) ([]*Record, error) {
	start, err := s.Find(title)
	if err != nil {
		return nil, err
	}
	out := []*Record{}
	if limit <= 0 {
		return out, nil
	}

	tr := s.newTraversal()
	tr.visit(start.ID)
	stack := []ID{start.ID}
	for len(stack) > 0 {
		cur := s.arena.get(stack[len(stack)-1])
		stack = stack[:len(stack)-1]
		if cur.ID != start.ID {
			out = append(out, cur)
		}
		for _, nb := range cur.neighborIDs() {
			if tr.visit(nb) {
				stack = append(stack, nb)
			}
		}
		if len(out) >= limit {
			break
		}
	}
	s.log.LogQuery(context.Background(), "recommend_dfs", len(out), nil)
	return out, nil
}

// ShortestPath returns a minimum-edge path from one title to another,
// endpoints included. Breadth-first order guarantees the first visit of
// the target is along a shortest path.
func (s *MemoryStore) ShortestPath(from, to string) ([]*Record, error) {
	start, err := s.Find(from)
	if err != nil {
		return nil, err
	}
	end, err := s.Find(to)
	if err != nil {
		return nil, err
	}

	tr := s.newTraversal()
	tr.visit(start.ID)
	queue := []ID{start.ID}
	for len(queue) > 0 {
		cur := s.arena.get(queue[0])
		queue = queue[1:]
		if cur.ID == end.ID {
			p := tr.path(s, end.ID)
			s.log.LogQuery(context.Background(), "shortest_path", len(p), nil)
			return p, nil
		}
		for _, nb := range cur.neighborIDs() {
			if tr.visit(nb) {
				tr.parent[nb] = cur.ID
				queue = append(queue, nb)
			}
		}
	}
	err = fmt.Errorf("path %q -> %q: %w", from, to, ErrNoPath)
	s.log.LogQuery(context.Background(), "shortest_path", 0, err)
	return nil, err
}

// Connect links two people through shared work. The search starts from
// every record personA acts in or directed and ends at the first dequeued
// record that involves personB. The returned path runs from one of
// personA's records to that record.
func (s *MemoryStore) Connect(personA, personB string) ([]*Record, error) {
	if keys.Normalize(personB) == "" || keys.Normalize(personA) == "" {
		return nil, fmt.Errorf("connect %q -> %q: %w", personA, personB, ErrEmptyKey)
	}
	b := s.attrs.findBucket(personA)
	if b == nil {
		return nil, fmt.Errorf("connect: person %q: %w", personA, ErrNotFound)
	}

	tr := s.newTraversal()
	var queue []ID
	for _, r := range s.attrs.records(b) {
		// Genre buckets share the key space with people.
		if !r.involves(personA) {
			continue
		}
		tr.visit(r.ID)
		queue = append(queue, r.ID)
	}
	for len(queue) > 0 {
		cur := s.arena.get(queue[0])
		queue = queue[1:]
		if cur.involves(personB) {
			p := tr.path(s, cur.ID)
			s.log.LogQuery(context.Background(), "connect", len(p), nil)
			return p, nil
		}
		for _, nb := range cur.neighborIDs() {
			if tr.visit(nb) {
				tr.parent[nb] = cur.ID
				queue = append(queue, nb)
			}
		}
	}
	err := fmt.Errorf("connect %q -> %q: %w", personA, personB, ErrNoPath)
	s.log.LogQuery(context.Background(), "connect", 0, err)
	return nil, err
}
