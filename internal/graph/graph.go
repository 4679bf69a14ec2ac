// Package graph is the in-memory movie store: an AVL index over normalized
// titles, an attribute index of actor/director/genre buckets, and the
// adjacency graph implied by shared buckets.
//
// A MemoryStore is not safe for concurrent use. Wrap it in a HotSwapGraph
// when several goroutines share it.
package graph

import (
	"context"
	"fmt"

	"github.com/agentic-research/marquee/api"
	"github.com/agentic-research/marquee/internal/keys"
	"github.com/agentic-research/marquee/internal/logging"
)

// Graph is the query and mutation surface consumed by front-ends.
type Graph interface {
	Insert(m api.Movie) (*Record, error)
	Delete(title string) error
	UpdateRating(title string, rating float64) (*Record, error)

	Find(title string) (*Record, error)
	FindAttribute(name string) ([]*Record, error)
	FilterByYear(year int) []*Record
	FilterByRating(lo, hi float64) []*Record
	List() []*Record
	Len() int

	RecommendBFS(title string, limit int) ([]*Record, error)
	RecommendDFS(title string, limit int) ([]*Record, error)
	ShortestPath(from, to string) ([]*Record, error)
	Connect(personA, personB string) ([]*Record, error)
	CoActors(actor string) ([]string, error)
	Neighbors(title string) ([]*Record, error)
	Stats() Stats
}

// Stats summarizes the store.
type Stats struct {
	Records int
	Buckets int
	Edges   int // undirected
	Height  int // tree height
}

// Option configures a MemoryStore.
type Option func(*MemoryStore)

// WithFanOutCap sets the per-insertion edge cap. Values below 0 are treated as 0.
func WithFanOutCap(n int) Option {
	return func(s *MemoryStore) {
		s.attrs.fanOut = max(n, 0)
	}
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *logging.Logger) Option {
	return func(s *MemoryStore) {
		if l != nil {
			s.log = l
		}
	}
}

// MemoryStore owns every record through its arena. The attribute index and
// adjacency sets hold IDs only.
type MemoryStore struct {
	arena *arena
	tree  *tree
	attrs *attributeIndex
	log   *logging.Logger
}

var _ Graph = (*MemoryStore)(nil)

func NewMemoryStore(opts ...Option) *MemoryStore {
	a := newArena()
	s := &MemoryStore{
		arena: a,
		attrs: newAttributeIndex(a, DefaultFanOutCap),
		log:   logging.NoopLogger(),
	}
	s.tree = newTree(a, s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Insert adds m. A title already present (after normalization) is rejected
// with ErrDuplicateKey and nothing changes.
func (s *MemoryStore) Insert(m api.Movie) (*Record, error) {
	ctx := context.Background()
	title := keys.Clean(m.Title)
	key := keys.Normalize(m.Title)
	if key == "" {
		err := fmt.Errorf("insert %q: %w", m.Title, ErrEmptyKey)
		s.log.LogInsert(ctx, m.Title, 0, err)
		return nil, err
	}
	if s.tree.find(key) != nil {
		err := fmt.Errorf("insert %q: %w", title, ErrDuplicateKey)
		s.log.LogInsert(ctx, title, 0, err)
		return nil, err
	}

	r := newRecord()
	r.Title = title
	r.Key = key
	r.Director = keys.Clean(m.Director)
	r.Year = m.Year
	r.Rating = m.Rating
	r.Duration = m.Duration
	for _, a := range m.Actors {
		r.addActor(a)
	}
	for _, g := range m.Genres {
		r.addGenre(g)
	}

	s.arena.alloc(r)
	if !s.tree.insert(r) {
		s.arena.free(r.ID)
		return nil, fmt.Errorf("insert %q: %w", title, ErrDuplicateKey)
	}
	attrs := r.attributes()
	for _, attr := range attrs {
		s.attrs.insertReference(attr, r)
	}
	s.log.LogInsert(ctx, title, len(attrs), nil)
	return r, nil
}

// Delete removes the record titled title, stripping every bucket entry and
// adjacency edge that points at it.
func (s *MemoryStore) Delete(title string) error {
	ctx := context.Background()
	if !s.tree.remove(keys.Normalize(title)) {
		err := fmt.Errorf("delete %q: %w", title, ErrNotFound)
		s.log.LogDelete(ctx, title, err)
		return err
	}
	s.log.LogDelete(ctx, title, nil)
	return nil
}

// purge implements refKeeper.
func (s *MemoryStore) purge(r *Record) {
	for _, nb := range r.neighborIDs() {
		if other := s.arena.get(nb); other != nil {
			other.unlink(r.ID)
		}
		r.unlink(nb)
	}
	for _, attr := range r.attributes() {
		s.attrs.removeReference(attr, r)
	}
}

// reindex implements refKeeper.
func (s *MemoryStore) reindex(r *Record) {
	for _, attr := range r.attributes() {
		s.attrs.insertReference(attr, r)
	}
}

// UpdateRating sets the rating of an existing record.
func (s *MemoryStore) UpdateRating(title string, rating float64) (*Record, error) {
	r, err := s.Find(title)
	if err != nil {
		return nil, err
	}
	r.Rating = rating
	return r, nil
}

// Find looks a record up by title.
func (s *MemoryStore) Find(title string) (*Record, error) {
	r := s.tree.find(keys.Normalize(title))
	if r == nil {
		return nil, fmt.Errorf("find %q: %w", title, ErrNotFound)
	}
	return r, nil
}

// FindAttribute lists the records indexed under an actor, director or genre,
// in ID order. An empty bucket counts as not found.
func (s *MemoryStore) FindAttribute(name string) ([]*Record, error) {
	b := s.attrs.findBucket(name)
	if b == nil || b.members.IsEmpty() {
		return nil, fmt.Errorf("attribute %q: %w", name, ErrNotFound)
	}
	return s.attrs.records(b), nil
}

// FilterByYear returns records from year, in title order.
func (s *MemoryStore) FilterByYear(year int) []*Record {
	return s.tree.collect(func(r *Record) bool { return r.Year == year })
}

// FilterByRating returns records rated within [lo, hi], in title order.
func (s *MemoryStore) FilterByRating(lo, hi float64) []*Record {
	return s.tree.collect(func(r *Record) bool { return r.Rating >= lo && r.Rating <= hi })
}

// List returns every record in title order.
func (s *MemoryStore) List() []*Record {
	return s.tree.collect(func(*Record) bool { return true })
}

func (s *MemoryStore) Len() int {
	return s.tree.size
}

// CoActors lists the distinct actors sharing a record with actor, in the
// order first seen, excluding actor itself.
func (s *MemoryStore) CoActors(actor string) ([]string, error) {
	b := s.attrs.findBucket(actor)
	if b == nil {
		return nil, fmt.Errorf("actor %q: %w", actor, ErrNotFound)
	}
	self := keys.Normalize(actor)
	seen := map[string]bool{self: true}
	var out []string
	for _, r := range s.attrs.records(b) {
		for _, a := range r.Actors {
			k := keys.Normalize(a)
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, a)
		}
	}
	return out, nil
}

// Neighbors returns the records adjacent to title, in link order.
func (s *MemoryStore) Neighbors(title string) ([]*Record, error) {
	r, err := s.Find(title)
	if err != nil {
		return nil, err
	}
	return s.resolve(r.neighborIDs()), nil
}

func (s *MemoryStore) resolve(ids []ID) []*Record {
	out := make([]*Record, 0, len(ids))
	for _, id := range ids {
		if r := s.arena.get(id); r != nil {
			out = append(out, r)
		}
	}
	return out
}

func (s *MemoryStore) Stats() Stats {
	st := Stats{
		Records: s.tree.size,
		Buckets: len(s.attrs.buckets),
		Height:  s.tree.height(),
	}
	degrees := 0
	s.arena.each(func(r *Record) { degrees += r.Degree() })
	st.Edges = degrees / 2
	return st
}
