package graph

import (
	"slices"

	"github.com/agentic-research/marquee/api"
	"github.com/agentic-research/marquee/internal/keys"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ID is a stable handle into the store's arena. IDs are never reused, so a
// stale ID resolves to nothing instead of to a different record.
type ID uint32

// noID marks an absent child link or parent.
const noID ID = 0

// Record is one movie. It doubles as its own ordered-index node: the child
// links and height live on the record. Callers must not mutate records
// returned by the store.
type Record struct {
	ID       ID
	Title    string // display form
	Key      string // normalized title, unique across live records
	Director string
	Year     int
	Rating   float64
	Duration int
	Actors   []string
	Genres   []string

	// neighbors keeps link order; BFS/DFS expand in this order.
	neighbors *orderedmap.OrderedMap[ID, struct{}]

	left, right ID
	height      int
}

func newRecord() *Record {
	return &Record{
		neighbors: orderedmap.New[ID, struct{}](),
		height:    1,
	}
}

// addActor appends name unless an actor with the same key is present.
func (r *Record) addActor(name string) {
	r.Actors = appendUnique(r.Actors, name)
}

func (r *Record) addGenre(name string) {
	r.Genres = appendUnique(r.Genres, name)
}

func appendUnique(list []string, name string) []string {
	name = keys.Clean(name)
	if keys.Normalize(name) == "" {
		return list
	}
	for _, existing := range list {
		if keys.Equal(existing, name) {
			return list
		}
	}
	return append(list, name)
}

// attributes lists every string the record is indexed under: actors, then
// the director, then genres.
func (r *Record) attributes() []string {
	out := make([]string, 0, len(r.Actors)+len(r.Genres)+1)
	out = append(out, r.Actors...)
	if keys.Normalize(r.Director) != "" {
		out = append(out, r.Director)
	}
	return append(out, r.Genres...)
}

// involves reports whether person is one of the actors or the director.
func (r *Record) involves(person string) bool {
	if keys.Equal(r.Director, person) {
		return true
	}
	for _, a := range r.Actors {
		if keys.Equal(a, person) {
			return true
		}
	}
	return false
}

// link adds other to the adjacency set. Self links and repeats are ignored.
func (r *Record) link(other ID) {
	if other == r.ID {
		return
	}
	if _, ok := r.neighbors.Get(other); ok {
		return
	}
	r.neighbors.Set(other, struct{}{})
}

func (r *Record) unlink(other ID) {
	r.neighbors.Delete(other)
}

func (r *Record) linkedTo(other ID) bool {
	if r.neighbors == nil {
		return false
	}
	_, ok := r.neighbors.Get(other)
	return ok
}

// neighborIDs returns the adjacency set in link order.
func (r *Record) neighborIDs() []ID {
	if r.neighbors == nil {
		return nil
	}
	ids := make([]ID, 0, r.neighbors.Len())
	for p := r.neighbors.Oldest(); p != nil; p = p.Next() {
		ids = append(ids, p.Key)
	}
	return ids
}

// Degree returns the number of adjacent records.
func (r *Record) Degree() int {
	if r.neighbors == nil {
		return 0
	}
	return r.neighbors.Len()
}

// copyPayload overwrites r's movie fields with src's. Tree links, ID and
// adjacency stay r's own.
func (r *Record) copyPayload(src *Record) {
	r.Title = src.Title
	r.Key = src.Key
	r.Director = src.Director
	r.Year = src.Year
	r.Rating = src.Rating
	r.Duration = src.Duration
	r.Actors = slices.Clone(src.Actors)
	r.Genres = slices.Clone(src.Genres)
}

// Snapshot returns a detached copy of the movie fields, safe to read after
// the store has moved on.
func (r *Record) Snapshot() *Record {
	c := &Record{ID: r.ID}
	c.copyPayload(r)
	return c
}

// Movie converts r back to its input form.
func (r *Record) Movie() api.Movie {
	return api.Movie{
		Title:    r.Title,
		Director: r.Director,
		Year:     r.Year,
		Rating:   r.Rating,
		Duration: r.Duration,
		Actors:   slices.Clone(r.Actors),
		Genres:   slices.Clone(r.Genres),
	}
}
