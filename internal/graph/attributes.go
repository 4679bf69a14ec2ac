package graph

import (
	"github.com/RoaringBitmap/roaring"
	"github.com/agentic-research/marquee/internal/keys"
)

// DefaultFanOutCap bounds how many existing bucket members a new member is
// linked to on a single insertion.
const DefaultFanOutCap = 25

// bucket holds every record sharing one normalized attribute string.
// Buckets are never removed, even once empty.
type bucket struct {
	key     string
	members *roaring.Bitmap // record IDs
}

// attributeIndex maps normalized actor/director/genre strings to buckets
// and draws adjacency edges between co-bucket records.
type attributeIndex struct {
	a       *arena
	buckets map[string]*bucket
	fanOut  int
}

func newAttributeIndex(a *arena, fanOut int) *attributeIndex {
	return &attributeIndex{
		a:       a,
		buckets: make(map[string]*bucket),
		fanOut:  fanOut,
	}
}

// insertReference adds r to the bucket for raw, linking r with up to fanOut
// existing members first. Blank keys and repeats are no-ops; it reports
// whether r was added.
func (ix *attributeIndex) insertReference(raw string, r *Record) bool {
	k := keys.Normalize(raw)
	if k == "" {
		return false
	}
	b, ok := ix.buckets[k]
	if !ok {
		b = &bucket{key: k, members: roaring.New()}
		ix.buckets[k] = b
	}
	if b.members.Contains(uint32(r.ID)) {
		return false
	}

	linked := 0
	it := b.members.Iterator()
	for it.HasNext() && linked < ix.fanOut {
		other := ix.a.get(ID(it.Next()))
		if other == nil {
			continue
		}
		r.link(other.ID)
		other.link(r.ID)
		linked++
	}

	b.members.Add(uint32(r.ID))
	return true
}

// findBucket returns the bucket for raw, or nil.
func (ix *attributeIndex) findBucket(raw string) *bucket {
	return ix.buckets[keys.Normalize(raw)]
}

// removeReference drops r from the bucket for raw. Edges are untouched.
func (ix *attributeIndex) removeReference(raw string, r *Record) {
	if b := ix.findBucket(raw); b != nil {
		b.members.Remove(uint32(r.ID))
	}
}

// records resolves the bucket's members in ID order.
func (ix *attributeIndex) records(b *bucket) []*Record {
	out := make([]*Record, 0, b.members.GetCardinality())
	it := b.members.Iterator()
	for it.HasNext() {
		if r := ix.a.get(ID(it.Next())); r != nil {
			out = append(out, r)
		}
	}
	return out
}
