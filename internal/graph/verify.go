package graph

import (
	"errors"
	"fmt"

	"github.com/agentic-research/marquee/internal/keys"
)

// Verify checks the invariants tying the tree, the buckets and the
// adjacency sets together and returns every violation found.
func (s *MemoryStore) Verify() error {
	var errs []error

	count := 0
	var prev *Record
	s.tree.walk(func(r *Record) bool {
		count++
		if prev != nil && prev.Key >= r.Key {
			errs = append(errs, fmt.Errorf("order: %q before %q", prev.Key, r.Key))
		}
		prev = r
		if want := 1 + max(s.tree.h(r.left), s.tree.h(r.right)); r.height != want {
			errs = append(errs, fmt.Errorf("height of %q is %d, want %d", r.Key, r.height, want))
		}
		if bal := s.tree.balance(r.ID); bal > 1 || bal < -1 {
			errs = append(errs, fmt.Errorf("balance of %q is %d", r.Key, bal))
		}
		return true
	})
	if count != s.tree.size || count != s.arena.live {
		errs = append(errs, fmt.Errorf("size: tree walk %d, tree size %d, arena %d", count, s.tree.size, s.arena.live))
	}

	s.arena.each(func(r *Record) {
		for _, attr := range r.attributes() {
			b := s.attrs.findBucket(attr)
			if b == nil || !b.members.Contains(uint32(r.ID)) {
				errs = append(errs, fmt.Errorf("bucket %q is missing %q", keys.Normalize(attr), r.Key))
			}
		}
		for _, nb := range r.neighborIDs() {
			other := s.arena.get(nb)
			switch {
			case other == nil:
				errs = append(errs, fmt.Errorf("%q links to freed record %d", r.Key, nb))
			case !other.linkedTo(r.ID):
				errs = append(errs, fmt.Errorf("edge %q -> %q has no reverse", r.Key, other.Key))
			}
		}
	})

	for k, b := range s.attrs.buckets {
		it := b.members.Iterator()
		for it.HasNext() {
			id := ID(it.Next())
			r := s.arena.get(id)
			if r == nil {
				errs = append(errs, fmt.Errorf("bucket %q holds freed record %d", k, id))
				continue
			}
			if !holds(r, k) {
				errs = append(errs, fmt.Errorf("bucket %q holds %q, which lacks it", k, r.Key))
			}
		}
	}

	return errors.Join(errs...)
}

func holds(r *Record, key string) bool {
	for _, attr := range r.attributes() {
		if keys.Normalize(attr) == key {
			return true
		}
	}
	return false
}
