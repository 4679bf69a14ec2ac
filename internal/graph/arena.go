package graph

// arena owns every record. Slot 0 is reserved so the zero ID means "none";
// freed slots are left empty rather than recycled.
type arena struct {
	slots []*Record
	live  int
}

func newArena() *arena {
	return &arena{slots: make([]*Record, 1, 64)}
}

// alloc assigns r the next ID and stores it.
func (a *arena) alloc(r *Record) ID {
	r.ID = ID(len(a.slots))
	a.slots = append(a.slots, r)
	a.live++
	return r.ID
}

// get resolves id, returning nil for absent, freed or out-of-range IDs.
func (a *arena) get(id ID) *Record {
	if id == noID || int(id) >= len(a.slots) {
		return nil
	}
	return a.slots[id]
}

func (a *arena) free(id ID) {
	if a.get(id) == nil {
		return
	}
	a.slots[id] = nil
	a.live--
}

// each visits live records in ID order.
func (a *arena) each(fn func(*Record)) {
	for _, r := range a.slots {
		if r != nil {
			fn(r)
		}
	}
}
