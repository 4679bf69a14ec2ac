package graph

// refKeeper strips and restores a record's back-references during tree
// deletion. The store implements it over the attribute index.
type refKeeper interface {
	// purge removes r from every bucket it is indexed in and from every
	// neighbor's adjacency set, emptying r's own adjacency set.
	purge(r *Record)
	// reindex inserts r under each of its attributes again.
	reindex(r *Record)
}

// tree is an AVL tree over arena records keyed by Record.Key.
// Height of an absent subtree is 0; a leaf has height 1.
type tree struct {
	a    *arena
	refs refKeeper
	root ID
	size int
}

func newTree(a *arena, refs refKeeper) *tree {
	return &tree{a: a, refs: refs}
}

func (t *tree) h(id ID) int {
	if n := t.a.get(id); n != nil {
		return n.height
	}
	return 0
}

func (t *tree) balance(id ID) int {
	n := t.a.get(id)
	if n == nil {
		return 0
	}
	return t.h(n.left) - t.h(n.right)
}

func (t *tree) fix(n *Record) {
	n.height = 1 + max(t.h(n.left), t.h(n.right))
}

// rotateRight lifts y's left child above y.
func (t *tree) rotateRight(yID ID) ID {
	y := t.a.get(yID)
	x := t.a.get(y.left)
	y.left = x.right
	x.right = yID
	t.fix(y)
	t.fix(x)
	return x.ID
}

// rotateLeft lifts x's right child above x.
func (t *tree) rotateLeft(xID ID) ID {
	x := t.a.get(xID)
	y := t.a.get(x.right)
	x.right = y.left
	y.left = xID
	t.fix(x)
	t.fix(y)
	return y.ID
}

// insert links r into the tree. It returns false, changing nothing, when
// a record with the same key is already present.
func (t *tree) insert(r *Record) bool {
	root, ok := t.insertAt(t.root, r)
	if !ok {
		return false
	}
	t.root = root
	t.size++
	return true
}

func (t *tree) insertAt(id ID, r *Record) (ID, bool) {
	n := t.a.get(id)
	if n == nil {
		r.left, r.right, r.height = noID, noID, 1
		return r.ID, true
	}

	var ok bool
	switch {
	case r.Key < n.Key:
		n.left, ok = t.insertAt(n.left, r)
	case r.Key > n.Key:
		n.right, ok = t.insertAt(n.right, r)
	default:
		return id, false
	}
	if !ok {
		return id, false
	}

	t.fix(n)
	bal := t.balance(id)

	if bal > 1 {
		if r.Key < t.a.get(n.left).Key {
			return t.rotateRight(id), true
		}
		n.left = t.rotateLeft(n.left)
		return t.rotateRight(id), true
	}
	if bal < -1 {
		if r.Key > t.a.get(n.right).Key {
			return t.rotateLeft(id), true
		}
		n.right = t.rotateRight(n.right)
		return t.rotateLeft(id), true
	}
	return id, true
}

// find descends by key comparison.
func (t *tree) find(key string) *Record {
	n := t.a.get(t.root)
	for n != nil {
		switch {
		case key < n.Key:
			n = t.a.get(n.left)
		case key > n.Key:
			n = t.a.get(n.right)
		default:
			return n
		}
	}
	return nil
}

// remove deletes the record with key. It returns false when absent.
func (t *tree) remove(key string) bool {
	if t.find(key) == nil {
		return false
	}
	t.root = t.removeAt(t.root, key)
	t.size--
	return true
}

func (t *tree) removeAt(id ID, key string) ID {
	n := t.a.get(id)
	if n == nil {
		return noID
	}

	switch {
	case key < n.Key:
		n.left = t.removeAt(n.left, key)
	case key > n.Key:
		n.right = t.removeAt(n.right, key)
	case n.left == noID || n.right == noID:
		child := n.left
		if child == noID {
			child = n.right
		}
		t.refs.purge(n)
		t.a.free(id)
		return child
	default:
		// n keeps its slot and takes over the successor's payload; the
		// successor's node is then removed from the right subtree.
		succ := t.min(n.right)
		t.refs.purge(succ)
		t.refs.purge(n)
		n.copyPayload(succ)
		t.refs.reindex(n)
		n.right = t.removeAt(n.right, succ.Key)
	}

	return t.rebalance(id)
}

// rebalance restores the AVL property at id after a removal below it.
func (t *tree) rebalance(id ID) ID {
	n := t.a.get(id)
	t.fix(n)
	bal := t.balance(id)

	switch {
	case bal > 1 && t.balance(n.left) >= 0: // left-left
		return t.rotateRight(id)
	case bal > 1: // left-right
		n.left = t.rotateLeft(n.left)
		return t.rotateRight(id)
	case bal < -1 && t.balance(n.right) <= 0: // right-right
		return t.rotateLeft(id)
	case bal < -1: // right-left
		n.right = t.rotateRight(n.right)
		return t.rotateLeft(id)
	}
	return id
}

func (t *tree) min(id ID) *Record {
	n := t.a.get(id)
	for n != nil && n.left != noID {
		n = t.a.get(n.left)
	}
	return n
}

// walk visits records in ascending key order until fn returns false.
func (t *tree) walk(fn func(*Record) bool) {
	t.walkAt(t.root, fn)
}

func (t *tree) walkAt(id ID, fn func(*Record) bool) bool {
	n := t.a.get(id)
	if n == nil {
		return true
	}
	return t.walkAt(n.left, fn) && fn(n) && t.walkAt(n.right, fn)
}

// collect returns the in-order records matching keep.
func (t *tree) collect(keep func(*Record) bool) []*Record {
	var out []*Record
	t.walk(func(r *Record) bool {
		if keep(r) {
			out = append(out, r)
		}
		return true
	})
	return out
}

func (t *tree) height() int {
	return t.h(t.root)
}
