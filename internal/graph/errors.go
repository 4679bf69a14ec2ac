package graph

import "errors"

// Sentinel errors for store operations. Failed operations leave the tree,
// the attribute buckets and the adjacency sets unchanged.
var (
	// ErrNotFound is returned when a title, attribute or path endpoint is absent.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when inserting a title whose normalized
	// key is already present. The first record wins.
	ErrDuplicateKey = errors.New("duplicate title")

	// ErrEmptyKey is returned when a title or person normalizes to the
	// empty string. Empty attribute strings are ignored silently instead.
	ErrEmptyKey = errors.New("empty key")

	// ErrNoPath is returned when two present endpoints are not connected.
	ErrNoPath = errors.New("no connection")
)
