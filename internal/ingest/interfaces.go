package ingest

// Walker queries a parsed document and returns the matching subtrees.
type Walker interface {
	// Query executes selector against root and returns the matches in
	// document order.
	Query(root any, selector string) ([]Match, error)
}

// Match is a single query result.
type Match interface {
	// Values returns the matched object's fields. A primitive match is
	// returned under the "value" key.
	Values() map[string]any

	// Context returns the matched subtree itself.
	Context() any
}
