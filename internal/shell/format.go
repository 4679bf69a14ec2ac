package shell

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/agentic-research/marquee/internal/graph"
)

const rule = "---------------------------------"

// Rating formats a score the way the menu prints it.
func Rating(r float64) string {
	return strconv.FormatFloat(r, 'g', -1, 64)
}

// WriteDetails prints the full record card.
func WriteDetails(w io.Writer, r *graph.Record) {
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Title:    %s (%d)\n", r.Title, r.Year)
	fmt.Fprintf(w, "Director: %s\n", r.Director)
	fmt.Fprintf(w, "Rating:   %s/10\n", Rating(r.Rating))
	fmt.Fprintf(w, "Cast:     %s\n", strings.Join(r.Actors, ", "))
	fmt.Fprintf(w, "Genres:   %s\n", strings.Join(r.Genres, ", "))
	fmt.Fprintln(w, rule)
}

// PathString renders a path as "[A] -> [B] -> [C]".
func PathString(path []*graph.Record) string {
	parts := make([]string, len(path))
	for i, r := range path {
		parts[i] = "[" + r.Title + "]"
	}
	return strings.Join(parts, " -> ")
}
