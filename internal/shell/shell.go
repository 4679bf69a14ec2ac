// Package shell is the interactive numbered menu over a graph.Graph.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/agentic-research/marquee/internal/graph"
	"github.com/mattn/go-isatty"
)

const menu = `
=== MOVIES MANAGER ===
1. Display All
2. Search Title
3. Search Actor/Genre/Director
4. Search Year
5. Search Rating
6. Recommendations (BFS)
7. Recommendations (DFS)
8. Shortest Path (Movies)
9. Shortest Path (Actors/Directors)
10. Update Rating
11. Delete Movie
12. Find Co-Actors
13. Exit
`

const choiceExit = 13

// Shell reads menu choices from in and writes results to out. Prompts are
// written only when Interactive is set; results and input errors always are.
type Shell struct {
	g           graph.Graph
	in          *bufio.Reader
	out         io.Writer
	Interactive bool
}

func New(g graph.Graph, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		g:   g,
		in:  bufio.NewReader(in),
		out: out,
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Run serves menu choices until Exit is chosen, input ends or ctx is done.
// End of input is a normal exit.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.prompt(menu + "Choice: ")
		choice, err := s.readInt()
		if err != nil {
			return eofOK(err)
		}
		if choice == choiceExit {
			s.printf("Exiting...\n")
			return nil
		}
		if err := s.dispatch(choice); err != nil {
			return eofOK(err)
		}
	}
}

func eofOK(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (s *Shell) dispatch(choice int) error {
	switch choice {
	case 1:
		s.displayAll()
	case 2:
		return s.searchTitle()
	case 3:
		return s.searchAttribute()
	case 4:
		return s.searchYear()
	case 5:
		return s.searchRating()
	case 6:
		return s.recommend(false)
	case 7:
		return s.recommend(true)
	case 8:
		return s.moviePath()
	case 9:
		return s.connectPeople()
	case 10:
		return s.updateRating()
	case 11:
		return s.deleteMovie()
	case 12:
		return s.coActors()
	default:
		s.printf("Invalid choice.\n")
	}
	return nil
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func (s *Shell) prompt(p string) {
	if s.Interactive {
		s.printf("%s", p)
	}
}

// readLine returns the next line without its terminator. A final line
// without a newline is returned before io.EOF.
func (s *Shell) readLine() (string, error) {
	line, err := s.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (s *Shell) ask(p string) (string, error) {
	s.prompt(p)
	return s.readLine()
}

// readInt re-prompts until a line holds an integer.
func (s *Shell) readInt() (int, error) {
	for {
		line, err := s.readLine()
		if err != nil {
			return 0, err
		}
		if n, err := strconv.Atoi(strings.TrimSpace(line)); err == nil {
			return n, nil
		}
		s.printf("Invalid input. Please enter a number: ")
	}
}

func (s *Shell) readFloat() (float64, error) {
	for {
		line, err := s.readLine()
		if err != nil {
			return 0, err
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(line), 64); err == nil {
			return f, nil
		}
		s.printf("Invalid input. Please enter a number: ")
	}
}

func (s *Shell) askInt(p string) (int, error) {
	s.prompt(p)
	return s.readInt()
}

func (s *Shell) askFloat(p string) (float64, error) {
	s.prompt(p)
	return s.readFloat()
}

func (s *Shell) displayAll() {
	for _, r := range s.g.List() {
		s.printf("%s (%d)\n", r.Title, r.Year)
	}
}

func (s *Shell) searchTitle() error {
	title, err := s.ask("Title: ")
	if err != nil {
		return err
	}
	r, err := s.g.Find(title)
	if err != nil {
		s.printf("Not found.\n")
		return nil
	}
	WriteDetails(s.out, r)
	return nil
}

func (s *Shell) searchAttribute() error {
	name, err := s.ask("Actor/Genre/Director: ")
	if err != nil {
		return err
	}
	rs, err := s.g.FindAttribute(name)
	if err != nil {
		s.printf("No matches found.\n")
		return nil
	}
	s.printf("\n--- Results ---\n")
	for _, r := range rs {
		s.printf("- %s\n", r.Title)
	}
	return nil
}

func (s *Shell) searchYear() error {
	year, err := s.askInt("Year: ")
	if err != nil {
		return err
	}
	s.printf("\n--- Movies from %d ---\n", year)
	rs := s.g.FilterByYear(year)
	for _, r := range rs {
		s.printf("- %s\n", r.Title)
	}
	if len(rs) == 0 {
		s.printf("None found.\n")
	}
	return nil
}

func (s *Shell) searchRating() error {
	lo, err := s.askFloat("Min Rating: ")
	if err != nil {
		return err
	}
	hi, err := s.askFloat("Max Rating: ")
	if err != nil {
		return err
	}
	s.printf("\n--- Movies rated %s to %s ---\n", Rating(lo), Rating(hi))
	rs := s.g.FilterByRating(lo, hi)
	for _, r := range rs {
		s.printf("- %s [%s]\n", r.Title, Rating(r.Rating))
	}
	if len(rs) == 0 {
		s.printf("None found.\n")
	}
	return nil
}

func (s *Shell) recommend(depthFirst bool) error {
	title, err := s.ask("Movie: ")
	if err != nil {
		return err
	}
	limit, err := s.askInt("Num recs: ")
	if err != nil {
		return err
	}
	start, err := s.g.Find(title)
	if err != nil {
		s.printf("Movie not found.\n")
		return nil
	}

	if depthFirst {
		rs, _ := s.g.RecommendDFS(title, limit)
		s.printf("\n--- DFS Recommendation for '%s' ---\n", start.Title)
		for _, r := range rs {
			s.printf("-> %s\n", r.Title)
		}
		return nil
	}
	rs, _ := s.g.RecommendBFS(title, limit)
	s.printf("\n--- Top %d Recommendations for '%s' ---\n", limit, start.Title)
	for _, r := range rs {
		s.printf("-> %s (%s/10)\n", r.Title, Rating(r.Rating))
	}
	if len(rs) == 0 {
		s.printf("No related movies found.\n")
	}
	return nil
}

func (s *Shell) moviePath() error {
	from, err := s.ask("Movie 1: ")
	if err != nil {
		return err
	}
	to, err := s.ask("Movie 2: ")
	if err != nil {
		return err
	}
	path, err := s.g.ShortestPath(from, to)
	switch {
	case errors.Is(err, graph.ErrNotFound):
		s.printf("Movies not found.\n")
	case err != nil:
		s.printf("\nNo connection found.\n")
	default:
		s.printf("\n--- Shortest Connection Path ---\n%s\n", PathString(path))
	}
	return nil
}

func (s *Shell) connectPeople() error {
	a, err := s.ask("Person 1: ")
	if err != nil {
		return err
	}
	b, err := s.ask("Person 2: ")
	if err != nil {
		return err
	}
	path, err := s.g.Connect(a, b)
	switch {
	case errors.Is(err, graph.ErrNotFound), errors.Is(err, graph.ErrEmptyKey):
		s.printf("Actor/Director 1 (%s) not found.\n", a)
	case err != nil:
		s.printf("No connection found between these actors/directors.\n")
	default:
		s.printf("\n--- Connection Found! ---\n")
		s.printf("%s is connected to %s via:\n", a, b)
		s.printf("%s -> (Involved: %s)\n", PathString(path), b)
	}
	return nil
}

func (s *Shell) updateRating() error {
	title, err := s.ask("Title: ")
	if err != nil {
		return err
	}
	r, err := s.g.Find(title)
	if err != nil {
		s.printf("Not found.\n")
		return nil
	}
	s.printf("Current: %s. New: ", Rating(r.Rating))
	rating, err := s.readFloat()
	if err != nil {
		return err
	}
	r, err = s.g.UpdateRating(title, rating)
	if err != nil {
		s.printf("Not found.\n")
		return nil
	}
	s.printf("Rating for '%s' updated to %s/10\n", r.Title, Rating(r.Rating))
	return nil
}

func (s *Shell) deleteMovie() error {
	title, err := s.ask("Title to delete: ")
	if err != nil {
		return err
	}
	if err := s.g.Delete(title); err != nil {
		s.printf("Movie not found.\n")
		return nil
	}
	s.printf("Movie '%s' deleted.\n", title)
	return nil
}

func (s *Shell) coActors() error {
	actor, err := s.ask("Actor: ")
	if err != nil {
		return err
	}
	names, err := s.g.CoActors(actor)
	if err != nil {
		s.printf("Actor not found.\n")
		return nil
	}
	s.printf("\n--- Co-Actors of %s ---\n", actor)
	for _, n := range names {
		s.printf("%s, ", n)
	}
	s.printf("\n")
	return nil
}
