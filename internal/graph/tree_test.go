package graph

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/agentic-research/marquee/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTree_InsertKeepsBalanceOnSortedInput(t *testing.T) {
	s := NewMemoryStore()
	for i := 0; i < 1000; i++ {
		mustInsert(t, s, api.Movie{Title: fmt.Sprintf("movie %04d", i)})
	}
	require.NoError(t, s.Verify())
	// An AVL tree with 1000 nodes is at most 1.44*log2(1002) high.
	assert.LessOrEqual(t, s.Stats().Height, 14)

	list := s.List()
	require.Len(t, list, 1000)
	assert.Equal(t, "movie 0000", list[0].Title)
	assert.Equal(t, "movie 0999", list[999].Title)
}

func TestTree_RotationCases(t *testing.T) {
	cases := map[string][]string{
		"left-left":   {"c", "b", "a"},
		"right-right": {"a", "b", "c"},
		"left-right":  {"c", "a", "b"},
		"right-left":  {"a", "c", "b"},
	}
	for name, order := range cases {
		t.Run(name, func(t *testing.T) {
			s := NewMemoryStore()
			for _, title := range order {
				mustInsert(t, s, api.Movie{Title: title})
			}
			require.NoError(t, s.Verify())
			assert.Equal(t, "b", s.arena.get(s.tree.root).Key)
			assert.Equal(t, 2, s.tree.height())
		})
	}
}

func TestTree_DeleteRebalances(t *testing.T) {
	s := NewMemoryStore()
	for _, title := range []string{"d", "b", "f", "a", "c", "e", "g", "h"} {
		mustInsert(t, s, api.Movie{Title: title})
	}
	for _, title := range []string{"a", "c", "b", "d"} {
		require.NoError(t, s.Delete(title))
		require.NoError(t, s.Verify(), "after deleting %s", title)
	}
	assert.Equal(t, []string{"e", "f", "g", "h"}, titles(s.List()))
}

func TestTree_DeleteEverything(t *testing.T) {
	s := NewMemoryStore()
	for i := 0; i < 50; i++ {
		mustInsert(t, s, api.Movie{Title: fmt.Sprintf("t%02d", i), Genres: []string{"g"}})
	}
	for i := 49; i >= 0; i-- {
		require.NoError(t, s.Delete(fmt.Sprintf("t%02d", i)))
	}
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, s.tree.height())
	assert.Empty(t, s.List())
	require.NoError(t, s.Verify())

	// Usable again after being emptied.
	mustInsert(t, s, api.Movie{Title: "t00", Genres: []string{"g"}})
	rs, err := s.FindAttribute("g")
	require.NoError(t, err)
	assert.Len(t, rs, 1)
}

// TestTree_RandomMutations interleaves inserts and deletes over a small
// shared attribute pool and checks every invariant after each step.
func TestTree_RandomMutations(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	actors := []string{"Ann", "Bob", "Cy", "Dee", "Eve", "Flo"}
	genres := []string{"Drama", "Comedy", "Horror"}

	s := NewMemoryStore(WithFanOutCap(3))
	live := map[string]bool{}
	for step := 0; step < 600; step++ {
		title := fmt.Sprintf("film %d", rng.IntN(120))
		if live[title] && rng.IntN(2) == 0 {
			require.NoError(t, s.Delete(title))
			delete(live, title)
		} else {
			m := api.Movie{
				Title:    title,
				Director: actors[rng.IntN(len(actors))],
				Actors:   []string{actors[rng.IntN(len(actors))], actors[rng.IntN(len(actors))]},
				Genres:   []string{genres[rng.IntN(len(genres))]},
			}
			_, err := s.Insert(m)
			if live[title] {
				require.ErrorIs(t, err, ErrDuplicateKey)
			} else {
				require.NoError(t, err)
				live[title] = true
			}
		}
		require.NoError(t, s.Verify(), "step %d", step)
		require.Equal(t, len(live), s.Len())
	}
}
