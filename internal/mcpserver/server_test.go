package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/agentic-research/marquee/api"
	"github.com/agentic-research/marquee/internal/graph"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s := graph.NewMemoryStore()
	for _, m := range []api.Movie{
		{Title: "Avatar", Director: "James Cameron", Year: 2009, Rating: 7.9,
			Actors: []string{"CCH Pounder"}, Genres: []string{"Action"}},
		{Title: "Titanic", Director: "James Cameron", Year: 1997, Rating: 7.7,
			Actors: []string{"Leonardo DiCaprio", "Kate Winslet"}, Genres: []string{"Drama"}},
		{Title: "Inception", Director: "Christopher Nolan", Year: 2010, Rating: 8.8,
			Actors: []string{"Leonardo DiCaprio", "Tom Hardy"}, Genres: []string{"Action"}},
		{Title: "Loner", Year: 2009},
	} {
		_, err := s.Insert(m)
		require.NoError(t, err)
	}
	return New(graph.NewHotSwapGraph(s), nil)
}

func call(t *testing.T, h server.ToolHandlerFunc, args map[string]any) (string, bool) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text, res.IsError
}

func TestTools_Lookups(t *testing.T) {
	s := newTestServer(t)

	text, isErr := call(t, s.findMovie, map[string]any{"title": "avatar"})
	assert.False(t, isErr)
	assert.Contains(t, text, "Title:    Avatar (2009)")

	text, isErr = call(t, s.findMovie, map[string]any{"title": "Nope"})
	assert.True(t, isErr)
	assert.Contains(t, text, "not found")

	_, isErr = call(t, s.findMovie, map[string]any{})
	assert.True(t, isErr)

	text, _ = call(t, s.findAttribute, map[string]any{"name": "James Cameron"})
	assert.Equal(t, "Avatar (2009) [7.9]\nTitanic (1997) [7.7]\n", text)

	text, _ = call(t, s.filterYear, map[string]any{"year": 2009.0})
	assert.Equal(t, "Avatar (2009) [7.9]\nLoner (2009) [0]\n", text)

	text, _ = call(t, s.filterYear, map[string]any{"year": 1900.0})
	assert.Equal(t, "No movies found.", text)

	text, _ = call(t, s.filterRating, map[string]any{"min": 7.8, "max": 10.0})
	assert.Equal(t, "Avatar (2009) [7.9]\nInception (2010) [8.8]\n", text)

	text, _ = call(t, s.listMovies, nil)
	assert.Equal(t, "Avatar (2009) [7.9]\nInception (2010) [8.8]\nLoner (2009) [0]\nTitanic (1997) [7.7]\n", text)
}

func TestTools_Traversals(t *testing.T) {
	s := newTestServer(t)

	text, isErr := call(t, s.recommend, map[string]any{"title": "Avatar", "limit": 1.0})
	assert.False(t, isErr)
	assert.Equal(t, "Titanic (1997) [7.7]\n", text)

	text, _ = call(t, s.recommend, map[string]any{"title": "Avatar", "mode": "dfs"})
	assert.Equal(t, "Inception (2010) [8.8]\nTitanic (1997) [7.7]\n", text)

	text, isErr = call(t, s.recommend, map[string]any{"title": "Avatar", "mode": "random"})
	assert.True(t, isErr)
	assert.Contains(t, text, "unknown mode")

	text, _ = call(t, s.shortestPath, map[string]any{"from": "Avatar", "to": "Inception"})
	assert.Equal(t, "[Avatar] -> [Inception]", text)

	text, isErr = call(t, s.shortestPath, map[string]any{"from": "Avatar", "to": "Loner"})
	assert.True(t, isErr)
	assert.Contains(t, text, "no connection")

	text, _ = call(t, s.connectPeople, map[string]any{"person_a": "CCH Pounder", "person_b": "Kate Winslet"})
	assert.Equal(t, "[Avatar] -> [Titanic] -> (Involved: Kate Winslet)", text)

	text, _ = call(t, s.coActors, map[string]any{"actor": "Leonardo DiCaprio"})
	assert.Equal(t, "Kate Winslet\nTom Hardy", text)

	text, _ = call(t, s.coActors, map[string]any{"actor": "CCH Pounder"})
	assert.Equal(t, "No co-actors found.", text)
}

func TestMCPServer_ListsAndCallsTools(t *testing.T) {
	srv := newTestServer(t).MCPServer("test")
	ctx := context.Background()

	resp := srv.HandleMessage(ctx, json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	for _, name := range []string{"find_movie", "find_attribute", "filter_year", "filter_rating",
		"recommend", "shortest_path", "connect_people", "co_actors", "list_movies"} {
		assert.Contains(t, string(raw), `"`+name+`"`)
	}

	resp = srv.HandleMessage(ctx, json.RawMessage(
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"shortest_path","arguments":{"from":"Titanic","to":"Avatar"}}}`))
	raw, err = json.Marshal(resp)
	require.NoError(t, err)
	// json.Marshal escapes '>', so match the titles only.
	assert.Contains(t, string(raw), `[Titanic]`)
	assert.Contains(t, string(raw), `[Avatar]`)
	assert.NotContains(t, string(raw), `"isError":true`)
}
