// Package mcpserver exposes the movie store's queries as MCP tools.
package mcpserver

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/agentic-research/marquee/internal/graph"
	"github.com/agentic-research/marquee/internal/logging"
	"github.com/agentic-research/marquee/internal/shell"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const defaultLimit = 10

// Server answers tool calls against g. Tool handlers may run concurrently,
// so g should be a graph.HotSwapGraph.
type Server struct {
	g   graph.Graph
	log *logging.Logger
}

func New(g graph.Graph, log *logging.Logger) *Server {
	if log == nil {
		log = logging.NoopLogger()
	}
	return &Server{g: g, log: log}
}

type tool struct {
	def     mcp.Tool
	handler server.ToolHandlerFunc
}

func (s *Server) tools() []tool {
	return []tool{
		{mcp.NewTool("find_movie",
			mcp.WithDescription("Look up a movie by title (case-insensitive)."),
			mcp.WithString("title", mcp.Required(), mcp.Description("Movie title")),
		), s.findMovie},
		{mcp.NewTool("find_attribute",
			mcp.WithDescription("List movies featuring an actor, director or genre."),
			mcp.WithString("name", mcp.Required(), mcp.Description("Actor, director or genre")),
		), s.findAttribute},
		{mcp.NewTool("filter_year",
			mcp.WithDescription("List movies released in a year."),
			mcp.WithNumber("year", mcp.Required()),
		), s.filterYear},
		{mcp.NewTool("filter_rating",
			mcp.WithDescription("List movies rated within an inclusive range."),
			mcp.WithNumber("min", mcp.Required()),
			mcp.WithNumber("max", mcp.Required()),
		), s.filterRating},
		{mcp.NewTool("recommend",
			mcp.WithDescription("Recommend movies related to a title through shared actors, directors and genres."),
			mcp.WithString("title", mcp.Required()),
			mcp.WithNumber("limit", mcp.Description("Maximum results, default 10")),
			mcp.WithString("mode", mcp.Enum("bfs", "dfs"), mcp.Description("Traversal order, default bfs")),
		), s.recommend},
		{mcp.NewTool("shortest_path",
			mcp.WithDescription("Find the shortest chain of related movies between two titles."),
			mcp.WithString("from", mcp.Required()),
			mcp.WithString("to", mcp.Required()),
		), s.shortestPath},
		{mcp.NewTool("connect_people",
			mcp.WithDescription("Connect two actors or directors through the movies they worked on."),
			mcp.WithString("person_a", mcp.Required()),
			mcp.WithString("person_b", mcp.Required()),
		), s.connectPeople},
		{mcp.NewTool("co_actors",
			mcp.WithDescription("List actors who appeared alongside an actor."),
			mcp.WithString("actor", mcp.Required()),
		), s.coActors},
		{mcp.NewTool("list_movies",
			mcp.WithDescription("List every movie in title order."),
		), s.listMovies},
	}
}

// MCPServer builds the protocol server with every tool registered.
func (s *Server) MCPServer(version string) *server.MCPServer {
	srv := server.NewMCPServer("marquee", version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	for _, t := range s.tools() {
		srv.AddTool(t.def, s.logged(t.def.Name, t.handler))
	}
	return srv
}

// ServeStdio serves tool calls over stdin/stdout until the client goes away.
func (s *Server) ServeStdio(version string) error {
	return server.ServeStdio(s.MCPServer(version))
}

func (s *Server) logged(name string, h server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res, err := h(ctx, req)
		s.log.DebugContext(ctx, "tool call", "tool", name, "error", err, "tool_error", res != nil && res.IsError)
		return res, err
	}
}

func errorResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(err.Error())
}

func titleList(rs []*graph.Record) string {
	if len(rs) == 0 {
		return "No movies found."
	}
	var b strings.Builder
	for _, r := range rs {
		fmt.Fprintf(&b, "%s (%d) [%s]\n", r.Title, r.Year, shell.Rating(r.Rating))
	}
	return b.String()
}

func (s *Server) findMovie(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return errorResult(err), nil
	}
	r, err := s.g.Find(title)
	if err != nil {
		return errorResult(err), nil
	}
	var b bytes.Buffer
	shell.WriteDetails(&b, r)
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) findAttribute(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return errorResult(err), nil
	}
	rs, err := s.g.FindAttribute(name)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(titleList(rs)), nil
}

func (s *Server) filterYear(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	year, err := req.RequireInt("year")
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(titleList(s.g.FilterByYear(year))), nil
}

func (s *Server) filterRating(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lo, err := req.RequireFloat("min")
	if err != nil {
		return errorResult(err), nil
	}
	hi, err := req.RequireFloat("max")
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(titleList(s.g.FilterByRating(lo, hi))), nil
}

func (s *Server) recommend(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return errorResult(err), nil
	}
	limit := req.GetInt("limit", defaultLimit)

	var rs []*graph.Record
	switch mode := req.GetString("mode", "bfs"); mode {
	case "bfs":
		rs, err = s.g.RecommendBFS(title, limit)
	case "dfs":
		rs, err = s.g.RecommendDFS(title, limit)
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown mode %q, want bfs or dfs", mode)), nil
	}
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(titleList(rs)), nil
}

func (s *Server) shortestPath(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from, err := req.RequireString("from")
	if err != nil {
		return errorResult(err), nil
	}
	to, err := req.RequireString("to")
	if err != nil {
		return errorResult(err), nil
	}
	path, err := s.g.ShortestPath(from, to)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(shell.PathString(path)), nil
}

func (s *Server) connectPeople(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a, err := req.RequireString("person_a")
	if err != nil {
		return errorResult(err), nil
	}
	b, err := req.RequireString("person_b")
	if err != nil {
		return errorResult(err), nil
	}
	path, err := s.g.Connect(a, b)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s -> (Involved: %s)", shell.PathString(path), b)), nil
}

func (s *Server) coActors(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	actor, err := req.RequireString("actor")
	if err != nil {
		return errorResult(err), nil
	}
	names, err := s.g.CoActors(actor)
	if err != nil {
		return errorResult(err), nil
	}
	if len(names) == 0 {
		return mcp.NewToolResultText("No co-actors found."), nil
	}
	return mcp.NewToolResultText(strings.Join(names, "\n")), nil
}

func (s *Server) listMovies(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(titleList(s.g.List())), nil
}
