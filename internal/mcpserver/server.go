// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes MoodMate tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/moodmate/internal/composer"
	"github.com/starford/moodmate/internal/export"
	"github.com/starford/moodmate/internal/moodservice"
)

// EntryFormatURI is the resource URI of the entry format contract.
const EntryFormatURI = "moodmate://entry-format"

// Server wraps the MCP server with MoodMate tools.
type Server struct {
	mcp *server.MCPServer
	svc *moodservice.Service
}

// New creates a new MCP server with all MoodMate tools registered.
func New(svc *moodservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"MoodMate",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_entries",
		mcp.WithDescription("List every saved mood entry in the order it was saved."),
	), s.listEntries)

	s.mcp.AddTool(mcp.NewTool("save_entry",
		mcp.WithDescription("Save a mood entry stamped with the current temperature. "+
			"Read the moodmate://entry-format resource for the allowed emojis."),
		mcp.WithString("emoji", mcp.Required(), mcp.Description("One of 😊 😐 😢 😡 😄")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Free-text note; must not be blank")),
		mcp.WithString("date", mcp.Description("Optional date as YYYY-MM-DD (defaults to today)")),
	), s.saveEntry)

	s.mcp.AddTool(mcp.NewTool("get_weather",
		mcp.WithDescription("Current temperature at the last known location."),
	), s.getWeather)

	s.mcp.AddTool(mcp.NewTool("export_entries",
		mcp.WithDescription("Lay out the mood log as the printable report. "+
			"Returns one line per placed text; with path set, also writes the PDF there."),
		mcp.WithString("path", mcp.Description("Optional file path for the PDF")),
	), s.exportEntries)

	s.mcp.AddResource(
		mcp.NewResource(EntryFormatURI, "Entry Format Contract",
			mcp.WithResourceDescription("How a mood entry is stored and which values are accepted."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readEntryFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) listEntries(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries := s.svc.Entries(ctx)
	if len(entries) == 0 {
		return mcp.NewToolResultText("No notes saved yet."), nil
	}
	out, _ := json.MarshalIndent(entries, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) saveEntry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	emoji, err := req.RequireString("emoji")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	date := req.GetString("date", "")

	entry, err := s.svc.SaveEntry(ctx, emoji, text, date)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(entry, "", "  ")
	return mcp.NewToolResultText(composer.MessageSaved + "\n" + string(out)), nil
}

func (s *Server) getWeather(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	r := s.svc.Weather(ctx)
	if r.LocationError != "" {
		return mcp.NewToolResultText(r.LocationError), nil
	}
	return mcp.NewToolResultText(r.Text), nil
}

func (s *Server) exportEntries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var b strings.Builder
	for _, l := range export.Lines(s.svc.Entries(ctx)) {
		fmt.Fprintf(&b, "p%d (%g,%g) %s\n", l.Page, l.X, l.Y, l.Text)
	}

	if path := req.GetString("path", ""); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := s.svc.Export(ctx, f); err != nil {
			f.Close()
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := f.Close(); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		fmt.Fprintf(&b, "written: %s\n", path)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) readEntryFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      EntryFormatURI,
			MIMEType: "text/markdown",
			Text:     EntryFormatContract,
		},
	}, nil
}
