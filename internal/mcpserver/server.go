// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the linter to LLM clients via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/siberianbearofficial/lint-gost-tex/internal/issue"
	"github.com/siberianbearofficial/lint-gost-tex/internal/runner"
)

// Server wraps the MCP server with lint tools.
type Server struct {
	mcp    *server.MCPServer
	runner *runner.Runner
}

// New creates a new MCP server with all lint tools registered.
func New(r *runner.Runner) *Server {
	s := &Server{runner: r}

	s.mcp = server.NewMCPServer(
		"lint-gost-tex",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("lint_document",
		mcp.WithDescription("Lint the configured LaTeX document tree against the GOST rule set "+
			"and return all issues as JSON, sorted in document order."),
		mcp.WithString("rule", mcp.Description("Optional rule id filter (e.g. SPELL001)")),
	), s.lintDocument)

	s.mcp.AddTool(mcp.NewTool("list_rules",
		mcp.WithDescription("List the configured lint rules with their ids and descriptions."),
	), s.listRules)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) lintDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.runner.Run(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	issues := result.Issues
	if rule, ruleErr := req.RequireString("rule"); ruleErr == nil && rule != "" {
		var filtered []issue.Issue
		for _, iss := range issues {
			if iss.RuleID == rule {
				filtered = append(filtered, iss)
			}
		}
		issues = filtered
	}

	if len(issues) == 0 {
		return mcp.NewToolResultText("no issues found"), nil
	}
	out, _ := json.MarshalIndent(issues, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listRules(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var lines []string
	for _, rule := range s.runner.Rules {
		lines = append(lines, fmt.Sprintf("%s: %s", rule.ID(), rule.Description()))
	}
	if len(lines) == 0 {
		return mcp.NewToolResultText("no rules configured"), nil
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}
