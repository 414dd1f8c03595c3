// Package mcp provides the launchdeck MCP server, exposing deployment
// operations as tools for agent clients.
package mcp

import (
	_ "embed"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/launchdeck/launchdeck"
	"github.com/launchdeck/launchdeck/internal/config"
	"github.com/launchdeck/launchdeck/internal/deploy"
	"github.com/launchdeck/launchdeck/internal/report"
	"github.com/launchdeck/launchdeck/internal/runner"
)

//go:embed instructions.md
var Instructions string

// handler holds shared dependencies for all tool handlers.
type handler struct {
	cfg       *config.Config
	creds     config.Credentials
	runner    *runner.Runner
	store     report.Store
	history   deploy.HistoryRecorder // may be nil
	workspace string
	lookPath  func(name string) (string, error) // nil means exec.LookPath
	client    *http.Client
}

// NewServer creates an MCP server with all launchdeck tools registered.
func NewServer(cfg *config.Config, creds config.Credentials, r *runner.Runner, store report.Store, hist deploy.HistoryRecorder, workspace string, opts ...ServerOption) *mcp.Server {
	h := &handler{
		cfg:       cfg,
		creds:     creds,
		runner:    r,
		store:     store,
		history:   hist,
		workspace: workspace,
	}

	var so serverOptions
	for _, o := range opts {
		o(&so)
	}
	h.lookPath = so.lookPath
	h.client = so.client

	mcpOpts := &mcp.ServerOptions{
		Instructions: Instructions,
		Capabilities: &mcp.ServerCapabilities{
			Tools: &mcp.ToolCapabilities{ListChanged: false},
		},
	}
	s := mcp.NewServer(&mcp.Implementation{Name: "launchdeck", Version: launchdeck.Version}, mcpOpts)

	mcp.AddTool(s, &mcp.Tool{
		Name: "deck_status",
		Description: `Check deployment readiness for a target without deploying.

Evaluates the workspace prerequisites and the target's credential and tool
requirements, and reports which are satisfied.`,
	}, h.statusHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "deck_deploy",
		Description: `Run the full deployment pipeline for a target: prerequisites, build
(install, lint, test, build), the vendor deploy action, and a post-deploy
health check. Results are stored for drill-down via deck_inspect.

Lint and test failures are warnings; install and build failures abort.`,
	}, h.deployHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "deck_inspect",
		Description: `Load the stored report of a previous run by its run_id.

Returns the full pipeline record: prerequisites, build steps, the deploy
action's output, the health check outcome, and any warnings.`,
	}, h.inspectHandler)

	return s
}

// ServerOption configures the launchdeck MCP server.
type ServerOption func(*serverOptions)

type serverOptions struct {
	lookPath func(name string) (string, error)
	client   *http.Client
}

// WithLookPath overrides tool resolution in prerequisite checks.
func WithLookPath(fn func(name string) (string, error)) ServerOption {
	return func(o *serverOptions) {
		o.lookPath = fn
	}
}

// WithHTTPClient overrides the client used for deploy hooks and health
// checks.
func WithHTTPClient(c *http.Client) ServerOption {
	return func(o *serverOptions) {
		o.client = c
	}
}

// textResult is a helper to build a text-only tool result.
func textResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, nil, nil
}

// errorResult is a helper to build an error tool result.
func errorResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}, nil, nil
}
