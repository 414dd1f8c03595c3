package mcp

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/launchdeck/launchdeck/internal/deploy"
	"github.com/launchdeck/launchdeck/internal/prereq"
)

type statusParams struct {
	Target string `json:"target" jsonschema:"deployment target: vercel, netlify, github-pages, render, railway, or heroku"`
}

func (h *handler) statusHandler(ctx context.Context, req *sdkmcp.CallToolRequest, params statusParams) (*sdkmcp.CallToolResult, any, error) {
	if params.Target == "" {
		return errorResult("target is required")
	}

	target, err := deploy.ParseAny(params.Target)
	if err != nil {
		return errorResult(err.Error())
	}

	registry := deploy.NewRegistry(h.cfg, h.creds, h.runner, h.client, true)
	deployer, err := registry.Lookup(target)
	if err != nil {
		return errorResult(err.Error())
	}

	checker := &prereq.Checker{
		Workspace: h.workspace,
		Env:       h.creds,
		LookPath:  h.lookPath,
	}

	workspaceReport := checker.Check([]prereq.Rule{
		prereq.FileExists("package.json"),
		prereq.ToolOnPath("npm"),
	})
	credReport := checker.Check(deployer.Rules())

	return textResult(formatStatus(target, workspaceReport, credReport))
}

func formatStatus(target deploy.Target, workspace, creds prereq.Report) string {
	var b strings.Builder

	ready := !workspace.Blocked() && !creds.Blocked()
	if ready {
		fmt.Fprintf(&b, "Target %s: ready\n", target)
	} else {
		fmt.Fprintf(&b, "Target %s: not ready\n", target)
	}
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "Workspace:")
	writeEntries(&b, workspace.Entries)
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "Requirements for %s:\n", target)
	writeEntries(&b, creds.Entries)

	return b.String()
}

func writeEntries(b *strings.Builder, entries []prereq.Entry) {
	for _, e := range entries {
		mark := "ok"
		if !e.Satisfied {
			mark = "MISSING"
			if !e.Mandatory {
				mark = "missing (optional)"
			}
		}
		fmt.Fprintf(b, "  %-30s %s\n", e.Name, mark)
	}
}
