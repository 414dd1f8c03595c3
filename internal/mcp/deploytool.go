package mcp

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/launchdeck/launchdeck/internal/deploy"
	"github.com/launchdeck/launchdeck/internal/health"
	"github.com/launchdeck/launchdeck/internal/report"
)

type deployParams struct {
	Target      string `json:"target" jsonschema:"deployment target: vercel, netlify, github-pages, render, railway, or heroku"`
	Environment string `json:"environment,omitempty" jsonschema:"production or staging. Default: production."`
}

func (h *handler) deployHandler(ctx context.Context, req *sdkmcp.CallToolRequest, params deployParams) (*sdkmcp.CallToolResult, any, error) {
	if params.Target == "" {
		return errorResult("target is required")
	}
	environment := params.Environment
	if environment == "" {
		environment = "production"
	}
	if environment != "production" && environment != "staging" {
		return errorResult(fmt.Sprintf("unknown environment %q (want production or staging)", environment))
	}

	target, err := deploy.ParseAny(params.Target)
	if err != nil {
		return errorResult(err.Error())
	}

	engine := &deploy.Engine{
		Config:   h.cfg,
		Creds:    h.creds,
		Runner:   h.runner,
		Registry: deploy.NewRegistry(h.cfg, h.creds, h.runner, h.client, environment == "production"),
		Poller: &health.Poller{
			Client:      h.client,
			Interval:    h.cfg.Health.Interval(),
			MaxAttempts: h.cfg.Health.MaxAttempts(),
		},
		Store:     h.store,
		History:   h.history,
		Workspace: h.workspace,
		LookPath:  h.lookPath,
	}

	rep, err := engine.Deploy(ctx, target, environment)
	if err != nil {
		return errorResult(formatRun(rep))
	}
	return textResult(formatRun(rep))
}

func formatRun(rep *report.RunReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Status: %s\n", strings.ToUpper(string(rep.Status)))
	fmt.Fprintf(&b, "Run: %s\n", rep.ID)
	fmt.Fprintf(&b, "Target: %s (%s)\n", rep.Target, rep.Environment)
	fmt.Fprintln(&b)

	if len(rep.Steps) > 0 {
		fmt.Fprintln(&b, "Build:")
		for _, s := range rep.Steps {
			switch s.Status {
			case "pass":
				fmt.Fprintf(&b, "  %-10s ok\n", s.Name)
			case "fail":
				fmt.Fprintf(&b, "  %-10s FAIL (exit %d)\n", s.Name, s.ExitCode)
			case "skipped":
				fmt.Fprintf(&b, "  %-10s -\n", s.Name)
			}
		}
		fmt.Fprintln(&b)
	}

	if rep.Artifact != "" {
		fmt.Fprintf(&b, "Artifact: %s\n", rep.Artifact)
	}
	if rep.Deploy != nil {
		fmt.Fprintf(&b, "Deploy: %s (exit %d)\n", rep.Deploy.Action, rep.Deploy.ExitCode)
	}
	if rep.Health != nil {
		fmt.Fprintf(&b, "Health: %s", rep.Health.Outcome)
		if rep.Health.Attempts > 0 {
			fmt.Fprintf(&b, " after %d attempt(s)", rep.Health.Attempts)
		}
		fmt.Fprintln(&b)
	}

	if len(rep.Warnings) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "Warnings:")
		for _, w := range rep.Warnings {
			if w.Step != "" {
				fmt.Fprintf(&b, "  [%s] %s: %s\n", w.Kind, w.Step, w.Message)
			} else {
				fmt.Fprintf(&b, "  [%s] %s\n", w.Kind, w.Message)
			}
		}
	}

	if rep.Error != "" {
		fmt.Fprintln(&b)
		fmt.Fprintf(&b, "Error: %s\n", rep.Error)
	}

	if len(rep.Followups) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "Manual follow-ups:")
		for _, f := range rep.Followups {
			fmt.Fprintf(&b, "  - %s\n", f)
		}
	}

	return b.String()
}
